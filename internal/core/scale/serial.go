package scale

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/apperrors"
	"go.bug.st/serial"
)

// weightPattern extracts the first decimal number from a line of indicator
// output, optionally signed, optionally fractional. Everything else on the
// line is ignored.
var weightPattern = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

const serialReadTimeout = time.Second

// SerialReader reads line-oriented output from a weight indicator attached to
// a serial port. Lines without a recognizable number are dropped silently.
type SerialReader struct {
	PortName string
	BaudRate int
}

// NewSerialReader returns a reader for the given port and baud rate.
func NewSerialReader(portName string, baudRate int) *SerialReader {
	return &SerialReader{PortName: portName, BaudRate: baudRate}
}

// Run opens the port and emits one sample per parseable line until ctx is
// cancelled. Open failures and mid-stream read errors are fatal: the wrapped
// apperrors.ErrScaleConnection is returned once and the source halts without
// retrying.
func (r *SerialReader) Run(ctx context.Context, out chan<- Sample) error {
	mode := &serial.Mode{BaudRate: r.BaudRate}
	port, err := serial.Open(r.PortName, mode)
	if err != nil {
		return fmt.Errorf("%w: failed to open port %s: %v", apperrors.ErrScaleConnection, r.PortName, err)
	}
	defer port.Close()

	// Bounds how long the loop can block before noticing cancellation.
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		return fmt.Errorf("%w: failed to set read timeout on %s: %v", apperrors.ErrScaleConnection, r.PortName, err)
	}

	buf := make([]byte, 256)
	var line strings.Builder
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := port.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: connection to the scale was lost: %v", apperrors.ErrScaleConnection, err)
		}
		if n == 0 {
			// Read timeout, go around and re-check cancellation.
			continue
		}
		for _, b := range buf[:n] {
			if b != '\n' {
				line.WriteByte(b)
				continue
			}
			kg, ok := ParseWeightLine(line.String())
			line.Reset()
			if !ok {
				continue
			}
			select {
			case out <- Sample{Kg: kg, At: time.Now()}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// ParseWeightLine extracts the first decimal number from a raw indicator
// line. Unparseable bytes in the line are ignored rather than failing it.
func ParseWeightLine(line string) (float64, bool) {
	match := weightPattern.FindString(strings.TrimSpace(line))
	if match == "" {
		return 0, false
	}
	kg, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return kg, true
}
