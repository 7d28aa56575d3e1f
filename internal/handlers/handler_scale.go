package handlers

import (
	"io"
	"net/http"

	"github.com/rtmsys/weighbridge_app/internal/core/scale"
	"github.com/rtmsys/weighbridge_app/internal/dto"
	"github.com/rtmsys/weighbridge_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// scaleHandler exposes the live scale to the console: a point-in-time
// snapshot, an SSE stream, and the configured connection settings.
type scaleHandler struct {
	monitor *scale.Monitor
	cfg     *config.Config
}

func newScaleHandler(monitor *scale.Monitor, cfg *config.Config) *scaleHandler {
	return &scaleHandler{monitor: monitor, cfg: cfg}
}

// registerScaleRoutes registers routes related to the live scale.
func registerScaleRoutes(rg *gin.RouterGroup, cfg *config.Config, monitor *scale.Monitor) {
	h := newScaleHandler(monitor, cfg)

	rg.GET("/scale", h.getSnapshot)
	rg.GET("/scale/live", h.streamLive)
	rg.GET("/settings/scale", h.getSettings)
}

func (h *scaleHandler) getSnapshot(c *gin.Context) {
	snap := h.monitor.Snapshot()
	c.JSON(http.StatusOK, dto.ScaleSnapshotResponse{
		WeightKg:        snap.Kg,
		Stable:          snap.Stable,
		Connected:       snap.Connected,
		ConnectionError: snap.ConnectionError,
	})
}

// streamLive pushes monitor events to the console as server-sent events.
// The stream ends on client disconnect or after a connection_error event,
// which is terminal for the session.
func (h *scaleHandler) streamLive(c *gin.Context) {
	events, cancel := h.monitor.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			switch ev.Type {
			case scale.EventSample:
				c.SSEvent("sample", gin.H{"weightKg": ev.Kg, "stable": ev.Stable, "at": ev.At})
			case scale.EventStability:
				c.SSEvent("stability", gin.H{"stable": ev.Stable})
			case scale.EventConnectionError:
				c.SSEvent("connection_error", gin.H{"error": ev.Error})
				return false
			}
			return true
		}
	})
}

func (h *scaleHandler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ScaleSettingsResponse{
		Port:     h.cfg.ScalePort,
		BaudRate: h.cfg.ScaleBaudRate,
		Simulate: h.cfg.ScaleSimulate,
	})
}
