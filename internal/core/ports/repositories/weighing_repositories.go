package repositories

import (
	"context"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/core/domain"
)

// WeighingReader defines read operations for weighing transaction data.
type WeighingReader interface {
	// FindPendingByPlate retrieves the most recent PENDING transaction for a
	// plate number, newest first if more than one somehow exists.
	// Returns apperrors.ErrNotFound when there is none.
	FindPendingByPlate(ctx context.Context, plateNumber string) (*domain.Transaction, error)

	// FindByID retrieves a transaction by its transaction id.
	FindByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListByDateRange retrieves transactions whose first weigh falls within
	// [from, to] (dates, inclusive), newest first. goodsType filters by
	// substring match when non-empty.
	ListByDateRange(ctx context.Context, from, to time.Time, goodsType string) ([]domain.Transaction, error)

	// PeekNextTransactionID previews the id the next first weigh on the given
	// day would receive, without reserving a sequence number.
	PeekNextTransactionID(ctx context.Context, day time.Time) (string, error)
}

// WeighingWriter defines write operations for weighing transaction data.
type WeighingWriter interface {
	// NextTransactionID atomically reserves the next daily sequence number for
	// the given day and returns the formatted transaction id.
	NextTransactionID(ctx context.Context, day time.Time) (string, error)

	// CreateFirstWeigh persists a new PENDING transaction.
	CreateFirstWeigh(ctx context.Context, txn domain.Transaction) error

	// CompleteSecondWeigh records the second weigh on a transaction, guarded
	// by status still being PENDING. It returns false without error when the
	// guard fails (already completed or missing).
	CompleteSecondWeigh(ctx context.Context, transactionID string, secondWeighKg float64, netWeighKg float64, remark string, at time.Time) (bool, error)

	// DeleteByID removes a transaction permanently. Returns false when no row
	// matched.
	DeleteByID(ctx context.Context, transactionID string) (bool, error)
}

// WeighingRepository combines all weighing repository interfaces.
type WeighingRepository interface {
	WeighingReader
	WeighingWriter
}
