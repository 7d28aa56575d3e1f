package services

import (
	"context"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	"github.com/rtmsys/weighbridge_app/internal/dto"
)

// WeighingSvcFacade exposes the two-phase weighing state machine and the
// report/reprint operations built on it.
type WeighingSvcFacade interface {
	// OpenOrClose decides, for a plate number and a currently-stable weight,
	// whether this is an opening or closing event and performs the transition.
	OpenOrClose(ctx context.Context, req dto.WeighRequest) (*dto.WeighResult, error)

	// GetByID retrieves a single transaction for display or reprinting.
	GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListByDateRange lists transactions for the report screen, newest first.
	ListByDateRange(ctx context.Context, from, to time.Time, goodsType string) ([]domain.Transaction, error)

	// DeleteByID permanently removes a transaction (explicit operator action).
	DeleteByID(ctx context.Context, transactionID string) error

	// NextTransactionID previews the id the next first weigh would receive.
	NextTransactionID(ctx context.Context) (string, error)

	// OnTransactionOpened registers an observer for first-weigh events.
	OnTransactionOpened(fn func(domain.Transaction))

	// OnTransactionClosed registers an observer for second-weigh events.
	OnTransactionClosed(fn func(domain.Transaction))
}
