package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/apperrors"
	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	portsrepo "github.com/rtmsys/weighbridge_app/internal/core/ports/repositories"
	"github.com/rtmsys/weighbridge_app/internal/dto"
	"github.com/rtmsys/weighbridge_app/internal/middleware"
	"github.com/rtmsys/weighbridge_app/internal/utils"
)

// WeighingService implements the two-phase weighing state machine: given a
// plate number and a stable weight it either opens a new PENDING transaction
// (first weigh) or closes the matching pending one (second weigh).
type WeighingService struct {
	repo portsrepo.WeighingRepository
	now  func() time.Time

	mu       sync.RWMutex
	onOpened []func(domain.Transaction)
	onClosed []func(domain.Transaction)
}

// NewWeighingService creates a WeighingService backed by the given repository.
func NewWeighingService(repo portsrepo.WeighingRepository) *WeighingService {
	return &WeighingService{repo: repo, now: time.Now}
}

// OnTransactionOpened registers an observer invoked after each first weigh.
func (s *WeighingService) OnTransactionOpened(fn func(domain.Transaction)) {
	s.mu.Lock()
	s.onOpened = append(s.onOpened, fn)
	s.mu.Unlock()
}

// OnTransactionClosed registers an observer invoked after each second weigh.
func (s *WeighingService) OnTransactionClosed(fn func(domain.Transaction)) {
	s.mu.Lock()
	s.onClosed = append(s.onClosed, fn)
	s.mu.Unlock()
}

// OpenOrClose performs the opening or closing transition for a plate number.
//
// A deduction larger than net is not blocked: the final net goes negative and
// is stored and surfaced as-is, matching long-standing operator practice of
// over-deducting and amending via remark.
func (s *WeighingService) OpenOrClose(ctx context.Context, req dto.WeighRequest) (*dto.WeighResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	plate := strings.TrimSpace(req.PlateNumber)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate number is required", apperrors.ErrValidation)
	}
	if !req.Stable {
		return nil, fmt.Errorf("%w: cannot weigh while the reading is unstable", apperrors.ErrNotStable)
	}
	if req.DeductionKg < 0 {
		return nil, fmt.Errorf("%w: deduction must not be negative", apperrors.ErrValidation)
	}

	pending, err := s.repo.FindPendingByPlate(ctx, plate)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up pending transaction", slog.String("error", err.Error()), slog.String("plate_number", plate))
		return nil, err
	}

	if pending != nil {
		return s.close(ctx, pending, req)
	}
	return s.open(ctx, plate, req)
}

func (s *WeighingService) close(ctx context.Context, pending *domain.Transaction, req dto.WeighRequest) (*dto.WeighResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	gross := pending.FirstWeighKg
	tare := req.WeightKg
	net := math.Abs(gross - tare)
	finalNet := net - req.DeductionKg

	remark := strings.TrimSpace(req.Remark)
	if req.DeductionKg > 0 {
		remark = strings.TrimSpace(fmt.Sprintf("(Deduction : %s KG.) %s", utils.FormatWeight(req.DeductionKg), remark))
	}

	now := s.now()
	updated, err := s.repo.CompleteSecondWeigh(ctx, pending.TransactionID, tare, finalNet, remark, now)
	if err != nil {
		logger.Error("Failed to complete second weigh", slog.String("error", err.Error()), slog.String("transaction_id", pending.TransactionID))
		return nil, err
	}
	if !updated {
		// Lost the optimistic guard: someone closed it between lookup and update.
		return nil, fmt.Errorf("%w: transaction %s was already completed", apperrors.ErrNotPending, pending.TransactionID)
	}

	closed := *pending
	closed.SecondWeighKg = &tare
	closed.NetWeighKg = &finalNet
	closed.SecondWeighAt = &now
	closed.Remark = remark
	closed.Status = domain.StatusCompleted

	logger.Info("Second weigh completed",
		slog.String("transaction_id", closed.TransactionID),
		slog.String("plate_number", closed.PlateNumber),
		slog.Float64("net_kg", finalNet),
	)
	s.notify(s.closedObservers(), closed)

	return &dto.WeighResult{
		Opened:      false,
		GrossKg:     math.Max(gross, tare),
		TareKg:      math.Min(gross, tare),
		NetKg:       net,
		FinalNetKg:  finalNet,
		Transaction: dto.ToTransactionResponse(&closed),
	}, nil
}

func (s *WeighingService) open(ctx context.Context, plate string, req dto.WeighRequest) (*dto.WeighResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := s.now()
	id, err := s.repo.NextTransactionID(ctx, now)
	if err != nil {
		logger.Error("Failed to reserve transaction id", slog.String("error", err.Error()))
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:    id,
		PlateNumber:      plate,
		GoodsType:        strings.TrimSpace(req.GoodsType),
		DriverName:       strings.TrimSpace(req.DriverName),
		Vendor:           strings.TrimSpace(req.Vendor),
		Customer:         strings.TrimSpace(req.Customer),
		Quantity:         strings.TrimSpace(req.Quantity),
		GoodsOrigin:      strings.TrimSpace(req.GoodsOrigin),
		GoodsDestination: strings.TrimSpace(req.GoodsDestination),
		Remark:           strings.TrimSpace(req.Remark),
		FirstWeighKg:     req.WeightKg,
		FirstWeighAt:     now,
		Status:           domain.StatusPending,
	}

	if err := s.repo.CreateFirstWeigh(ctx, txn); err != nil {
		logger.Error("Failed to save first weigh", slog.String("error", err.Error()), slog.String("transaction_id", id))
		return nil, err
	}

	logger.Info("First weigh saved",
		slog.String("transaction_id", id),
		slog.String("plate_number", plate),
		slog.Float64("first_weigh_kg", req.WeightKg),
	)
	s.notify(s.openedObservers(), txn)

	return &dto.WeighResult{
		Opened:      true,
		GrossKg:     req.WeightKg,
		Transaction: dto.ToTransactionResponse(&txn),
	}, nil
}

// GetByID retrieves a single transaction.
func (s *WeighingService) GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListByDateRange lists transactions for the report screen, newest first.
func (s *WeighingService) ListByDateRange(ctx context.Context, from, to time.Time, goodsType string) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date is before start date", apperrors.ErrValidation)
	}
	txns, err := s.repo.ListByDateRange(ctx, from, to, strings.TrimSpace(goodsType))
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

// DeleteByID permanently removes a transaction. Deletion is terminal; there is
// no archival.
func (s *WeighingService) DeleteByID(ctx context.Context, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	deleted, err := s.repo.DeleteByID(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// NextTransactionID previews the next id without reserving it.
func (s *WeighingService) NextTransactionID(ctx context.Context) (string, error) {
	return s.repo.PeekNextTransactionID(ctx, s.now())
}

func (s *WeighingService) openedObservers() []func(domain.Transaction) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onOpened
}

func (s *WeighingService) closedObservers() []func(domain.Transaction) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onClosed
}

func (s *WeighingService) notify(observers []func(domain.Transaction), txn domain.Transaction) {
	for _, fn := range observers {
		fn(txn)
	}
}
