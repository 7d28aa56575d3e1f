package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/apperrors"
	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	portsrepo "github.com/rtmsys/weighbridge_app/internal/core/ports/repositories"
	"github.com/rtmsys/weighbridge_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWeighingRepository struct {
	pool *pgxpool.Pool
}

// newPgxWeighingRepository creates a new repository for weighing transaction data.
func newPgxWeighingRepository(pool *pgxpool.Pool) portsrepo.WeighingRepository {
	return &PgxWeighingRepository{pool: pool}
}

// Ensure PgxWeighingRepository implements portsrepo.WeighingRepository
var _ portsrepo.WeighingRepository = (*PgxWeighingRepository)(nil)

const transactionIDPrefix = "W"

// formatTransactionID builds W + YYMMDD + zero-padded 4-digit sequence.
func formatTransactionID(day time.Time, seq int) string {
	return fmt.Sprintf("%s%s%04d", transactionIDPrefix, day.Format("060102"), seq)
}

// Helper to convert domain.Transaction to models.Transaction for DB storage
func toModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:    d.TransactionID,
		PlateNumber:      d.PlateNumber,
		GoodsType:        d.GoodsType,
		DriverName:       d.DriverName,
		Vendor:           d.Vendor,
		Customer:         d.Customer,
		Quantity:         d.Quantity,
		GoodsOrigin:      d.GoodsOrigin,
		GoodsDestination: d.GoodsDestination,
		Remark:           d.Remark,
		FirstWeighKg:     d.FirstWeighKg,
		FirstWeighAt:     d.FirstWeighAt,
		Status:           models.TransactionStatus(d.Status),
	}
	if d.SecondWeighKg != nil {
		m.SecondWeighKg = sql.NullFloat64{Float64: *d.SecondWeighKg, Valid: true}
	}
	if d.NetWeighKg != nil {
		m.NetWeighKg = sql.NullFloat64{Float64: *d.NetWeighKg, Valid: true}
	}
	if d.SecondWeighAt != nil {
		m.SecondWeighAt = sql.NullTime{Time: *d.SecondWeighAt, Valid: true}
	}
	return m
}

// Helper to convert models.Transaction from DB to domain.Transaction
func toDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:    m.TransactionID,
		PlateNumber:      m.PlateNumber,
		GoodsType:        m.GoodsType,
		DriverName:       m.DriverName,
		Vendor:           m.Vendor,
		Customer:         m.Customer,
		Quantity:         m.Quantity,
		GoodsOrigin:      m.GoodsOrigin,
		GoodsDestination: m.GoodsDestination,
		Remark:           m.Remark,
		FirstWeighKg:     m.FirstWeighKg,
		FirstWeighAt:     m.FirstWeighAt,
		Status:           domain.TransactionStatus(m.Status),
	}
	if m.SecondWeighKg.Valid {
		v := m.SecondWeighKg.Float64
		d.SecondWeighKg = &v
	}
	if m.NetWeighKg.Valid {
		v := m.NetWeighKg.Float64
		d.NetWeighKg = &v
	}
	if m.SecondWeighAt.Valid {
		v := m.SecondWeighAt.Time
		d.SecondWeighAt = &v
	}
	return d
}

const transactionColumns = `
	transaction_id, plate_number, goods_type, driver_name, vendor, customer, quantity,
	goods_origin, goods_destination, remark, first_weigh_kg, second_weigh_kg,
	net_weigh_kg, first_weigh_timestamp, second_weigh_timestamp, status`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.PlateNumber,
		&m.GoodsType,
		&m.DriverName,
		&m.Vendor,
		&m.Customer,
		&m.Quantity,
		&m.GoodsOrigin,
		&m.GoodsDestination,
		&m.Remark,
		&m.FirstWeighKg,
		&m.SecondWeighKg,
		&m.NetWeighKg,
		&m.FirstWeighAt,
		&m.SecondWeighAt,
		&m.Status,
	)
	if err != nil {
		return nil, err
	}
	d := toDomainTransaction(m)
	return &d, nil
}

// NextTransactionID reserves the next daily sequence number in one atomic
// round trip. The upsert closes the read-then-insert gap that a count-based
// generator would have.
func (r *PgxWeighingRepository) NextTransactionID(ctx context.Context, day time.Time) (string, error) {
	query := `
		INSERT INTO weigh_sequences (day, last_no)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_no = weigh_sequences.last_no + 1
		RETURNING last_no;
	`
	var seq int
	if err := r.pool.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to reserve transaction sequence: %w", err)
	}
	return formatTransactionID(day, seq), nil
}

// PeekNextTransactionID previews the next id without reserving it.
func (r *PgxWeighingRepository) PeekNextTransactionID(ctx context.Context, day time.Time) (string, error) {
	query := `SELECT COALESCE((SELECT last_no FROM weigh_sequences WHERE day = $1), 0);`
	var lastNo int
	if err := r.pool.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&lastNo); err != nil {
		return "", fmt.Errorf("failed to read transaction sequence: %w", err)
	}
	return formatTransactionID(day, lastNo+1), nil
}

// CreateFirstWeigh inserts a new PENDING transaction.
func (r *PgxWeighingRepository) CreateFirstWeigh(ctx context.Context, txn domain.Transaction) error {
	m := toModelTransaction(txn)

	query := `
		INSERT INTO weighing_transactions (transaction_id, plate_number, goods_type, driver_name, vendor, customer, quantity, goods_origin, goods_destination, remark, first_weigh_kg, first_weigh_timestamp, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.TransactionID,
		m.PlateNumber,
		m.GoodsType,
		m.DriverName,
		m.Vendor,
		m.Customer,
		m.Quantity,
		m.GoodsOrigin,
		m.GoodsDestination,
		m.Remark,
		m.FirstWeighKg,
		m.FirstWeighAt,
		m.Status,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Either a duplicate transaction id or a second concurrent PENDING
			// for the same plate (partial unique index).
			return fmt.Errorf("%w: a pending transaction already exists for plate %s", apperrors.ErrDuplicate, m.PlateNumber)
		}
		return fmt.Errorf("failed to save first weigh %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindPendingByPlate retrieves the most recent PENDING transaction for a plate.
func (r *PgxWeighingRepository) FindPendingByPlate(ctx context.Context, plateNumber string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM weighing_transactions
		WHERE plate_number = $1 AND status = 'PENDING'
		ORDER BY first_weigh_timestamp DESC
		LIMIT 1;
	`
	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, plateNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending transaction for plate %s: %w", plateNumber, err)
	}
	return txn, nil
}

// CompleteSecondWeigh records the second weigh, guarded by status still being
// PENDING. Returns false when the guard fails.
func (r *PgxWeighingRepository) CompleteSecondWeigh(ctx context.Context, transactionID string, secondWeighKg float64, netWeighKg float64, remark string, at time.Time) (bool, error) {
	query := `
		UPDATE weighing_transactions
		SET second_weigh_kg = $1, net_weigh_kg = $2, status = 'COMPLETED', second_weigh_timestamp = $3, remark = $4
		WHERE transaction_id = $5 AND status = 'PENDING';
	`
	tag, err := r.pool.Exec(ctx, query, secondWeighKg, netWeighKg, at, remark, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to complete second weigh %s: %w", transactionID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByID retrieves a transaction by its transaction id.
func (r *PgxWeighingRepository) FindByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM weighing_transactions
		WHERE transaction_id = $1;
	`
	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListByDateRange retrieves transactions by first-weigh date, newest first.
func (r *PgxWeighingRepository) ListByDateRange(ctx context.Context, from, to time.Time, goodsType string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM weighing_transactions
		WHERE first_weigh_timestamp::date BETWEEN $1 AND $2
	`
	args := []any{from.Format("2006-01-02"), to.Format("2006-01-02")}
	if goodsType != "" {
		query += ` AND goods_type ILIKE '%' || $3 || '%'`
		args = append(args, goodsType)
	}
	query += ` ORDER BY first_weigh_timestamp DESC;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transaction rows: %w", err)
	}
	return txns, nil
}

// DeleteByID removes a transaction permanently.
func (r *PgxWeighingRepository) DeleteByID(ctx context.Context, transactionID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM weighing_transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	return tag.RowsAffected() > 0, nil
}
