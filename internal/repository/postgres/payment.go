package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	entity "guardianearth/internal/entity"
	"guardianearth/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PaymentRepository struct {
	db     *pgxpool.Pool
	cache  *paymentCache
	logger *zap.Logger
}

func NewPaymentRepository(db *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) repository.PaymentRepository {
	return &PaymentRepository{
		db:     db,
		cache:  newPaymentCache(rdb, logger),
		logger: logger.With(zap.String("component", "payment_repository")),
	}
}

const paymentColumns = `id, donor_id, donor_name, channel, amount, currency, status,
	transaction_id, evidence, bank_name, branch, gateway_charge, disaster_id, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.DonorID,
		&p.DonorName,
		&p.Channel,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.TransactionID,
		&p.Evidence,
		&p.BankName,
		&p.Branch,
		&p.GatewayCharge,
		&p.DisasterID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pr *PaymentRepository) CreatePayment(ctx context.Context, payment *entity.Payment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.TransactionID == "" {
		payment.TransactionID = uuid.New().String()
	}

	query := `INSERT INTO payment
	(id, donor_id, donor_name, channel, amount, currency, status, transaction_id,
	 evidence, bank_name, branch, gateway_charge, disaster_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	RETURNING id`

	var paymentID string
	err := pr.db.QueryRow(ctx, query,
		payment.ID,
		payment.DonorID,
		payment.DonorName,
		payment.Channel,
		float64(payment.Amount),
		payment.Currency,
		payment.Status,
		payment.TransactionID,
		payment.Evidence,
		payment.BankName,
		payment.Branch,
		payment.GatewayCharge,
		payment.DisasterID,
	).Scan(&paymentID)
	if err != nil {
		pr.logger.Error("failed to create payment",
			zap.String("donor_id", payment.DonorID),
			zap.String("channel", string(payment.Channel)),
			zap.Float64("amount", float64(payment.Amount)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create payment: %w", err)
	}

	return paymentID, nil
}

func (pr *PaymentRepository) GetPaymentByID(ctx context.Context, paymentID string) (*entity.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Try cache first
	if payment, ok := pr.cache.get(ctx, paymentID); ok {
		return payment, nil
	}

	query := `SELECT ` + paymentColumns + ` FROM payment WHERE id=$1`
	payment, err := scanPayment(pr.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		pr.logger.Error("failed to fetch payment by ID",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}

	pr.cache.put(ctx, payment)

	return payment, nil
}

func (pr *PaymentRepository) ListPayments(ctx context.Context, filter repository.ListFilter) ([]*entity.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + paymentColumns + ` FROM payment WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.DonorID != "" {
		args = append(args, filter.DonorID)
		query += fmt.Sprintf(" AND donor_id = $%d", len(args))
	}
	if filter.DisasterID != "" {
		args = append(args, filter.DisasterID)
		query += fmt.Sprintf(" AND disaster_id = $%d", len(args))
	}
	if !filter.DateFrom.IsZero() {
		args = append(args, filter.DateFrom)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.DateTo.IsZero() {
		args = append(args, filter.DateTo)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := pr.db.Query(ctx, query, args...)
	if err != nil {
		pr.logger.Error("failed to query payments",
			zap.String("donor_id", filter.DonorID),
			zap.String("status", string(filter.Status)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			pr.logger.Error("failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		pr.logger.Error("payment rows error", zap.Error(err))
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return payments, nil
}

// UpdatePaymentStatus flips Pending to a terminal status. The WHERE clause
// carries the Pending guard so two concurrent reviews cannot both land: the
// loser matches zero rows and gets ErrInvalidTransition.
func (pr *PaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status entity.PaymentStatus) (*entity.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `UPDATE payment SET status = $1, updated_at = NOW()
	WHERE id = $2 AND status = $3
	RETURNING ` + paymentColumns

	payment, err := scanPayment(pr.db.QueryRow(ctx, query, status, paymentID, entity.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pr.classifyMissedUpdate(ctx, paymentID)
		}
		pr.logger.Error("failed to update payment status",
			zap.String("payment_id", paymentID),
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	pr.cache.drop(ctx, paymentID)

	return payment, nil
}

// classifyMissedUpdate tells a record that never existed apart from one that
// is already terminal.
func (pr *PaymentRepository) classifyMissedUpdate(ctx context.Context, paymentID string) error {
	var current entity.PaymentStatus
	err := pr.db.QueryRow(ctx, `SELECT status FROM payment WHERE id = $1`, paymentID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect payment %s: %w", paymentID, err)
	}
	return entity.ErrInvalidTransition
}

func (pr *PaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := pr.db.Exec(ctx, `DELETE FROM payment WHERE id = $1`, paymentID)
	if err != nil {
		pr.logger.Error("failed to delete payment",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	pr.cache.drop(ctx, paymentID)

	return nil
}
