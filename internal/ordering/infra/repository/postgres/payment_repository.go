package postgres

import (
	"context"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `
        payment_id, order_id, user_id, amount, currency,
        payment_method, transaction_id, transaction_type, related_payment_id,
        status, payment_gateway, fee_amount, created_at`

// PaymentRepository implements domain.PaymentRepository for PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	payment := &domain.Payment{}
	err := row.Scan(
		&payment.PaymentID,
		&payment.OrderID,
		&payment.UserID,
		&payment.Amount,
		&payment.Currency,
		&payment.PaymentMethod,
		&payment.TransactionID,
		&payment.TransactionType,
		&payment.RelatedPaymentID,
		&payment.Status,
		&payment.PaymentGateway,
		&payment.FeeAmount,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *PaymentRepository) Insert(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error {
	query := `
        INSERT INTO payments (payment_id, order_id, user_id, amount, currency,
            payment_method, transaction_id, transaction_type, related_payment_id,
            status, payment_gateway, fee_amount, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `
	_, err := tx.Exec(ctx, query,
		payment.PaymentID,
		payment.OrderID,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.PaymentMethod,
		payment.TransactionID,
		payment.TransactionType,
		payment.RelatedPaymentID,
		payment.Status,
		payment.PaymentGateway,
		payment.FeeAmount,
		payment.CreatedAt,
	)
	return err
}

// ListCompletedCharges returns the order's completed charge payments inside
// the caller's transaction; the refund workflow mirrors each of them.
func (r *PaymentRepository) ListCompletedCharges(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
        FROM payments
        WHERE order_id = $1 AND transaction_type = $2 AND status = $3
        ORDER BY created_at ASC`
	rows, err := tx.Query(ctx, query, orderID, domain.TransactionTypeCharge, domain.PaymentRecordCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
