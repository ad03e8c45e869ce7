package postgres

import (
	"context"
	"errors"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `
        order_id, buyer_id, status, payment_status,
        total_amount, tax_amount, shipping_cost, currency,
        shipping_address_id, billing_address_id,
        tracking_number, notes, source, created_at, updated_at`

// OrderRepository implements domain.OrderRepository for PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := &domain.Order{}
	var trackingNumber, notes *string
	err := row.Scan(
		&order.OrderID,
		&order.BuyerID,
		&order.Status,
		&order.PaymentStatus,
		&order.TotalAmount,
		&order.TaxAmount,
		&order.ShippingCost,
		&order.Currency,
		&order.ShippingAddressID,
		&order.BillingAddressID,
		&trackingNumber,
		&notes,
		&order.Source,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	if trackingNumber != nil {
		order.TrackingNumber = *trackingNumber
	}
	if notes != nil {
		order.Notes = *notes
	}
	return order, nil
}

func (r *OrderRepository) Insert(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	query := `
        INSERT INTO orders (order_id, buyer_id, status, payment_status,
            total_amount, tax_amount, shipping_cost, currency,
            shipping_address_id, billing_address_id,
            tracking_number, notes, source, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `
	_, err := tx.Exec(ctx, query,
		order.OrderID,
		order.BuyerID,
		order.Status,
		order.PaymentStatus,
		order.TotalAmount,
		order.TaxAmount,
		order.ShippingCost,
		order.Currency,
		order.ShippingAddressID,
		order.BillingAddressID,
		order.TrackingNumber,
		order.Notes,
		order.Source,
		order.CreatedAt,
	)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the order row for the rest of the transaction,
// serializing updates and cancellation decisions against it.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 FOR UPDATE`
	return scanOrder(tx.QueryRow(ctx, query, id))
}

func (r *OrderRepository) UpdateTotals(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	query := `
        UPDATE orders
        SET total_amount = $2, tax_amount = $3, shipping_cost = $4, updated_at = NOW()
        WHERE order_id = $1
    `
	_, err := tx.Exec(ctx, query, order.OrderID, order.TotalAmount, order.TaxAmount, order.ShippingCost)
	return err
}

// UpdateStatus transitions the order only when its current status is one of
// the expected ones. False means another transaction changed the order first.
func (r *OrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, expected []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	query := `
        UPDATE orders
        SET status = $2, updated_at = NOW()
        WHERE order_id = $1 AND status = ANY($3)
    `
	statuses := make([]string, len(expected))
	for i, s := range expected {
		statuses[i] = string(s)
	}
	tag, err := tx.Exec(ctx, query, orderID, to, statuses)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateDetails writes the editable fields, asserting the status has not
// moved since the order was read.
func (r *OrderRepository) UpdateDetails(ctx context.Context, tx pgx.Tx, order *domain.Order, expected domain.OrderStatus) (bool, error) {
	query := `
        UPDATE orders
        SET shipping_address_id = $2, billing_address_id = $3, notes = $4, updated_at = NOW()
        WHERE order_id = $1 AND status = $5
    `
	tag, err := tx.Exec(ctx, query,
		order.OrderID,
		order.ShippingAddressID,
		order.BillingAddressID,
		order.Notes,
		expected,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
