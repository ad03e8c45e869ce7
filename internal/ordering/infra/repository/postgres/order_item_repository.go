package postgres

import (
	"context"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderItemColumns = `
        order_item_id, order_id, product_id, inventory_id, bid_id,
        quantity, price_at_purchase, subtotal, tax_amount, discount_amount,
        is_auction_win, status, created_at`

// OrderItemRepository implements domain.OrderItemRepository for PostgreSQL.
type OrderItemRepository struct {
	pool *pgxpool.Pool
}

// NewOrderItemRepository creates a new instance of OrderItemRepository.
func NewOrderItemRepository(pool *pgxpool.Pool) *OrderItemRepository {
	return &OrderItemRepository{pool: pool}
}

func scanOrderItem(row pgx.Row) (*domain.OrderItem, error) {
	item := &domain.OrderItem{}
	err := row.Scan(
		&item.OrderItemID,
		&item.OrderID,
		&item.ProductID,
		&item.InventoryID,
		&item.BidID,
		&item.Quantity,
		&item.PriceAtPurchase,
		&item.Subtotal,
		&item.TaxAmount,
		&item.DiscountAmount,
		&item.IsAuctionWin,
		&item.Status,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *OrderItemRepository) Insert(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error {
	query := `
        INSERT INTO order_items (order_item_id, order_id, product_id, inventory_id, bid_id,
            quantity, price_at_purchase, subtotal, tax_amount, discount_amount,
            is_auction_win, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `
	_, err := tx.Exec(ctx, query,
		item.OrderItemID,
		item.OrderID,
		item.ProductID,
		item.InventoryID,
		item.BidID,
		item.Quantity,
		item.PriceAtPurchase,
		item.Subtotal,
		item.TaxAmount,
		item.DiscountAmount,
		item.IsAuctionWin,
		item.Status,
		item.CreatedAt,
	)
	return err
}

func (r *OrderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrderItems(rows)
}

// ListByOrderTx reads the order's items inside the caller's transaction,
// after the order row lock has been taken.
func (r *OrderItemRepository) ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrderItems(rows)
}

func collectOrderItems(rows pgx.Rows) ([]*domain.OrderItem, error) {
	var items []*domain.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
