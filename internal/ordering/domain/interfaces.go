package domain

import (
	"context"

	biddomain "github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	catalogdomain "github.com/cristianortiz/marketplaceEngine/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepository persists orders. Status transitions re-assert the expected
// current status in the UPDATE itself; false means another transaction got
// there first.
type OrderRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Order, error)
	UpdateTotals(ctx context.Context, tx pgx.Tx, order *Order) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, expected []OrderStatus, to OrderStatus) (bool, error)
	UpdateDetails(ctx context.Context, tx pgx.Tx, order *Order, expected OrderStatus) (bool, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, item *OrderItem) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error)
	ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*OrderItem, error)
}

type StatusHistoryRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *StatusHistory) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*StatusHistory, error)
	ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*StatusHistory, error)
}

// InventoryRepository mutates stock. DecrementStock is conditional on enough
// quantity being available and reports whether it applied; the row lock it
// takes serializes concurrent order creation against the same stock.
type InventoryRepository interface {
	GetByProductID(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*Inventory, error)
	DecrementStock(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, quantity int) (bool, error)
	Restock(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, quantity int) error
}

type PaymentRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, payment *Payment) error
	ListCompletedCharges(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Payment, error)
}

// ProductReader is the slice of the catalog this context needs.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalogdomain.Product, error)
}

// BidReader resolves winning bids referenced by auction-win items. Whether
// the bid is still the auction's winner is not re-checked here; that is
// enforced by the bidding and closing paths (documented trust boundary).
type BidReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*biddomain.Bid, error)
}
