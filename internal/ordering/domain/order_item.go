package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order, resolved against either an Inventory
// row (stock purchase) or a winning Bid (auction win). Immutable once
// created except for its status.
type OrderItem struct {
	OrderItemID     uuid.UUID
	OrderID         uuid.UUID
	ProductID       uuid.UUID
	InventoryID     *uuid.UUID
	BidID           *uuid.UUID
	Quantity        int
	PriceAtPurchase decimal.Decimal
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	IsAuctionWin    bool
	Status          string
	CreatedAt       time.Time
}
