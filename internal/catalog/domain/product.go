package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog item. Auction-enabled products sell through an
// Auction; the rest sell from an Inventory row. Price and auction fields
// are fixed at creation as far as the transactional core is concerned.
type Product struct {
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Title     string
	BasePrice decimal.Decimal
	IsAuction bool
	CreatedAt time.Time
}

type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
}
