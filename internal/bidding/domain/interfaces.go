package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AuctionRepository persists auctions. Methods taking a pgx.Tx participate
// in the caller's transaction; GetByIDForUpdate additionally takes the row
// lock that serializes concurrent bids on the same product.
type AuctionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Auction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Auction, error)
	Save(ctx context.Context, tx pgx.Tx, auction *Auction) error
	GetOpenAuctions(ctx context.Context, now time.Time) ([]*Auction, error)
	GetExpiredAuctions(ctx context.Context, now time.Time) ([]*Auction, error)
}

// BidRepository persists bids. Save upserts on (product_id, bidder_id) so a
// bidder keeps a single row per product.
type BidRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Bid, error)
	GetWinningByProduct(ctx context.Context, productID uuid.UUID) (*Bid, error)
	GetWinningForUpdate(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*Bid, error)
	GetByBidder(ctx context.Context, tx pgx.Tx, productID, bidderID uuid.UUID) (*Bid, error)
	Save(ctx context.Context, tx pgx.Tx, bid *Bid) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Bid, error)
	ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*Bid, error)
	ListAutoBidCandidates(ctx context.Context, tx pgx.Tx, productID uuid.UUID) ([]*Bid, error)
}
