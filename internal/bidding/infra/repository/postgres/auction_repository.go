package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auctionColumns = `
        auction_id, product_id, seller_id, start_time, end_time,
        starting_price, reserve_price, min_bid_increment,
        current_highest_bid, current_highest_bidder, bid_count,
        deposit_required, deposit_percentage, is_closed, winner_id,
        created_at, updated_at`

// AuctionRepository implements domain.AuctionRepository for PostgreSQL.
type AuctionRepository struct {
	pool *pgxpool.Pool
}

// NewAuctionRepository creates a new instance of AuctionRepository.
func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	auction := &domain.Auction{}
	err := row.Scan(
		&auction.AuctionID,
		&auction.ProductID,
		&auction.SellerID,
		&auction.StartTime,
		&auction.EndTime,
		&auction.StartingPrice,
		&auction.ReservePrice,
		&auction.MinBidIncrement,
		&auction.CurrentHighestBid,
		&auction.CurrentHighestBidder,
		&auction.BidCount,
		&auction.DepositRequired,
		&auction.DepositPercentage,
		&auction.IsClosed,
		&auction.WinnerID,
		&auction.CreatedAt,
		&auction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE auction_id = $1`
	return scanAuction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate loads the auction under a row lock. Every mutation of the
// auction or its product's winning bid goes through this lock, which is what
// serializes concurrent bids on the same product.
func (r *AuctionRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE auction_id = $1 FOR UPDATE`
	return scanAuction(tx.QueryRow(ctx, query, id))
}

// Save upserts the auction. Timestamps are left to the database defaults on
// insert; updated_at is bumped on every update.
func (r *AuctionRepository) Save(ctx context.Context, tx pgx.Tx, auction *domain.Auction) error {
	query := `
        INSERT INTO auctions (auction_id, product_id, seller_id, start_time, end_time,
            starting_price, reserve_price, min_bid_increment,
            current_highest_bid, current_highest_bidder, bid_count,
            deposit_required, deposit_percentage, is_closed, winner_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (auction_id) DO UPDATE
        SET
            end_time = EXCLUDED.end_time,
            current_highest_bid = EXCLUDED.current_highest_bid,
            current_highest_bidder = EXCLUDED.current_highest_bidder,
            bid_count = EXCLUDED.bid_count,
            is_closed = EXCLUDED.is_closed,
            winner_id = EXCLUDED.winner_id,
            updated_at = NOW();
    `
	_, err := tx.Exec(ctx, query,
		auction.AuctionID,
		auction.ProductID,
		auction.SellerID,
		auction.StartTime,
		auction.EndTime,
		auction.StartingPrice,
		auction.ReservePrice,
		auction.MinBidIncrement,
		auction.CurrentHighestBid,
		auction.CurrentHighestBidder,
		auction.BidCount,
		auction.DepositRequired,
		auction.DepositPercentage,
		auction.IsClosed,
		auction.WinnerID,
	)
	return err
}

// GetOpenAuctions returns auctions that are not closed and whose end time is
// still in the future.
func (r *AuctionRepository) GetOpenAuctions(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE NOT is_closed AND end_time > $1`
	return r.queryAuctions(ctx, query, now)
}

// GetExpiredAuctions returns auctions past their end time that have not been
// closed yet.
func (r *AuctionRepository) GetExpiredAuctions(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE NOT is_closed AND end_time <= $1`
	return r.queryAuctions(ctx, query, now)
}

func (r *AuctionRepository) queryAuctions(ctx context.Context, query string, args ...any) ([]*domain.Auction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return auctions, nil
}
