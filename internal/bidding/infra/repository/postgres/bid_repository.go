package postgres

import (
	"context"
	"errors"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bidColumns = `
        bid_id, auction_id, product_id, bidder_id, amount,
        is_auto_bid, max_auto_bid_amount, is_winning, outbid_notified,
        ip_address, device_info, bid_time`

// BidRepository implements domain.BidRepository for PostgreSQL.
type BidRepository struct {
	pool *pgxpool.Pool
}

// NewBidRepository creates a new instance of BidRepository.
func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

func scanBid(row pgx.Row) (*domain.Bid, error) {
	bid := &domain.Bid{}
	var ipAddress, deviceInfo *string
	err := row.Scan(
		&bid.BidID,
		&bid.AuctionID,
		&bid.ProductID,
		&bid.BidderID,
		&bid.Amount,
		&bid.IsAutoBid,
		&bid.MaxAutoBidAmount,
		&bid.IsWinning,
		&bid.OutbidNotified,
		&ipAddress,
		&deviceInfo,
		&bid.BidTime,
	)
	if err != nil {
		return nil, err
	}
	if ipAddress != nil {
		bid.IPAddress = *ipAddress
	}
	if deviceInfo != nil {
		bid.DeviceInfo = *deviceInfo
	}
	return bid, nil
}

// Save upserts the bid on its primary key. The (product_id, bidder_id)
// unique constraint backs the one-row-per-bidder rule; callers locate the
// existing row first, under the auction lock.
func (r *BidRepository) Save(ctx context.Context, tx pgx.Tx, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (bid_id, auction_id, product_id, bidder_id, amount,
            is_auto_bid, max_auto_bid_amount, is_winning, outbid_notified,
            ip_address, device_info, bid_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (bid_id) DO UPDATE
        SET
            amount = EXCLUDED.amount,
            is_auto_bid = EXCLUDED.is_auto_bid,
            max_auto_bid_amount = EXCLUDED.max_auto_bid_amount,
            is_winning = EXCLUDED.is_winning,
            outbid_notified = EXCLUDED.outbid_notified,
            ip_address = EXCLUDED.ip_address,
            device_info = EXCLUDED.device_info,
            bid_time = EXCLUDED.bid_time;
    `
	_, err := tx.Exec(ctx, query,
		bid.BidID,
		bid.AuctionID,
		bid.ProductID,
		bid.BidderID,
		bid.Amount,
		bid.IsAutoBid,
		bid.MaxAutoBidAmount,
		bid.IsWinning,
		bid.OutbidNotified,
		bid.IPAddress,
		bid.DeviceInfo,
		bid.BidTime,
	)
	return err
}

// GetByID returns the bid or nil when it does not exist.
func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE bid_id = $1`
	bid, err := scanBid(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}

// GetWinningByProduct returns the product's winning bid or nil.
func (r *BidRepository) GetWinningByProduct(ctx context.Context, productID uuid.UUID) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE product_id = $1 AND is_winning`
	bid, err := scanBid(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}

// GetWinningForUpdate reads the winning bid inside the caller's transaction,
// after the auction row lock has been taken.
func (r *BidRepository) GetWinningForUpdate(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE product_id = $1 AND is_winning FOR UPDATE`
	bid, err := scanBid(tx.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}

// GetByBidder returns the bidder's bid row for the product, or nil when the
// bidder has not bid yet.
func (r *BidRepository) GetByBidder(ctx context.Context, tx pgx.Tx, productID, bidderID uuid.UUID) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE product_id = $1 AND bidder_id = $2 FOR UPDATE`
	bid, err := scanBid(tx.QueryRow(ctx, query, productID, bidderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}

// ListAutoBidCandidates returns the product's losing auto-bids ordered by
// original bid time, earliest first (the tie-break order for resolution).
func (r *BidRepository) ListAutoBidCandidates(ctx context.Context, tx pgx.Tx, productID uuid.UUID) ([]*domain.Bid, error) {
	query := `SELECT ` + bidColumns + `
        FROM bids
        WHERE product_id = $1 AND is_auto_bid AND NOT is_winning
        ORDER BY bid_time ASC
        FOR UPDATE`
	rows, err := tx.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBids(rows)
}

func (r *BidRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE product_id = $1 ORDER BY bid_time ASC`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBids(rows)
}

func (r *BidRepository) ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE bidder_id = $1 ORDER BY bid_time DESC`
	rows, err := r.pool.Query(ctx, query, bidderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBids(rows)
}

func collectBids(rows pgx.Rows) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}
