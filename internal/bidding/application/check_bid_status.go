package application

import (
	"context"
	"time"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidStatusDTO exposes a bidder's standing on a product: their own bid plus
// the product's current highest bid.
type BidStatusDTO struct {
	BidID            uuid.UUID        `json:"bid_id"`
	ProductID        uuid.UUID        `json:"product_id"`
	Amount           decimal.Decimal  `json:"amount"`
	IsAutoBid        bool             `json:"is_auto_bid"`
	MaxAutoBidAmount *decimal.Decimal `json:"max_auto_bid_amount,omitempty"`
	IsWinning        bool             `json:"is_winning"`
	BidTime          time.Time        `json:"bid_time"`
	HighestBid       *decimal.Decimal `json:"highest_bid,omitempty"`
	HighestBidderID  *uuid.UUID       `json:"highest_bidder_id,omitempty"`
}

// CheckBidStatusUseCase answers "am I still winning?" for one of the
// caller's own bids.
type CheckBidStatusUseCase struct {
	bidRepo domain.BidRepository
}

func NewCheckBidStatusUseCase(bidRepo domain.BidRepository) *CheckBidStatusUseCase {
	return &CheckBidStatusUseCase{bidRepo: bidRepo}
}

func (uc *CheckBidStatusUseCase) Execute(ctx context.Context, bidID, bidderID uuid.UUID) (*BidStatusDTO, error) {
	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	// Bids are only visible to their owner; anyone else sees not-found.
	if bid == nil || bid.BidderID != bidderID {
		return nil, domain.ErrBidNotFound
	}

	dto := &BidStatusDTO{
		BidID:            bid.BidID,
		ProductID:        bid.ProductID,
		Amount:           bid.Amount,
		IsAutoBid:        bid.IsAutoBid,
		MaxAutoBidAmount: bid.MaxAutoBidAmount,
		BidTime:          bid.BidTime,
	}

	highest, err := uc.bidRepo.GetWinningByProduct(ctx, bid.ProductID)
	if err != nil {
		return nil, err
	}
	if highest != nil {
		amount := highest.Amount
		bidder := highest.BidderID
		dto.HighestBid = &amount
		dto.HighestBidderID = &bidder
		dto.IsWinning = highest.BidID == bid.BidID
	}

	return dto, nil
}
