package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid is one bidder's standing offer on a product. A bidder holds at most
// one row per product: later bids update the row in place. Immutable once
// the auction closes.
type Bid struct {
	BidID            uuid.UUID
	AuctionID        uuid.UUID
	ProductID        uuid.UUID
	BidderID         uuid.UUID
	Amount           decimal.Decimal
	IsAutoBid        bool
	MaxAutoBidAmount *decimal.Decimal
	IsWinning        bool
	OutbidNotified   bool
	IPAddress        string
	DeviceInfo       string
	BidTime          time.Time
}

// NewBid creates the first bid row for a bidder on a product.
func NewBid(auctionID, productID, bidderID uuid.UUID, amount decimal.Decimal, bidTime time.Time) *Bid {
	return &Bid{
		BidID:     uuid.New(),
		AuctionID: auctionID,
		ProductID: productID,
		BidderID:  bidderID,
		Amount:    amount,
		BidTime:   bidTime,
	}
}

// AtCeiling reports whether an auto-bid has reached its authorized maximum.
func (b *Bid) AtCeiling() bool {
	return b.IsAutoBid && b.MaxAutoBidAmount != nil && b.Amount.GreaterThanOrEqual(*b.MaxAutoBidAmount)
}

// CanAutoRaiseTo reports whether this auto-bid's ceiling allows raising the
// bid to the given amount.
func (b *Bid) CanAutoRaiseTo(amount decimal.Decimal) bool {
	return b.IsAutoBid && b.MaxAutoBidAmount != nil && b.MaxAutoBidAmount.GreaterThanOrEqual(amount)
}

// MarkOutbid demotes the bid from winning and clears the outbid-notified
// flag so the notifier re-alerts the bidder.
func (b *Bid) MarkOutbid() {
	b.IsWinning = false
	b.OutbidNotified = false
}
