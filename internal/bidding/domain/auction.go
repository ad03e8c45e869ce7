package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Auction identifies one product's sale window. The current_highest_* fields
// denormalize the winning Bid row; they are only ever written in the same
// transaction that flips the winning flag, under the auction row lock.
type Auction struct {
	AuctionID            uuid.UUID
	ProductID            uuid.UUID
	SellerID             uuid.UUID
	StartTime            time.Time
	EndTime              time.Time
	StartingPrice        decimal.Decimal
	ReservePrice         *decimal.Decimal
	MinBidIncrement      decimal.Decimal
	CurrentHighestBid    *decimal.Decimal
	CurrentHighestBidder *uuid.UUID
	BidCount             int
	DepositRequired      bool
	DepositPercentage    decimal.Decimal
	IsClosed             bool
	WinnerID             *uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasEnded reports whether the sale window has elapsed.
func (a *Auction) HasEnded(now time.Time) bool {
	return !a.EndTime.After(now)
}

// MinimumBid returns the lowest acceptable amount given the current winning
// bid: highest + increment when a winning bid exists, the starting price
// otherwise.
func (a *Auction) MinimumBid(winning *Bid) decimal.Decimal {
	if winning == nil {
		return a.StartingPrice
	}
	return winning.Amount.Add(a.MinBidIncrement)
}

// RecordHighestBid updates the denormalized highest-bid fields and the bid
// counter after b became the winning bid. Must be called inside the same
// transaction that persisted b.
func (a *Auction) RecordHighestBid(b *Bid) {
	amount := b.Amount
	bidder := b.BidderID
	a.CurrentHighestBid = &amount
	a.CurrentHighestBidder = &bidder
	a.BidCount++
}

// Close marks the auction closed, recording the winner from the winning bid
// if one exists. Closing is terminal.
func (a *Auction) Close(winning *Bid) {
	a.IsClosed = true
	if winning != nil {
		winner := winning.BidderID
		a.WinnerID = &winner
	} else {
		a.WinnerID = nil
	}
}

// ReserveMet reports whether the winning amount reaches the optional reserve
// price. Auctions without a reserve always meet it.
func (a *Auction) ReserveMet() bool {
	if a.ReservePrice == nil {
		return true
	}
	return a.CurrentHighestBid != nil && a.CurrentHighestBid.GreaterThanOrEqual(*a.ReservePrice)
}
