package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrAuctionClosed        = errors.New("auction has ended")
	ErrProductNotEligible   = errors.New("product not found or is not available for auction")
	ErrBidTooLow            = errors.New("bid amount is too low")
	ErrInvalidAmount        = errors.New("bid amount must be greater than zero")
	ErrInvalidAutoBidConfig = errors.New("for auto-bidding, a valid maximum amount is required")
	ErrAlreadyHighestBidder = errors.New("you already have the highest bid for this product")
	ErrBidNotFound          = errors.New("bid not found")
)

// BidTooLowError carries the diagnostics a client needs to retry: the
// current highest bid (nil when none exists) and the computed minimum.
type BidTooLowError struct {
	CurrentHighestBid *decimal.Decimal
	MinimumRequired   decimal.Decimal
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid amount must be at least %s", e.MinimumRequired)
}

func (e *BidTooLowError) Unwrap() error { return ErrBidTooLow }
