package domain

import "errors"

var (
	ErrEmptyOrder            = errors.New("order must contain at least one item")
	ErrInvalidQuantity       = errors.New("item quantity must be a positive integer")
	ErrOrderNotFound         = errors.New("order not found")
	ErrBidNotFound           = errors.New("bid not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrUnauthorizedBuyer     = errors.New("unauthorized buyer")
	ErrOrderNotEditable      = errors.New("order can no longer be updated")
	ErrOrderNotCancellable   = errors.New("order is not cancellable in its current status")
	ErrNoChanges             = errors.New("no changes submitted")
	ErrConflict              = errors.New("order was modified concurrently")
	ErrNotPendingDecision    = errors.New("order has no pending cancellation request")
)
