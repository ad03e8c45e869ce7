package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the order state machine. Cancellation transitions:
// cancellable statuses go to cancellation_requested (review path) or
// straight to cancelled (grace-window fast path); cancellation_requested
// resolves to cancelled or back to the prior status. cancelled is terminal.
type OrderStatus string

const (
	OrderStatusPending               OrderStatus = "pending"
	OrderStatusProcessing            OrderStatus = "processing"
	OrderStatusAwaitingPayment       OrderStatus = "awaiting_payment"
	OrderStatusCancellationRequested OrderStatus = "cancellation_requested"
	OrderStatusCancelled             OrderStatus = "cancelled"
	OrderStatusShipped               OrderStatus = "shipped"
	OrderStatusDelivered             OrderStatus = "delivered"
	OrderStatusCompleted             OrderStatus = "completed"
)

// Cancellable reports whether a cancellation request is accepted in this
// status.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusAwaitingPayment:
		return true
	}
	return false
}

// Editable reports whether order details may still be updated.
func (s OrderStatus) Editable() bool {
	return s.Cancellable()
}

// PaymentStatus tracks the money side of an order, independent of fulfilment.
type PaymentStatus string

const (
	PaymentStatusAwaitingPayment PaymentStatus = "awaiting_payment"
	PaymentStatusPaid            PaymentStatus = "paid"
	PaymentStatusRefunded        PaymentStatus = "refunded"
)

// Order is a buyer's purchase request. After totals are finalized the only
// mutations are status transitions and the small details allow-list.
type Order struct {
	OrderID           uuid.UUID
	BuyerID           uuid.UUID
	Status            OrderStatus
	PaymentStatus     PaymentStatus
	TotalAmount       decimal.Decimal
	TaxAmount         decimal.Decimal
	ShippingCost      decimal.Decimal
	Currency          string
	ShippingAddressID uuid.UUID
	BillingAddressID  uuid.UUID
	TrackingNumber    string
	Notes             string
	Source            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WithinGraceWindow reports whether the order is still young enough for the
// automatic cancellation fast path.
func (o *Order) WithinGraceWindow(now time.Time, window time.Duration) bool {
	return now.Sub(o.CreatedAt) < window
}
