package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes charges from refunds.
type TransactionType string

const (
	TransactionTypeCharge TransactionType = "charge"
	TransactionTypeRefund TransactionType = "refund"
)

const (
	PaymentRecordCompleted  = "completed"
	PaymentRecordProcessing = "processing"
)

// Payment is one monetary transaction tied to an order. Refund rows are
// created by the cancellation workflow and never mutated.
type Payment struct {
	PaymentID        uuid.UUID
	OrderID          uuid.UUID
	UserID           uuid.UUID
	Amount           decimal.Decimal
	Currency         string
	PaymentMethod    string
	TransactionID    string
	TransactionType  TransactionType
	RelatedPaymentID *uuid.UUID
	Status           string
	PaymentGateway   string
	FeeAmount        decimal.Decimal
	CreatedAt        time.Time
}

// NewRefund builds the refund record mirroring a completed payment.
func NewRefund(original *Payment, transactionID string) *Payment {
	related := original.PaymentID
	return &Payment{
		PaymentID:        uuid.New(),
		OrderID:          original.OrderID,
		UserID:           original.UserID,
		Amount:           original.Amount,
		Currency:         original.Currency,
		PaymentMethod:    original.PaymentMethod,
		TransactionID:    transactionID,
		TransactionType:  TransactionTypeRefund,
		RelatedPaymentID: &related,
		Status:           PaymentRecordProcessing,
		PaymentGateway:   original.PaymentGateway,
		FeeAmount:        decimal.Zero,
	}
}
