package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryStatusCreated marks the creation entry of the audit trail. It is
// not an OrderStatus; an order carrying it holds OrderStatusPending.
const HistoryStatusCreated = "created"

// StatusHistory is one entry of the append-only order audit trail.
type StatusHistory struct {
	HistoryID       uuid.UUID
	OrderID         uuid.UUID
	Status          string
	ChangedByUserID uuid.UUID
	Notes           string
	ChangedAt       time.Time
}

// NewStatusHistory creates an audit entry for an order transition.
func NewStatusHistory(orderID uuid.UUID, status string, actor uuid.UUID, notes string, at time.Time) *StatusHistory {
	return &StatusHistory{
		HistoryID:       uuid.New(),
		OrderID:         orderID,
		Status:          status,
		ChangedByUserID: actor,
		Notes:           notes,
		ChangedAt:       at,
	}
}
