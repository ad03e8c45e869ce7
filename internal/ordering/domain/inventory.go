package domain

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the stock row of a non-auction product. Quantity never goes
// negative: decrements are conditional at the storage layer.
type Inventory struct {
	InventoryID uuid.UUID
	ProductID   uuid.UUID
	Quantity    int
	SKU         string
	Location    string
	LastUpdated time.Time
}
