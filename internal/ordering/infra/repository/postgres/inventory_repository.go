package postgres

import (
	"context"
	"errors"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository implements domain.InventoryRepository for PostgreSQL.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// GetByProductID locks the product's stock row for the transaction, or
// returns nil when the product has no inventory.
func (r *InventoryRepository) GetByProductID(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*domain.Inventory, error) {
	query := `
        SELECT inventory_id, product_id, quantity, sku, location, last_updated
        FROM inventory
        WHERE product_id = $1
        FOR UPDATE
    `
	inv := &domain.Inventory{}
	var location *string
	err := tx.QueryRow(ctx, query, productID).Scan(
		&inv.InventoryID,
		&inv.ProductID,
		&inv.Quantity,
		&inv.SKU,
		&location,
		&inv.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if location != nil {
		inv.Location = *location
	}
	return inv, nil
}

// DecrementStock subtracts quantity only when enough stock remains and
// reports whether the update applied.
func (r *InventoryRepository) DecrementStock(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, quantity int) (bool, error) {
	query := `
        UPDATE inventory
        SET quantity = quantity - $2, last_updated = NOW()
        WHERE inventory_id = $1 AND quantity >= $2
    `
	tag, err := tx.Exec(ctx, query, inventoryID, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InventoryRepository) Restock(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, quantity int) error {
	query := `
        UPDATE inventory
        SET quantity = quantity + $2, last_updated = NOW()
        WHERE inventory_id = $1
    `
	_, err := tx.Exec(ctx, query, inventoryID, quantity)
	return err
}
