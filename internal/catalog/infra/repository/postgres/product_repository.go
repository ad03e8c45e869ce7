package postgres

import (
	"context"
	"errors"

	"github.com/cristianortiz/marketplaceEngine/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository implements domain.ProductRepository for PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
        SELECT product_id, seller_id, title, base_price, is_auction, created_at
        FROM products
        WHERE product_id = $1
    `
	product := &domain.Product{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ProductID,
		&product.SellerID,
		&product.Title,
		&product.BasePrice,
		&product.IsAuction,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
