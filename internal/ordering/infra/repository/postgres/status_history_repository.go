package postgres

import (
	"context"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const historyColumns = `
        history_id, order_id, status, changed_by_user_id, notes, changed_at`

// StatusHistoryRepository implements domain.StatusHistoryRepository for
// PostgreSQL. The table is append only.
type StatusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository creates a new instance of StatusHistoryRepository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) *StatusHistoryRepository {
	return &StatusHistoryRepository{pool: pool}
}

func scanHistory(row pgx.Row) (*domain.StatusHistory, error) {
	entry := &domain.StatusHistory{}
	var notes *string
	err := row.Scan(
		&entry.HistoryID,
		&entry.OrderID,
		&entry.Status,
		&entry.ChangedByUserID,
		&notes,
		&entry.ChangedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		entry.Notes = *notes
	}
	return entry, nil
}

func (r *StatusHistoryRepository) Append(ctx context.Context, tx pgx.Tx, entry *domain.StatusHistory) error {
	query := `
        INSERT INTO order_status_history (history_id, order_id, status, changed_by_user_id, notes, changed_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := tx.Exec(ctx, query,
		entry.HistoryID,
		entry.OrderID,
		entry.Status,
		entry.ChangedByUserID,
		entry.Notes,
		entry.ChangedAt,
	)
	return err
}

func (r *StatusHistoryRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.StatusHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM order_status_history WHERE order_id = $1 ORDER BY changed_at ASC`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHistory(rows)
}

func (r *StatusHistoryRepository) ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*domain.StatusHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM order_status_history WHERE order_id = $1 ORDER BY changed_at ASC`
	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHistory(rows)
}

func collectHistory(rows pgx.Rows) ([]*domain.StatusHistory, error) {
	var entries []*domain.StatusHistory
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
