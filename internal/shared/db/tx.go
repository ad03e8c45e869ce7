package db

import (
	"context"
	"fmt"

	"github.com/cristianortiz/marketplaceEngine/internal/shared/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// TxRunner runs a function inside one database transaction. Every mutating
// use case goes through it, so commit XOR rollback holds everywhere and
// tests can substitute a fake that hands the function a nil tx.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// PoolTxRunner is the TxRunner backed by a pgx pool.
type PoolTxRunner struct {
	pool *pgxpool.Pool
}

func NewPoolTxRunner(pool *pgxpool.Pool) *PoolTxRunner {
	return &PoolTxRunner{pool: pool}
}

// WithinTx begins a transaction, runs fn and commits, rolling back on error
// or panic. The returned error is fn's error, or the commit error if fn
// succeeded but the commit did not.
func (r *PoolTxRunner) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error("Recovered from panic during transaction", zap.Any("panic", p))
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			log.Error("Failed to commit transaction", zap.Error(commitErr))
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return err
}
