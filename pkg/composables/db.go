package composables

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mozartiade/archive/pkg/constants"
	"github.com/mozartiade/archive/pkg/repo"
)

var (
	ErrNoTx   = errors.New("no transaction found in context")
	ErrNoPool = errors.New("no database pool found in context")
)

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

func UseTx(ctx context.Context) (repo.Tx, error) {
	tx := ctx.Value(constants.TxKey)
	if tx == nil {
		return UsePool(ctx)
	}
	return tx.(repo.Tx), nil
}

func WithPool(ctx context.Context, pool *pgxpool.Pool) context.Context {
	return context.WithValue(ctx, constants.PoolKey, pool)
}

func UsePool(ctx context.Context) (*pgxpool.Pool, error) {
	pool := ctx.Value(constants.PoolKey)
	if pool == nil {
		return nil, ErrNoPool
	}
	return pool.(*pgxpool.Pool), nil
}

// Transaction profiles. Begin must acquire a connection within the wait
// budget; the whole unit of work must finish within the overall budget.
type txProfile struct {
	beginWait time.Duration
	budget    time.Duration
	options   pgx.TxOptions
}

var (
	defaultProfile = txProfile{beginWait: 5 * time.Second, budget: 10 * time.Second}
	readProfile    = txProfile{beginWait: 5 * time.Second, budget: 5 * time.Second, options: pgx.TxOptions{AccessMode: pgx.ReadOnly}}
	batchProfile   = txProfile{beginWait: 10 * time.Second, budget: 30 * time.Second}
)

func inTx(ctx context.Context, p txProfile, fn func(context.Context) error) error {
	pool, err := UsePool(ctx)
	if err != nil {
		return err
	}

	beginCtx, cancelBegin := context.WithTimeout(ctx, p.beginWait)
	tx, err := pool.BeginTx(beginCtx, p.options)
	cancelBegin()
	if err != nil {
		return err
	}

	workCtx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	txCtx := WithTx(workCtx, tx)
	if err := fn(txCtx); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			return errors.Join(err, rErr)
		}
		return err
	}
	return tx.Commit(workCtx)
}

// InTx runs the given function in a transaction. ALWAYS creates a new transaction.
func InTx(ctx context.Context, fn func(context.Context) error) error {
	return inTx(ctx, defaultProfile, fn)
}

// InReadTx runs the given function in a read-only transaction with a short
// budget, for consistent multi-read snapshots.
func InReadTx(ctx context.Context, fn func(context.Context) error) error {
	return inTx(ctx, readProfile, fn)
}

// InBatchTx runs the given function in a transaction with an extended budget
// for multi-row batch writes.
func InBatchTx(ctx context.Context, fn func(context.Context) error) error {
	return inTx(ctx, batchProfile, fn)
}
