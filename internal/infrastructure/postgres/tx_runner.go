package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

const maxTxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Reintenta la función completa ante serialization_failure o deadlock.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return retryTx(ctx, txBackoff, func() error { return r.runOnce(ctx, fn) })
}

func txBackoff(attempt int) time.Duration {
	return time.Duration(attempt*20) * time.Millisecond
}

// retryTx repite once mientras falle con un error reintentable, hasta maxTxAttempts intentos.
func retryTx(ctx context.Context, backoff func(attempt int) time.Duration, once func() error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = once()
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt == maxTxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos repositorios del ledger sobre un Querier (pool para lecturas, tx para posteos).
func NewRepos(q Querier) inventory.TxRepos {
	return inventory.TxRepos{
		Stock:       NewStockRepository(q),
		Movements:   NewInventoryMovementRepository(q),
		Batches:     NewInventoryBatchRepository(q),
		Adjustments: NewAdjustmentRepository(q),
		Transfers:   NewTransferRepository(q),
		Approvals:   NewApprovalRepository(q),
		Sequences:   NewSequenceRepository(q),
	}
}
