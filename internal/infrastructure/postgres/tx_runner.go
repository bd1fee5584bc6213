package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/bengkel-pos/internal/application/inventory"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and sales.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transacción para transferencias: inventario + libro de transferencias.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	transferRepo repository.StockTransferRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryRepository(tx), NewStockTransferRepository(tx))
	})
}

// RunSales transacción para ventas, cancelaciones, conversión de borradores y devoluciones.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	txnRepo repository.TransactionRepository,
	invRepo repository.InventoryRepository,
	returnRepo repository.ReturnRepository,
	draftRepo repository.DraftTransactionRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewTransactionRepository(tx), NewInventoryRepository(tx), NewReturnRepository(tx), NewDraftRepository(tx))
	})
}
