package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/bengkel-pos/internal/domain"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// idGuard traduce 22P02 (texto que no es UUID en una columna UUID) a domain.ErrNotFound.
// Un identificador mal formado no puede existir.
type idGuard struct {
	q Querier
}

func guard(q Querier) Querier {
	if _, ok := q.(idGuard); ok {
		return q
	}
	return idGuard{q: q}
}

func translateInvalidID(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return fmt.Errorf("%w: identificador inválido", domain.ErrNotFound)
	}
	return err
}

func (g idGuard) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := g.q.Exec(ctx, sql, args...)
	return tag, translateInvalidID(err)
}

func (g idGuard) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := g.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateInvalidID(err)
	}
	return guardedRows{Rows: rows}, nil
}

func (g idGuard) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return guardedRow{row: g.q.QueryRow(ctx, sql, args...)}
}

func (g idGuard) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return g.q.SendBatch(ctx, b)
}

type guardedRow struct {
	row pgx.Row
}

func (r guardedRow) Scan(dest ...any) error {
	return translateInvalidID(r.row.Scan(dest...))
}

type guardedRows struct {
	pgx.Rows
}

func (r guardedRows) Err() error {
	return translateInvalidID(r.Rows.Err())
}
