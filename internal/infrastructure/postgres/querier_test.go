package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bengkel-pos/internal/domain"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type errQuerier struct{ err error }

func (q errQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, q.err
}

func (q errQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, q.err }

func (q errQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return errRow{err: q.err} }

func (q errQuerier) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }

func TestGuard_IdentificadorMalFormadoEsNotFound(t *testing.T) {
	ctx := context.Background()
	q := guard(errQuerier{err: &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}})

	var id string
	assert.ErrorIs(t, q.QueryRow(ctx, "SELECT id FROM branches WHERE id = $1", "abc").Scan(&id), domain.ErrNotFound)

	_, err := q.Exec(ctx, "DELETE FROM branches WHERE id = $1", "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = q.Query(ctx, "SELECT id FROM inventory WHERE branch_id = $1", "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	repo := NewBranchRepository(errQuerier{err: &pgconn.PgError{Code: "22P02"}})
	b, err := repo.GetByID(ctx, "t", "abc")
	assert.Nil(t, b)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGuard_OtrosErroresPasanIntactos(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("conexión cerrada")

	_, err := guard(errQuerier{err: boom}).Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	var n int
	err = guard(errQuerier{err: pgx.ErrNoRows}).QueryRow(ctx, "SELECT 1").Scan(&n)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	q := guard(errQuerier{})
	assert.Equal(t, q, guard(q), "no se envuelve dos veces")
}
