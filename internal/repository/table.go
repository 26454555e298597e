package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repositories use. A pgx.Tx
// satisfies it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// table runs the statements every brainlog resource shares. Rows are
// mapped onto T by its db tags, so columns must list every tagged field.
type table[T any] struct {
	db      DBTX
	name    string
	columns string
	orderBy string
}

// wrap prefixes errors with the table name. sqlerr reads it back to build
// messages like "Brainlog Entry not found".
func (t table[T]) wrap(err error) error {
	return fmt.Errorf("table:%s: %w", t.name, err)
}

// one runs a statement that returns exactly one row.
func (t table[T]) one(ctx context.Context, query string, args ...any) (*T, error) {
	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, t.wrap(err)
	}

	item, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, t.wrap(err)
	}

	return item, nil
}

func (t table[T]) get(ctx context.Context, id uuid.UUID) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, t.columns, t.name)
	return t.one(ctx, query, id)
}

// delete reports pgx.ErrNoRows when nothing matched.
func (t table[T]) delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)

	tag, err := t.db.Exec(ctx, query, id)
	if err != nil {
		return t.wrap(err)
	}

	if tag.RowsAffected() == 0 {
		return t.wrap(pgx.ErrNoRows)
	}

	return nil
}

func (t table[T]) count(ctx context.Context) (int64, error) {
	var total int64

	query := fmt.Sprintf(`SELECT count(*) FROM %s`, t.name)
	if err := t.db.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, t.wrap(err)
	}

	return total, nil
}

func (t table[T]) list(ctx context.Context, limit, offset int64) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s LIMIT $1 OFFSET $2`, t.columns, t.name, t.orderBy)

	rows, err := t.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, t.wrap(err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, t.wrap(err)
	}

	return items, nil
}
