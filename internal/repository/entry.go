package repository

import (
	"context"

	"github.com/deppfellow/brainlog/internal/model"
	"github.com/google/uuid"
)

const (
	entryTable   = "brainlog_entry"
	entryColumns = `id, body, log_type, "time", created_at, updated_at`
)

type EntryRepository struct {
	table table[model.Entry]
}

func NewEntryRepository(db DBTX) *EntryRepository {
	return &EntryRepository{
		table: table[model.Entry]{
			db:      db,
			name:    entryTable,
			columns: entryColumns,
			orderBy: `"time" DESC, id`,
		},
	}
}

// Create stamps the entry with the current time unless one was given.
func (r *EntryRepository) Create(ctx context.Context, in model.NewEntry) (*model.Entry, error) {
	return r.table.one(ctx, `
		INSERT INTO brainlog_entry (body, log_type, "time")
		VALUES ($1, $2, COALESCE($3, now()))
		RETURNING `+entryColumns,
		in.Body, in.LogType, in.Time,
	)
}

func (r *EntryRepository) Get(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	return r.table.get(ctx, id)
}

func (r *EntryRepository) Update(ctx context.Context, id uuid.UUID, patch model.EntryPatch) (*model.Entry, error) {
	return r.table.one(ctx, `
		UPDATE brainlog_entry
		SET
			body = COALESCE($2, body),
			log_type = COALESCE($3, log_type),
			"time" = COALESCE($4, "time"),
			updated_at = now()
		WHERE id = $1
		RETURNING `+entryColumns,
		id, patch.Body, patch.LogType, patch.Time,
	)
}

func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.table.delete(ctx, id)
}

// List returns newest entries first.
func (r *EntryRepository) List(ctx context.Context, limit, offset int64) (*model.Page[model.Entry], error) {
	total, err := r.table.count(ctx)
	if err != nil {
		return nil, err
	}

	items, err := r.table.list(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return model.NewPage(total, items), nil
}
