package repository

import (
	"context"

	"github.com/deppfellow/brainlog/internal/model"
	"github.com/google/uuid"
)

const (
	entryTypeTable   = "brainlog_entry_type"
	entryTypeColumns = "id, name, description, created_at, updated_at"
)

type EntryTypeRepository struct {
	table table[model.EntryType]
}

func NewEntryTypeRepository(db DBTX) *EntryTypeRepository {
	return &EntryTypeRepository{
		table: table[model.EntryType]{
			db:      db,
			name:    entryTypeTable,
			columns: entryTypeColumns,
			orderBy: "created_at, id",
		},
	}
}

func (r *EntryTypeRepository) Create(ctx context.Context, in model.NewEntryType) (*model.EntryType, error) {
	return r.table.one(ctx, `
		INSERT INTO brainlog_entry_type (name, description)
		VALUES ($1, $2)
		RETURNING `+entryTypeColumns,
		in.Name, in.Description,
	)
}

func (r *EntryTypeRepository) Get(ctx context.Context, id uuid.UUID) (*model.EntryType, error) {
	return r.table.get(ctx, id)
}

// Update leaves columns whose patch field is nil untouched.
func (r *EntryTypeRepository) Update(ctx context.Context, id uuid.UUID, patch model.EntryTypePatch) (*model.EntryType, error) {
	return r.table.one(ctx, `
		UPDATE brainlog_entry_type
		SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at = now()
		WHERE id = $1
		RETURNING `+entryTypeColumns,
		id, patch.Name, patch.Description,
	)
}

func (r *EntryTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.table.delete(ctx, id)
}

func (r *EntryTypeRepository) List(ctx context.Context, limit, offset int64) (*model.Page[model.EntryType], error) {
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
