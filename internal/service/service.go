// Package service holds the business rules between handlers and
// repositories: id parsing, delete conflicts and error shaping.
package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/brainlog/internal/errs"
	"github.com/deppfellow/brainlog/internal/model"
	"github.com/deppfellow/brainlog/internal/sqlerr"
	"github.com/google/uuid"
)

const invalidIDCode = "INVALID_ID"

// Store is the persistence contract for one resource. T is the stored
// record, N the creation payload and P the partial update.
type Store[T, N, P any] interface {
	Create(ctx context.Context, in N) (*T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Update(ctx context.Context, id uuid.UUID, patch P) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int64) (*model.Page[T], error)
}

// ResourceService implements the five brainlog operations for any Store.
type ResourceService[T, N, P any] struct {
	store    Store[T, N, P]
	resource string
}

func NewResourceService[T, N, P any](store Store[T, N, P], resource string) *ResourceService[T, N, P] {
	return &ResourceService[T, N, P]{store: store, resource: resource}
}

func (s *ResourceService[T, N, P]) parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		code := invalidIDCode
		return uuid.Nil, errs.NewBadRequestError(
			fmt.Sprintf("%q is not a valid %s id", raw, s.resource), true, &code,
			[]errs.FieldError{{Field: "id", Error: "must be a valid UUID"}}, nil,
		)
	}
	return id, nil
}

func (s *ResourceService[T, N, P]) Create(ctx context.Context, in N) (*T, error) {
	return s.store.Create(ctx, in)
}

func (s *ResourceService[T, N, P]) Get(ctx context.Context, rawID string) (*T, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

func (s *ResourceService[T, N, P]) Update(ctx context.Context, rawID string, patch P) (*T, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, patch)
}

// Delete refuses with 409 while other records still reference the target.
func (s *ResourceService[T, N, P]) Delete(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	err = s.store.Delete(ctx, id)
	if err != nil && sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
		return errs.NewConflictError(
			fmt.Sprintf("The %s is still referenced and cannot be deleted", s.resource), true, nil,
		)
	}
	return err
}

func (s *ResourceService[T, N, P]) List(ctx context.Context, limit, offset int64) (*model.Page[T], error) {
	return s.store.List(ctx, limit, offset)
}
