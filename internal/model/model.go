// Package model holds the brainlog resources and the request payloads the
// HTTP layer binds into.
package model

import (
	"fmt"
	"math"

	"github.com/deppfellow/brainlog/internal/validation"
)

// DefaultPageSize applies when a list request omits pagesize or sends 0.
const DefaultPageSize = 20

var validate = validation.New()

// Page is one slice of a listing. Items is never nil so it always encodes
// as a JSON array.
type Page[T any] struct {
	TotalItems int64 `json:"total_items"`
	Items      []T   `json:"items"`
}

func NewPage[T any](total int64, items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{TotalItems: total, Items: items}
}

// ItemCount is the number of items on this page.
func (p *Page[T]) ItemCount() int {
	return len(p.Items)
}

// IDRequest selects a single record by the "id" query parameter. The
// value is parsed by the service layer, which rejects malformed ids.
type IDRequest struct {
	ID string `query:"id" validate:"required"`
}

func (r *IDRequest) Validate() error {
	return validate.Struct(r)
}

func (r *IDRequest) TargetID() string {
	return r.ID
}

// ListRequest carries zero-based pagination from the query string.
type ListRequest struct {
	Page     int64 `query:"page" validate:"min=0"`
	PageSize int64 `query:"pagesize" validate:"min=0"`
}

// Validate also rejects pages whose offset would not fit in an int64.
func (r *ListRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}

	if maxPage := math.MaxInt64 / r.Limit(); r.Page > maxPage {
		return validation.CustomValidationErrors{{
			Field:   "page",
			Message: fmt.Sprintf("must not exceed %d for a page size of %d", maxPage, r.Limit()),
		}}
	}

	return nil
}

// Limit is the page size with the default applied.
func (r *ListRequest) Limit() int64 {
	if r.PageSize == 0 {
		return DefaultPageSize
	}
	return r.PageSize
}

func (r *ListRequest) Offset() int64 {
	return r.Page * r.Limit()
}
