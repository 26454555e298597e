package model

import (
	"time"

	"github.com/google/uuid"
)

// EntryType is a user-defined category entries are filed under.
type EntryType struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type NewEntryType struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (n *NewEntryType) Validate() error {
	return validate.Struct(n)
}

// EntryTypePatch only changes the fields that are set.
type EntryTypePatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdateEntryTypeRequest struct {
	ID string `query:"id" json:"-" validate:"required"`
	EntryTypePatch
}

func (r *UpdateEntryTypeRequest) Validate() error {
	return validate.Struct(r)
}

func (r *UpdateEntryTypeRequest) TargetID() string {
	return r.ID
}

func (r *UpdateEntryTypeRequest) Changes() EntryTypePatch {
	return r.EntryTypePatch
}
