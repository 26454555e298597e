package model

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single brainlog note. LogType references an EntryType.
type Entry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Body      string    `json:"body" db:"body"`
	LogType   uuid.UUID `json:"log_type" db:"log_type"`
	Time      time.Time `json:"time" db:"time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewEntry creates an entry. Time defaults to now when omitted.
type NewEntry struct {
	Body    string     `json:"body" validate:"required"`
	LogType uuid.UUID  `json:"log_type" validate:"required"`
	Time    *time.Time `json:"time,omitempty"`
}

func (n *NewEntry) Validate() error {
	return validate.Struct(n)
}

type EntryPatch struct {
	Body    *string    `json:"body,omitempty" validate:"omitempty,min=1"`
	LogType *uuid.UUID `json:"log_type,omitempty"`
	Time    *time.Time `json:"time,omitempty"`
}

type UpdateEntryRequest struct {
	ID string `query:"id" json:"-" validate:"required"`
	EntryPatch
}

func (r *UpdateEntryRequest) Validate() error {
	return validate.Struct(r)
}

func (r *UpdateEntryRequest) TargetID() string {
	return r.ID
}

func (r *UpdateEntryRequest) Changes() EntryPatch {
	return r.EntryPatch
}
