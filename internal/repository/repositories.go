// Package repository holds the SQL for each brainlog table.
//
// Repositories take a DBTX rather than a concrete pool so they can run
// against a pgxpool.Pool, a transaction or a pgxmock pool in tests.
package repository

import (
	"github.com/deppfellow/brainlog/internal/server"
)

type Repositories struct {
	EntryType *EntryTypeRepository
	Entry     *EntryRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		EntryType: NewEntryTypeRepository(s.DB.Pool),
		Entry:     NewEntryRepository(s.DB.Pool),
	}
}
