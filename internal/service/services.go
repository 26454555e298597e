package service

import (
	"github.com/deppfellow/brainlog/internal/model"
	"github.com/deppfellow/brainlog/internal/repository"
)

type (
	EntryTypeService = ResourceService[model.EntryType, model.NewEntryType, model.EntryTypePatch]
	EntryService     = ResourceService[model.Entry, model.NewEntry, model.EntryPatch]
)

type Services struct {
	EntryType *EntryTypeService
	Entry     *EntryService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		EntryType: NewResourceService[model.EntryType, model.NewEntryType, model.EntryTypePatch](repos.EntryType, "entry type"),
		Entry:     NewResourceService[model.Entry, model.NewEntry, model.EntryPatch](repos.Entry, "entry"),
	}
}
