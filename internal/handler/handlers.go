package handler

import (
	"github.com/deppfellow/brainlog/internal/model"
	"github.com/deppfellow/brainlog/internal/server"
	"github.com/deppfellow/brainlog/internal/service"
)

type (
	EntryTypeHandler = ResourceHandler[model.EntryType, model.NewEntryType, *model.NewEntryType, model.EntryTypePatch, *model.UpdateEntryTypeRequest]
	EntryHandler     = ResourceHandler[model.Entry, model.NewEntry, *model.NewEntry, model.EntryPatch, *model.UpdateEntryRequest]
)

type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	EntryType *EntryTypeHandler
	Entry     *EntryHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		EntryType: NewResourceHandler[model.EntryType, model.NewEntryType, *model.NewEntryType,
			model.EntryTypePatch, *model.UpdateEntryTypeRequest](s, services.EntryType),
		Entry: NewResourceHandler[model.Entry, model.NewEntry, *model.NewEntry,
			model.EntryPatch, *model.UpdateEntryRequest](s, services.Entry),
	}
}
