package handler

import (
	"github.com/deppfellow/brainlog/internal/model"
	"github.com/deppfellow/brainlog/internal/server"
	"github.com/deppfellow/brainlog/internal/service"
	"github.com/deppfellow/brainlog/internal/validation"
	"github.com/labstack/echo/v4"
)

// createRequest is satisfied by *N when N validates itself.
type createRequest[N any] interface {
	*N
	validation.Validatable
}

// updateRequest carries the target id from the query string and the
// patch from the body.
type updateRequest[P any] interface {
	validation.Validatable
	TargetID() string
	Changes() P
}

// ResourceHandler serves create, get, update, delete and list for one
// resource. T is the record, N the create payload and P the patch;
// NP and UP are the request types bound from HTTP.
type ResourceHandler[T, N any, NP createRequest[N], P any, UP updateRequest[P]] struct {
	Handler
	service *service.ResourceService[T, N, P]
}

func NewResourceHandler[T, N any, NP createRequest[N], P any, UP updateRequest[P]](
	s *server.Server,
	svc *service.ResourceService[T, N, P],
) *ResourceHandler[T, N, NP, P, UP] {
	return &ResourceHandler[T, N, NP, P, UP]{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *ResourceHandler[T, N, NP, P, UP]) Create(c echo.Context, req NP) (*T, error) {
	return h.service.Create(c.Request().Context(), *req)
}

func (h *ResourceHandler[T, N, NP, P, UP]) Get(c echo.Context, req *model.IDRequest) (*T, error) {
	return h.service.Get(c.Request().Context(), req.ID)
}

func (h *ResourceHandler[T, N, NP, P, UP]) Update(c echo.Context, req UP) (*T, error) {
	return h.service.Update(c.Request().Context(), req.TargetID(), req.Changes())
}

func (h *ResourceHandler[T, N, NP, P, UP]) Delete(c echo.Context, req *model.IDRequest) error {
	return h.service.Delete(c.Request().Context(), req.ID)
}

func (h *ResourceHandler[T, N, NP, P, UP]) List(c echo.Context, req *model.ListRequest) (*model.Page[T], error) {
	return h.service.List(c.Request().Context(), req.Limit(), req.Offset())
}
