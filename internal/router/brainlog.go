package router

import (
	"net/http"

	"github.com/deppfellow/brainlog/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerBrainlogRoutes mounts both resources. Reads and deletes take
// the id from the query string; updates pair it with a JSON patch body.
func registerBrainlogRoutes(r *echo.Group, h *handler.Handlers) {
	types := r.Group("/brainlog/type")
	types.POST("/create", handler.Handle(h.EntryType.Create, http.StatusCreated))
	types.GET("/get", handler.Handle(h.EntryType.Get, http.StatusOK))
	types.POST("/update", handler.Handle(h.EntryType.Update, http.StatusOK))
	types.GET("/delete", handler.HandleNoContent(h.EntryType.Delete, http.StatusNoContent))
	types.GET("/list", handler.Handle(h.EntryType.List, http.StatusOK))

	entries := r.Group("/brainlog")
	entries.POST("/create", handler.Handle(h.Entry.Create, http.StatusCreated))
	entries.GET("/get", handler.Handle(h.Entry.Get, http.StatusOK))
	entries.POST("/update", handler.Handle(h.Entry.Update, http.StatusOK))
	entries.GET("/delete", handler.HandleNoContent(h.Entry.Delete, http.StatusNoContent))
	entries.GET("/list", handler.Handle(h.Entry.List, http.StatusOK))
}
