// internal/schedule/routes.go

package schedule

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter builds the schedule feature router, mounted under
// /api/v1/schedule by the caller.
func NewRouter(handler *Handler, authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/slots", handler.ListSlots)
		r.Post("/slots", handler.CreateSlot)
		r.Delete("/slots/{id}", handler.DeleteSlot)
		r.Get("/gaps", handler.GetGaps)
		r.Get("/gaps/current", handler.GetCurrentGap)
	})

	return r
}
