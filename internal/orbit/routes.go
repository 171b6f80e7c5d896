// internal/orbit/routes.go

package orbit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter builds the orbit feature router. It is mounted into the
// main mux router under /api/v1/orbit.
func NewRouter(handler *Handler, authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/profile", handler.GetMyProfile)
		r.Put("/profile", handler.UpdateProfile)
		r.Post("/status", handler.SetStatus)
		r.Post("/location", handler.UpdateLocation)

		r.Get("/users/{id}/profile", handler.GetUserProfile)
		r.Get("/users/{id}/level", handler.GetLevel)
	})

	return r
}
