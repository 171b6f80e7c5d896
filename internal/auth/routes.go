// internal/auth/routes.go

package auth

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the auth endpoints under /api/v1/auth.
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *Middleware) {
	api := router.PathPrefix("/api/v1/auth").Subrouter()

	api.HandleFunc("/register", handler.Register).Methods("POST")
	api.HandleFunc("/login", handler.Login).Methods("POST")
	api.HandleFunc("/refresh", handler.Refresh).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate)
	protected.HandleFunc("/me", handler.Me).Methods("GET")
}
