// internal/collision/routes.go

package collision

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the collision endpoints under /api/v1/collisions.
func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, authenticate func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1/collisions").Subrouter()
	api.Use(authenticate)

	api.HandleFunc("", handler.CreateCollision).Methods("POST")
	api.HandleFunc("", handler.ListCollisions).Methods("GET")
	api.HandleFunc("/ws", hub.ServeWS).Methods("GET")
	api.HandleFunc("/{id}", handler.GetCollision).Methods("GET")
	api.HandleFunc("/{id}/respond", handler.Respond).Methods("POST")
	api.HandleFunc("/{id}/status", handler.UpdateStatus).Methods("POST")
	api.HandleFunc("/{id}/session", handler.GetSession).Methods("GET")
}
