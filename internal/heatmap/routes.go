// internal/heatmap/routes.go

package heatmap

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the heatmap endpoints under /api/v1/heatmap.
func RegisterRoutes(router *mux.Router, handler *Handler, authenticate func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1/heatmap").Subrouter()
	api.Use(authenticate)

	api.HandleFunc("/zones", handler.GetZones).Methods("GET")
}
