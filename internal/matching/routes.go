package matching

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authenticate func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authenticate)

	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")
	api.HandleFunc("/candidates", handler.GetCandidates).Methods("GET")
}
