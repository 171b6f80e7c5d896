// internal/heatmap/handlers.go

package heatmap

import (
	"net/http"

	"github.com/orbitstudy/orbit-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetZones handles GET /api/v1/heatmap/zones
func (h *Handler) GetZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.service.Zones(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute heat zones")
		return
	}
	if zones == nil {
		zones = []HeatZone{}
	}

	utils.RespondWithData(w, http.StatusOK, zones)
}
