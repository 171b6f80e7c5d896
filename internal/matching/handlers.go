package matching

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/orbitstudy/orbit-backend/internal/common/utils"
	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	otherID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.service.Compatibility(r.Context(), userID, otherID)
	if err != nil {
		if err == orbit.ErrProfileNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute compatibility")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	candidates, err := h.service.Candidates(r.Context(), userID)
	if err != nil {
		if err == ErrNoLocation {
			// No location yet means no candidates, not a failure.
			utils.RespondWithJSON(w, http.StatusOK, []*orbit.UserProfile{})
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to detect candidates")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, candidates)
}
