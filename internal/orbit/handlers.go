// internal/orbit/handlers.go

package orbit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orbitstudy/orbit-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if err == ErrProfileNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), targetID)
	if err != nil {
		if err == ErrProfileNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto SetStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.SetOrbitStatus(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto UpdateLocationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateLocation(r.Context(), userID, &dto); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update location")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Location updated")
}

func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	info, err := h.service.LevelFor(r.Context(), targetID)
	if err != nil {
		if err == ErrProfileNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute level")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, info)
}
