// internal/schedule/handlers.go

package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/orbitstudy/orbit-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto CreateSlotDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, err := parseMinutes(dto.StartTime)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid start time")
		return
	}
	end, err := parseMinutes(dto.EndTime)
	if err != nil || end <= start {
		utils.RespondWithError(w, http.StatusBadRequest, "End time must be after start time")
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create time slot")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, slot)
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	slots, err := h.service.ListSlots(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load time slots")
		return
	}
	if slots == nil {
		slots = []TimeSlot{}
	}

	utils.RespondWithData(w, http.StatusOK, slots)
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	slotID := chi.URLParam(r, "id")

	if err := h.service.DeleteSlot(r.Context(), userID, slotID); err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete time slot")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Time slot deleted")
}

func (h *Handler) GetGaps(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	gaps, err := h.service.Gaps(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to detect gaps")
		return
	}
	if gaps == nil {
		gaps = []DetectedGap{}
	}

	utils.RespondWithData(w, http.StatusOK, gaps)
}

func (h *Handler) GetCurrentGap(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	gap, err := h.service.CurrentGap(r.Context(), userID, time.Now())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to detect current gap")
		return
	}
	if gap == nil {
		utils.RespondWithData(w, http.StatusOK, nil)
		return
	}

	utils.RespondWithData(w, http.StatusOK, gap)
}
