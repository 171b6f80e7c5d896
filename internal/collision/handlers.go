// internal/collision/handlers.go

package collision

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/orbitstudy/orbit-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateCollision handles POST /api/v1/collisions
func (h *Handler) CreateCollision(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto CreateCollisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.service.Create(r.Context(), userID, &dto)
	if err != nil {
		respondCollisionError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusCreated, c)
}

// ListCollisions handles GET /api/v1/collisions
func (h *Handler) ListCollisions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	collisions, err := h.service.List(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load collisions")
		return
	}
	if collisions == nil {
		collisions = []*Collision{}
	}

	utils.RespondWithData(w, http.StatusOK, collisions)
}

// GetCollision handles GET /api/v1/collisions/{id}
func (h *Handler) GetCollision(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	collisionID := mux.Vars(r)["id"]

	c, err := h.service.Get(r.Context(), collisionID, userID)
	if err != nil {
		respondCollisionError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, c)
}

// Respond handles POST /api/v1/collisions/{id}/respond
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	collisionID := mux.Vars(r)["id"]

	var dto RespondDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.service.Respond(r.Context(), collisionID, userID, ParticipantStatus(dto.Status))
	if err != nil {
		respondCollisionError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, c)
}

// UpdateStatus handles POST /api/v1/collisions/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	collisionID := mux.Vars(r)["id"]

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateStatus(r.Context(), collisionID, userID, Status(dto.Status)); err != nil {
		respondCollisionError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Status updated")
}

// GetSession handles GET /api/v1/collisions/{id}/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	collisionID := mux.Vars(r)["id"]

	session, err := h.service.SessionFor(r.Context(), collisionID, userID)
	if err != nil {
		respondCollisionError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, session)
}

func respondCollisionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCollisionNotFound), errors.Is(err, ErrSessionNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidParticipant):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrSelfCollision):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCollisionTerminal), errors.Is(err, ErrAlreadyDeclined):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
