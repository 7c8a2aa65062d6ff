package handler

import (
	"net/http"

	"coachbooking/internal/gyms/service"
	httputil "coachbooking/pkg/http"
	"coachbooking/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type GymHandler struct {
	service service.GymService
	log     *logger.Logger
}

func NewGymHandler(service service.GymService, log *logger.Logger) *GymHandler {
	return &GymHandler{
		service: service,
		log:     log,
	}
}

func (h *GymHandler) ListGyms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	gyms, err := h.service.ListGyms(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListGyms", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, gyms); err != nil {
		h.log.Error("failed to write success response", "handler", "ListGyms", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GymHandler) ListTrainers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trainers, err := h.service.ListTrainers(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListTrainers", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, trainers); err != nil {
		h.log.Error("failed to write success response", "handler", "ListTrainers", "operation", "WriteSuccess", "error", err)
	}
}

// Me returns the trainer profile of the calling user.
func (h *GymHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := httputil.ActorID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Me", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	trainer, err := h.service.TrainerByUser(r.Context(), userID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Me", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, trainer); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GymHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/gyms", h.ListGyms)
	router.GET("/api/v1/gyms/:id/trainers", h.ListTrainers)
	router.GET("/api/v1/me/trainer", h.Me)
}
