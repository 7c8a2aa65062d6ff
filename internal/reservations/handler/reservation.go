package handler

import (
	"context"
	"net/http"

	"coachbooking/internal/reservations/service"
	httputil "coachbooking/pkg/http"
	"coachbooking/pkg/logger"
	"coachbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := httputil.ActorID(r)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	var req model.BookRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Book", err)
		return
	}

	reservation, err := h.service.Book(r.Context(), req.SlotID, userID)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := httputil.ActorID(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

type transitionFunc func(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error)

// transition adapts one of Confirm, Reject or Cancel to a route.
func (h *ReservationHandler) transition(name string, fn transitionFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		userID, err := httputil.ActorID(r)
		if err != nil {
			h.writeError(w, name, err)
			return
		}

		reservation, err := fn(r.Context(), ps.ByName("id"), userID)
		if err != nil {
			h.writeError(w, name, err)
			return
		}

		if err := httputil.WriteSuccess(w, reservation); err != nil {
			h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
		}
	}
}

type listFunc func(ctx context.Context, userID string) ([]*model.Reservation, error)

func (h *ReservationHandler) list(name string, fn listFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID, err := httputil.ActorID(r)
		if err != nil {
			h.writeError(w, name, err)
			return
		}

		reservations, err := fn(r.Context(), userID)
		if err != nil {
			h.writeError(w, name, err)
			return
		}

		if err := httputil.WriteSuccess(w, reservations); err != nil {
			h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
		}
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Book)
	router.GET("/api/v1/reservations/:id", h.GetByID)
	router.POST("/api/v1/reservations/:id/confirm", h.transition("Confirm", h.service.Confirm))
	router.POST("/api/v1/reservations/:id/reject", h.transition("Reject", h.service.Reject))
	router.POST("/api/v1/reservations/:id/cancel", h.transition("Cancel", h.service.Cancel))
	router.GET("/api/v1/me/reservations", h.list("ListMine", h.service.ListForUser))
	router.GET("/api/v1/me/requests", h.list("ListRequests", h.service.ListTrainerRequests))
	router.GET("/api/v1/me/schedule", h.list("ListSchedule", h.service.ListTrainerConfirmed))
}
