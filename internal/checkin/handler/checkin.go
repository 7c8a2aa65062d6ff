package handler

import (
	"net/http"

	"coachbooking/internal/checkin/service"
	"coachbooking/pkg/clock"
	apperrors "coachbooking/pkg/errors"
	httputil "coachbooking/pkg/http"
	"coachbooking/pkg/logger"
	"coachbooking/pkg/model"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
)

type CheckinHandler struct {
	service  service.CheckinService
	clock    clock.Clock
	validate *validator.Validate
	log      *logger.Logger
}

func NewCheckinHandler(service service.CheckinService, clk clock.Clock, log *logger.Logger) *CheckinHandler {
	return &CheckinHandler{
		service:  service,
		clock:    clk,
		validate: validator.New(),
		log:      log,
	}
}

func (h *CheckinHandler) Checkin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Read the clock first: the scan happened when the request arrived.
	now := h.clock.Now()

	userID, err := httputil.ActorID(r)
	if err != nil {
		h.writeError(w, "Checkin", err)
		return
	}

	var req model.CheckinRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Checkin", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.writeError(w, "Checkin", apperrors.MalformedToken("check-in token is missing or too long"))
		return
	}

	reservation, err := h.service.Checkin(r.Context(), req.Token, userID, now)
	if err != nil {
		h.writeError(w, "Checkin", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Checkin", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CheckinHandler) Token(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := httputil.ActorID(r)
	if err != nil {
		h.writeError(w, "Token", err)
		return
	}

	token, err := h.service.Token(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, "Token", err)
		return
	}

	if err := httputil.WriteSuccess(w, token); err != nil {
		h.log.Error("failed to write success response", "handler", "Token", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CheckinHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *CheckinHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/checkins", h.Checkin)
	router.GET("/api/v1/reservations/:id/checkin-token", h.Token)
}
