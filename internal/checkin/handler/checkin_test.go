package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coachbooking/internal/checkin"
	"coachbooking/pkg/clock"
	httputil "coachbooking/pkg/http"
	"coachbooking/pkg/logger"
	"coachbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

type mockCheckinService struct {
	gotNow   time.Time
	gotToken string
	err      error
}

func (m *mockCheckinService) Checkin(ctx context.Context, token, userID string, now time.Time) (*model.Reservation, error) {
	m.gotNow = now
	m.gotToken = token
	if m.err != nil {
		return nil, m.err
	}
	return &model.Reservation{ID: "665f1a2b3c4d5e6f70819205", Status: model.ReservationCheckedIn}, nil
}

func (m *mockCheckinService) Token(ctx context.Context, reservationID, userID string) (*model.CheckinToken, error) {
	return &model.CheckinToken{ReservationID: reservationID, Token: "coachbooking:checkin?reservationId=" + reservationID}, nil
}

func serve(svc *mockCheckinService, clk clock.Clock, req *http.Request) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewCheckinHandler(svc, clk, logger.Discard()).RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckin_UsesClock(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := &mockCheckinService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins",
		strings.NewReader(`{"token":"coachbooking:checkin?reservationId=abc123"}`))
	req.Header.Set(httputil.HeaderUserID, "client-user")
	rec := serve(svc, clock.NewMockClock(now), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, now.Equal(svc.gotNow))
	assert.Equal(t, "coachbooking:checkin?reservationId=abc123", svc.gotToken)
}

func TestCheckin_EmptyToken(t *testing.T) {
	svc := &mockCheckinService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins", strings.NewReader(`{"token":""}`))
	req.Header.Set(httputil.HeaderUserID, "client-user")
	rec := serve(svc, clock.RealClock{}, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.gotToken)
}

func TestCheckin_TooEarly(t *testing.T) {
	svc := &mockCheckinService{
		err: (&checkin.Error{Reason: checkin.ReasonTooEarly}).AppError(),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins",
		strings.NewReader(`{"token":"coachbooking:checkin?reservationId=abc123"}`))
	req.Header.Set(httputil.HeaderUserID, "client-user")
	rec := serve(svc, clock.RealClock{}, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"too_early"`)
}

func TestToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/abc123/checkin-token", nil)
	req.Header.Set(httputil.HeaderUserID, "client-user")
	rec := serve(&mockCheckinService{}, clock.RealClock{}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"reservation_id":"abc123","token":"coachbooking:checkin?reservationId=abc123"}}`, rec.Body.String())
}
