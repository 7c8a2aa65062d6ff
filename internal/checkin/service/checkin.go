package service

import (
	"context"
	"errors"
	"time"

	"coachbooking/internal/checkin"
	"coachbooking/internal/metrics"
	reservationserrors "coachbooking/internal/reservations/errors"
	"coachbooking/pkg/config"
	apperrors "coachbooking/pkg/errors"
	"coachbooking/pkg/events"
	"coachbooking/pkg/model"
)

const (
	outcomeCheckedIn = "checked_in"
	outcomeRepeated  = "already_checked_in"
)

// ReservationStore is the part of the reservation repository check-in needs.
type ReservationStore interface {
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	MarkCheckedIn(ctx context.Context, id string, at time.Time) error
}

type CheckinService interface {
	Checkin(ctx context.Context, token, userID string, now time.Time) (*model.Reservation, error)
	Token(ctx context.Context, reservationID, userID string) (*model.CheckinToken, error)
}

type checkinService struct {
	store     ReservationStore
	codec     checkin.Codec
	publisher events.Publisher
	cfg       *config.Config
}

func NewCheckinService(store ReservationStore, publisher events.Publisher, cfg *config.Config) CheckinService {
	return &checkinService{
		store:     store,
		codec:     checkin.NewCodec(cfg.CheckinScheme, cfg.CheckinAction),
		publisher: publisher,
		cfg:       cfg,
	}
}

// Checkin validates the scanned token for userID at now and moves a confirmed
// reservation to checkedIn. Scanning an already checked-in reservation inside
// its window succeeds without writing.
func (s *checkinService) Checkin(ctx context.Context, token, userID string, now time.Time) (*model.Reservation, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("User ID cannot be empty")
	}

	id, err := s.codec.ParseToken(token)
	if err != nil {
		return nil, s.reject(err)
	}

	reservation, err := s.find(ctx, id)
	if err != nil {
		return nil, s.reject(err)
	}

	if _, err := checkin.Validate(reservation, userID, now, s.cfg.Location); err != nil {
		return nil, s.reject(err)
	}

	if reservation.Status == model.ReservationCheckedIn {
		metrics.RecordCheckin(outcomeRepeated)
		s.cfg.Log.Info("Reservation already checked in", "reservation_id", id, "user_id", userID)
		return reservation, nil
	}

	if err := s.store.MarkCheckedIn(ctx, id, now); err != nil {
		if !errors.Is(err, reservationserrors.ErrStatusChanged) {
			return nil, s.reject(s.storeError(err, id, "check in reservation"))
		}
		// Another scan may have landed first.
		latest, findErr := s.find(ctx, id)
		if findErr != nil {
			return nil, s.reject(findErr)
		}
		if latest.Status != model.ReservationCheckedIn {
			return nil, s.reject(&checkin.Error{Reason: checkin.ReasonWrongStatus, ReservationID: id, Status: latest.Status})
		}
		metrics.RecordCheckin(outcomeRepeated)
		return latest, nil
	}

	at := now
	reservation.Status = model.ReservationCheckedIn
	reservation.CheckedInAt = &at

	metrics.RecordCheckin(outcomeCheckedIn)
	metrics.RecordTransition("checkin", metrics.ResultSuccess)
	s.publisher.Publish(ctx, events.Event{
		Type:          events.ReservationCheckedIn,
		ReservationID: reservation.ID,
		SlotID:        reservation.SlotID,
		TrainerID:     reservation.TrainerID,
		UserID:        reservation.UserID,
		Date:          reservation.Date,
		Status:        string(reservation.Status),
		OccurredAt:    now,
	})
	s.cfg.Log.Info("Reservation checked in",
		"reservation_id", id,
		"user_id", userID,
		"date", reservation.Date,
		"start", reservation.Start,
	)
	return reservation, nil
}

// Token returns the check-in token the client displays for scanning.
func (s *checkinService) Token(ctx context.Context, reservationID, userID string) (*model.CheckinToken, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("User ID cannot be empty")
	}

	reservation, err := s.find(ctx, reservationID)
	if err != nil {
		var cErr *checkin.Error
		if errors.As(err, &cErr) {
			return nil, cErr.AppError()
		}
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, apperrors.Forbidden("Reservation belongs to another user")
	}
	if reservation.Status != model.ReservationConfirmed && reservation.Status != model.ReservationCheckedIn {
		return nil, apperrors.WrongStatus(string(reservation.Status))
	}

	return &model.CheckinToken{
		ReservationID: reservation.ID,
		Token:         s.codec.BuildToken(reservation.ID),
	}, nil
}

// find reports a missing reservation as a NotFound check-in error. Ids that
// are not valid ObjectIDs cannot exist, so they are reported the same way.
func (s *checkinService) find(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) || errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, &checkin.Error{Reason: checkin.ReasonNotFound, ReservationID: id, Err: err}
		}
		return nil, s.storeError(err, id, "find reservation")
	}
	return reservation, nil
}

func (s *checkinService) storeError(err error, id, operation string) error {
	if errors.Is(err, reservationserrors.ErrNotFound) {
		return &checkin.Error{Reason: checkin.ReasonNotFound, ReservationID: id, Err: err}
	}
	s.cfg.Log.Error("Check-in store operation failed", "operation", operation, "reservation_id", id, "error", err)
	return apperrors.Storage(operation, err)
}

func (s *checkinService) reject(err error) error {
	var cErr *checkin.Error
	if !errors.As(err, &cErr) {
		metrics.RecordCheckin(metrics.ResultError)
		return err
	}

	metrics.RecordCheckin(string(cErr.Reason))
	metrics.RecordTransition("checkin", metrics.ResultRejected)
	s.cfg.Log.Warn("Check-in rejected",
		"reason", cErr.Reason,
		"reservation_id", cErr.ReservationID,
		"error", cErr,
	)
	return cErr.AppError()
}
