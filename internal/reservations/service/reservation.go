package service

import (
	"context"
	"errors"

	"coachbooking/internal/metrics"
	reservationserrors "coachbooking/internal/reservations/errors"
	"coachbooking/internal/reservations/repository"
	"coachbooking/internal/reservations/validator"
	slotserrors "coachbooking/internal/slots/errors"
	"coachbooking/pkg/clock"
	"coachbooking/pkg/config"
	apperrors "coachbooking/pkg/errors"
	"coachbooking/pkg/events"
	"coachbooking/pkg/model"
	"coachbooking/pkg/timeofday"
)

// SlotStore is the part of the time slot repository the lifecycle drives.
type SlotStore interface {
	FindByID(ctx context.Context, id string) (*model.TimeSlot, error)
	MarkBooked(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
}

// TrainerResolver maps an authenticated user to their trainer profile.
type TrainerResolver interface {
	TrainerByUser(ctx context.Context, userID string) (*model.Trainer, error)
}

// TrainerDirectory looks trainers up by id.
type TrainerDirectory interface {
	FindByID(ctx context.Context, id string) (*model.Trainer, error)
}

type ReservationService interface {
	Book(ctx context.Context, slotID, userID string) (*model.Reservation, error)
	Confirm(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error)
	Reject(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error)
	Cancel(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error)
	GetByID(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Reservation, error)
	ListTrainerRequests(ctx context.Context, actorUserID string) ([]*model.Reservation, error)
	ListTrainerConfirmed(ctx context.Context, actorUserID string) ([]*model.Reservation, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	slots     SlotStore
	trainers  TrainerResolver
	directory TrainerDirectory
	validator *validator.ReservationValidator
	clock     clock.Clock
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	slots SlotStore,
	trainers TrainerResolver,
	directory TrainerDirectory,
	validator *validator.ReservationValidator,
	clk clock.Clock,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		slots:     slots,
		trainers:  trainers,
		directory: directory,
		validator: validator,
		clock:     clk,
		publisher: publisher,
		cfg:       cfg,
	}
}

// transition describes one trainer or client move out of pending.
type transition struct {
	action       string
	to           model.ReservationStatus
	event        events.Type
	releasesSlot bool
}

var (
	confirmTransition = transition{action: "confirm", to: model.ReservationConfirmed, event: events.ReservationConfirmed}
	rejectTransition  = transition{action: "reject", to: model.ReservationRejected, event: events.ReservationRejected, releasesSlot: true}
	cancelTransition  = transition{action: "cancel", to: model.ReservationCancelled, event: events.ReservationCancelled, releasesSlot: true}
)

// Book marks the slot booked and creates a pending reservation for userID in
// one transaction. The reservation copies date, start and end from the slot.
func (s *reservationService) Book(ctx context.Context, slotID, userID string) (*model.Reservation, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("User ID cannot be empty")
	}
	if err := s.validator.ValidateBook(&model.BookRequest{SlotID: slotID}); err != nil {
		return nil, s.validationError("Invalid booking request", err)
	}

	var reservation *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		slot, err := s.slots.FindByID(txCtx, slotID)
		if err != nil {
			return s.translateSlotError(err, slotID)
		}
		if !slot.Status.CanTransitionTo(model.SlotBooked) {
			return apperrors.InvalidTransition("time slot", "book", string(slot.Status))
		}
		// A free slot dated before today is expired even if no sweep has run yet.
		if slot.Date < timeofday.Today(s.clock.Now(), s.cfg.Location) {
			return apperrors.InvalidTransition("time slot", "book", string(model.SlotExpired))
		}

		if err := s.slots.MarkBooked(txCtx, slotID); err != nil {
			if errors.Is(err, slotserrors.ErrStatusChanged) {
				return apperrors.InvalidTransition("time slot", "book", s.currentSlotStatus(txCtx, slotID))
			}
			return s.translateSlotError(err, slotID)
		}

		draft := &model.Reservation{
			UserID:    userID,
			TrainerID: slot.TrainerID,
			GymID:     s.gymOf(txCtx, slot.TrainerID),
			SlotID:    slot.ID,
			Date:      slot.Date,
			Start:     slot.Start,
			End:       slot.End,
			Status:    model.ReservationPending,
			CreatedAt: s.clock.Now().UTC(),
		}
		if err := s.validator.ValidateDraft(draft); err != nil {
			return s.validationError("Slot cannot be booked", err)
		}

		if err := s.repo.Create(txCtx, draft); err != nil {
			if errors.Is(err, reservationserrors.ErrSlotTaken) {
				return apperrors.InvalidTransition("time slot", "book", string(model.SlotBooked))
			}
			return err
		}
		reservation = draft
		return nil
	})
	if err != nil {
		return nil, s.finish("book", slotID, err)
	}

	metrics.RecordTransition("book", metrics.ResultSuccess)
	s.publish(ctx, events.ReservationBooked, reservation)
	s.cfg.Log.Info("Reservation booked",
		"reservation_id", reservation.ID,
		"slot_id", slotID,
		"user_id", userID,
		"trainer_id", reservation.TrainerID,
		"date", reservation.Date,
		"start", reservation.Start,
	)
	return reservation, nil
}

// gymOf returns the trainer's gym, or "" when it cannot be resolved. The gym
// is optional on a reservation.
func (s *reservationService) gymOf(ctx context.Context, trainerID string) string {
	trainer, err := s.directory.FindByID(ctx, trainerID)
	if err != nil {
		s.cfg.Log.Warn("Trainer lookup for reservation failed", "trainer_id", trainerID, "error", err)
		return ""
	}
	return trainer.GymID
}

func (s *reservationService) currentSlotStatus(ctx context.Context, slotID string) string {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return "unknown"
	}
	return string(slot.Status)
}

func (s *reservationService) Confirm(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error) {
	reservation, err := s.trainerReservation(ctx, reservationID, actorUserID)
	if err != nil {
		return nil, s.finish(confirmTransition.action, reservationID, err)
	}
	return s.apply(ctx, reservation, confirmTransition)
}

func (s *reservationService) Reject(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error) {
	reservation, err := s.trainerReservation(ctx, reservationID, actorUserID)
	if err != nil {
		return nil, s.finish(rejectTransition.action, reservationID, err)
	}
	return s.apply(ctx, reservation, rejectTransition)
}

// Cancel is client-only and valid only while the reservation is pending.
func (s *reservationService) Cancel(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error) {
	if actorUserID == "" {
		return nil, apperrors.Unauthorized("User ID cannot be empty")
	}

	reservation, err := s.find(ctx, reservationID)
	if err != nil {
		return nil, s.finish(cancelTransition.action, reservationID, err)
	}
	if reservation.UserID != actorUserID {
		return nil, s.finish(cancelTransition.action, reservationID,
			apperrors.Forbidden("Only the client who booked can cancel this reservation"))
	}
	return s.apply(ctx, reservation, cancelTransition)
}

func (s *reservationService) trainerReservation(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error) {
	trainer, err := s.trainers.TrainerByUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	reservation, err := s.find(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.TrainerID != trainer.ID {
		return nil, apperrors.Forbidden("Reservation belongs to another trainer")
	}
	return reservation, nil
}

// apply performs t on reservation. The status write is conditional on the
// status read earlier, and slot release joins it in one transaction.
func (s *reservationService) apply(ctx context.Context, reservation *model.Reservation, t transition) (*model.Reservation, error) {
	if !reservation.Status.CanTransitionTo(t.to) {
		return nil, s.finish(t.action, reservation.ID,
			apperrors.InvalidTransition("reservation", t.action, string(reservation.Status)))
	}

	write := func(ctx context.Context) error {
		if err := s.repo.UpdateStatus(ctx, reservation.ID, reservation.Status, t.to); err != nil {
			if errors.Is(err, reservationserrors.ErrStatusChanged) {
				return apperrors.InvalidTransition("reservation", t.action, s.currentStatus(ctx, reservation.ID))
			}
			return err
		}
		if t.releasesSlot {
			return s.releaseSlot(ctx, reservation)
		}
		return nil
	}

	var err error
	if t.releasesSlot {
		err = s.repo.ExecuteTransaction(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return nil, s.finish(t.action, reservation.ID, err)
	}

	reservation.Status = t.to
	metrics.RecordTransition(t.action, metrics.ResultSuccess)
	s.publish(ctx, t.event, reservation)
	s.cfg.Log.Info("Reservation status changed",
		"reservation_id", reservation.ID,
		"action", t.action,
		"status", t.to,
		"slot_id", reservation.SlotID,
	)
	return reservation, nil
}

// releaseSlot frees the reservation's slot. A slot that was deleted or is no
// longer booked is left as it is.
func (s *reservationService) releaseSlot(ctx context.Context, reservation *model.Reservation) error {
	err := s.slots.Release(ctx, reservation.SlotID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, slotserrors.ErrNotFound), errors.Is(err, slotserrors.ErrInvalidID):
		s.cfg.Log.Warn("Reservation slot no longer exists", "reservation_id", reservation.ID, "slot_id", reservation.SlotID)
		return nil
	case errors.Is(err, slotserrors.ErrStatusChanged):
		s.cfg.Log.Warn("Reservation slot was not booked", "reservation_id", reservation.ID, "slot_id", reservation.SlotID)
		return nil
	}
	return err
}

func (s *reservationService) currentStatus(ctx context.Context, id string) string {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "unknown"
	}
	return string(reservation.Status)
}

// GetByID returns the reservation to its client or its trainer.
func (s *reservationService) GetByID(ctx context.Context, reservationID, actorUserID string) (*model.Reservation, error) {
	if actorUserID == "" {
		return nil, apperrors.Unauthorized("User ID cannot be empty")
	}

	reservation, err := s.find(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID == actorUserID {
		return reservation, nil
	}

	trainer, err := s.trainers.TrainerByUser(ctx, actorUserID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.Forbidden("Reservation belongs to another user")
		}
		return nil, err
	}
	if reservation.TrainerID != trainer.ID {
		return nil, apperrors.Forbidden("Reservation belongs to another trainer")
	}
	return reservation, nil
}

func (s *reservationService) ListForUser(ctx context.Context, userID string) ([]*model.Reservation, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("User ID cannot be empty")
	}

	reservations, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "user_id", userID, "error", err)
		return nil, apperrors.Storage("list reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) ListTrainerRequests(ctx context.Context, actorUserID string) ([]*model.Reservation, error) {
	return s.listForTrainer(ctx, actorUserID, model.ReservationPending)
}

func (s *reservationService) ListTrainerConfirmed(ctx context.Context, actorUserID string) ([]*model.Reservation, error) {
	return s.listForTrainer(ctx, actorUserID, model.ReservationConfirmed)
}

func (s *reservationService) listForTrainer(ctx context.Context, actorUserID string, status model.ReservationStatus) ([]*model.Reservation, error) {
	trainer, err := s.trainers.TrainerByUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	reservations, err := s.repo.ListByTrainerAndStatus(ctx, trainer.ID, status)
	if err != nil {
		s.cfg.Log.Error("Failed to list trainer reservations", "trainer_id", trainer.ID, "status", status, "error", err)
		return nil, apperrors.Storage("list trainer reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) find(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		s.cfg.Log.Error("Failed to retrieve reservation", "reservation_id", id, "error", err)
		return nil, apperrors.Storage("find reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) translateSlotError(err error, slotID string) error {
	switch {
	case errors.Is(err, slotserrors.ErrNotFound):
		return apperrors.NotFoundWithID("time slot", slotID)
	case errors.Is(err, slotserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid time slot ID format")
	}
	return err
}

func (s *reservationService) validationError(message string, err error) error {
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Internal(message, err)
}

// finish records a failed transition and converts store errors into
// StorageErrors. AppErrors pass through.
func (s *reservationService) finish(action, id string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		metrics.RecordTransition(action, metrics.ResultRejected)
		s.cfg.Log.Warn("Reservation transition rejected",
			"action", action,
			"id", id,
			"code", appErr.Code,
			"reason", appErr.Message,
		)
		return appErr
	}

	metrics.RecordTransition(action, metrics.ResultError)
	s.cfg.Log.Error("Reservation transition failed",
		"action", action,
		"id", id,
		"error", err,
	)
	return apperrors.Storage(action+" reservation", err)
}

func (s *reservationService) publish(ctx context.Context, t events.Type, r *model.Reservation) {
	s.publisher.Publish(ctx, events.Event{
		Type:          t,
		ReservationID: r.ID,
		SlotID:        r.SlotID,
		TrainerID:     r.TrainerID,
		UserID:        r.UserID,
		Date:          r.Date,
		Status:        string(r.Status),
		OccurredAt:    s.clock.Now(),
	})
}
