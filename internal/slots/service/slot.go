package service

import (
	"context"
	"errors"
	"slices"

	"coachbooking/internal/metrics"
	slotserrors "coachbooking/internal/slots/errors"
	"coachbooking/internal/slots/generator"
	"coachbooking/internal/slots/repository"
	"coachbooking/internal/slots/validator"
	"coachbooking/pkg/clock"
	"coachbooking/pkg/config"
	apperrors "coachbooking/pkg/errors"
	"coachbooking/pkg/events"
	"coachbooking/pkg/model"
	"coachbooking/pkg/sanitizer"
	"coachbooking/pkg/timeofday"
)

// TrainerResolver maps an authenticated user to their trainer profile.
// Implementations return AppErrors.
type TrainerResolver interface {
	TrainerByUser(ctx context.Context, userID string) (*model.Trainer, error)
}

type SlotService interface {
	Generate(ctx context.Context, actorUserID string, req *model.GenerateSlotsRequest) (*model.GenerateSlotsResult, error)
	ListForTrainer(ctx context.Context, actorUserID, date string) ([]*model.TimeSlot, error)
	ListAvailable(ctx context.Context, trainerID, date string) ([]*model.TimeSlot, error)
	Delete(ctx context.Context, id, actorUserID string) error
	SweepExpired(ctx context.Context, trainerID string) (int64, error)
	Horizon() []string
}

type slotService struct {
	repo      repository.TimeSlotRepository
	trainers  TrainerResolver
	validator *validator.SlotValidator
	generator generator.Generator
	clock     clock.Clock
	publisher events.Publisher
	cfg       *config.Config
}

func NewSlotService(
	repo repository.TimeSlotRepository,
	trainers TrainerResolver,
	validator *validator.SlotValidator,
	clk clock.Clock,
	publisher events.Publisher,
	cfg *config.Config,
) SlotService {
	return &slotService{
		repo:      repo,
		trainers:  trainers,
		validator: validator,
		generator: generator.New(cfg.MinSlotDurationMin),
		clock:     clk,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *slotService) Generate(ctx context.Context, actorUserID string, req *model.GenerateSlotsRequest) (*model.GenerateSlotsResult, error) {
	s.sanitize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	trainer, err := s.trainers.TrainerByUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	var created []*model.TimeSlot
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByTrainerAndDate(txCtx, trainer.ID, req.Date, true)
		if err != nil {
			return err
		}

		drafts, err := s.generator.Generate(generator.Request{
			TrainerID:   trainer.ID,
			Date:        req.Date,
			Start:       req.Start,
			End:         req.End,
			DurationMin: req.DurationMin,
		}, existing)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		for _, d := range drafts {
			d.CreatedAt = now
		}
		if err := s.repo.CreateMany(txCtx, drafts); err != nil {
			return err
		}
		created = drafts
		return nil
	})
	if err != nil {
		return nil, s.translateGenerateError(err, trainer.ID, req)
	}

	start, _ := timeofday.ParseClock(req.Start)
	end, _ := timeofday.ParseEnd(req.End)
	result := &model.GenerateSlotsResult{
		Created: len(created),
		Skipped: generator.Capacity(start, end, req.DurationMin) - len(created),
		Slots:   created,
	}
	if result.Slots == nil {
		result.Slots = []*model.TimeSlot{}
	}

	metrics.RecordSlotsGenerated(result.Created)
	if result.Created > 0 {
		s.publisher.Publish(ctx, events.Event{
			Type:       events.SlotsGenerated,
			TrainerID:  trainer.ID,
			Date:       req.Date,
			Count:      result.Created,
			OccurredAt: s.clock.Now(),
		})
	}

	s.cfg.Log.Info("Time slots generated",
		"trainer_id", trainer.ID,
		"date", req.Date,
		"start", req.Start,
		"end", req.End,
		"duration_min", req.DurationMin,
		"created", result.Created,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (s *slotService) sanitize(req *model.GenerateSlotsRequest) {
	req.Date = sanitizer.NormalizeDate(req.Date)
	if start := sanitizer.NormalizeTimeInput(req.Start); start != "" {
		req.Start = start
	}
	if end := sanitizer.NormalizeTimeInput(req.End); end != "" {
		req.End = end
	}
}

func (s *slotService) validate(req *model.GenerateSlotsRequest) error {
	if err := s.validator.ValidateGenerate(req); err != nil {
		var verrs model.ValidationErrors
		if errors.As(err, &verrs) {
			s.cfg.Log.Warn("Slot generation request validation failed", "error", verrs)
			return apperrors.Validation("Invalid slot generation request", verrs.Details())
		}
		return apperrors.Internal("Failed to validate slot generation request", err)
	}

	horizon := s.Horizon()
	if !slices.Contains(horizon, req.Date) {
		return apperrors.Validation("Date is outside the booking horizon", map[string]any{
			"Date":  req.Date,
			"first": horizon[0],
			"last":  horizon[len(horizon)-1],
		})
	}
	return nil
}

func (s *slotService) translateGenerateError(err error, trainerID string, req *model.GenerateSlotsRequest) error {
	var reason string
	switch {
	case errors.Is(err, slotserrors.ErrMalformedTime):
		reason = "malformed_time"
	case errors.Is(err, slotserrors.ErrDurationTooShort):
		reason = "duration_too_short"
	case errors.Is(err, slotserrors.ErrEndNotAfterStart):
		reason = "end_not_after_start"
	case errors.Is(err, slotserrors.ErrSpanTooShort):
		reason = "span_too_short"
	case errors.Is(err, slotserrors.ErrDuplicateOrder):
		s.cfg.Log.Warn("Concurrent slot generation collided", "trainer_id", trainerID, "date", req.Date, "error", err)
		return apperrors.Conflict("Time slots for this range were created concurrently, retry the request")
	default:
		s.cfg.Log.Error("Failed to generate time slots",
			"trainer_id", trainerID,
			"date", req.Date,
			"error", err,
		)
		return apperrors.Storage("generate time slots", err)
	}

	s.cfg.Log.Warn("Slot generation rejected", "trainer_id", trainerID, "reason", reason, "error", err)
	return apperrors.Validation(err.Error(), map[string]any{
		"reason":           reason,
		"min_duration_min": s.cfg.MinSlotDurationMin,
	})
}

// ListForTrainer is the trainer view: expired slots are included and the
// expire sweep runs before reading.
func (s *slotService) ListForTrainer(ctx context.Context, actorUserID, date string) ([]*model.TimeSlot, error) {
	date = sanitizer.NormalizeDate(date)
	if !timeofday.IsDate(date) {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	trainer, err := s.trainers.TrainerByUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.SweepExpired(ctx, trainer.ID); err != nil {
		s.cfg.Log.Warn("Expire sweep before listing failed", "trainer_id", trainer.ID, "error", err)
	}

	return s.list(ctx, trainer.ID, date, true)
}

func (s *slotService) ListAvailable(ctx context.Context, trainerID, date string) ([]*model.TimeSlot, error) {
	date = sanitizer.NormalizeDate(date)
	if !timeofday.IsDate(date) {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	if _, err := s.SweepExpired(ctx, trainerID); err != nil {
		s.cfg.Log.Warn("Expire sweep before listing failed", "trainer_id", trainerID, "error", err)
	}

	return s.list(ctx, trainerID, date, false)
}

func (s *slotService) list(ctx context.Context, trainerID, date string, includeExpired bool) ([]*model.TimeSlot, error) {
	slots, err := s.repo.FindByTrainerAndDate(ctx, trainerID, date, includeExpired)
	if err != nil {
		s.cfg.Log.Error("Failed to list time slots", "trainer_id", trainerID, "date", date, "error", err)
		return nil, apperrors.Storage("list time slots", err)
	}
	return slots, nil
}

func (s *slotService) Delete(ctx context.Context, id, actorUserID string) error {
	if id == "" {
		return apperrors.InvalidInput("Time slot ID cannot be empty")
	}

	trainer, err := s.trainers.TrainerByUser(ctx, actorUserID)
	if err != nil {
		return err
	}

	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateLookupError(err, id, "find time slot")
	}
	if slot.TrainerID != trainer.ID {
		s.cfg.Log.Warn("Slot deletion by non-owner rejected", "slot_id", id, "trainer_id", trainer.ID)
		return apperrors.Forbidden("Time slot belongs to another trainer")
	}
	if !slot.Status.Deletable() {
		return apperrors.InvalidTransition("time slot", "delete", string(slot.Status))
	}

	if err := s.repo.DeleteRemovable(ctx, id, trainer.ID); err != nil {
		if errors.Is(err, slotserrors.ErrStatusChanged) {
			s.cfg.Log.Warn("Slot status changed before deletion", "slot_id", id)
			return apperrors.InvalidTransition("time slot", "delete", string(model.SlotBooked))
		}
		return s.translateLookupError(err, id, "delete time slot")
	}

	s.cfg.Log.Info("Time slot deleted",
		"slot_id", id,
		"trainer_id", trainer.ID,
		"date", slot.Date,
		"start", slot.Start,
	)
	return nil
}

func (s *slotService) translateLookupError(err error, id, operation string) error {
	switch {
	case errors.Is(err, slotserrors.ErrNotFound):
		return apperrors.NotFoundWithID("time slot", id)
	case errors.Is(err, slotserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid time slot ID format")
	}
	s.cfg.Log.Error("Time slot store operation failed", "operation", operation, "slot_id", id, "error", err)
	return apperrors.Storage(operation, err)
}

// SweepExpired marks the trainer's free slots dated before today as expired
// and returns how many changed. Running it again right away returns 0.
func (s *slotService) SweepExpired(ctx context.Context, trainerID string) (int64, error) {
	if trainerID == "" {
		return 0, apperrors.InvalidInput("Trainer ID cannot be empty")
	}

	now := s.clock.Now()
	today := timeofday.Today(now, s.cfg.Location)

	count, err := s.repo.ExpireFree(ctx, trainerID, today, now)
	if err != nil {
		s.cfg.Log.Error("Failed to expire time slots", "trainer_id", trainerID, "today", today, "error", err)
		return 0, apperrors.Storage("expire time slots", err)
	}

	metrics.RecordSlotsExpired(count)
	if count > 0 {
		s.publisher.Publish(ctx, events.Event{
			Type:       events.SlotsExpired,
			TrainerID:  trainerID,
			Date:       today,
			Count:      int(count),
			OccurredAt: now,
		})
		s.cfg.Log.Info("Time slots expired", "trainer_id", trainerID, "today", today, "count", count)
	}
	return count, nil
}

// Horizon lists the dates open for generation and booking, today first.
func (s *slotService) Horizon() []string {
	return timeofday.Horizon(s.clock.Now(), s.cfg.Location, s.cfg.BookingHorizonDays)
}
