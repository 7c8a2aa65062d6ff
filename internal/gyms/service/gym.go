package service

import (
	"context"
	"errors"

	gymserrors "coachbooking/internal/gyms/errors"
	"coachbooking/internal/gyms/repository"
	"coachbooking/pkg/config"
	apperrors "coachbooking/pkg/errors"
	"coachbooking/pkg/model"
)

type GymService interface {
	ListGyms(ctx context.Context) ([]*model.Gym, error)
	ListTrainers(ctx context.Context, gymID string) ([]*model.Trainer, error)
	TrainerByUser(ctx context.Context, userID string) (*model.Trainer, error)
}

type gymService struct {
	gyms     repository.GymRepository
	trainers repository.TrainerRepository
	cfg      *config.Config
}

func NewGymService(gyms repository.GymRepository, trainers repository.TrainerRepository, cfg *config.Config) GymService {
	return &gymService{
		gyms:     gyms,
		trainers: trainers,
		cfg:      cfg,
	}
}

func (s *gymService) ListGyms(ctx context.Context) ([]*model.Gym, error) {
	gyms, err := s.gyms.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list gyms", "error", err)
		return nil, apperrors.Storage("list gyms", err)
	}
	return gyms, nil
}

func (s *gymService) ListTrainers(ctx context.Context, gymID string) ([]*model.Trainer, error) {
	if gymID == "" {
		return nil, apperrors.InvalidInput("Gym ID cannot be empty")
	}

	if _, err := s.gyms.FindByID(ctx, gymID); err != nil {
		return nil, s.translate(err, "gym", gymID, "find gym")
	}

	trainers, err := s.trainers.FindByGym(ctx, gymID)
	if err != nil {
		return nil, s.translate(err, "gym", gymID, "list trainers")
	}
	return trainers, nil
}

// TrainerByUser returns the trainer profile of userID. Users without one get
// a not-found error.
func (s *gymService) TrainerByUser(ctx context.Context, userID string) (*model.Trainer, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("User ID cannot be empty")
	}

	trainer, err := s.trainers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, s.translate(err, "trainer profile", userID, "find trainer profile")
	}
	return trainer, nil
}

func (s *gymService) translate(err error, resource, id, operation string) error {
	switch {
	case errors.Is(err, gymserrors.ErrGymNotFound):
		return apperrors.NotFoundWithID("gym", id)
	case errors.Is(err, gymserrors.ErrTrainerNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, gymserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid " + resource + " ID format")
	}
	s.cfg.Log.Error("Gym directory lookup failed",
		"operation", operation,
		"id", id,
		"error", err,
	)
	return apperrors.Storage(operation, err)
}
