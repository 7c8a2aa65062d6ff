package repository

import (
	"context"
	"errors"
	"fmt"

	gymserrors "coachbooking/internal/gyms/errors"
	"coachbooking/pkg/config"
	mongotx "coachbooking/pkg/db/mongo"
	"coachbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TrainerRepository interface {
	FindByGym(ctx context.Context, gymID string) ([]*model.Trainer, error)
	FindByID(ctx context.Context, id string) (*model.Trainer, error)
	FindByUserID(ctx context.Context, userID string) (*model.Trainer, error)
}

type mongoTrainerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTrainerRepository(cfg *config.Config) TrainerRepository {
	return &mongoTrainerRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(TrainersCollection),
	}
}

func (r *mongoTrainerRepository) FindByGym(ctx context.Context, gymID string) ([]*model.Trainer, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if !primitive.IsValidObjectID(gymID) {
		return nil, fmt.Errorf("%w: %s", gymserrors.ErrInvalidID, gymID)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"gym_id": gymID}, options.Find().SetSort(byOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to find trainers: %w", err)
	}
	return mongotx.DecodeAll[model.Trainer](ctx, cursor, r.cfg.Log, TrainersCollection)
}

func (r *mongoTrainerRepository) FindByID(ctx context.Context, id string) (*model.Trainer, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gymserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

// FindByUserID resolves the trainer profile of an authenticated user.
func (r *mongoTrainerRepository) FindByUserID(ctx context.Context, userID string) (*model.Trainer, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *mongoTrainerRepository) findOne(ctx context.Context, filter bson.M) (*model.Trainer, error) {
	trainer, err := mongotx.DecodeOne[model.Trainer](r.collection.FindOne(ctx, filter))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, gymserrors.ErrTrainerNotFound
		}
		return nil, fmt.Errorf("failed to find trainer: %w", err)
	}
	return trainer, nil
}
