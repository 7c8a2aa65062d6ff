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

const (
	GymsCollection     = "Gyms"
	TrainersCollection = "Trainers"
)

var byOrder = bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}}

type GymRepository interface {
	FindAll(ctx context.Context) ([]*model.Gym, error)
	FindByID(ctx context.Context, id string) (*model.Gym, error)
}

type mongoGymRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoGymRepository(cfg *config.Config) GymRepository {
	return &mongoGymRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(GymsCollection),
	}
}

func (r *mongoGymRepository) FindAll(ctx context.Context) ([]*model.Gym, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(byOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to find gyms: %w", err)
	}
	return mongotx.DecodeAll[model.Gym](ctx, cursor, r.cfg.Log, GymsCollection)
}

func (r *mongoGymRepository) FindByID(ctx context.Context, id string) (*model.Gym, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gymserrors.ErrInvalidID, id)
	}

	gym, err := mongotx.DecodeOne[model.Gym](r.collection.FindOne(ctx, bson.M{"_id": objectID}))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, gymserrors.ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to find gym: %w", err)
	}
	return gym, nil
}
