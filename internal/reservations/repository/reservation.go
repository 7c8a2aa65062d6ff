package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "coachbooking/internal/reservations/errors"
	"coachbooking/pkg/config"
	mongotx "coachbooking/pkg/db/mongo"
	"coachbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id string, from, to model.ReservationStatus) error
	MarkCheckedIn(ctx context.Context, id string, at time.Time) error
	ListByUser(ctx context.Context, userID string) ([]*model.Reservation, error)
	ListByTrainerAndStatus(ctx context.Context, trainerID string, status model.ReservationStatus) ([]*model.Reservation, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", reservationserrors.ErrSlotTaken, err)
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	reservation, err := mongotx.DecodeOne[model.Reservation](r.collection.FindOne(ctx, bson.M{"_id": objectID}))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return reservation, nil
}

// UpdateStatus moves the reservation from one status to another only if it
// is still in from.
func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, from, to model.ReservationStatus) error {
	return r.conditionalSet(ctx, id, from, bson.M{"status": to})
}

func (r *mongoReservationRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) error {
	return r.conditionalSet(ctx, id, model.ReservationConfirmed, bson.M{
		"status":        model.ReservationCheckedIn,
		"checked_in_at": at.UTC().Truncate(time.Millisecond),
	})
}

func (r *mongoReservationRepository) conditionalSet(ctx context.Context, id string, from model.ReservationStatus, set bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, statusFilter(objectID, from), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to look up reservation: %w", err)
	}
	if count == 0 {
		return reservationserrors.ErrNotFound
	}
	return reservationserrors.ErrStatusChanged
}

func (r *mongoReservationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Reservation, error) {
	return r.list(ctx, bson.M{"user_id": userID}, 1)
}

func (r *mongoReservationRepository) ListByTrainerAndStatus(ctx context.Context, trainerID string, status model.ReservationStatus) ([]*model.Reservation, error) {
	return r.list(ctx, trainerStatusFilter(trainerID, status), -1)
}

func (r *mongoReservationRepository) list(ctx context.Context, filter bson.M, direction int) ([]*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(byCreatedAt(direction))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	return mongotx.DecodeAll[model.Reservation](ctx, cursor, r.cfg.Log, CollectionName)
}

func statusFilter(id primitive.ObjectID, status model.ReservationStatus) bson.M {
	return bson.M{"_id": id, "status": status}
}

func trainerStatusFilter(trainerID string, status model.ReservationStatus) bson.M {
	return bson.M{"trainer_id": trainerID, "status": status}
}

// byCreatedAt breaks ties on _id so equal timestamps keep insertion order.
func byCreatedAt(direction int) bson.D {
	return bson.D{
		{Key: "created_at", Value: direction},
		{Key: "_id", Value: direction},
	}
}
