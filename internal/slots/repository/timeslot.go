package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	slotserrors "coachbooking/internal/slots/errors"
	"coachbooking/pkg/config"
	mongotx "coachbooking/pkg/db/mongo"
	"coachbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Timeslots"
)

type TimeSlotRepository interface {
	CreateMany(ctx context.Context, slots []*model.TimeSlot) error
	FindByID(ctx context.Context, id string) (*model.TimeSlot, error)
	FindByTrainerAndDate(ctx context.Context, trainerID, date string, includeExpired bool) ([]*model.TimeSlot, error)
	MarkBooked(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
	DeleteRemovable(ctx context.Context, id, trainerID string) error
	ExpireFree(ctx context.Context, trainerID, today string, now time.Time) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoTimeSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoTimeSlotRepository(cfg *config.Config) TimeSlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTimeSlotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoTimeSlotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// CreateMany inserts the whole batch or nothing; callers run it inside a
// transaction. A unique index clash on (trainer_id, date, order) is
// reported as ErrDuplicateOrder.
func (r *mongoTimeSlotRepository) CreateMany(ctx context.Context, slots []*model.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, len(slots))
	for i, s := range slots {
		docs[i] = s
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", slotserrors.ErrDuplicateOrder, err)
		}
		return fmt.Errorf("failed to insert time slots: %w", err)
	}

	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			slots[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoTimeSlotRepository) FindByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
	}

	slot, err := mongotx.DecodeOne[model.TimeSlot](r.collection.FindOne(ctx, bson.M{"_id": objectID}))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, slotserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find time slot: %w", err)
	}
	return slot, nil
}

func (r *mongoTimeSlotRepository) FindByTrainerAndDate(ctx context.Context, trainerID, date string, includeExpired bool) ([]*model.TimeSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.collection.Find(ctx, listFilter(trainerID, date, includeExpired), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find time slots: %w", err)
	}

	return mongotx.DecodeAll[model.TimeSlot](ctx, cursor, r.cfg.Log, CollectionName)
}

func (r *mongoTimeSlotRepository) MarkBooked(ctx context.Context, id string) error {
	return r.transition(ctx, id, model.SlotFree, model.SlotBooked)
}

func (r *mongoTimeSlotRepository) Release(ctx context.Context, id string) error {
	return r.transition(ctx, id, model.SlotBooked, model.SlotFree)
}

// transition moves the slot from one status to another in a single
// conditional write. A slot that exists but is not in from yields
// ErrStatusChanged.
func (r *mongoTimeSlotRepository) transition(ctx context.Context, id string, from, to model.SlotStatus) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, statusFilter(objectID, from), bson.M{
		"$set": bson.M{"status": to},
	})
	if err != nil {
		return fmt.Errorf("failed to update time slot status: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	return r.missOrChanged(ctx, objectID)
}

func (r *mongoTimeSlotRepository) missOrChanged(ctx context.Context, objectID primitive.ObjectID) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to look up time slot: %w", err)
	}
	if count == 0 {
		return slotserrors.ErrNotFound
	}
	return slotserrors.ErrStatusChanged
}

func (r *mongoTimeSlotRepository) DeleteRemovable(ctx context.Context, id, trainerID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, removableFilter(objectID, trainerID))
	if err != nil {
		return fmt.Errorf("failed to delete time slot: %w", err)
	}
	if result.DeletedCount == 1 {
		return nil
	}

	return r.missOrChanged(ctx, objectID)
}

// ExpireFree marks every free slot of the trainer dated before today as
// expired. The filter re-checks the status, so concurrent runs and slots
// booked in the meantime are left alone.
func (r *mongoTimeSlotRepository) ExpireFree(ctx context.Context, trainerID, today string, now time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx, expireFilter(trainerID, today), bson.M{
		"$set": bson.M{
			"status":     model.SlotExpired,
			"expired_at": now.UTC().Truncate(time.Millisecond),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to expire time slots: %w", err)
	}
	return result.ModifiedCount, nil
}

func listFilter(trainerID, date string, includeExpired bool) bson.M {
	filter := bson.M{
		"trainer_id": trainerID,
		"date":       date,
	}
	if !includeExpired {
		filter["status"] = bson.M{"$ne": model.SlotExpired}
	}
	return filter
}

func statusFilter(id primitive.ObjectID, status model.SlotStatus) bson.M {
	return bson.M{"_id": id, "status": status}
}

func removableFilter(id primitive.ObjectID, trainerID string) bson.M {
	return bson.M{
		"_id":        id,
		"trainer_id": trainerID,
		"status":     bson.M{"$in": []model.SlotStatus{model.SlotFree, model.SlotExpired}},
	}
}

// Dates are YYYY-MM-DD labels, so $lt compares them lexically.
func expireFilter(trainerID, today string) bson.M {
	return bson.M{
		"trainer_id": trainerID,
		"status":     model.SlotFree,
		"date":       bson.M{"$lt": today},
	}
}
