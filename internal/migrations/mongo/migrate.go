package mongo

import (
	"context"
	"fmt"

	gymsRepository "coachbooking/internal/gyms/repository"
	"coachbooking/internal/migrations/mongo/validators"
	reservationsRepository "coachbooking/internal/reservations/repository"
	slotsRepository "coachbooking/internal/slots/repository"
	"coachbooking/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	GymsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "order", Value: 1}}},
	}

	TrainersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_trainer_user"),
		},
		{Keys: bson.D{{Key: "gym_id", Value: 1}, {Key: "order", Value: 1}}},
	}

	// The unique (trainer, date, order) key is what makes regeneration
	// idempotent under concurrent runs.
	TimeSlotsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "trainer_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "order", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_trainer_date_order"),
		},
		{Keys: bson.D{{Key: "trainer_id", Value: 1}, {Key: "status", Value: 1}, {Key: "date", Value: 1}}},
	}

	// At most one reservation per slot may hold it at a time.
	ReservationsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slot_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_live_slot").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []string{"pending", "confirmed", "checkedIn"}},
				}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "trainer_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
)

// MinServerMajor is the oldest MongoDB major version that accepts $in in a
// partialFilterExpression, which the live reservation index relies on.
const MinServerMajor = 6

type CollectionDefinition struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDefinition {
	return map[string]CollectionDefinition{
		gymsRepository.GymsCollection: {
			Indexes:   GymsIndexes,
			Validator: validators.GymValidator,
		},
		gymsRepository.TrainersCollection: {
			Indexes:   TrainersIndexes,
			Validator: validators.TrainerValidator,
		},
		slotsRepository.CollectionName: {
			Indexes:   TimeSlotsIndexes,
			Validator: validators.TimeSlotValidator,
		},
		reservationsRepository.CollectionName: {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	if err := checkServerVersion(ctx, db); err != nil {
		return err
	}

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

type buildInfo struct {
	Version      string  `bson:"version"`
	VersionArray []int32 `bson:"versionArray"`
}

func checkServerVersion(ctx context.Context, db *mongo.Database) error {
	var info buildInfo
	if err := db.RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&info); err != nil {
		return fmt.Errorf("failed to read server version: %w", err)
	}
	return requireServerVersion(info)
}

func requireServerVersion(info buildInfo) error {
	if len(info.VersionArray) == 0 || info.VersionArray[0] < MinServerMajor {
		return fmt.Errorf("MongoDB %d.0 or newer is required, server reports %q", MinServerMajor, info.Version)
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
