package mongo

import (
	"context"
	"errors"
	"fmt"

	"coachbooking/pkg/logger"
	"coachbooking/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInvalidDocument means a stored document decoded but failed validation.
var ErrInvalidDocument = errors.New("stored document failed validation")

// DecodeOne decodes a single result and validates it. mongo.ErrNoDocuments
// is returned unwrapped.
func DecodeOne[T any](res *mongo.SingleResult) (*T, error) {
	doc := new(T)
	if err := res.Decode(doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := model.CheckDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// DecodeAll drains the cursor. Documents that fail validation are logged and
// skipped so one bad record does not hide the rest of a listing.
func DecodeAll[T any](ctx context.Context, cursor *mongo.Cursor, log *logger.Logger, collection string) ([]*T, error) {
	defer cursor.Close(ctx)

	docs := []*T{}
	for cursor.Next(ctx) {
		doc := new(T)
		if err := cursor.Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		if err := model.CheckDocument(doc); err != nil {
			log.Warn("Skipping invalid stored document",
				"collection", collection,
				"id", cursor.Current.Lookup("_id").String(),
				"error", err,
			)
			continue
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor failed: %w", err)
	}
	return docs, nil
}
