package validators

import "go.mongodb.org/mongo-driver/bson"

// Reservations copy their schedule from the slot, so date, start and end are
// only required to be present. Check-in rejects malformed values at read time.
var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"trainer_id",
			"slot_id",
			"date",
			"start",
			"end",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"trainer_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"gym_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"slot_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "string",
			},

			"start": bson.M{
				"bsonType": "string",
			},

			"end": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "rejected", "cancelled", "checkedIn"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"checked_in_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
