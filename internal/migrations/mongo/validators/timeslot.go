package validators

import "go.mongodb.org/mongo-driver/bson"

const (
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
	clockPattern = `^([01]\d|2[0-3]):[0-5]\d$`
	// An end may also be "24:00" or the "00:00+" end-of-day marker.
	endPattern = `^(([01]\d|2[0-3]):[0-5]\d|24:00|00:00\+)$`
)

var TimeSlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"trainer_id",
			"date",
			"start",
			"end",
			"order",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"trainer_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"start": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"end": bson.M{
				"bsonType": "string",
				"pattern":  endPattern,
			},

			"order": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1439,
			},

			"status": bson.M{
				"enum": []string{"free", "booked", "expired"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"expired_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
