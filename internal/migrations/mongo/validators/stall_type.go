package validators

import "go.mongodb.org/mongo-driver/bson"

var StallTypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"default_rate",
			"rate_type",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"default_rate": bson.M{
				"bsonType":         []string{"double", "int", "long", "decimal"},
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"rate_type": bson.M{
				"enum": []string{"per_sqm", "per_stall", "per_day"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
