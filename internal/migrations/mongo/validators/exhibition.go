package validators

import "go.mongodb.org/mongo-driver/bson"

var ExhibitionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"slug",
			"status",
			"start_date",
			"end_date",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"slug": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"status": bson.M{
				"enum": []string{"draft", "published", "completed"},
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"stall_rates": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"stall_type_id", "rate"},
					"properties": bson.M{
						"stall_type_id": bson.M{
							"bsonType":  "string",
							"minLength": 24,
							"maxLength": 24,
						},
						"rate": bson.M{
							"bsonType":         []string{"double", "int", "long", "decimal"},
							"exclusiveMinimum": true,
							"minimum":          0,
						},
					},
				},
			},

			"tax_config": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"name", "rate"},
					"properties": bson.M{
						"name": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 50,
						},
						"rate": bson.M{
							"bsonType": []string{"double", "int", "long", "decimal"},
							"minimum":  0,
							"maximum":  100,
						},
						"enabled": bson.M{
							"bsonType": "bool",
						},
					},
				},
			},

			"invoice_prefix": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 20,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
