package validators

import "go.mongodb.org/mongo-driver/bson"

var stallSchema = bson.M{
	"bsonType": "object",
	"required": []string{"id", "number", "shape", "stall_type_id", "status"},
	"properties": bson.M{
		"id": bson.M{
			"bsonType":  "string",
			"minLength": 1,
			"maxLength": 64,
		},
		"number": bson.M{
			"bsonType":  "string",
			"minLength": 1,
			"maxLength": 32,
		},
		"shape": bson.M{
			"enum": []string{"rectangle", "l-shape"},
		},
		"stall_type_id": bson.M{
			"bsonType":  "string",
			"minLength": 24,
			"maxLength": 24,
		},
		"rate_per_sqm": bson.M{
			"bsonType": []string{"double", "int", "long", "decimal"},
		},
		"status": bson.M{
			"enum": []string{"available", "reserved", "booked", "blocked", "maintenance"},
		},
	},
}

var LayoutValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"exhibition_id",
			"spaces",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"exhibition_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"spaces": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id", "name", "halls"},
					"properties": bson.M{
						"id": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 64,
						},
						"name": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 100,
						},
						"halls": bson.M{
							"bsonType": "array",
							"items": bson.M{
								"bsonType": "object",
								"required": []string{"id", "name", "stalls"},
								"properties": bson.M{
									"id": bson.M{
										"bsonType":  "string",
										"minLength": 1,
										"maxLength": 64,
									},
									"name": bson.M{
										"bsonType":  "string",
										"minLength": 1,
										"maxLength": 100,
									},
									"stalls": bson.M{
										"bsonType": "array",
										"items":    stallSchema,
									},
								},
							},
						},
					},
				},
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
