package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"exhibition_id",
			"stall_ids",
			"customer_name",
			"customer_phone",
			"calculations",
			"status",
			"payment_status",
			"booking_source",
			"created_at",
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

			"stall_ids": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 50,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 1,
				},
			},

			"customer_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"customer_phone": bson.M{
				"bsonType":  "string",
				"minLength": 8,
				"maxLength": 20,
			},

			"customer_email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"calculations": bson.M{
				"bsonType": "object",
				"required": []string{"total_base_amount", "total_amount"},
				"properties": bson.M{
					"total_base_amount": bson.M{
						"bsonType": []string{"double", "int", "long", "decimal"},
						"minimum":  0,
					},
					"total_amount": bson.M{
						"bsonType": []string{"double", "int", "long", "decimal"},
						"minimum":  0,
					},
				},
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "cancelled", "approved", "rejected"},
			},

			"payment_status": bson.M{
				"enum": []string{"pending", "paid", "refunded", "partial"},
			},

			"booking_source": bson.M{
				"enum": []string{"admin", "exhibitor", "public"},
			},

			"invoice_number": bson.M{
				"bsonType":  "string",
				"minLength": 8,
				"maxLength": 40,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
