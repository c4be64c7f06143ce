package repository

import (
	"context"
	"fmt"
	"time"

	"expostall/pkg/config"
	"expostall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CounterCollectionName = "Invoice_counters"

// InvoiceCounterRepository allocates invoice sequence numbers with a single
// atomic $inc per (exhibition, year). Two concurrent bookings can never
// observe the same sequence.
type InvoiceCounterRepository interface {
	Next(ctx context.Context, exhibitionID string, year int) (int64, error)
}

type mongoInvoiceCounterRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoInvoiceCounterRepository(cfg *config.Config) InvoiceCounterRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInvoiceCounterRepository{
		cfg:        cfg,
		collection: db.Collection(CounterCollectionName),
	}
}

func (r *mongoInvoiceCounterRepository) Next(ctx context.Context, exhibitionID string, year int) (int64, error) {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WriteTimeout)
		defer cancel()
	}

	filter := bson.M{"exhibition_id": exhibitionID, "year": year}
	update := bson.M{"$inc": bson.M{"sequence": 1}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter model.InvoiceCounter
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate invoice sequence: %w", err)
	}

	return counter.Sequence, nil
}

// Year returns the calendar year invoice numbers are scoped to.
func Year(now time.Time) int {
	return now.UTC().Year()
}
