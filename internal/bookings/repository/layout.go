package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "expostall/internal/bookings/errors"
	"expostall/pkg/config"
	"expostall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const LayoutCollectionName = "Layouts"

// LayoutRepository is the booking side's view of the exhibition layout
// aggregate: read the tree to resolve stalls, and flip stall statuses with
// targeted updates. The layout-editing surface owns everything else.
type LayoutRepository interface {
	FindByExhibitionID(ctx context.Context, exhibitionID string) (*model.Layout, error)
	SetStallStatus(ctx context.Context, exhibitionID string, stallIDs []string, status string) error
}

type mongoLayoutRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLayoutRepository(cfg *config.Config) LayoutRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLayoutRepository{
		cfg:        cfg,
		collection: db.Collection(LayoutCollectionName),
	}
}

func (r *mongoLayoutRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLayoutRepository) FindByExhibitionID(ctx context.Context, exhibitionID string) (*model.Layout, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var layout model.Layout
	err := r.collection.FindOne(ctx, bson.M{"exhibition_id": exhibitionID}).Decode(&layout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to find layout: %w", err)
	}

	return &layout, nil
}

// SetStallStatus flips the status of the matching stalls with a single
// targeted update instead of rewriting the whole aggregate, so concurrent
// bookings against different stalls of the same exhibition cannot clobber
// each other. Stall ids not present in the tree are skipped. The operation
// is idempotent.
func (r *mongoLayoutRepository) SetStallStatus(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
	if len(stallIDs) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"spaces.$[].halls.$[].stalls.$[st].status": status,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []any{bson.M{"st.id": bson.M{"$in": stallIDs}}},
	})

	result, err := r.collection.UpdateOne(ctx, bson.M{"exhibition_id": exhibitionID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to set stall status: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrLayoutNotFound
	}

	return nil
}
