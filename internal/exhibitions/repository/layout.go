package repository

import (
	"context"
	"fmt"
	"time"

	exhibitionerrors "expostall/internal/exhibitions/errors"
	"expostall/pkg/config"
	"expostall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const LayoutCollectionName = "Layouts"

// LayoutRepository stores the full layout aggregate keyed by exhibition.
// Saving a layout replaces the whole document; booking-time stall status
// flips go through the bookings service's targeted updates instead.
type LayoutRepository interface {
	Upsert(ctx context.Context, layout *model.Layout) error
	FindByExhibitionID(ctx context.Context, exhibitionID string) (*model.Layout, error)
	Delete(ctx context.Context, exhibitionID string) error
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

func (r *mongoLayoutRepository) Upsert(ctx context.Context, layout *model.Layout) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	layout.UpdatedAt = time.Now()

	filter := bson.M{"exhibition_id": layout.ExhibitionID}
	update := bson.M{"$set": layout}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}

	return nil
}

func (r *mongoLayoutRepository) FindByExhibitionID(ctx context.Context, exhibitionID string) (*model.Layout, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var layout model.Layout
	err := r.collection.FindOne(ctx, bson.M{"exhibition_id": exhibitionID}).Decode(&layout)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exhibitionerrors.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to find layout: %w", err)
	}

	return &layout, nil
}

func (r *mongoLayoutRepository) Delete(ctx context.Context, exhibitionID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"exhibition_id": exhibitionID})
	if err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}

	if result.DeletedCount == 0 {
		return exhibitionerrors.ErrLayoutNotFound
	}

	return nil
}
