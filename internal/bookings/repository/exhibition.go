package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "expostall/internal/bookings/errors"
	"expostall/pkg/config"
	"expostall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const ExhibitionCollectionName = "Exhibitions"

// ExhibitionReader is the booking side's read-only view of exhibitions:
// rate/tax/discount configuration and bookability.
type ExhibitionReader interface {
	FindByID(ctx context.Context, id string) (*model.Exhibition, error)
}

type mongoExhibitionReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoExhibitionReader(cfg *config.Config) ExhibitionReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoExhibitionReader{
		cfg:        cfg,
		collection: db.Collection(ExhibitionCollectionName),
	}
}

func (r *mongoExhibitionReader) FindByID(ctx context.Context, id string) (*model.Exhibition, error) {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ReadTimeout)
		defer cancel()
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrExhibitionNotFound, id)
	}

	var exhibition model.Exhibition
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&exhibition)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrExhibitionNotFound
		}
		return nil, fmt.Errorf("failed to find exhibition: %w", err)
	}

	return &exhibition, nil
}

// StallTypeReader resolves stall type defaults for defensive rate
// re-resolution at pricing time.
type StallTypeReader interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.StallType, error)
}

const StallTypeCollectionName = "Stall_types"

type mongoStallTypeReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStallTypeReader(cfg *config.Config) StallTypeReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStallTypeReader{
		cfg:        cfg,
		collection: db.Collection(StallTypeCollectionName),
	}
}

func (r *mongoStallTypeReader) FindByIDs(ctx context.Context, ids []string) (map[string]*model.StallType, error) {
	if len(ids) == 0 {
		return map[string]*model.StallType{}, nil
	}

	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ReadTimeout)
		defer cancel()
	}

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, oid)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find stall types: %w", err)
	}
	defer cursor.Close(ctx)

	var types []*model.StallType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, fmt.Errorf("failed to decode stall types: %w", err)
	}

	out := make(map[string]*model.StallType, len(types))
	for _, st := range types {
		out[st.ID] = st
	}
	return out, nil
}
