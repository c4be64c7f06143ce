package repository

import (
	"context"
	"fmt"
	"time"

	exhibitionerrors "expostall/internal/exhibitions/errors"
	"expostall/pkg/config"
	"expostall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const StallTypeCollectionName = "Stall_types"

type StallTypeRepository interface {
	Create(ctx context.Context, stallType *model.StallType) error
	FindByID(ctx context.Context, id string) (*model.StallType, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.StallType, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.StallType, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

type mongoStallTypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStallTypeRepository(cfg *config.Config) StallTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStallTypeRepository{
		cfg:        cfg,
		collection: db.Collection(StallTypeCollectionName),
	}
}

func (r *mongoStallTypeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoStallTypeRepository) Create(ctx context.Context, stallType *model.StallType) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	stallType.CreatedAt = time.Now()
	stallType.UpdatedAt = stallType.CreatedAt

	result, err := r.collection.InsertOne(ctx, stallType)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		stallType.ID = oid.Hex()
	}

	return nil
}

func (r *mongoStallTypeRepository) FindByID(ctx context.Context, id string) (*model.StallType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", exhibitionerrors.ErrInvalidID, id)
	}

	var stallType model.StallType
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&stallType)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exhibitionerrors.ErrStallTypeNotFound
		}
		return nil, fmt.Errorf("failed to find stall type: %w", err)
	}

	return &stallType, nil
}

func (r *mongoStallTypeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.StallType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list stall types: %w", err)
	}
	defer cursor.Close(ctx)

	var stallTypes []*model.StallType
	if err := cursor.All(ctx, &stallTypes); err != nil {
		return nil, fmt.Errorf("failed to decode stall types: %w", err)
	}

	return stallTypes, nil
}

func (r *mongoStallTypeRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.StallType, error) {
	result := make(map[string]*model.StallType, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", exhibitionerrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, oid)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find stall types: %w", err)
	}
	defer cursor.Close(ctx)

	var stallTypes []*model.StallType
	if err := cursor.All(ctx, &stallTypes); err != nil {
		return nil, fmt.Errorf("failed to decode stall types: %w", err)
	}

	for _, st := range stallTypes {
		result[st.ID] = st
	}

	return result, nil
}

func (r *mongoStallTypeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *mongoStallTypeRepository) Update(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", exhibitionerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update stall type: %w", err)
	}

	if result.MatchedCount == 0 {
		return exhibitionerrors.ErrStallTypeNotFound
	}

	return nil
}

func (r *mongoStallTypeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", exhibitionerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete stall type: %w", err)
	}

	if result.DeletedCount == 0 {
		return exhibitionerrors.ErrStallTypeNotFound
	}

	return nil
}
