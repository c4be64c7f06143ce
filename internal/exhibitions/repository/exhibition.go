package repository

import (
	"context"
	"fmt"
	"time"

	exhibitionerrors "expostall/internal/exhibitions/errors"
	"expostall/pkg/config"
	mongotx "expostall/pkg/db/mongo"
	"expostall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ExhibitionCollectionName = "Exhibitions"

type ExhibitionRepository interface {
	Create(ctx context.Context, exhibition *model.Exhibition) error
	FindByID(ctx context.Context, id string) (*model.Exhibition, error)
	FindBySlug(ctx context.Context, slug string) (*model.Exhibition, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Exhibition, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoExhibitionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoExhibitionRepository(cfg *config.Config) ExhibitionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoExhibitionRepository{
		cfg:        cfg,
		collection: db.Collection(ExhibitionCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoExhibitionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoExhibitionRepository) Create(ctx context.Context, exhibition *model.Exhibition) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	exhibition.CreatedAt = time.Now()
	exhibition.UpdatedAt = exhibition.CreatedAt

	result, err := r.collection.InsertOne(ctx, exhibition)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		exhibition.ID = oid.Hex()
	}

	return nil
}

func (r *mongoExhibitionRepository) FindByID(ctx context.Context, id string) (*model.Exhibition, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", exhibitionerrors.ErrInvalidID, id)
	}

	var exhibition model.Exhibition
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&exhibition)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exhibitionerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exhibition: %w", err)
	}

	return &exhibition, nil
}

func (r *mongoExhibitionRepository) FindBySlug(ctx context.Context, slug string) (*model.Exhibition, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var exhibition model.Exhibition
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&exhibition)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exhibitionerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exhibition by slug: %w", err)
	}

	return &exhibition, nil
}

func (r *mongoExhibitionRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Exhibition, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "start_date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list exhibitions: %w", err)
	}
	defer cursor.Close(ctx)

	var exhibitions []*model.Exhibition
	if err := cursor.All(ctx, &exhibitions); err != nil {
		return nil, fmt.Errorf("failed to decode exhibitions: %w", err)
	}

	return exhibitions, nil
}

func (r *mongoExhibitionRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *mongoExhibitionRepository) Update(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", exhibitionerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update exhibition: %w", err)
	}

	if result.MatchedCount == 0 {
		return exhibitionerrors.ErrNotFound
	}

	return nil
}

func (r *mongoExhibitionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", exhibitionerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete exhibition: %w", err)
	}

	if result.DeletedCount == 0 {
		return exhibitionerrors.ErrNotFound
	}

	return nil
}

func (r *mongoExhibitionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
