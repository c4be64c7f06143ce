package repository

import (
	"context"
	"time"

	"expostall/pkg/config"
	"expostall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Exhibition_locks"

// ExhibitionLockRepository provides advisory locks serializing booking
// mutations per exhibition. A unique _id insert either wins the lock or
// fails with a duplicate key error.
type ExhibitionLockRepository interface {
	Create(ctx context.Context, lock *model.ExhibitionLock) (*model.ExhibitionLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoExhibitionLockRepository struct {
	collection *mongo.Collection
}

func NewMongoExhibitionLockRepository(cfg *config.Config) ExhibitionLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoExhibitionLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoExhibitionLockRepository) Create(ctx context.Context, lock *model.ExhibitionLock) (*model.ExhibitionLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoExhibitionLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
