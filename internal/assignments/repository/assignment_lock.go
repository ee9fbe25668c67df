package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"glowbook/pkg/config"
	"glowbook/pkg/model"
)

const (
	LockCollectionName = "Assignment_locks"
)

// AssignmentLockRepository provides operations for advisory locks.
type AssignmentLockRepository interface {
	Create(ctx context.Context, lock *model.AssignmentLock) (*model.AssignmentLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoAssignmentLockRepository struct {
	collection *mongo.Collection
}

func NewAssignmentLockRepository(cfg *config.Config) AssignmentLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAssignmentLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Create inserts the lock. The collection's unique _id index makes a
// concurrent holder surface as a duplicate key error.
func (r *mongoAssignmentLockRepository) Create(ctx context.Context, lock *model.AssignmentLock) (*model.AssignmentLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// Delete removes an advisory lock.
func (r *mongoAssignmentLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
