package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	holdserrors "glowbook/internal/holds/errors"
	"glowbook/pkg/config"
	"glowbook/pkg/model"
)

const (
	HoldCollectionName = "Booking_holds"
)

type HoldRepository interface {
	Create(ctx context.Context, hold *model.BookingHold) error
	FindByID(ctx context.Context, id string) (*model.BookingHold, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type mongoHoldRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHoldRepository(cfg *config.Config) HoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoldRepository{
		cfg:        cfg,
		collection: db.Collection(HoldCollectionName),
	}
}

func (r *mongoHoldRepository) Create(ctx context.Context, hold *model.BookingHold) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	hold.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, hold); err != nil {
		return fmt.Errorf("failed to create hold: %w", err)
	}

	return nil
}

func (r *mongoHoldRepository) FindByID(ctx context.Context, id string) (*model.BookingHold, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var hold model.BookingHold
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&hold)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, holdserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hold: %w", err)
	}

	return &hold, nil
}

// ExpireDue transitions every active hold whose expiry passed to
// expired in one bulk update. The filter makes the update idempotent: a
// hold already expired never matches, so overlapping sweeps cannot
// double-count.
func (r *mongoHoldRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"status":     model.HoldActive,
		"expires_at": bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{"status": model.HoldExpired},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire holds: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *mongoHoldRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"status": model.HoldActive})
	if err != nil {
		return 0, fmt.Errorf("failed to count active holds: %w", err)
	}

	return count, nil
}
