package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"glowbook/pkg/config"
	mongotx "glowbook/pkg/db/mongo"
	"glowbook/pkg/model"
)

const (
	AssignmentCollectionName = "Resource_assignments"
)

type AssignmentRepository interface {
	InsertMany(ctx context.Context, assignments []*model.ResourceAssignment) error
	FindOverlapping(ctx context.Context, resourceID string, window model.Window, excludeBookingID string) ([]*model.ResourceAssignment, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.ResourceAssignment, error)
	DeleteByBooking(ctx context.Context, bookingID string) (int64, error)
	CountByResource(ctx context.Context, resourceID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoAssignmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoAssignmentRepository(cfg *config.Config) AssignmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAssignmentRepository{
		cfg:        cfg,
		collection: db.Collection(AssignmentCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoAssignmentRepository) InsertMany(ctx context.Context, assignments []*model.ResourceAssignment) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(assignments))
	for _, a := range assignments {
		a.CreatedAt = now
		docs = append(docs, a)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert assignments: %w", err)
	}

	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok && i < len(assignments) {
			assignments[i].ID = oid.Hex()
		}
	}
	return nil
}

// FindOverlapping returns assignments of the given resource whose window
// intersects the half-open window [start, end). Touching windows do not
// match: the filter is start_time < end AND end_time > start.
func (r *mongoAssignmentRepository) FindOverlapping(ctx context.Context, resourceID string, window model.Window, excludeBookingID string) ([]*model.ResourceAssignment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"resource_id": resourceID,
		"start_time":  bson.M{"$lt": window.End},
		"end_time":    bson.M{"$gt": window.Start},
	}
	if excludeBookingID != "" {
		filter["booking_id"] = bson.M{"$ne": excludeBookingID}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []*model.ResourceAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}

	return assignments, nil
}

func (r *mongoAssignmentRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.ResourceAssignment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find assignments by booking: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []*model.ResourceAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}

	return assignments, nil
}

func (r *mongoAssignmentRepository) DeleteByBooking(ctx context.Context, bookingID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete assignments by booking: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *mongoAssignmentRepository) CountByResource(ctx context.Context, resourceID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"resource_id": resourceID})
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	return count, nil
}

func (r *mongoAssignmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
