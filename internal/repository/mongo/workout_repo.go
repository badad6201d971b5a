package mongo

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workout_catalog"

// mongoWorkoutRepository implements repository.WorkoutRepository using MongoDB.
// The catalog is reference data loaded out of band; this repository only reads.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new instance of mongoWorkoutRepository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// GetByPart retrieves catalog entries, optionally filtered by workout part.
func (r *mongoWorkoutRepository) GetByPart(ctx context.Context, workoutPartID *int) ([]domain.WorkoutRef, error) {
	filter := bson.M{}
	if workoutPartID != nil {
		filter["workoutPartId"] = *workoutPartID
	}

	findOptions := options.Find().SetSort(bson.D{
		{Key: "workoutPartId", Value: 1},
		{Key: "workoutKey", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var refs []domain.WorkoutRef
	if err = cursor.All(ctx, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// GetByKey retrieves a single catalog entry by workout key.
func (r *mongoWorkoutRepository) GetByKey(ctx context.Context, workoutKey int) (*domain.WorkoutRef, error) {
	var ref domain.WorkoutRef
	err := r.collection.FindOne(ctx, bson.M{"workoutKey": workoutKey}).Decode(&ref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// EnsureWorkoutIndexes creates necessary indexes for the catalog collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "workoutPartId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
