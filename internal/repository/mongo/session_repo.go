package mongo

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository using MongoDB.
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new instance of mongoSessionRepository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.MemberUID == "" {
		return primitive.NilObjectID, errors.New("session member uid is required")
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if session.WorkoutDate.IsZero() {
		session.WorkoutDate = now
	}
	session.UpdatedAt = now
	if session.Sets == nil {
		session.Sets = []domain.SetRecord{}
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session by its ObjectID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByMember retrieves all sessions for a member, newest first.
func (r *mongoSessionRepository) GetByMember(ctx context.Context, memberUID string) ([]domain.Session, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "workoutDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"memberUid": memberUID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []domain.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ReplaceSets overwrites the embedded set records of a session.
func (r *mongoSessionRepository) ReplaceSets(ctx context.Context, id primitive.ObjectID, sets []domain.SetRecord) error {
	if sets == nil {
		sets = []domain.SetRecord{}
	}
	update := bson.M{
		"$set": bson.M{
			"sets":      sets,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// LatestWithWorkout returns the member's most recent session containing set
// records for the given workout.
func (r *mongoSessionRepository) LatestWithWorkout(ctx context.Context, memberUID string, workoutKey int) (*domain.Session, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "workoutDate", Value: -1}})
	filter := bson.M{
		"memberUid":       memberUID,
		"sets.workoutKey": workoutKey,
	}

	var session domain.Session
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// CountByTypeInRange aggregates session counts per session type for a member
// within [start, end].
func (r *mongoSessionRepository) CountByTypeInRange(ctx context.Context, memberUID string, start, end time.Time) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"memberUid":   memberUID,
			"workoutDate": bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$sessionType",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		SessionType string `bson:"_id"`
		Count       int    `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.SessionType] = row.Count
	}
	return counts, nil
}

// LastWorkoutDate returns the most recent workout date for a member.
func (r *mongoSessionRepository) LastWorkoutDate(ctx context.Context, memberUID string) (time.Time, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "workoutDate", Value: -1}})

	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"memberUid": memberUID}, findOptions).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return time.Time{}, repository.ErrNotFound
		}
		return time.Time{}, err
	}
	return session.WorkoutDate, nil
}

// EnsureSessionIndexes creates necessary indexes for the sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "memberUid", Value: 1},
				{Key: "workoutDate", Value: -1},
			},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerUid", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
