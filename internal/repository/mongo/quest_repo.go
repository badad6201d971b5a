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

const questCollectionName = "quests"

// mongoQuestRepository implements repository.QuestRepository using MongoDB.
type mongoQuestRepository struct {
	collection *mongo.Collection
}

// NewMongoQuestRepository creates a new instance of mongoQuestRepository.
func NewMongoQuestRepository(db *mongo.Database) repository.QuestRepository {
	return &mongoQuestRepository{
		collection: db.Collection(questCollectionName),
	}
}

// Create inserts a new quest.
func (r *mongoQuestRepository) Create(ctx context.Context, quest *domain.Quest) (primitive.ObjectID, error) {
	if quest.TrainerUID == "" || quest.MemberUID == "" {
		return primitive.NilObjectID, errors.New("quest trainer uid and member uid are required")
	}

	quest.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if quest.Status == "" {
		quest.Status = domain.QuestNotStarted
	}
	if quest.WorkoutDate.IsZero() {
		quest.WorkoutDate = now
	}
	quest.CreatedAt = now
	quest.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, quest)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a quest by its ObjectID.
func (r *mongoQuestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Quest, error) {
	var quest domain.Quest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quest)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &quest, nil
}

func (r *mongoQuestRepository) find(ctx context.Context, filter bson.M) ([]domain.Quest, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "workoutDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quests []domain.Quest
	if err = cursor.All(ctx, &quests); err != nil {
		return nil, err
	}
	return quests, nil
}

// GetByTrainer retrieves all quests created by a trainer.
func (r *mongoQuestRepository) GetByTrainer(ctx context.Context, trainerUID string) ([]domain.Quest, error) {
	return r.find(ctx, bson.M{"trainerUid": trainerUID})
}

// GetByMember retrieves all quests assigned to a member.
func (r *mongoQuestRepository) GetByMember(ctx context.Context, memberUID string) ([]domain.Quest, error) {
	return r.find(ctx, bson.M{"memberUid": memberUID})
}

// GetByTrainerAndMember retrieves the quests a trainer assigned to a member.
func (r *mongoQuestRepository) GetByTrainerAndMember(ctx context.Context, trainerUID, memberUID string) ([]domain.Quest, error) {
	return r.find(ctx, bson.M{"trainerUid": trainerUID, "memberUid": memberUID})
}

// OldestNotStarted returns the oldest not-started quest for a member.
func (r *mongoQuestRepository) OldestNotStarted(ctx context.Context, memberUID string) (*domain.Quest, error) {
	filter := bson.M{"memberUid": memberUID, "status": domain.QuestNotStarted}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "workoutDate", Value: 1}})

	var quest domain.Quest
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&quest)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &quest, nil
}

// UpdateStatus overwrites the status field of a quest.
func (r *mongoQuestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.QuestStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
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

// Delete removes a quest. The bool reports whether a document was removed.
func (r *mongoQuestRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// EnsureQuestIndexes creates necessary indexes for the quests collection.
func EnsureQuestIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "memberUid", Value: 1},
				{Key: "status", Value: 1},
				{Key: "workoutDate", Value: 1},
			},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerUid", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
