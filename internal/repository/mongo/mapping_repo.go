package mongo

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mappingCollectionName = "trainer_member_mappings"

// mongoMappingRepository implements repository.MappingRepository using MongoDB.
type mongoMappingRepository struct {
	collection *mongo.Collection
}

// NewMongoMappingRepository creates a new instance of mongoMappingRepository.
func NewMongoMappingRepository(db *mongo.Database) repository.MappingRepository {
	return &mongoMappingRepository{
		collection: db.Collection(mappingCollectionName),
	}
}

// Create inserts a new mapping. The unique (trainerUid, memberUid) index
// turns a concurrent duplicate insert into ErrConflict.
func (r *mongoMappingRepository) Create(ctx context.Context, mapping *domain.Mapping) (primitive.ObjectID, error) {
	if mapping.TrainerUID == "" || mapping.MemberUID == "" || mapping.RequesterUID == "" {
		return primitive.NilObjectID, errors.New("mapping trainer uid, member uid and requester uid are required")
	}

	mapping.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	mapping.CreatedAt = now
	mapping.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, mapping)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a mapping by its ObjectID.
func (r *mongoMappingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mapping, error) {
	var mapping domain.Mapping
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&mapping)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &mapping, nil
}

// GetByPair retrieves the single mapping for a (trainer, member) pair,
// regardless of its status.
func (r *mongoMappingRepository) GetByPair(ctx context.Context, trainerUID, memberUID string) (*domain.Mapping, error) {
	var mapping domain.Mapping
	filter := bson.M{"trainerUid": trainerUID, "memberUid": memberUID}

	err := r.collection.FindOne(ctx, filter).Decode(&mapping)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &mapping, nil
}

// GetByPrincipal retrieves all mappings involving the given principal.
func (r *mongoMappingRepository) GetByPrincipal(ctx context.Context, uid string, kind domain.Kind) ([]domain.Mapping, error) {
	field := "memberUid"
	if kind == domain.KindTrainer {
		field = "trainerUid"
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{field: uid}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mappings []domain.Mapping
	if err = cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// UpdateStatus overwrites the status field of a mapping.
func (r *mongoMappingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MappingStatus) error {
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

// DeleteByPair removes the mapping for a pair regardless of status. Deleting
// a non-existent mapping is not an error; the bool reports whether a document
// was actually removed.
func (r *mongoMappingRepository) DeleteByPair(ctx context.Context, trainerUID, memberUID string) (bool, error) {
	filter := bson.M{"trainerUid": trainerUID, "memberUid": memberUID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// DeleteByPrincipal removes every mapping involving the principal. Used when
// an account is deleted.
func (r *mongoMappingRepository) DeleteByPrincipal(ctx context.Context, uid string, kind domain.Kind) error {
	field := "memberUid"
	if kind == domain.KindTrainer {
		field = "trainerUid"
	}

	_, err := r.collection.DeleteMany(ctx, bson.M{field: uid})
	return err
}

// EnsureMappingIndexes creates necessary indexes for the mapping collection.
// The compound unique index is the invariant keeper: at most one mapping per
// (trainer, member) pair, across concurrent service instances.
func EnsureMappingIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "trainerUid", Value: 1},
				{Key: "memberUid", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "memberUid", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Without the unique pair index concurrent requests can duplicate a
		// mapping, so a failure here must not pass silently.
		log.Printf("WARN: failed to create mapping indexes: %v", err)
	}
}
