package repository

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MemberRepository defines the interface for member principal data.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByUID(ctx context.Context, uid string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, uid string) error
}

// TrainerRepository defines the interface for trainer principal data.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) error
	GetByUID(ctx context.Context, uid string) (*domain.Trainer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Trainer, error)
	Update(ctx context.Context, trainer *domain.Trainer) error
	Delete(ctx context.Context, uid string) error
}

// MappingRepository defines the interface for trainer-member mapping data.
// Implementations must back GetByPair/Create with a unique constraint on the
// (trainer, member) pair so concurrent creates cannot duplicate a mapping.
type MappingRepository interface {
	Create(ctx context.Context, mapping *domain.Mapping) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mapping, error)
	GetByPair(ctx context.Context, trainerUID, memberUID string) (*domain.Mapping, error)
	GetByPrincipal(ctx context.Context, uid string, kind domain.Kind) ([]domain.Mapping, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MappingStatus) error
	DeleteByPair(ctx context.Context, trainerUID, memberUID string) (bool, error)
	DeleteByPrincipal(ctx context.Context, uid string, kind domain.Kind) error
}

// SessionRepository defines the interface for workout session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetByMember(ctx context.Context, memberUID string) ([]domain.Session, error)
	ReplaceSets(ctx context.Context, id primitive.ObjectID, sets []domain.SetRecord) error
	LatestWithWorkout(ctx context.Context, memberUID string, workoutKey int) (*domain.Session, error)
	CountByTypeInRange(ctx context.Context, memberUID string, start, end time.Time) (map[string]int, error)
	LastWorkoutDate(ctx context.Context, memberUID string) (time.Time, error)
}

// QuestRepository defines the interface for quest data.
type QuestRepository interface {
	Create(ctx context.Context, quest *domain.Quest) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Quest, error)
	GetByTrainer(ctx context.Context, trainerUID string) ([]domain.Quest, error)
	GetByMember(ctx context.Context, memberUID string) ([]domain.Quest, error)
	GetByTrainerAndMember(ctx context.Context, trainerUID, memberUID string) ([]domain.Quest, error)
	OldestNotStarted(ctx context.Context, memberUID string) (*domain.Quest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.QuestStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// WorkoutRepository defines the interface for the read-only workout catalog.
type WorkoutRepository interface {
	GetByPart(ctx context.Context, workoutPartID *int) ([]domain.WorkoutRef, error)
	GetByKey(ctx context.Context, workoutKey int) (*domain.WorkoutRef, error)
}
