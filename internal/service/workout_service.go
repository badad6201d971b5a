package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutService serves the read-only exercise catalog.
type WorkoutService interface {
	WorkoutsByPart(ctx context.Context, workoutPartID *int) (map[string][]domain.WorkoutRef, error)
	WorkoutName(ctx context.Context, workoutKey int) (string, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo}
}

// WorkoutsByPart groups catalog entries by body-part name, optionally
// restricted to one part.
func (s *workoutService) WorkoutsByPart(ctx context.Context, workoutPartID *int) (map[string][]domain.WorkoutRef, error) {
	refs, err := s.workoutRepo.GetByPart(ctx, workoutPartID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.WorkoutRef)
	for _, ref := range refs {
		grouped[ref.WorkoutPart] = append(grouped[ref.WorkoutPart], ref)
	}
	return grouped, nil
}

// WorkoutName resolves a workout key to its display name.
func (s *workoutService) WorkoutName(ctx context.Context, workoutKey int) (string, error) {
	ref, err := s.workoutRepo.GetByKey(ctx, workoutKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrWorkoutNotFound
		}
		return "", err
	}
	return ref.WorkoutName, nil
}
