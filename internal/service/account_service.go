package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrTrainerNotFound  = errors.New("trainer not found")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrPasswordConfirm  = errors.New("new password and confirmation do not match")
	ErrIncompleteChange = errors.New("password change requires current, new and confirm passwords")
)

// MemberUpdate carries the PATCH /users/me payload. Nil fields are left
// untouched. Password change requires all three password fields.
type MemberUpdate struct {
	CurrentPassword  *string
	NewPassword      *string
	ConfirmPassword  *string
	Age              *int
	Height           *float64
	Weight           *float64
	WorkoutDuration  *int
	WorkoutFrequency *int
	WorkoutGoal      *int
}

// TrainerUpdate carries the PATCH /trainers/me payload.
type TrainerUpdate struct {
	CurrentPassword *string
	NewPassword     *string
	ConfirmPassword *string
}

// AccountService covers profile reads, updates and deletion for both
// principal kinds. Deleting an account also removes its mappings so the
// mapping engine never references a dead principal.
type AccountService interface {
	GetMemberByUID(ctx context.Context, uid string) (*domain.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error)
	GetTrainerByUID(ctx context.Context, uid string) (*domain.Trainer, error)
	GetTrainerByEmail(ctx context.Context, email string) (*domain.Trainer, error)
	UpdateMember(ctx context.Context, uid string, update MemberUpdate) (*domain.Member, error)
	UpdateTrainer(ctx context.Context, uid string, update TrainerUpdate) (*domain.Trainer, error)
	DeleteMember(ctx context.Context, uid string) error
	DeleteTrainer(ctx context.Context, uid string) error
}

type accountService struct {
	memberRepo  repository.MemberRepository
	trainerRepo repository.TrainerRepository
	mappingRepo repository.MappingRepository
}

// NewAccountService creates a new instance of accountService.
func NewAccountService(memberRepo repository.MemberRepository, trainerRepo repository.TrainerRepository, mappingRepo repository.MappingRepository) AccountService {
	return &accountService{
		memberRepo:  memberRepo,
		trainerRepo: trainerRepo,
		mappingRepo: mappingRepo,
	}
}

func (s *accountService) GetMemberByUID(ctx context.Context, uid string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	member.PasswordHash = ""
	return member, nil
}

func (s *accountService) GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	member.PasswordHash = ""
	return member, nil
}

func (s *accountService) GetTrainerByUID(ctx context.Context, uid string) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	trainer.PasswordHash = ""
	return trainer, nil
}

func (s *accountService) GetTrainerByEmail(ctx context.Context, email string) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	trainer.PasswordHash = ""
	return trainer, nil
}

// newHash validates a requested password change against the stored hash and
// returns the replacement hash, or "" when no change was requested.
func newHash(currentHash string, current, newPw, confirm *string) (string, error) {
	if current == nil && newPw == nil && confirm == nil {
		return "", nil
	}
	if current == nil || newPw == nil || confirm == nil {
		return "", ErrIncompleteChange
	}
	if *newPw != *confirm {
		return "", ErrPasswordConfirm
	}
	if bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(*current)) != nil {
		return "", ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(*newPw), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

// UpdateMember applies a profile and/or password update to a member.
func (s *accountService) UpdateMember(ctx context.Context, uid string, update MemberUpdate) (*domain.Member, error) {
	member, err := s.memberRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	hash, err := newHash(member.PasswordHash, update.CurrentPassword, update.NewPassword, update.ConfirmPassword)
	if err != nil {
		return nil, err
	}
	if hash != "" {
		member.PasswordHash = hash
	}

	if update.Age != nil {
		member.Age = update.Age
	}
	if update.Height != nil {
		member.Height = update.Height
	}
	if update.Weight != nil {
		member.Weight = update.Weight
	}
	if update.WorkoutDuration != nil {
		member.WorkoutDuration = update.WorkoutDuration
	}
	if update.WorkoutFrequency != nil {
		member.WorkoutFrequency = update.WorkoutFrequency
	}
	if update.WorkoutGoal != nil {
		member.WorkoutGoal = update.WorkoutGoal
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	member.PasswordHash = ""
	return member, nil
}

// UpdateTrainer applies a password update to a trainer.
func (s *accountService) UpdateTrainer(ctx context.Context, uid string, update TrainerUpdate) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	hash, err := newHash(trainer.PasswordHash, update.CurrentPassword, update.NewPassword, update.ConfirmPassword)
	if err != nil {
		return nil, err
	}
	if hash != "" {
		trainer.PasswordHash = hash
	}

	if err := s.trainerRepo.Update(ctx, trainer); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	trainer.PasswordHash = ""
	return trainer, nil
}

// DeleteMember removes the member account and every mapping involving it.
func (s *accountService) DeleteMember(ctx context.Context, uid string) error {
	if err := s.mappingRepo.DeleteByPrincipal(ctx, uid, domain.KindMember); err != nil {
		return err
	}
	err := s.memberRepo.Delete(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMemberNotFound
	}
	return err
}

// DeleteTrainer removes the trainer account and every mapping involving it.
func (s *accountService) DeleteTrainer(ctx context.Context, uid string) error {
	if err := s.mappingRepo.DeleteByPrincipal(ctx, uid, domain.KindTrainer); err != nil {
		return err
	}
	err := s.trainerRepo.Delete(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTrainerNotFound
	}
	return err
}
