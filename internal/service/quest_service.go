package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrQuestNotFound     = errors.New("quest not found")
	ErrQuestAccessDenied = errors.New("access denied to this quest")
	ErrTrainerOnly       = errors.New("only trainers may perform this action")
	ErrMemberOnly        = errors.New("only members may perform this action")
	ErrNotLinked         = errors.New("trainer is not linked to this member")
	ErrEmptyQuest        = errors.New("quest requires at least one workout")
)

// QuestInput carries the quest creation payload.
type QuestInput struct {
	MemberUID string
	Workouts  []domain.QuestWorkout
}

// QuestService manages trainer-assigned quests. Creation and per-member
// listing require an accepted mapping, checked through the user service.
type QuestService interface {
	CreateQuest(ctx context.Context, caller *domain.Principal, token string, input QuestInput) (*domain.Quest, error)
	ListQuests(ctx context.Context, caller *domain.Principal) ([]domain.Quest, error)
	ListQuestsForMember(ctx context.Context, caller *domain.Principal, token, memberUID string) ([]domain.Quest, error)
	OldestNotStarted(ctx context.Context, caller *domain.Principal) (*domain.Quest, error)
	DeleteQuest(ctx context.Context, caller *domain.Principal, questID primitive.ObjectID) error
}

type questService struct {
	questRepo repository.QuestRepository
	mappings  MappingChecker
}

// NewQuestService creates a new instance of questService.
func NewQuestService(questRepo repository.QuestRepository, mappings MappingChecker) QuestService {
	return &questService{
		questRepo: questRepo,
		mappings:  mappings,
	}
}

// CreateQuest assigns a new quest to a linked member.
func (s *questService) CreateQuest(ctx context.Context, caller *domain.Principal, token string, input QuestInput) (*domain.Quest, error) {
	if !caller.IsTrainer() {
		return nil, ErrTrainerOnly
	}
	if len(input.Workouts) == 0 {
		return nil, ErrEmptyQuest
	}
	if !s.mappings.IsLinked(ctx, caller.UID, input.MemberUID, token) {
		return nil, ErrNotLinked
	}

	quest := &domain.Quest{
		TrainerUID: caller.UID,
		MemberUID:  input.MemberUID,
		Status:     domain.QuestNotStarted,
		Workouts:   input.Workouts,
	}

	id, err := s.questRepo.Create(ctx, quest)
	if err != nil {
		return nil, err
	}
	quest.ID = id
	return quest, nil
}

// ListQuests returns the caller's quests: assigned-by for trainers,
// assigned-to for members.
func (s *questService) ListQuests(ctx context.Context, caller *domain.Principal) ([]domain.Quest, error) {
	if caller.IsTrainer() {
		return s.questRepo.GetByTrainer(ctx, caller.UID)
	}
	return s.questRepo.GetByMember(ctx, caller.UID)
}

// ListQuestsForMember returns the quests the calling trainer assigned to a
// specific linked member.
func (s *questService) ListQuestsForMember(ctx context.Context, caller *domain.Principal, token, memberUID string) ([]domain.Quest, error) {
	if !caller.IsTrainer() {
		return nil, ErrTrainerOnly
	}
	if !s.mappings.IsLinked(ctx, caller.UID, memberUID, token) {
		return nil, ErrNotLinked
	}
	return s.questRepo.GetByTrainerAndMember(ctx, caller.UID, memberUID)
}

// OldestNotStarted returns the member's oldest quest still waiting to be run.
func (s *questService) OldestNotStarted(ctx context.Context, caller *domain.Principal) (*domain.Quest, error) {
	if !caller.IsMember() {
		return nil, ErrMemberOnly
	}
	quest, err := s.questRepo.OldestNotStarted(ctx, caller.UID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}
	return quest, nil
}

// DeleteQuest removes a quest. Only the trainer who assigned it may delete;
// members cannot delete quests at all.
func (s *questService) DeleteQuest(ctx context.Context, caller *domain.Principal, questID primitive.ObjectID) error {
	quest, err := s.questRepo.GetByID(ctx, questID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestNotFound
		}
		return err
	}

	if !caller.IsTrainer() || quest.TrainerUID != caller.UID {
		return ErrQuestAccessDenied
	}

	deleted, err := s.questRepo.Delete(ctx, questID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuestNotFound
	}
	return nil
}
