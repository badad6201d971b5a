package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied to this member's sessions")
	ErrQuestRequired       = errors.New("quest sessions require a quest id")
	ErrMemberRequired      = errors.New("trainers must name the member the session is for")
	ErrInvalidSessionType  = errors.New("unrecognized session type")
	ErrQuestMemberMismatch = errors.New("quest does not belong to this member")
	ErrNoSessionsYet       = errors.New("member has no recorded sessions")
)

// MappingChecker answers the cross-service "is trainer T linked to member M"
// question. Implementations must fail closed: on any doubt, return false.
type MappingChecker interface {
	IsLinked(ctx context.Context, trainerUID, memberUID, token string) bool
}

// CreateSessionInput carries the session creation parameters. MemberUID and
// QuestID are only meaningful for trainers and quest sessions respectively.
type CreateSessionInput struct {
	SessionType string
	MemberUID   string
	QuestID     *primitive.ObjectID
}

// SessionService guards session data with the member-self / linked-trainer
// access rule: members reach only their own rows, trainers reach a member's
// rows only through an accepted mapping, verified via the user service.
type SessionService interface {
	CreateSession(ctx context.Context, caller *domain.Principal, token string, input CreateSessionInput) (*domain.Session, error)
	SaveSession(ctx context.Context, caller *domain.Principal, sessionID primitive.ObjectID, sets []domain.SetRecord) (*domain.Session, error)
	GetSessions(ctx context.Context, caller *domain.Principal, token, memberUID string) ([]domain.Session, error)
	SessionCounts(ctx context.Context, caller *domain.Principal, token, memberUID string, start, end time.Time) (map[string]int, error)
	LastSessionUpdate(ctx context.Context, caller *domain.Principal, token, memberUID string) (time.Time, error)
	WorkoutRecords(ctx context.Context, caller *domain.Principal, workoutKey int) (map[int]domain.SetRecord, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	questRepo   repository.QuestRepository
	mappings    MappingChecker
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(sessionRepo repository.SessionRepository, questRepo repository.QuestRepository, mappings MappingChecker) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		questRepo:   questRepo,
		mappings:    mappings,
	}
}

// authorizeMemberAccess enforces the access rule for member-scoped reads.
func (s *sessionService) authorizeMemberAccess(ctx context.Context, caller *domain.Principal, token, memberUID string) error {
	switch caller.Kind {
	case domain.KindMember:
		if caller.UID != memberUID {
			return ErrSessionAccessDenied
		}
		return nil
	case domain.KindTrainer:
		if s.mappings.IsLinked(ctx, caller.UID, memberUID, token) {
			return nil
		}
		return ErrSessionAccessDenied
	default:
		return ErrSessionAccessDenied
	}
}

// CreateSession starts a session. Members start their own quest or custom
// sessions; trainers start PT sessions for a linked member.
func (s *sessionService) CreateSession(ctx context.Context, caller *domain.Principal, token string, input CreateSessionInput) (*domain.Session, error) {
	session := &domain.Session{}

	if caller.IsTrainer() {
		if input.MemberUID == "" {
			return nil, ErrMemberRequired
		}
		if !s.mappings.IsLinked(ctx, caller.UID, input.MemberUID, token) {
			return nil, ErrSessionAccessDenied
		}
		session.MemberUID = input.MemberUID
		session.TrainerUID = caller.UID
		session.SessionType = domain.SessionPT
		session.IsPT = true
	} else {
		sessionType := domain.SessionType(input.SessionType)
		if sessionType == "" {
			sessionType = domain.SessionCustom
		}
		if !sessionType.Valid() || sessionType == domain.SessionPT {
			return nil, ErrInvalidSessionType
		}
		if sessionType == domain.SessionQuest {
			if input.QuestID == nil {
				return nil, ErrQuestRequired
			}
			quest, err := s.questRepo.GetByID(ctx, *input.QuestID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrQuestNotFound
				}
				return nil, err
			}
			if quest.MemberUID != caller.UID {
				return nil, ErrQuestMemberMismatch
			}
			session.QuestID = input.QuestID
		}
		session.MemberUID = caller.UID
		session.SessionType = sessionType
	}

	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = id
	return session, nil
}

// SaveSession records the performed sets. Only the owning member or the
// trainer who runs the PT session may save; saving a quest session marks the
// quest completed.
func (s *sessionService) SaveSession(ctx context.Context, caller *domain.Principal, sessionID primitive.ObjectID, sets []domain.SetRecord) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	owns := session.MemberUID == caller.UID
	runs := caller.IsTrainer() && session.TrainerUID == caller.UID
	if !owns && !runs {
		return nil, ErrSessionAccessDenied
	}

	if err := s.sessionRepo.ReplaceSets(ctx, sessionID, sets); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.QuestID != nil {
		if err := s.questRepo.UpdateStatus(ctx, *session.QuestID, domain.QuestCompleted); err != nil &&
			!errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	session.Sets = sets
	return session, nil
}

// GetSessions returns a member's sessions with their sets.
func (s *sessionService) GetSessions(ctx context.Context, caller *domain.Principal, token, memberUID string) ([]domain.Session, error) {
	if err := s.authorizeMemberAccess(ctx, caller, token, memberUID); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByMember(ctx, memberUID)
}

// SessionCounts returns per-type session counts for a member within a window.
func (s *sessionService) SessionCounts(ctx context.Context, caller *domain.Principal, token, memberUID string, start, end time.Time) (map[string]int, error) {
	if err := s.authorizeMemberAccess(ctx, caller, token, memberUID); err != nil {
		return nil, err
	}
	return s.sessionRepo.CountByTypeInRange(ctx, memberUID, start, end)
}

// WorkoutRecords returns the caller's set records for one workout from their
// most recent session containing it, keyed by set number. Always scoped to the
// caller's own rows; no records means an empty map, not an error.
func (s *sessionService) WorkoutRecords(ctx context.Context, caller *domain.Principal, workoutKey int) (map[int]domain.SetRecord, error) {
	session, err := s.sessionRepo.LatestWithWorkout(ctx, caller.UID, workoutKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return map[int]domain.SetRecord{}, nil
		}
		return nil, err
	}

	records := make(map[int]domain.SetRecord)
	for _, set := range session.Sets {
		if set.WorkoutKey == workoutKey {
			records[set.SetNum] = set
		}
	}
	return records, nil
}

// LastSessionUpdate returns the member's most recent workout date.
func (s *sessionService) LastSessionUpdate(ctx context.Context, caller *domain.Principal, token, memberUID string) (time.Time, error) {
	if err := s.authorizeMemberAccess(ctx, caller, token, memberUID); err != nil {
		return time.Time{}, err
	}
	last, err := s.sessionRepo.LastWorkoutDate(ctx, memberUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return time.Time{}, ErrNoSessionsYet
		}
		return time.Time{}, err
	}
	return last, nil
}
