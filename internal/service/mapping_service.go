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
	ErrMappingExists        = errors.New("a mapping already exists for this trainer and member")
	ErrMappingNotFound      = errors.New("mapping not found")
	ErrCounterpartyNotFound = errors.New("counterparty account not found")
	ErrInvalidMappingStatus = errors.New("unrecognized mapping status")
	ErrNotMappingParty      = errors.New("caller is not a party to this mapping")
	ErrOwnRequest           = errors.New("requester cannot accept their own request")
)

// MappingService owns the trainer-member relationship state machine: a
// request is created pending by either side, accepted only by the
// counterparty, and removed by either side at any time.
type MappingService interface {
	RequestMapping(ctx context.Context, requester *domain.Principal, otherUID string) (*domain.Mapping, error)
	UpdateMappingStatus(ctx context.Context, mappingID primitive.ObjectID, caller *domain.Principal, newStatus string) (*domain.Mapping, error)
	GetMapping(ctx context.Context, trainerUID, memberUID string) (*domain.Mapping, error)
	ListMappings(ctx context.Context, caller *domain.Principal) ([]domain.MappingInfo, error)
	RemoveMapping(ctx context.Context, caller *domain.Principal, otherUID string) (bool, error)
	IsAccepted(ctx context.Context, trainerUID, memberUID string) (bool, error)
	ConnectedMember(ctx context.Context, trainerUID, memberUID string) (*domain.Member, error)
}

type mappingService struct {
	mappingRepo repository.MappingRepository
	memberRepo  repository.MemberRepository
	trainerRepo repository.TrainerRepository
}

// NewMappingService creates a new instance of mappingService.
func NewMappingService(mappingRepo repository.MappingRepository, memberRepo repository.MemberRepository, trainerRepo repository.TrainerRepository) MappingService {
	return &mappingService{
		mappingRepo: mappingRepo,
		memberRepo:  memberRepo,
		trainerRepo: trainerRepo,
	}
}

// pairFor orients (requester, other) into (trainer, member) by the
// requester's kind.
func pairFor(requester *domain.Principal, otherUID string) (trainerUID, memberUID string) {
	if requester.IsTrainer() {
		return requester.UID, otherUID
	}
	return otherUID, requester.UID
}

// RequestMapping creates a pending mapping between the requester and the
// counterparty of the opposite kind.
func (s *mappingService) RequestMapping(ctx context.Context, requester *domain.Principal, otherUID string) (*domain.Mapping, error) {
	if otherUID == "" {
		return nil, ErrCounterpartyNotFound
	}

	// The counterparty must exist in the opposite kind's store.
	var err error
	if requester.IsTrainer() {
		_, err = s.memberRepo.GetByUID(ctx, otherUID)
	} else {
		_, err = s.trainerRepo.GetByUID(ctx, otherUID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCounterpartyNotFound
		}
		return nil, err
	}

	trainerUID, memberUID := pairFor(requester, otherUID)

	_, err = s.mappingRepo.GetByPair(ctx, trainerUID, memberUID)
	if err == nil {
		return nil, ErrMappingExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	mapping := &domain.Mapping{
		TrainerUID:   trainerUID,
		MemberUID:    memberUID,
		Status:       domain.MappingPending,
		RequesterUID: requester.UID,
	}

	id, err := s.mappingRepo.Create(ctx, mapping)
	if err != nil {
		// Lost the race against a concurrent request for the same pair.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrMappingExists
		}
		return nil, err
	}
	mapping.ID = id
	return mapping, nil
}

// UpdateMappingStatus overwrites the mapping status. Only a party to the
// mapping may call it, and the requester cannot accept their own request.
func (s *mappingService) UpdateMappingStatus(ctx context.Context, mappingID primitive.ObjectID, caller *domain.Principal, newStatus string) (*domain.Mapping, error) {
	status := domain.MappingStatus(newStatus)
	if !status.Valid() {
		return nil, ErrInvalidMappingStatus
	}

	mapping, err := s.mappingRepo.GetByID(ctx, mappingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMappingNotFound
		}
		return nil, err
	}

	if !mapping.IsParty(caller.UID) {
		return nil, ErrNotMappingParty
	}
	if status == domain.MappingAccepted && caller.UID == mapping.RequesterUID {
		return nil, ErrOwnRequest
	}

	if err := s.mappingRepo.UpdateStatus(ctx, mappingID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMappingNotFound
		}
		return nil, err
	}

	mapping.Status = status
	return mapping, nil
}

// GetMapping returns the single mapping for a pair, regardless of status.
func (s *mappingService) GetMapping(ctx context.Context, trainerUID, memberUID string) (*domain.Mapping, error) {
	mapping, err := s.mappingRepo.GetByPair(ctx, trainerUID, memberUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMappingNotFound
		}
		return nil, err
	}
	return mapping, nil
}

// ListMappings returns all mappings involving the caller, pending and
// accepted, joined with the counterparty's profile fields.
func (s *mappingService) ListMappings(ctx context.Context, caller *domain.Principal) ([]domain.MappingInfo, error) {
	mappings, err := s.mappingRepo.GetByPrincipal(ctx, caller.UID, caller.Kind)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.MappingInfo, 0, len(mappings))
	for _, m := range mappings {
		var counterparty *domain.Principal
		if caller.IsTrainer() {
			member, err := s.memberRepo.GetByUID(ctx, m.MemberUID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue // Counterparty account deleted out from under the mapping
				}
				return nil, err
			}
			counterparty = domain.FromMember(member)
		} else {
			trainer, err := s.trainerRepo.GetByUID(ctx, m.TrainerUID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return nil, err
			}
			counterparty = domain.FromTrainer(trainer)
		}

		infos = append(infos, domain.MappingInfo{
			MappingID:    m.ID,
			Counterparty: *counterparty,
			Status:       m.Status,
			RequestedBy:  m.RequesterUID,
		})
	}
	return infos, nil
}

// RemoveMapping deletes the mapping between the caller and the counterparty,
// whatever its status. Idempotent: removing an absent mapping returns false.
func (s *mappingService) RemoveMapping(ctx context.Context, caller *domain.Principal, otherUID string) (bool, error) {
	trainerUID, memberUID := pairFor(caller, otherUID)
	return s.mappingRepo.DeleteByPair(ctx, trainerUID, memberUID)
}

// IsAccepted reports whether an accepted mapping exists for the pair. This
// backs the check endpoint the workout service's authorization gateway calls.
func (s *mappingService) IsAccepted(ctx context.Context, trainerUID, memberUID string) (bool, error) {
	mapping, err := s.mappingRepo.GetByPair(ctx, trainerUID, memberUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return mapping.Status == domain.MappingAccepted, nil
}

// ConnectedMember returns a member's profile when the trainer holds an
// accepted mapping with them, ErrMappingNotFound otherwise.
func (s *mappingService) ConnectedMember(ctx context.Context, trainerUID, memberUID string) (*domain.Member, error) {
	accepted, err := s.IsAccepted(ctx, trainerUID, memberUID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrMappingNotFound
	}

	member, err := s.memberRepo.GetByUID(ctx, memberUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMappingNotFound
		}
		return nil, err
	}
	member.PasswordHash = ""
	return member, nil
}
