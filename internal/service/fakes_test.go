package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes backing the service tests.

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[string]*domain.Member // keyed by uid
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*domain.Member)}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Email == member.Email {
			return repository.ErrConflict
		}
	}
	member.Role = domain.KindMember
	member.CreatedAt = time.Now().UTC()
	member.UpdatedAt = member.CreatedAt
	clone := *member
	r.members[member.UID] = &clone
	return nil
}

func (r *fakeMemberRepo) GetByUID(_ context.Context, uid string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[uid]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Email == email {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMemberRepo) Update(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[member.UID]; !ok {
		return repository.ErrNotFound
	}
	clone := *member
	r.members[member.UID] = &clone
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[uid]; !ok {
		return repository.ErrNotFound
	}
	delete(r.members, uid)
	return nil
}

type fakeTrainerRepo struct {
	mu       sync.Mutex
	trainers map[string]*domain.Trainer
}

func newFakeTrainerRepo() *fakeTrainerRepo {
	return &fakeTrainerRepo{trainers: make(map[string]*domain.Trainer)}
}

func (r *fakeTrainerRepo) Create(_ context.Context, trainer *domain.Trainer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trainers {
		if t.Email == trainer.Email {
			return repository.ErrConflict
		}
	}
	trainer.Role = domain.KindTrainer
	trainer.CreatedAt = time.Now().UTC()
	trainer.UpdatedAt = trainer.CreatedAt
	clone := *trainer
	r.trainers[trainer.UID] = &clone
	return nil
}

func (r *fakeTrainerRepo) GetByUID(_ context.Context, uid string) (*domain.Trainer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.trainers[uid]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTrainerRepo) GetByEmail(_ context.Context, email string) (*domain.Trainer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trainers {
		if t.Email == email {
			clone := *t
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTrainerRepo) Update(_ context.Context, trainer *domain.Trainer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trainers[trainer.UID]; !ok {
		return repository.ErrNotFound
	}
	clone := *trainer
	r.trainers[trainer.UID] = &clone
	return nil
}

func (r *fakeTrainerRepo) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trainers[uid]; !ok {
		return repository.ErrNotFound
	}
	delete(r.trainers, uid)
	return nil
}

type fakeMappingRepo struct {
	mu       sync.Mutex
	mappings map[primitive.ObjectID]*domain.Mapping
}

func newFakeMappingRepo() *fakeMappingRepo {
	return &fakeMappingRepo{mappings: make(map[primitive.ObjectID]*domain.Mapping)}
}

func (r *fakeMappingRepo) Create(_ context.Context, mapping *domain.Mapping) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mappings {
		if m.TrainerUID == mapping.TrainerUID && m.MemberUID == mapping.MemberUID {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	mapping.ID = primitive.NewObjectID()
	mapping.CreatedAt = time.Now().UTC()
	mapping.UpdatedAt = mapping.CreatedAt
	clone := *mapping
	r.mappings[mapping.ID] = &clone
	return mapping.ID, nil
}

func (r *fakeMappingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.mappings[id]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMappingRepo) GetByPair(_ context.Context, trainerUID, memberUID string) (*domain.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mappings {
		if m.TrainerUID == trainerUID && m.MemberUID == memberUID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMappingRepo) GetByPrincipal(_ context.Context, uid string, kind domain.Kind) ([]domain.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Mapping
	for _, m := range r.mappings {
		if (kind == domain.KindTrainer && m.TrainerUID == uid) ||
			(kind == domain.KindMember && m.MemberUID == uid) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMappingRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.MappingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mappings[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeMappingRepo) DeleteByPair(_ context.Context, trainerUID, memberUID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.mappings {
		if m.TrainerUID == trainerUID && m.MemberUID == memberUID {
			delete(r.mappings, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMappingRepo) DeleteByPrincipal(_ context.Context, uid string, kind domain.Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.mappings {
		if (kind == domain.KindTrainer && m.TrainerUID == uid) ||
			(kind == domain.KindMember && m.MemberUID == uid) {
			delete(r.mappings, id)
		}
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = primitive.NewObjectID()
	if session.WorkoutDate.IsZero() {
		session.WorkoutDate = time.Now().UTC()
	}
	if session.Sets == nil {
		session.Sets = []domain.SetRecord{}
	}
	clone := *session
	r.sessions[session.ID] = &clone
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) GetByMember(_ context.Context, memberUID string) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Session
	for _, s := range r.sessions {
		if s.MemberUID == memberUID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) ReplaceSets(_ context.Context, id primitive.ObjectID, sets []domain.SetRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Sets = sets
	return nil
}

func (r *fakeSessionRepo) LatestWithWorkout(_ context.Context, memberUID string, workoutKey int) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.Session
	for _, s := range r.sessions {
		if s.MemberUID != memberUID {
			continue
		}
		hasKey := false
		for _, set := range s.Sets {
			if set.WorkoutKey == workoutKey {
				hasKey = true
				break
			}
		}
		if !hasKey {
			continue
		}
		if latest == nil || s.WorkoutDate.After(latest.WorkoutDate) {
			latest = s
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *fakeSessionRepo) CountByTypeInRange(_ context.Context, memberUID string, start, end time.Time) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, s := range r.sessions {
		if s.MemberUID == memberUID && !s.WorkoutDate.Before(start) && !s.WorkoutDate.After(end) {
			counts[string(s.SessionType)]++
		}
	}
	return counts, nil
}

func (r *fakeSessionRepo) LastWorkoutDate(_ context.Context, memberUID string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last time.Time
	for _, s := range r.sessions {
		if s.MemberUID == memberUID && s.WorkoutDate.After(last) {
			last = s.WorkoutDate
		}
	}
	if last.IsZero() {
		return time.Time{}, repository.ErrNotFound
	}
	return last, nil
}

type fakeQuestRepo struct {
	mu     sync.Mutex
	quests map[primitive.ObjectID]*domain.Quest
}

func newFakeQuestRepo() *fakeQuestRepo {
	return &fakeQuestRepo{quests: make(map[primitive.ObjectID]*domain.Quest)}
}

func (r *fakeQuestRepo) Create(_ context.Context, quest *domain.Quest) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quest.ID = primitive.NewObjectID()
	if quest.Status == "" {
		quest.Status = domain.QuestNotStarted
	}
	if quest.WorkoutDate.IsZero() {
		quest.WorkoutDate = time.Now().UTC()
	}
	clone := *quest
	r.quests[quest.ID] = &clone
	return quest.ID, nil
}

func (r *fakeQuestRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Quest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.quests[id]; ok {
		clone := *q
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeQuestRepo) GetByTrainer(_ context.Context, trainerUID string) ([]domain.Quest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Quest
	for _, q := range r.quests {
		if q.TrainerUID == trainerUID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuestRepo) GetByMember(_ context.Context, memberUID string) ([]domain.Quest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Quest
	for _, q := range r.quests {
		if q.MemberUID == memberUID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuestRepo) GetByTrainerAndMember(_ context.Context, trainerUID, memberUID string) ([]domain.Quest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Quest
	for _, q := range r.quests {
		if q.TrainerUID == trainerUID && q.MemberUID == memberUID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuestRepo) OldestNotStarted(_ context.Context, memberUID string) (*domain.Quest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var oldest *domain.Quest
	for _, q := range r.quests {
		if q.MemberUID != memberUID || q.Status != domain.QuestNotStarted {
			continue
		}
		if oldest == nil || q.WorkoutDate.Before(oldest.WorkoutDate) {
			oldest = q
		}
	}
	if oldest == nil {
		return nil, repository.ErrNotFound
	}
	clone := *oldest
	return &clone, nil
}

func (r *fakeQuestRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.QuestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quests[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Status = status
	return nil
}

func (r *fakeQuestRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quests[id]; !ok {
		return false, nil
	}
	delete(r.quests, id)
	return true, nil
}

// stubChecker is a canned MappingChecker; linked maps "trainerUid/memberUid"
// to the answer.
type stubChecker struct {
	linked map[string]bool
}

func (s *stubChecker) IsLinked(_ context.Context, trainerUID, memberUID, _ string) bool {
	return s.linked[trainerUID+"/"+memberUID]
}
