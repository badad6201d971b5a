package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sessionFixture struct {
	svc      SessionService
	sessions *fakeSessionRepo
	quests   *fakeQuestRepo
	checker  *stubChecker
	trainer  *domain.Principal
	member   *domain.Principal
}

func newSessionFixture() *sessionFixture {
	sessions := newFakeSessionRepo()
	quests := newFakeQuestRepo()
	checker := &stubChecker{linked: make(map[string]bool)}
	return &sessionFixture{
		svc:      NewSessionService(sessions, quests, checker),
		sessions: sessions,
		quests:   quests,
		checker:  checker,
		trainer:  &domain.Principal{Kind: domain.KindTrainer, UID: uuid.NewString()},
		member:   &domain.Principal{Kind: domain.KindMember, UID: uuid.NewString()},
	}
}

func (f *sessionFixture) link() {
	f.checker.linked[f.trainer.UID+"/"+f.member.UID] = true
}

func TestCreateSession_MemberCustom(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, f.member, "token", CreateSessionInput{SessionType: "custom"})
	require.NoError(t, err)
	assert.Equal(t, f.member.UID, session.MemberUID)
	assert.Equal(t, domain.SessionCustom, session.SessionType)
	assert.False(t, session.IsPT)
	assert.False(t, session.ID.IsZero())
}

func TestCreateSession_MemberAI(t *testing.T) {
	f := newSessionFixture()

	session, err := f.svc.CreateSession(context.Background(), f.member, "token", CreateSessionInput{SessionType: "ai"})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionAI, session.SessionType)
	assert.Equal(t, f.member.UID, session.MemberUID)
	assert.False(t, session.IsPT)
}

func TestCreateSession_MemberCannotStartPT(t *testing.T) {
	f := newSessionFixture()

	_, err := f.svc.CreateSession(context.Background(), f.member, "token", CreateSessionInput{SessionType: "pt"})
	assert.ErrorIs(t, err, ErrInvalidSessionType)
}

func TestCreateSession_QuestSession(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	questID, err := f.quests.Create(ctx, &domain.Quest{
		TrainerUID: f.trainer.UID,
		MemberUID:  f.member.UID,
		Workouts:   []domain.QuestWorkout{{WorkoutKey: 7}},
	})
	require.NoError(t, err)

	session, err := f.svc.CreateSession(ctx, f.member, "token", CreateSessionInput{
		SessionType: "quest",
		QuestID:     &questID,
	})
	require.NoError(t, err)
	require.NotNil(t, session.QuestID)
	assert.Equal(t, questID, *session.QuestID)

	// Quest sessions without a quest id are rejected.
	_, err = f.svc.CreateSession(ctx, f.member, "token", CreateSessionInput{SessionType: "quest"})
	assert.ErrorIs(t, err, ErrQuestRequired)

	// A different member cannot run someone else's quest.
	other := &domain.Principal{Kind: domain.KindMember, UID: uuid.NewString()}
	_, err = f.svc.CreateSession(ctx, other, "token", CreateSessionInput{
		SessionType: "quest",
		QuestID:     &questID,
	})
	assert.ErrorIs(t, err, ErrQuestMemberMismatch)
}

func TestCreateSession_TrainerPT(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	// Not linked yet: fail closed.
	_, err := f.svc.CreateSession(ctx, f.trainer, "token", CreateSessionInput{MemberUID: f.member.UID})
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	f.link()
	session, err := f.svc.CreateSession(ctx, f.trainer, "token", CreateSessionInput{MemberUID: f.member.UID})
	require.NoError(t, err)
	assert.Equal(t, f.member.UID, session.MemberUID)
	assert.Equal(t, f.trainer.UID, session.TrainerUID)
	assert.Equal(t, domain.SessionPT, session.SessionType)
	assert.True(t, session.IsPT)

	_, err = f.svc.CreateSession(ctx, f.trainer, "token", CreateSessionInput{})
	assert.ErrorIs(t, err, ErrMemberRequired)
}

func TestSaveSession_OwnerAndPTTrainer(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()
	f.link()

	session, err := f.svc.CreateSession(ctx, f.trainer, "token", CreateSessionInput{MemberUID: f.member.UID})
	require.NoError(t, err)

	sets := []domain.SetRecord{{WorkoutKey: 3, SetNum: 1, Weight: 60, Reps: 8, RestTime: 90}}

	// The PT trainer can save.
	saved, err := f.svc.SaveSession(ctx, f.trainer, session.ID, sets)
	require.NoError(t, err)
	assert.Equal(t, sets, saved.Sets)

	// The owning member can save too.
	_, err = f.svc.SaveSession(ctx, f.member, session.ID, sets)
	require.NoError(t, err)

	// Anyone else cannot.
	outsider := &domain.Principal{Kind: domain.KindTrainer, UID: uuid.NewString()}
	_, err = f.svc.SaveSession(ctx, outsider, session.ID, sets)
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	_, err = f.svc.SaveSession(ctx, f.member, primitive.NewObjectID(), sets)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSaveSession_CompletesQuest(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	questID, err := f.quests.Create(ctx, &domain.Quest{
		TrainerUID: f.trainer.UID,
		MemberUID:  f.member.UID,
		Workouts:   []domain.QuestWorkout{{WorkoutKey: 7}},
	})
	require.NoError(t, err)

	session, err := f.svc.CreateSession(ctx, f.member, "token", CreateSessionInput{
		SessionType: "quest",
		QuestID:     &questID,
	})
	require.NoError(t, err)

	_, err = f.svc.SaveSession(ctx, f.member, session.ID, []domain.SetRecord{{WorkoutKey: 7, SetNum: 1, Reps: 10}})
	require.NoError(t, err)

	quest, err := f.quests.GetByID(ctx, questID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuestCompleted, quest.Status)
}

func TestGetSessions_AccessRule(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	_, err := f.svc.CreateSession(ctx, f.member, "token", CreateSessionInput{SessionType: "custom"})
	require.NoError(t, err)

	// Member reads their own rows.
	sessions, err := f.svc.GetSessions(ctx, f.member, "token", f.member.UID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	// Member cannot read another member's rows.
	_, err = f.svc.GetSessions(ctx, f.member, "token", uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	// Unlinked trainer is denied; linked trainer is allowed.
	_, err = f.svc.GetSessions(ctx, f.trainer, "token", f.member.UID)
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	f.link()
	sessions, err = f.svc.GetSessions(ctx, f.trainer, "token", f.member.UID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSessionCounts(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	_, err := f.svc.CreateSession(ctx, f.member, "token", CreateSessionInput{SessionType: "custom"})
	require.NoError(t, err)
	_, err = f.svc.CreateSession(ctx, f.member, "token", CreateSessionInput{SessionType: "custom"})
	require.NoError(t, err)

	start := time.Now().Add(-24 * time.Hour)
	end := time.Now().Add(24 * time.Hour)

	counts, err := f.svc.SessionCounts(ctx, f.member, "token", f.member.UID, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["custom"])

	// An empty window counts nothing.
	counts, err = f.svc.SessionCounts(ctx, f.member, "token", f.member.UID, start.Add(-time.Hour), start)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestWorkoutRecords(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	// No history yet: empty map, not an error.
	records, err := f.svc.WorkoutRecords(ctx, f.member, 7)
	require.NoError(t, err)
	assert.Empty(t, records)

	older := &domain.Session{
		MemberUID:   f.member.UID,
		SessionType: domain.SessionCustom,
		WorkoutDate: time.Now().Add(-48 * time.Hour),
		Sets: []domain.SetRecord{
			{WorkoutKey: 7, SetNum: 1, Weight: 50, Reps: 10},
		},
	}
	_, err = f.sessions.Create(ctx, older)
	require.NoError(t, err)

	newer := &domain.Session{
		MemberUID:   f.member.UID,
		SessionType: domain.SessionCustom,
		WorkoutDate: time.Now().Add(-time.Hour),
		Sets: []domain.SetRecord{
			{WorkoutKey: 7, SetNum: 1, Weight: 55, Reps: 8},
			{WorkoutKey: 7, SetNum: 2, Weight: 55, Reps: 6},
			{WorkoutKey: 9, SetNum: 1, Weight: 30, Reps: 12},
		},
	}
	_, err = f.sessions.Create(ctx, newer)
	require.NoError(t, err)

	// Records come from the most recent session only, keyed by set number,
	// and other workouts in that session are filtered out.
	records, err = f.svc.WorkoutRecords(ctx, f.member, 7)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 55.0, records[1].Weight)
	assert.Equal(t, 8, records[1].Reps)
	assert.Equal(t, 6, records[2].Reps)

	// The caller's history is their own; another member sees nothing.
	other := &domain.Principal{Kind: domain.KindMember, UID: uuid.NewString()}
	records, err = f.svc.WorkoutRecords(ctx, other, 7)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLastSessionUpdate(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	_, err := f.svc.LastSessionUpdate(ctx, f.member, "token", f.member.UID)
	assert.ErrorIs(t, err, ErrNoSessionsYet)

	_, err = f.svc.CreateSession(ctx, f.member, "token", CreateSessionInput{SessionType: "custom"})
	require.NoError(t, err)

	last, err := f.svc.LastSessionUpdate(ctx, f.member, "token", f.member.UID)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}
