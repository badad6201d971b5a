package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

type accountFixture struct {
	svc      AccountService
	auth     AuthService
	members  *fakeMemberRepo
	trainers *fakeTrainerRepo
	mappings *fakeMappingRepo
}

func newAccountFixture() *accountFixture {
	members := newFakeMemberRepo()
	trainers := newFakeTrainerRepo()
	mappings := newFakeMappingRepo()
	return &accountFixture{
		svc:      NewAccountService(members, trainers, mappings),
		auth:     NewAuthService(members, trainers, testSecret, 30*time.Minute),
		members:  members,
		trainers: trainers,
		mappings: mappings,
	}
}

func TestUpdateMember_Profile(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	member, err := f.auth.RegisterMember(ctx, "member@example.com", "oldpass", "Mira", "Stone")
	require.NoError(t, err)

	updated, err := f.svc.UpdateMember(ctx, member.UID, MemberUpdate{
		Age:         intPtr(31),
		WorkoutGoal: intPtr(2),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 31, *updated.Age)
	require.NotNil(t, updated.WorkoutGoal)
	assert.Equal(t, 2, *updated.WorkoutGoal)
	assert.Nil(t, updated.Height, "untouched fields stay nil")
}

func TestUpdateMember_PasswordChange(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	member, err := f.auth.RegisterMember(ctx, "member@example.com", "oldpass", "Mira", "Stone")
	require.NoError(t, err)

	// All three fields are required together.
	_, err = f.svc.UpdateMember(ctx, member.UID, MemberUpdate{
		CurrentPassword: strPtr("oldpass"),
		NewPassword:     strPtr("newpass"),
	})
	assert.ErrorIs(t, err, ErrIncompleteChange)

	_, err = f.svc.UpdateMember(ctx, member.UID, MemberUpdate{
		CurrentPassword: strPtr("oldpass"),
		NewPassword:     strPtr("newpass"),
		ConfirmPassword: strPtr("different"),
	})
	assert.ErrorIs(t, err, ErrPasswordConfirm)

	_, err = f.svc.UpdateMember(ctx, member.UID, MemberUpdate{
		CurrentPassword: strPtr("wrong"),
		NewPassword:     strPtr("newpass"),
		ConfirmPassword: strPtr("newpass"),
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = f.svc.UpdateMember(ctx, member.UID, MemberUpdate{
		CurrentPassword: strPtr("oldpass"),
		NewPassword:     strPtr("newpass"),
		ConfirmPassword: strPtr("newpass"),
	})
	require.NoError(t, err)

	stored, err := f.members.GetByUID(ctx, member.UID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass")))

	_, err = f.auth.Login(ctx, "member@example.com", "oldpass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestUpdateTrainer_PasswordChange(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	trainer, err := f.auth.RegisterTrainer(ctx, "coach@example.com", "oldpass", "Theo", "Banks")
	require.NoError(t, err)

	_, err = f.svc.UpdateTrainer(ctx, trainer.UID, TrainerUpdate{
		CurrentPassword: strPtr("oldpass"),
		NewPassword:     strPtr("newpass"),
		ConfirmPassword: strPtr("newpass"),
	})
	require.NoError(t, err)

	token, err := f.auth.Login(ctx, "coach@example.com", "newpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestDeleteMember_RemovesMappings(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	member, err := f.auth.RegisterMember(ctx, "member@example.com", "pass", "Mira", "Stone")
	require.NoError(t, err)
	trainer, err := f.auth.RegisterTrainer(ctx, "coach@example.com", "pass", "Theo", "Banks")
	require.NoError(t, err)

	_, err = f.mappings.Create(ctx, &domain.Mapping{
		TrainerUID:   trainer.UID,
		MemberUID:    member.UID,
		Status:       domain.MappingAccepted,
		RequesterUID: trainer.UID,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteMember(ctx, member.UID))

	_, err = f.svc.GetMemberByUID(ctx, member.UID)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	remaining, err := f.mappings.GetByPrincipal(ctx, trainer.UID, domain.KindTrainer)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.ErrorIs(t, f.svc.DeleteMember(ctx, member.UID), ErrMemberNotFound)
}

func TestDeleteTrainer_RemovesMappings(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	member, err := f.auth.RegisterMember(ctx, "member@example.com", "pass", "Mira", "Stone")
	require.NoError(t, err)
	trainer, err := f.auth.RegisterTrainer(ctx, "coach@example.com", "pass", "Theo", "Banks")
	require.NoError(t, err)

	_, err = f.mappings.Create(ctx, &domain.Mapping{
		TrainerUID:   trainer.UID,
		MemberUID:    member.UID,
		Status:       domain.MappingPending,
		RequesterUID: member.UID,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTrainer(ctx, trainer.UID))

	remaining, err := f.mappings.GetByPrincipal(ctx, member.UID, domain.KindMember)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
