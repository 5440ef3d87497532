package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexdesk/portal-service/internal/auth"
	"github.com/nexdesk/portal-service/internal/config"
	"github.com/nexdesk/portal-service/internal/domain"
)

type mapCodeStore struct {
	values map[string]string
}

func (s *mapCodeStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.values[key] = value
	return nil
}

func (s *mapCodeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", auth.ErrCodeNotFound
	}
	return value, nil
}

func (s *mapCodeStore) Del(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func newAuthServiceForTest(mfaRequired bool) (*AuthService, *fakeUserRepo, *fakeStaffRepo, *mapCodeStore) {
	users := newFakeUserRepo()
	staff := newFakeStaffRepo()
	store := &mapCodeStore{values: make(map[string]string)}

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
			MFARequired:           mfaRequired,
			MFACodeTTLMinutes:     5,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:  users,
		StaffRepo: staff,
		MFA:       auth.NewMFAManager(store, 5*time.Minute),
		Logger:    zap.NewNop(),
	})
	return svc, users, staff, store
}

func TestRegisterAndLoginUser(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(false)
	ctx := context.Background()

	user, token, exp, err := svc.RegisterUser(ctx, "Pat", "pat@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	// Duplicate registration is rejected.
	_, _, _, err = svc.RegisterUser(ctx, "Pat", "pat@example.com", "hunter2hunter2")
	require.Error(t, err)

	_, token, _, err = svc.LoginUser(ctx, "pat@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, _, err = svc.LoginUser(ctx, "pat@example.com", "wrong")
	require.Error(t, err)

	_, _, _, err = svc.LoginUser(ctx, "nobody@example.com", "hunter2hunter2")
	require.Error(t, err)
}

func TestLoginSuspendedUser(t *testing.T) {
	svc, users, _, _ := newAuthServiceForTest(false)
	ctx := context.Background()

	user, _, _, err := svc.RegisterUser(ctx, "Pat", "pat@example.com", "hunter2hunter2")
	require.NoError(t, err)

	user.Status = domain.UserStatusSuspended
	require.NoError(t, users.Update(ctx, user))

	_, _, _, err = svc.LoginUser(ctx, "pat@example.com", "hunter2hunter2")
	require.Error(t, err)
}

func TestStaffLoginWithoutMFA(t *testing.T) {
	svc, _, staff, _ := newAuthServiceForTest(false)
	ctx := context.Background()

	hash, err := auth.HashPassword("agent-pass-123", 4)
	require.NoError(t, err)
	member := &domain.StaffMember{
		Name: "Agent", Email: "agent@example.com", PasswordHash: hash,
		Role: domain.StaffRoleAgent, Active: true,
	}
	require.NoError(t, staff.Create(ctx, member))

	result, err := svc.LoginStaff(ctx, "agent@example.com", "agent-pass-123")
	require.NoError(t, err)
	assert.False(t, result.MFARequired)
	assert.NotEmpty(t, result.Token)
}

func TestStaffLoginMFAFlow(t *testing.T) {
	svc, _, staff, store := newAuthServiceForTest(true)
	ctx := context.Background()

	hash, err := auth.HashPassword("agent-pass-123", 4)
	require.NoError(t, err)
	member := &domain.StaffMember{
		Name: "Agent", Email: "agent@example.com", PasswordHash: hash,
		Role: domain.StaffRoleAgent, Active: true,
	}
	require.NoError(t, staff.Create(ctx, member))

	result, err := svc.LoginStaff(ctx, "agent@example.com", "agent-pass-123")
	require.NoError(t, err)
	assert.True(t, result.MFARequired)
	assert.Empty(t, result.Token)

	code, ok := store.values["mfa:"+member.ID]
	require.True(t, ok)

	verified, err := svc.VerifyStaffMFA(ctx, "agent@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, verified.Token)

	// The code was consumed.
	_, ok = store.values["mfa:"+member.ID]
	assert.False(t, ok)
}

func TestVerifyStaffMFAExpiredReissues(t *testing.T) {
	svc, _, staff, store := newAuthServiceForTest(true)
	ctx := context.Background()

	hash, err := auth.HashPassword("agent-pass-123", 4)
	require.NoError(t, err)
	member := &domain.StaffMember{
		Name: "Agent", Email: "agent@example.com", PasswordHash: hash,
		Role: domain.StaffRoleAgent, Active: true,
	}
	require.NoError(t, staff.Create(ctx, member))

	_, err = svc.LoginStaff(ctx, "agent@example.com", "agent-pass-123")
	require.NoError(t, err)

	// Simulate TTL expiry by clearing the store.
	key := "mfa:" + member.ID
	old := store.values[key]
	delete(store.values, key)

	_, err = svc.VerifyStaffMFA(ctx, "agent@example.com", old)
	require.Error(t, err)

	// A fresh challenge was issued for the retry.
	fresh, ok := store.values[key]
	require.True(t, ok)
	assert.NotEmpty(t, fresh)

	verified, err := svc.VerifyStaffMFA(ctx, "agent@example.com", fresh)
	require.NoError(t, err)
	assert.NotEmpty(t, verified.Token)
}

func TestStaffLoginInactive(t *testing.T) {
	svc, _, staff, _ := newAuthServiceForTest(false)
	ctx := context.Background()

	hash, err := auth.HashPassword("agent-pass-123", 4)
	require.NoError(t, err)
	member := &domain.StaffMember{
		Name: "Agent", Email: "agent@example.com", PasswordHash: hash,
		Role: domain.StaffRoleAgent, Active: false,
	}
	require.NoError(t, staff.Create(ctx, member))

	_, err = svc.LoginStaff(ctx, "agent@example.com", "agent-pass-123")
	require.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(false)
	ctx := context.Background()

	user, _, _, err := svc.RegisterUser(ctx, "Pat", "pat@example.com", "hunter2hunter2")
	require.NoError(t, err)

	subject := AuthSubject{Type: domain.SubjectTypeUser, ID: user.ID}

	require.Error(t, svc.ChangePassword(ctx, subject, "wrong", "new-password-123"))
	require.NoError(t, svc.ChangePassword(ctx, subject, "hunter2hunter2", "new-password-123"))

	_, _, _, err = svc.LoginUser(ctx, "pat@example.com", "new-password-123")
	require.NoError(t, err)
	_, _, _, err = svc.LoginUser(ctx, "pat@example.com", "hunter2hunter2")
	require.Error(t, err)
}
