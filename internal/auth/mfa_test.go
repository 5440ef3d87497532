package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// memCodeStore is an in-memory CodeStore; entries expire by wall clock.
type memCodeStore struct {
	values  map[string]string
	expires map[string]time.Time
	now     func() time.Time
}

func newMemCodeStore() *memCodeStore {
	return &memCodeStore{
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *memCodeStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.values[key] = value
	s.expires[key] = s.now().Add(ttl)
	return nil
}

func (s *memCodeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok || s.now().After(s.expires[key]) {
		return "", ErrCodeNotFound
	}
	return value, nil
}

func (s *memCodeStore) Del(_ context.Context, key string) error {
	delete(s.values, key)
	delete(s.expires, key)
	return nil
}

func TestMFAIssueAndVerify(t *testing.T) {
	store := newMemCodeStore()
	mgr := NewMFAManager(store, 5*time.Minute)

	code, err := mgr.IssueCode(context.Background(), "staff-1")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	require.NoError(t, mgr.VerifyCode(context.Background(), "staff-1", code))

	// Consumed on success; a second verify fails as expired.
	err = mgr.VerifyCode(context.Background(), "staff-1", code)
	require.Error(t, err)
	assert.Equal(t, "code expired", apperrors.ToDomainError(err).Message)
}

func TestMFAWrongCode(t *testing.T) {
	store := newMemCodeStore()
	mgr := NewMFAManager(store, 5*time.Minute)

	code, err := mgr.IssueCode(context.Background(), "staff-1")
	require.NoError(t, err)

	err = mgr.VerifyCode(context.Background(), "staff-1", "000000")
	if code == "000000" {
		t.Skip("generated the guessed code")
	}
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	// A wrong attempt does not consume the pending code.
	require.NoError(t, mgr.VerifyCode(context.Background(), "staff-1", code))
}

func TestMFAExpiredCode(t *testing.T) {
	store := newMemCodeStore()
	mgr := NewMFAManager(store, time.Minute)

	code, err := mgr.IssueCode(context.Background(), "staff-1")
	require.NoError(t, err)

	base := time.Now()
	store.now = func() time.Time { return base.Add(2 * time.Minute) }

	err = mgr.VerifyCode(context.Background(), "staff-1", code)
	require.Error(t, err)
	assert.Equal(t, "code expired", apperrors.ToDomainError(err).Message)
}

func TestMFAReissueReplacesCode(t *testing.T) {
	store := newMemCodeStore()
	mgr := NewMFAManager(store, 5*time.Minute)

	first, err := mgr.IssueCode(context.Background(), "staff-1")
	require.NoError(t, err)
	second, err := mgr.IssueCode(context.Background(), "staff-1")
	require.NoError(t, err)

	if first != second {
		require.Error(t, mgr.VerifyCode(context.Background(), "staff-1", first))
	}
	require.NoError(t, mgr.VerifyCode(context.Background(), "staff-1", second))
}
