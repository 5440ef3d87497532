package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// CodeStore persists short-lived MFA codes. Redis backs it in production;
// tests substitute an in-memory implementation.
type CodeStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

// ErrCodeNotFound signals an absent or expired code.
var ErrCodeNotFound = fmt.Errorf("code not found")

type redisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore wraps a Redis client as a CodeStore.
func NewRedisCodeStore(client *redis.Client) CodeStore {
	return &redisCodeStore{client: client}
}

func (s *redisCodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCodeStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCodeNotFound
	}
	return val, err
}

func (s *redisCodeStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MFAManager issues and verifies one-time codes. Codes live in the store
// under their TTL; expiry is detected by absence, and a new Issue call
// always replaces whatever code was pending.
type MFAManager struct {
	store CodeStore
	ttl   time.Duration
}

// NewMFAManager builds the manager.
func NewMFAManager(store CodeStore, ttl time.Duration) *MFAManager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MFAManager{store: store, ttl: ttl}
}

// IssueCode generates and stores a fresh 6-digit code for the subject.
func (m *MFAManager) IssueCode(ctx context.Context, subjectID string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, mfaKey(subjectID), code, m.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyCode compares the submitted code and consumes it on success.
// An absent or expired code yields an unauthorized error; the caller is
// expected to issue a fresh challenge.
func (m *MFAManager) VerifyCode(ctx context.Context, subjectID, code string) error {
	stored, err := m.store.Get(ctx, mfaKey(subjectID))
	if err == ErrCodeNotFound {
		return apperrors.NewUnauthorized("code expired")
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return apperrors.NewUnauthorized("invalid code")
	}
	return m.store.Del(ctx, mfaKey(subjectID))
}

func mfaKey(subjectID string) string {
	return "mfa:" + subjectID
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
