// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/delivery-admin/internal/config"
	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
	"github.com/carterperez-dev/delivery-admin/internal/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeIdentities struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{users: map[string]*user.User{}}
}

func (f *fakeIdentities) put(t *testing.T, email, password string, role rbac.Role, status user.Status) *user.User {
	t.Helper()
	hash, err := core.HashPassword(password)
	require.NoError(t, err)

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
		Version:      1,
	}
	f.mu.Lock()
	f.users[u.ID] = u
	f.mu.Unlock()
	return u
}

func (f *fakeIdentities) get(id string) *user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

func (f *fakeIdentities) Create(_ context.Context, u *user.User) error {
	if err := uuid.Validate(u.ID); err != nil {
		return fmt.Errorf("create user: id %q: %w", u.ID, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u.Version = 1
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func visible(u *user.User, opts user.LookupOptions) bool {
	return opts.IncludeDeleted || u.Status != user.StatusDeleted
}

func (f *fakeIdentities) GetByID(_ context.Context, id string, opts user.LookupOptions) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || !visible(u, opts) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeIdentities) GetByEmail(_ context.Context, email string, opts user.LookupOptions) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && visible(u, opts) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeIdentities) UpdatePassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeIdentities) ConsumeVerificationToken(_ context.Context, tokenHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.VerificationTokenHash != nil && *u.VerificationTokenHash == tokenHash {
			u.VerificationTokenHash = nil
			u.EmailVerified = true
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("consume verification token: %w", core.ErrTokenInvalid)
}

func (f *fakeIdentities) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.ResetTokenHash = &tokenHash
	u.ResetExpiresAt = &expiresAt
	return nil
}

func (f *fakeIdentities) ConsumeResetToken(
	_ context.Context,
	tokenHash, passwordHash string,
	now time.Time,
) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetTokenHash == nil || *u.ResetTokenHash != tokenHash {
			continue
		}
		if u.Status == user.StatusDeleted || !u.ResetExpiresAt.After(now) {
			break
		}
		u.PasswordHash = passwordHash
		u.ResetTokenHash = nil
		u.ResetExpiresAt = nil
		return u.ID, nil
	}
	return "", fmt.Errorf("consume reset token: %w", core.ErrTokenInvalid)
}

type sentToken struct {
	kind  string
	email string
	token string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentToken
	err  error
}

func (n *recordingNotifier) SendVerificationEmail(_ context.Context, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentToken{kind: "verify", email: email, token: token})
	return n.err
}

func (n *recordingNotifier) SendPasswordResetEmail(_ context.Context, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentToken{kind: "reset", email: email, token: token})
	return n.err
}

func (n *recordingNotifier) last(t *testing.T, kind string) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].kind == kind {
			return n.sent[i].token
		}
	}
	t.Fatalf("no %s notification sent", kind)
	return ""
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName: "delivery.sid",
		Secret:     testSecret,
		TTL:        time.Hour,
		SameSite:   "lax",
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type fixture struct {
	identities *fakeIdentities
	notifier   *recordingNotifier
	redis      *miniredis.Miniredis
	codec      *CookieCodec
	sessions   *SessionManager
	service    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr, client := newTestRedis(t)
	identities := newFakeIdentities()
	notifier := &recordingNotifier{}

	codec, err := NewCookieCodec(testSessionConfig())
	require.NoError(t, err)

	sessions := NewSessionManager(
		NewRedisSessionStore(client),
		codec,
		NewSerializer(identities),
		time.Hour,
		nil,
	)

	return &fixture{
		identities: identities,
		notifier:   notifier,
		redis:      mr,
		codec:      codec,
		sessions:   sessions,
		service:    NewService(identities, sessions, notifier, time.Hour, nil),
	}
}
