// AngelaMos | 2026
// session.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
	"github.com/carterperez-dev/delivery-admin/internal/user"
)

// Serializer is the two-way mapping between an identity and what the
// session store keeps for it. Only the id crosses into the store.
type Serializer interface {
	Serialize(u *user.User) string
	Deserialize(ctx context.Context, id string) (*user.User, error)
}

type identitySerializer struct {
	identities IdentityStore
}

func NewSerializer(identities IdentityStore) Serializer {
	return identitySerializer{identities: identities}
}

func (s identitySerializer) Serialize(u *user.User) string {
	return u.ID
}

// Deserialize reads the live row on every call, so role and status edits
// apply to sessions that already exist.
func (s identitySerializer) Deserialize(ctx context.Context, id string) (*user.User, error) {
	return s.identities.GetByID(ctx, id, user.LookupOptions{})
}

type SessionManager struct {
	store      SessionStore
	codec      *CookieCodec
	serializer Serializer
	ttl        time.Duration
	logger     *slog.Logger
}

func NewSessionManager(
	store SessionStore,
	codec *CookieCodec,
	serializer Serializer,
	ttl time.Duration,
	logger *slog.Logger,
) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		store:      store,
		codec:      codec,
		serializer: serializer,
		ttl:        ttl,
		logger:     logger,
	}
}

// Establish returns the signed cookie value only after the binding has been
// written to the store.
func (m *SessionManager) Establish(ctx context.Context, u *user.User) (string, error) {
	sessionID, err := core.GenerateSessionID()
	if err != nil {
		return "", fmt.Errorf("establish session: %w", err)
	}

	if err := m.store.Save(ctx, sessionID, m.serializer.Serialize(u), m.ttl); err != nil {
		return "", fmt.Errorf("establish session: %w", err)
	}

	value, err := m.codec.Encode(sessionID)
	if err != nil {
		return "", fmt.Errorf("establish session: %w", err)
	}

	core.SessionEvents.WithLabelValues("established").Inc()
	return value, nil
}

// Resolve maps a cookie value to the caller. A session whose identity is gone
// or deleted is dropped and reported as ErrUnauthorized. A blocked identity
// loses its session and yields ErrAccountBlocked.
func (m *SessionManager) Resolve(ctx context.Context, cookieValue string) (*rbac.Principal, error) {
	sessionID, err := m.codec.Decode(cookieValue)
	if err != nil {
		return nil, err
	}

	identityID, err := m.store.Lookup(ctx, sessionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	u, err := m.serializer.Deserialize(ctx, identityID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			m.drop(ctx, sessionID, "identity_gone")
			return nil, fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	switch {
	case u.IsDeleted():
		m.drop(ctx, sessionID, "identity_gone")
		return nil, fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
	case u.IsBlocked():
		m.drop(ctx, sessionID, "blocked")
		return nil, fmt.Errorf("resolve session: %w", core.ErrAccountBlocked)
	}

	p := u.Principal()
	return &p, nil
}

// Terminate never fails. An unreadable cookie has nothing to delete.
func (m *SessionManager) Terminate(ctx context.Context, cookieValue string) {
	if cookieValue == "" {
		return
	}

	sessionID, err := m.codec.Decode(cookieValue)
	if err != nil {
		return
	}

	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.WarnContext(ctx, "session terminate failed", "error", err)
		return
	}

	core.SessionEvents.WithLabelValues("terminated").Inc()
}

// RevokeAll drops every session bound to identityID.
func (m *SessionManager) RevokeAll(ctx context.Context, identityID string) error {
	if err := m.store.DeleteAllFor(ctx, identityID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	core.SessionEvents.WithLabelValues("revoked_all").Inc()
	return nil
}

func (m *SessionManager) drop(ctx context.Context, sessionID, reason string) {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.WarnContext(ctx, "drop stale session failed", "error", err)
	}
	core.SessionEvents.WithLabelValues("dropped_" + reason).Inc()
}
