// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
	"github.com/carterperez-dev/delivery-admin/internal/user"
)

const password = "correct horse battery"

func TestCredentialValidator(t *testing.T) {
	ctx := context.Background()
	identities := newFakeIdentities()
	active := identities.put(t, "active@example.com", password, rbac.RoleUser, user.StatusActive)
	identities.put(t, "blocked@example.com", password, rbac.RoleUser, user.StatusBlocked)
	identities.put(t, "deleted@example.com", password, rbac.RoleUser, user.StatusDeleted)

	v := NewCredentialValidator(identities, nil)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "active@example.com", password, nil},
		{"wrong password", "active@example.com", "nope nope nope", core.ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", password, core.ErrInvalidCredentials},
		{"email is case sensitive", "ACTIVE@example.com", password, core.ErrInvalidCredentials},
		{"blocked", "blocked@example.com", password, core.ErrAccountBlocked},
		{"blocked, wrong password", "blocked@example.com", "nope nope nope", core.ErrAccountBlocked},
		{"deleted", "deleted@example.com", password, core.ErrAccountDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := v.Validate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, active.ID, u.ID)
		})
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.identities.put(t, "leader@example.com", password, rbac.RoleLeader, user.StatusActive)

	got, cookie, err := f.service.Login(ctx, u.Email, password)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotEmpty(t, cookie)

	p, err := f.sessions.Resolve(ctx, cookie)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, rbac.RoleLeader, p.Role)
}

func TestResolveReadsLiveIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.identities.put(t, "user@example.com", password, rbac.RoleUser, user.StatusActive)

	_, cookie, err := f.service.Login(ctx, u.Email, password)
	require.NoError(t, err)

	f.identities.get(u.ID).Role = rbac.RoleAdmin

	p, err := f.sessions.Resolve(ctx, cookie)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleAdmin, p.Role)

	t.Run("blocked drops the session", func(t *testing.T) {
		f.identities.get(u.ID).Status = user.StatusBlocked

		_, err := f.sessions.Resolve(ctx, cookie)
		assert.ErrorIs(t, err, core.ErrAccountBlocked)

		f.identities.get(u.ID).Status = user.StatusActive
		_, err = f.sessions.Resolve(ctx, cookie)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})
}

func TestResolveDeletedIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.identities.put(t, "user@example.com", password, rbac.RoleUser, user.StatusActive)

	_, cookie, err := f.service.Login(ctx, u.Email, password)
	require.NoError(t, err)

	f.identities.get(u.ID).Status = user.StatusDeleted

	_, err = f.sessions.Resolve(ctx, cookie)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.identities.put(t, "user@example.com", password, rbac.RoleUser, user.StatusActive)

	_, cookie, err := f.service.Login(ctx, u.Email, password)
	require.NoError(t, err)

	f.service.Logout(ctx, cookie)
	f.service.Logout(ctx, cookie)
	f.service.Logout(ctx, "garbage")
	f.service.Logout(ctx, "")

	_, err = f.sessions.Resolve(ctx, cookie)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestRegisterVerifyLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.service.Register(ctx, RegisterRequest{
		Email:     "new@example.com",
		Password:  password,
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleUser, u.Role)
	assert.Equal(t, user.StatusActive, u.Status)

	stored := f.identities.get(u.ID)
	assert.NotEqual(t, password, stored.PasswordHash)
	require.NotNil(t, stored.VerificationTokenHash)

	token := f.notifier.last(t, "verify")
	assert.Equal(t, core.HashToken(token), *stored.VerificationTokenHash)

	t.Run("login before verification is allowed", func(t *testing.T) {
		_, _, err := f.service.Login(ctx, "new@example.com", password)
		require.NoError(t, err)
	})

	ok, err := f.service.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, f.identities.get(u.ID).EmailVerified)

	ok, err = f.service.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	_, cookie, err := f.service.Login(ctx, "new@example.com", password)
	require.NoError(t, err)
	assert.NotEmpty(t, cookie)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.identities.put(t, "taken@example.com", password, rbac.RoleUser, user.StatusActive)

	_, err := f.service.Register(ctx, RegisterRequest{
		Email:     "taken@example.com",
		Password:  password,
		FirstName: "A",
		LastName:  "B",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRegisterSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")

	_, err := f.service.Register(context.Background(), RegisterRequest{
		Email:     "new@example.com",
		Password:  password,
		FirstName: "A",
		LastName:  "B",
	})
	require.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.identities.put(t, "user@example.com", password, rbac.RoleUser, user.StatusActive)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return now }

	_, oldCookie, err := f.service.Login(ctx, u.Email, password)
	require.NoError(t, err)

	t.Run("unknown email looks the same", func(t *testing.T) {
		require.NoError(t, f.service.RequestPasswordReset(ctx, "ghost@example.com"))
		assert.Empty(t, f.notifier.sent)
	})

	require.NoError(t, f.service.RequestPasswordReset(ctx, u.Email))
	token := f.notifier.last(t, "reset")

	stored := f.identities.get(u.ID)
	require.NotNil(t, stored.ResetExpiresAt)
	assert.Equal(t, now.Add(time.Hour), *stored.ResetExpiresAt)

	ok, err := f.service.ResetPassword(ctx, "wrong-token", "another password")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.service.ResetPassword(ctx, token, "another password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.ResetPassword(ctx, token, "third password!")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.sessions.Resolve(ctx, oldCookie)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, _, err = f.service.Login(ctx, u.Email, password)
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, _, err = f.service.Login(ctx, u.Email, "another password")
	require.NoError(t, err)
}

func TestPasswordResetExpires(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.identities.put(t, "user@example.com", password, rbac.RoleUser, user.StatusActive)

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return issued }
	require.NoError(t, f.service.RequestPasswordReset(ctx, u.Email))
	token := f.notifier.last(t, "reset")

	f.service.now = func() time.Time { return issued.Add(time.Hour + time.Second) }

	ok, err := f.service.ResetPassword(ctx, token, "another password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.identities.put(t, "user@example.com", password, rbac.RoleUser, user.StatusActive)

	_, err := f.service.Profile(ctx, nil)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	p := u.Principal()
	got, err := f.service.Profile(ctx, &p)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}
