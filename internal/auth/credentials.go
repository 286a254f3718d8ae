// AngelaMos | 2026
// credentials.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/user"
)

type CredentialValidator struct {
	identities IdentityStore
	logger     *slog.Logger
}

func NewCredentialValidator(identities IdentityStore, logger *slog.Logger) *CredentialValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialValidator{identities: identities, logger: logger}
}

// Validate checks an email and password pair. Unknown email and wrong password
// both return ErrInvalidCredentials and both cost one argon2id derivation.
// The hash is always verified before status gating so every path through
// here costs the same.
func (v *CredentialValidator) Validate(
	ctx context.Context,
	email, password string,
) (*user.User, error) {
	u, err := v.identities.GetByEmail(ctx, email, user.LookupOptions{IncludeDeleted: true})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // equalises timing with the known-email path
			_, _ = core.VerifyPasswordTimingSafe(password, "")
			return nil, fmt.Errorf("validate credentials: %w", core.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("validate credentials: %w", err)
	}

	check, err := core.VerifyPasswordTimingSafe(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("validate credentials: %w", err)
	}

	switch u.Status {
	case user.StatusBlocked:
		return nil, fmt.Errorf("validate credentials: %w", core.ErrAccountBlocked)
	case user.StatusDeleted:
		return nil, fmt.Errorf("validate credentials: %w", core.ErrAccountDeleted)
	}

	if !check.Valid {
		return nil, fmt.Errorf("validate credentials: %w", core.ErrInvalidCredentials)
	}

	if check.Rehash != "" {
		if err := v.identities.UpdatePassword(ctx, u.ID, check.Rehash); err != nil {
			v.logger.WarnContext(ctx, "password rehash failed", "user_id", u.ID, "error", err)
		} else {
			u.PasswordHash = check.Rehash
			core.AddSpanEvent(ctx, "password.rehashed")
		}
	}

	return u, nil
}
