// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
	"github.com/carterperez-dev/delivery-admin/internal/user"
)

// IdentityStore is the slice of the user repository authentication needs.
type IdentityStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string, opts user.LookupOptions) (*user.User, error)
	GetByEmail(ctx context.Context, email string, opts user.LookupOptions) (*user.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ConsumeVerificationToken(ctx context.Context, tokenHash string) (string, error)
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(
		ctx context.Context,
		tokenHash, passwordHash string,
		now time.Time,
	) (string, error)
}

// Notifier delivers one-time tokens to their owner. Failures are logged by
// the caller and never reach the client.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

type Service struct {
	identities IdentityStore
	validator  *CredentialValidator
	sessions   *SessionManager
	notifier   Notifier
	resetTTL   time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

func NewService(
	identities IdentityStore,
	sessions *SessionManager,
	notifier Notifier,
	resetTTL time.Duration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		identities: identities,
		validator:  NewCredentialValidator(identities, logger),
		sessions:   sessions,
		notifier:   notifier,
		resetTTL:   resetTTL,
		now:        time.Now,
		logger:     logger,
	}
}

// Login validates the credentials and returns the signed session cookie
// value. The session is durable by the time this returns.
func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (*user.User, string, error) {
	ctx, span := core.StartSpan(ctx, "auth.login")
	defer span.End()

	u, err := s.validator.Validate(ctx, email, password)
	if err != nil {
		outcome := loginOutcome(err)
		core.LoginAttempts.WithLabelValues(outcome).Inc()
		span.SetAttributes(attribute.String("auth.outcome", outcome))

		if outcome == "error" {
			span.SetStatus(codes.Error, err.Error())
			return nil, "", fmt.Errorf("login: %w", err)
		}

		s.logger.WarnContext(ctx, "login rejected", "reason", outcome)
		return nil, "", fmt.Errorf("login: %w", err)
	}

	cookie, err := s.sessions.Establish(ctx, u)
	if err != nil {
		core.LoginAttempts.WithLabelValues("error").Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, "", fmt.Errorf("login: %w", err)
	}

	core.LoginAttempts.WithLabelValues("success").Inc()
	span.SetAttributes(
		attribute.String("auth.outcome", "success"),
		attribute.String("user.id", u.ID),
	)
	s.logger.InfoContext(ctx, "login succeeded", "user_id", u.ID, "role", u.Role)

	return u, cookie, nil
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, core.ErrAccountBlocked):
		return "blocked"
	case errors.Is(err, core.ErrAccountDeleted):
		return "deleted"
	default:
		return "error"
	}
}

// Logout always succeeds from the caller's point of view.
func (s *Service) Logout(ctx context.Context, cookieValue string) {
	s.sessions.Terminate(ctx, cookieValue)
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := core.GenerateOneTimeToken()
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	tokenHash := core.HashToken(token)

	u := &user.User{
		ID:                    uuid.NewString(),
		Email:                 req.Email,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		PasswordHash:          passwordHash,
		Role:                  rbac.RoleUser,
		Status:                user.StatusActive,
		VerificationTokenHash: &tokenHash,
	}

	if err := s.identities.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.notifier.SendVerificationEmail(ctx, u.Email, token); err != nil {
		s.logger.ErrorContext(ctx, "verification email not sent",
			"user_id", u.ID,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// VerifyEmail reports false for an unknown or already used token.
func (s *Service) VerifyEmail(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	id, err := s.identities.ConsumeVerificationToken(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			return false, nil
		}
		return false, fmt.Errorf("verify email: %w", err)
	}

	s.logger.InfoContext(ctx, "email verified", "user_id", id)
	return true, nil
}

// RequestPasswordReset behaves identically whether or not the email belongs
// to an identity.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.identities.GetByEmail(ctx, email, user.LookupOptions{})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.logger.DebugContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("request password reset: %w", err)
	}

	token, err := core.GenerateOneTimeToken()
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	expiresAt := s.now().Add(s.resetTTL)
	if err := s.identities.SetResetToken(ctx, u.ID, core.HashToken(token), expiresAt); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	if err := s.notifier.SendPasswordResetEmail(ctx, u.Email, token); err != nil {
		s.logger.ErrorContext(ctx, "password reset email not sent",
			"user_id", u.ID,
			"error", err,
		)
	}

	return nil
}

// ResetPassword reports false for an unknown, used or expired token. On
// success every existing session of the identity is revoked.
func (s *Service) ResetPassword(
	ctx context.Context,
	token, newPassword string,
) (bool, error) {
	if token == "" {
		return false, nil
	}

	ctx, span := core.StartSpan(ctx, "auth.reset_password")
	defer span.End()

	passwordHash, err := core.HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("reset password: %w", err)
	}

	id, err := s.identities.ConsumeResetToken(ctx, core.HashToken(token), passwordHash, s.now())
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			return false, nil
		}
		return false, fmt.Errorf("reset password: %w", err)
	}

	if err := s.sessions.RevokeAll(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "session revocation after reset failed",
			"user_id", id,
			"error", err,
		)
		span.SetStatus(codes.Error, err.Error())
	} else {
		core.AddSpanEvent(ctx, "sessions.revoked", attribute.String("user.id", id))
	}

	s.logger.InfoContext(ctx, "password reset", "user_id", id)
	return true, nil
}

func (s *Service) Profile(ctx context.Context, caller *rbac.Principal) (*user.User, error) {
	if caller == nil {
		return nil, fmt.Errorf("profile: %w", core.ErrUnauthorized)
	}
	return s.identities.GetByID(ctx, caller.ID, user.LookupOptions{})
}
