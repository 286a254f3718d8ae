// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

// SessionRevoker drops every session bound to an identity.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, identityID string) error
}

type Service struct {
	repo    Repository
	revoker SessionRevoker
	logger  *slog.Logger
}

func NewService(repo Repository, revoker SessionRevoker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, revoker: revoker, logger: logger}
}

func (s *Service) GetUser(
	ctx context.Context,
	id string,
	opts LookupOptions,
) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get user %q: %w", id, core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id, opts)
}

// Profile returns the live identity behind the caller.
func (s *Service) Profile(ctx context.Context, caller *rbac.Principal) (*User, error) {
	if caller == nil {
		return nil, fmt.Errorf("profile: %w", core.ErrUnauthorized)
	}
	return s.repo.GetByID(ctx, caller.ID, LookupOptions{})
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Role != "" {
		if _, err := rbac.ParseRole(params.Role); err != nil {
			return nil, 0, fmt.Errorf("list users: %w", err)
		}
	}
	if params.Status != "" && !Status(params.Status).Valid() {
		return nil, 0, fmt.Errorf("list users: unknown status %q: %w", params.Status, core.ErrInvalidInput)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) ChangeRole(
	ctx context.Context,
	actor rbac.Principal,
	targetID string,
	role rbac.Role,
) (*User, error) {
	target, err := s.guard(ctx, actor, targetID, rbac.ActionChangeRole, LookupOptions{})
	if err != nil {
		return nil, err
	}

	if err := rbac.CheckAssignableRole(actor, role); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	if target.Role == role {
		return target, nil
	}

	target.Role = role
	if err := s.repo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	s.logger.Info("role changed",
		"actor_id", actor.ID,
		"target_id", target.ID,
		"role", role,
	)

	return target, nil
}

func (s *Service) ChangeStatus(
	ctx context.Context,
	actor rbac.Principal,
	targetID string,
	status Status,
) (*User, error) {
	return s.transition(ctx, actor, targetID, status, rbac.ActionChangeStatus)
}

func (s *Service) Block(ctx context.Context, actor rbac.Principal, targetID string) (*User, error) {
	return s.transition(ctx, actor, targetID, StatusBlocked, rbac.ActionBlock)
}

func (s *Service) Activate(ctx context.Context, actor rbac.Principal, targetID string) (*User, error) {
	return s.transition(ctx, actor, targetID, StatusActive, rbac.ActionActivate)
}

func (s *Service) SoftDelete(ctx context.Context, actor rbac.Principal, targetID string) (*User, error) {
	return s.transition(ctx, actor, targetID, StatusDeleted, rbac.ActionSoftDelete)
}

// HardDelete removes the identity row and every session bound to it.
func (s *Service) HardDelete(ctx context.Context, actor rbac.Principal, targetID string) error {
	target, err := s.guard(
		ctx, actor, targetID, rbac.ActionHardDelete,
		LookupOptions{IncludeDeleted: true},
	)
	if err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, target.ID); err != nil {
		return fmt.Errorf("hard delete: %w", err)
	}

	s.revokeSessions(ctx, target.ID)

	s.logger.Warn("identity removed",
		"actor_id", actor.ID,
		"target_id", target.ID,
	)

	return nil
}

func (s *Service) transition(
	ctx context.Context,
	actor rbac.Principal,
	targetID string,
	next Status,
	action rbac.Action,
) (*User, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%s: unknown status %q: %w", action, next, core.ErrInvalidInput)
	}

	target, err := s.guard(ctx, actor, targetID, action, LookupOptions{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}

	if target.Status == next {
		return target, nil
	}

	if !target.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf(
			"%s: %s to %s not allowed: %w",
			action, target.Status, next, core.ErrInvalidInput,
		)
	}

	target.Status = next
	if err := s.repo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	s.logger.Info("status changed",
		"actor_id", actor.ID,
		"target_id", target.ID,
		"status", next,
	)

	return target, nil
}

// guard runs the privilege escalation rules before any mutation. The self
// rule is evaluated ahead of the lookup so it holds for missing targets too.
func (s *Service) guard(
	ctx context.Context,
	actor rbac.Principal,
	targetID string,
	action rbac.Action,
	opts LookupOptions,
) (*User, error) {
	if actor.ID == targetID {
		return nil, rbac.CheckCanModify(actor, targetID, nil, action)
	}

	target, err := s.GetUser(ctx, targetID, opts)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	var principal *rbac.Principal
	if target != nil {
		p := target.Principal()
		principal = &p
	}

	if err := rbac.CheckCanModify(actor, targetID, principal, action); err != nil {
		return nil, err
	}

	return target, nil
}

func (s *Service) revokeSessions(ctx context.Context, identityID string) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeAll(ctx, identityID); err != nil {
		s.logger.Error("revoke sessions failed",
			"identity_id", identityID,
			"error", err,
		)
	}
}

func (s *Service) StatusCounts(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}
