// AngelaMos | 2026
// service.go

package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

// ErrNoRoutes means the caller has no active route assigned.
var ErrNoRoutes = fmt.Errorf(
	"you do not have any routes assigned, please contact an administrator: %w",
	core.ErrNotFound,
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListRoutes(ctx context.Context) ([]Route, error) {
	return s.repo.ListRoutes(ctx)
}

func (s *Service) GetManifest(ctx context.Context, id string) (*Manifest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get manifest %q: %w", id, core.ErrNotFound)
	}
	return s.repo.GetManifest(ctx, id)
}

func (s *Service) ListManifests(
	ctx context.Context,
	routeID string,
	date *time.Time,
) ([]Manifest, error) {
	filter := ManifestFilter{Date: date}
	if routeID != "" {
		if _, err := uuid.Parse(routeID); err != nil {
			return nil, fmt.Errorf("route_id must be a valid UUID: %w", core.ErrInvalidInput)
		}
		filter.RouteIDs = []string{routeID}
	}
	return s.repo.ListManifests(ctx, filter)
}

// ManifestsForUser lists manifests on the caller's own active routes.
func (s *Service) ManifestsForUser(
	ctx context.Context,
	caller *rbac.Principal,
	date *time.Time,
) ([]Manifest, error) {
	if caller == nil {
		return nil, fmt.Errorf("manifests for user: %w", core.ErrUnauthorized)
	}

	routeIDs, err := s.repo.FindRoutesOwnedBy(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "routes resolved for caller",
		"user_id", caller.ID,
		"routes", len(routeIDs),
	)

	if len(routeIDs) == 0 {
		return nil, ErrNoRoutes
	}

	return s.repo.ListManifests(ctx, ManifestFilter{RouteIDs: routeIDs, Date: date})
}

func IsNoRoutes(err error) bool {
	return errors.Is(err, ErrNoRoutes)
}
