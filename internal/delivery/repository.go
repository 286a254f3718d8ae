// AngelaMos | 2026
// repository.go

package delivery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/delivery-admin/internal/core"
)

type Repository interface {
	ListRoutes(ctx context.Context) ([]Route, error)
	FindRoutesOwnedBy(ctx context.Context, identityID string) ([]string, error)
	GetManifest(ctx context.Context, id string) (*Manifest, error)
	ListManifests(ctx context.Context, filter ManifestFilter) ([]Manifest, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const (
	routeColumns    = `id, name, user_id, is_active, created_at, updated_at`
	manifestColumns = `id, route_id, delivery_date, stop_count, package_count, status, notes, created_at, updated_at`
	stopColumns     = `id, manifest_id, route_id, sequence, address, status, created_at, updated_at`
)

func (r *repository) ListRoutes(ctx context.Context) ([]Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY name`

	var routes []Route
	if err := r.db.SelectContext(ctx, &routes, query); err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// FindRoutesOwnedBy returns the ids of the active routes assigned to an
// identity.
func (r *repository) FindRoutesOwnedBy(ctx context.Context, identityID string) ([]string, error) {
	query := `SELECT id FROM routes WHERE user_id = $1 AND is_active ORDER BY name`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, identityID); err != nil {
		return nil, fmt.Errorf("find routes owned by %s: %w", identityID, err)
	}
	return ids, nil
}

func (r *repository) GetManifest(ctx context.Context, id string) (*Manifest, error) {
	query := `SELECT ` + manifestColumns + ` FROM delivery_manifests WHERE id = $1`

	var m Manifest
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get manifest: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get manifest: %w", err)
	}

	manifests := []Manifest{m}
	if err := r.attachStops(ctx, manifests); err != nil {
		return nil, err
	}
	return &manifests[0], nil
}

func (r *repository) ListManifests(ctx context.Context, filter ManifestFilter) ([]Manifest, error) {
	if filter.RouteIDs != nil && len(filter.RouteIDs) == 0 {
		return []Manifest{}, nil
	}

	var conditions []string
	var args []any

	if filter.RouteIDs != nil {
		conditions = append(conditions, "route_id IN (?)")
		args = append(args, filter.RouteIDs)
	}

	if filter.Date != nil {
		conditions = append(conditions, "delivery_date = ?")
		args = append(args, filter.Date.Format(dateLayout))
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	query, args, err := sqlx.In(
		`SELECT `+manifestColumns+` FROM delivery_manifests WHERE `+whereClause+
			` ORDER BY delivery_date DESC, created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("build manifest query: %w", err)
	}

	manifests := []Manifest{}
	if err := r.db.SelectContext(ctx, &manifests, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list manifests: %w", err)
	}

	if err := r.attachStops(ctx, manifests); err != nil {
		return nil, err
	}
	return manifests, nil
}

func (r *repository) attachStops(ctx context.Context, manifests []Manifest) error {
	if len(manifests) == 0 {
		return nil
	}

	ids := make([]string, len(manifests))
	byID := make(map[string]*Manifest, len(manifests))
	for i := range manifests {
		ids[i] = manifests[i].ID
		manifests[i].Stops = []Stop{}
		byID[manifests[i].ID] = &manifests[i]
	}

	query, args, err := sqlx.In(
		`SELECT `+stopColumns+` FROM delivery_stops WHERE manifest_id IN (?) ORDER BY manifest_id, sequence`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("build stop query: %w", err)
	}

	var stops []Stop
	if err := r.db.SelectContext(ctx, &stops, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("list stops: %w", err)
	}

	for _, s := range stops {
		if m, ok := byID[s.ManifestID]; ok {
			m.Stops = append(m.Stops, s)
		}
	}
	return nil
}
