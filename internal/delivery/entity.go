// AngelaMos | 2026
// entity.go

package delivery

import (
	"time"
)

type Route struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	UserID    *string   `db:"user_id"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Manifest struct {
	ID           string    `db:"id"`
	RouteID      string    `db:"route_id"`
	DeliveryDate time.Time `db:"delivery_date"`
	StopCount    int       `db:"stop_count"`
	PackageCount int       `db:"package_count"`
	Status       string    `db:"status"`
	Notes        string    `db:"notes"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	Stops []Stop `db:"-"`
}

type Stop struct {
	ID         string    `db:"id"`
	ManifestID string    `db:"manifest_id"`
	RouteID    string    `db:"route_id"`
	Sequence   int       `db:"sequence"`
	Address    string    `db:"address"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ManifestFilter narrows a manifest listing. A nil RouteIDs means any
// route; an empty non-nil slice matches nothing.
type ManifestFilter struct {
	RouteIDs []string
	Date     *time.Time
}
