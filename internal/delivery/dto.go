// AngelaMos | 2026
// dto.go

package delivery

import (
	"time"
)

const dateLayout = "2006-01-02"

type StopResponse struct {
	ID       string `json:"id"`
	Sequence int    `json:"sequence"`
	Address  string `json:"address"`
	Status   string `json:"status"`
}

type ManifestResponse struct {
	ID           string         `json:"id"`
	RouteID      string         `json:"route_id"`
	DeliveryDate string         `json:"delivery_date"`
	StopCount    int            `json:"stop_count"`
	PackageCount int            `json:"package_count"`
	Status       string         `json:"status"`
	Notes        string         `json:"notes,omitempty"`
	Stops        []StopResponse `json:"stops"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type RouteResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	UserID   *string `json:"user_id"`
	IsActive bool    `json:"is_active"`
}

func ToManifestResponse(m *Manifest) ManifestResponse {
	stops := make([]StopResponse, 0, len(m.Stops))
	for _, s := range m.Stops {
		stops = append(stops, StopResponse{
			ID:       s.ID,
			Sequence: s.Sequence,
			Address:  s.Address,
			Status:   s.Status,
		})
	}

	return ManifestResponse{
		ID:           m.ID,
		RouteID:      m.RouteID,
		DeliveryDate: m.DeliveryDate.Format(dateLayout),
		StopCount:    m.StopCount,
		PackageCount: m.PackageCount,
		Status:       m.Status,
		Notes:        m.Notes,
		Stops:        stops,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToManifestResponseList(manifests []Manifest) []ManifestResponse {
	out := make([]ManifestResponse, len(manifests))
	for i := range manifests {
		out[i] = ToManifestResponse(&manifests[i])
	}
	return out
}

func ToRouteResponseList(routes []Route) []RouteResponse {
	out := make([]RouteResponse, len(routes))
	for i, r := range routes {
		out[i] = RouteResponse{
			ID:       r.ID,
			Name:     r.Name,
			UserID:   r.UserID,
			IsActive: r.IsActive,
		}
	}
	return out
}

// ParseDate accepts an empty string as "no date filter".
func ParseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
