// AngelaMos | 2026
// handler.go

package delivery

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/middleware"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	guard func(rbac.Operation) func(http.Handler) http.Handler,
) {
	r.With(guard(rbac.OpRoutesList)).Get("/routes", h.ListRoutes)

	r.Route("/delivery-manifests", func(r chi.Router) {
		r.With(guard(rbac.OpManifestsList)).Get("/", h.ListManifests)
		r.With(guard(rbac.OpManifestsForCurrentUser)).
			Get("/for-current-user", h.ForCurrentUser)
		r.With(guard(rbac.OpManifestsGet)).Get("/{manifestID}", h.GetManifest)
	})
}

func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.service.ListRoutes(r.Context())
	if err != nil {
		core.ErrorFromDomain(w, err, "route")
		return
	}
	core.OK(w, ToRouteResponseList(routes))
}

func (h *Handler) ListManifests(w http.ResponseWriter, r *http.Request) {
	date, err := ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		core.BadRequest(w, "date must be formatted YYYY-MM-DD")
		return
	}

	manifests, err := h.service.ListManifests(r.Context(), r.URL.Query().Get("route_id"), date)
	if err != nil {
		core.ErrorFromDomain(w, err, "delivery manifest")
		return
	}
	core.OK(w, ToManifestResponseList(manifests))
}

func (h *Handler) GetManifest(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetManifest(r.Context(), chi.URLParam(r, "manifestID"))
	if err != nil {
		core.ErrorFromDomain(w, err, "delivery manifest")
		return
	}
	core.OK(w, ToManifestResponse(m))
}

// ForCurrentUser reports a caller without routes as an unsuccessful but
// well formed result rather than an error status.
func (h *Handler) ForCurrentUser(w http.ResponseWriter, r *http.Request) {
	date, err := ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		core.BadRequest(w, "date must be formatted YYYY-MM-DD")
		return
	}

	manifests, err := h.service.ManifestsForUser(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		date,
	)
	if err != nil {
		if IsNoRoutes(err) {
			core.JSON(w, http.StatusOK, core.Response{
				Success: false,
				Data:    []ManifestResponse{},
				Message: "You do not have any routes assigned. Please contact an administrator.",
			})
			return
		}
		core.ErrorFromDomain(w, err, "delivery manifest")
		return
	}

	message := "No manifests found for your route"
	if len(manifests) > 0 {
		message = fmt.Sprintf("Found %d manifests for your route", len(manifests))
	}

	core.JSON(w, http.StatusOK, core.Response{
		Success: true,
		Data:    ToManifestResponseList(manifests),
		Message: message,
	})
}
