// AngelaMos | 2026
// handler.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/middleware"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts identity management. guard returns the policy
// middleware for an operation.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	guard func(rbac.Operation) func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.With(guard(rbac.OpUsersProfile)).Get("/profile", h.Profile)
		r.With(guard(rbac.OpUsersList)).Get("/", h.ListUsers)
		r.With(guard(rbac.OpUsersGet)).Get("/{userID}", h.GetUser)
		r.With(guard(rbac.OpUsersChangeRole)).Put("/{userID}/role", h.ChangeRole)
		r.With(guard(rbac.OpUsersChangeStatus)).Patch("/{userID}/status", h.ChangeStatus)
		r.With(guard(rbac.OpUsersBlock)).Patch("/{userID}/block", h.Block)
		r.With(guard(rbac.OpUsersActivate)).Patch("/{userID}/activate", h.Activate)
		r.With(guard(rbac.OpUsersSoftDelete)).Delete("/{userID}/soft", h.SoftDelete)
		r.With(guard(rbac.OpUsersHardDelete)).Delete("/{userID}", h.HardDelete)
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Profile(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		core.ErrorFromDomain(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListUsersParams{
		Page:           parseIntQuery(r, "page", 1),
		PageSize:       parseIntQuery(r, "page_size", 20),
		Search:         q.Get("search"),
		Role:           q.Get("role"),
		Status:         q.Get("status"),
		IncludeDeleted: parseBoolQuery(r, "include_deleted"),
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.ErrorFromDomain(w, err, "user")
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	opts := LookupOptions{IncludeDeleted: parseBoolQuery(r, "include_deleted")}

	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userID"), opts)
	if err != nil {
		core.ErrorFromDomain(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	actor := middleware.GetPrincipal(r.Context())
	u, err := h.service.ChangeRole(
		r.Context(),
		*actor,
		chi.URLParam(r, "userID"),
		rbac.Role(req.Role),
	)
	if err != nil {
		core.ErrorFromDomain(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	actor := middleware.GetPrincipal(r.Context())
	u, err := h.service.ChangeStatus(
		r.Context(),
		*actor,
		chi.URLParam(r, "userID"),
		Status(req.Status),
	)
	if err != nil {
		core.ErrorFromDomain(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.service.Block)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.service.Activate)
}

func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.service.SoftDelete)
}

func (h *Handler) HardDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetPrincipal(r.Context())

	if err := h.service.HardDelete(r.Context(), *actor, chi.URLParam(r, "userID")); err != nil {
		core.ErrorFromDomain(w, err, "user")
		return
	}

	core.NoContent(w)
}

type statusFunc func(
	ctx context.Context,
	actor rbac.Principal,
	targetID string,
) (*User, error)

func (h *Handler) statusAction(w http.ResponseWriter, r *http.Request, fn statusFunc) {
	actor := middleware.GetPrincipal(r.Context())

	u, err := fn(r.Context(), *actor, chi.URLParam(r, "userID"))
	if err != nil {
		core.ErrorFromDomain(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func parseBoolQuery(r *http.Request, key string) bool {
	parsed, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && parsed
}
