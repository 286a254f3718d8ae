// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/middleware"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
	"github.com/carterperez-dev/delivery-admin/internal/user"
)

type Handler struct {
	service   *Service
	codec     *CookieCodec
	validator *validator.Validate
}

func NewHandler(service *Service, codec *CookieCodec) *Handler {
	return &Handler{
		service:   service,
		codec:     codec,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the auth surface. sensitive wraps the endpoints that
// accept guesses (login and password reset).
func (h *Handler) RegisterRoutes(
	r chi.Router,
	guard func(rbac.Operation) func(http.Handler) http.Handler,
	sensitive func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.With(guard(rbac.OpAuthRegister)).Post("/register", h.Register)
		r.With(sensitive, guard(rbac.OpAuthLogin)).Post("/login", h.Login)
		r.With(guard(rbac.OpAuthLogout)).Post("/logout", h.Logout)
		r.With(guard(rbac.OpAuthVerifyEmail)).Post("/verify-email", h.VerifyEmail)
		r.With(guard(rbac.OpAuthVerifyEmail)).Get("/verify-email", h.VerifyEmailLink)
		r.With(sensitive, guard(rbac.OpAuthForgotPassword)).
			Post("/forgot-password", h.ForgotPassword)
		r.With(sensitive, guard(rbac.OpAuthResetPassword)).
			Post("/reset-password", h.ResetPassword)
		r.With(guard(rbac.OpAuthProfile)).Get("/profile", h.Profile)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, cookie, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidCredentials),
			errors.Is(err, core.ErrAccountDeleted):
			core.JSONError(w, core.InvalidCredentialsError())
		case errors.Is(err, core.ErrAccountBlocked):
			core.JSONError(w, core.AccountBlockedError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	http.SetCookie(w, h.codec.Cookie(cookie))
	core.OK(w, LoginResponse{User: user.ToUserResponse(u)})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.codec.Name()); err == nil {
		h.service.Logout(r.Context(), c.Value)
	}

	http.SetCookie(w, h.codec.ExpiredCookie())
	core.Message(w, "logged out")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.ErrorFromDomain(w, err, "email")
		return
	}

	core.Created(w, RegisterResponse{ID: u.ID})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.verify(w, r, req.Token)
}

// VerifyEmailLink serves the link embedded in the verification email.
func (h *Handler) VerifyEmailLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		core.BadRequest(w, "token is required")
		return
	}
	h.verify(w, r, token)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request, token string) {
	ok, err := h.service.VerifyEmail(r.Context(), token)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !ok {
		core.JSONError(w, core.TokenInvalidError())
		return
	}

	core.Message(w, "email verified")
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Message(w, "if the email is registered, a reset link has been sent")
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	ok, err := h.service.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !ok {
		core.JSONError(w, core.TokenInvalidError())
		return
	}

	core.Message(w, "password has been reset")
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Profile(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		core.ErrorFromDomain(w, err, "user")
		return
	}

	core.OK(w, user.ToUserResponse(u))
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
