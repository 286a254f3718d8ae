// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/middleware"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
	"github.com/carterperez-dev/delivery-admin/internal/user"
)

func newTestRouter(f *fixture) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Session(f.sessions, f.codec.Name()))

	passthrough := func(next http.Handler) http.Handler { return next }
	NewHandler(f.service, f.codec).RegisterRoutes(
		r,
		middleware.Guard(rbac.DefaultPolicy()),
		passthrough,
	)
	return r
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) core.Response {
	t.Helper()
	var resp core.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLoginHandler(t *testing.T) {
	f := newFixture(t)
	f.identities.put(t, "active@example.com", password, rbac.RoleAdmin, user.StatusActive)
	f.identities.put(t, "blocked@example.com", password, rbac.RoleUser, user.StatusBlocked)
	f.identities.put(t, "deleted@example.com", password, rbac.RoleUser, user.StatusDeleted)
	router := newTestRouter(f)

	login := func(email, pw string) *httptest.ResponseRecorder {
		body := `{"email":"` + email + `","password":"` + pw + `"}`
		return do(router, http.MethodPost, "/auth/login", body)
	}

	t.Run("success sets cookie", func(t *testing.T) {
		rec := login("active@example.com", password)
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "delivery.sid", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("blocked", func(t *testing.T) {
		rec := login("blocked@example.com", password)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, core.CodeAccountBlocked, decodeResponse(t, rec).Error.Code)
	})

	t.Run("deleted and wrong password look the same", func(t *testing.T) {
		deleted := login("deleted@example.com", password)
		wrong := login("active@example.com", "wrong password")
		unknown := login("ghost@example.com", password)

		for _, rec := range []*httptest.ResponseRecorder{deleted, wrong, unknown} {
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, wrong.Body.String(), rec.Body.String())
		}
	})

	t.Run("validation", func(t *testing.T) {
		rec := login("not-an-email", password)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, core.CodeValidationFailed, decodeResponse(t, rec).Error.Code)
	})
}

func TestProfileRequiresSession(t *testing.T) {
	f := newFixture(t)
	f.identities.put(t, "active@example.com", password, rbac.RoleUser, user.StatusActive)
	router := newTestRouter(f)

	rec := do(router, http.MethodGet, "/auth/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	login := do(router, http.MethodPost, "/auth/login",
		`{"email":"active@example.com","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, login.Code)
	session := login.Result().Cookies()[0]

	rec = do(router, http.MethodGet, "/auth/profile", "", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "active@example.com")

	rec = do(router, http.MethodPost, "/auth/logout", "", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	rec = do(router, http.MethodGet, "/auth/profile", "", session)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyEmailHandler(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	rec := do(router, http.MethodPost, "/auth/register",
		`{"email":"new@example.com","password":"`+password+`","first_name":"A","last_name":"B"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	token := f.notifier.last(t, "verify")

	rec = do(router, http.MethodGet, "/auth/verify-email?token="+token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodPost, "/auth/verify-email", `{"token":"`+token+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.CodeTokenInvalid, decodeResponse(t, rec).Error.Code)
}

func TestForgotPasswordMasksUnknownEmail(t *testing.T) {
	f := newFixture(t)
	f.identities.put(t, "known@example.com", password, rbac.RoleUser, user.StatusActive)
	router := newTestRouter(f)

	known := do(router, http.MethodPost, "/auth/forgot-password", `{"email":"known@example.com"}`)
	unknown := do(router, http.MethodPost, "/auth/forgot-password", `{"email":"ghost@example.com"}`)

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Code, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}
