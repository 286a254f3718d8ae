// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

type stubResolver map[string]*rbac.Principal

func (s stubResolver) Resolve(_ context.Context, value string) (*rbac.Principal, error) {
	if value == "broken" {
		return nil, errors.New("redis: connection refused")
	}
	if p, ok := s[value]; ok {
		return p, nil
	}
	return nil, core.ErrUnauthorized
}

const cookieName = "delivery.sid"

func serve(h http.Handler, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionAttachesPrincipal(t *testing.T) {
	resolver := stubResolver{"good": {ID: "u1", Role: rbac.RoleLeader}}

	var seen *rbac.Principal
	h := Session(resolver, cookieName)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetPrincipal(r.Context())
	}))

	serve(h, "good")
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)

	for _, cookie := range []string{"", "stale", "broken"} {
		seen = &rbac.Principal{}
		serve(h, cookie)
		assert.Nil(t, seen, cookie)
	}
}

func TestAuthorize(t *testing.T) {
	resolver := stubResolver{
		"member": {ID: "u1", Role: rbac.RoleUser},
		"leader": {ID: "u2", Role: rbac.RoleLeader},
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	chain := func(op rbac.Operation) http.Handler {
		return Session(resolver, cookieName)(Authorize(rbac.DefaultPolicy(), op)(ok))
	}

	tests := []struct {
		name   string
		op     rbac.Operation
		cookie string
		want   int
	}{
		{"public anonymous", rbac.OpAuthLogin, "", http.StatusTeapot},
		{"guarded anonymous", rbac.OpUsersList, "", http.StatusUnauthorized},
		{"expired session", rbac.OpUsersList, "stale", http.StatusUnauthorized},
		{"insufficient role", rbac.OpUsersList, "member", http.StatusForbidden},
		{"sufficient role", rbac.OpUsersList, "leader", http.StatusTeapot},
		{"authenticated only", rbac.OpUsersProfile, "member", http.StatusTeapot},
		{"undeclared operation", rbac.Operation("users.export"), "leader", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(chain(tt.op), tt.cookie)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}
