// AngelaMos | 2026
// handler_test.go

package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/middleware"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

type fakeRepo struct {
	owned     map[string][]string
	manifests []Manifest
	lastQuery ManifestFilter
}

func (f *fakeRepo) ListRoutes(context.Context) ([]Route, error) { return nil, nil }

func (f *fakeRepo) FindRoutesOwnedBy(_ context.Context, id string) ([]string, error) {
	return f.owned[id], nil
}

func (f *fakeRepo) GetManifest(_ context.Context, id string) (*Manifest, error) {
	for i := range f.manifests {
		if f.manifests[i].ID == id {
			return &f.manifests[i], nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListManifests(_ context.Context, filter ManifestFilter) ([]Manifest, error) {
	f.lastQuery = filter
	var out []Manifest
	for _, m := range f.manifests {
		for _, id := range filter.RouteIDs {
			if m.RouteID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func serve(t *testing.T, repo Repository, caller *rbac.Principal, target string) (int, map[string]any) {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(NewService(repo, nil)).RegisterRoutes(r, middleware.Guard(rbac.DefaultPolicy()))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if caller != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), caller))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestForCurrentUser(t *testing.T) {
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		owned: map[string][]string{"driver": {"r1"}},
		manifests: []Manifest{
			{ID: "m1", RouteID: "r1", DeliveryDate: day},
			{ID: "m2", RouteID: "r2", DeliveryDate: day},
		},
	}

	t.Run("unauthenticated", func(t *testing.T) {
		code, _ := serve(t, repo, nil, "/delivery-manifests/for-current-user")
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("own routes only", func(t *testing.T) {
		caller := &rbac.Principal{ID: "driver", Role: rbac.RoleUser}
		code, body := serve(t, repo, caller, "/delivery-manifests/for-current-user?date=2026-04-01")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Found 1 manifests for your route", body["message"])

		data := body["data"].([]any)
		require.Len(t, data, 1)
		assert.Equal(t, "2026-04-01", data[0].(map[string]any)["delivery_date"])
		require.NotNil(t, repo.lastQuery.Date)
		assert.True(t, day.Equal(*repo.lastQuery.Date))
	})

	t.Run("no routes", func(t *testing.T) {
		caller := &rbac.Principal{ID: "nobody", Role: rbac.RoleUser}
		code, body := serve(t, repo, caller, "/delivery-manifests/for-current-user")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, []any{}, body["data"])
		assert.Contains(t, body["message"], "routes assigned")
	})

	t.Run("bad date", func(t *testing.T) {
		caller := &rbac.Principal{ID: "driver", Role: rbac.RoleUser}
		code, _ := serve(t, repo, caller, "/delivery-manifests/for-current-user?date=04/01/2026")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestListManifestsRejectsBadRouteID(t *testing.T) {
	caller := &rbac.Principal{ID: "driver", Role: rbac.RoleUser}
	code, _ := serve(t, &fakeRepo{}, caller, "/delivery-manifests/?route_id=nope")
	assert.Equal(t, http.StatusBadRequest, code)
}
