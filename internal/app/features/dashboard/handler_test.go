package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/dashboard"
	dashfeature "github.com/dalemusser/safetyapp/internal/app/features/dashboard"
	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/app/services/dashboardsvc"
	"github.com/dalemusser/safetyapp/internal/app/system/apiclient"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/dalemusser/safetyapp/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type viewBody struct {
	Role         models.Role         `json:"role"`
	Cards        []models.StatCard   `json:"cards"`
	Alerts       []models.Alert      `json:"alerts"`
	Activities   []models.Activity   `json:"activities"`
	UnreadAlerts int                 `json:"unreadAlerts"`
	Warnings     []dashboard.Warning `json:"warnings"`
}

// downBackend answers every call with 503 after delay and records the
// paths it saw.
type downBackend struct {
	mu    sync.Mutex
	paths []string
	delay time.Duration
}

func (b *downBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.paths = append(b.paths, r.Method+" "+r.URL.Path)
	delay := b.delay
	b.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	http.Error(w, `{"message":"maintenance"}`, http.StatusServiceUnavailable)
}

func newRouter(t *testing.T, policy dashboard.Policy) (http.Handler, *downBackend) {
	t.Helper()
	backend := &downBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	api, err := apiclient.New(srv.URL, 2*time.Second, logger)
	require.NoError(t, err)
	loader := dashboard.NewLoader(dashboardsvc.New(api, logger), policy, logger)
	registry := dashboard.NewRegistry(loader, logger)
	t.Cleanup(registry.CloseAll)

	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "t", "", time.Hour, false, []byte("s"), logger)
	require.NoError(t, err)

	h := dashfeature.NewHandler(registry, uierrors.NewErrorLogger(logger), logger)
	r := chi.NewRouter()
	r.Mount("/dashboard", dashfeature.Routes(h, sm))
	return r, backend
}

func do(router http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestServeDashboard_RequiresSignIn(t *testing.T) {
	router, _ := newRouter(t, dashboard.Policy{Fallback: dashboard.FallbackMock})
	rec := do(router, testutil.NewRequest(http.MethodGet, "/dashboard/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeDashboard_FallsBackToMockData(t *testing.T) {
	router, backend := newRouter(t, dashboard.Policy{Fallback: dashboard.FallbackMock})
	user := testutil.ContractorUser(primitive.NewObjectID())

	rec := do(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/dashboard/"), user))
	rec.AssertStatus(t, http.StatusOK)

	var body viewBody
	rec.DecodeJSON(t, &body)
	assert.Equal(t, models.RoleContratistaAdmin, body.Role)
	assert.NotEmpty(t, body.Cards)
	assert.Len(t, body.Alerts, 3)
	assert.NotEmpty(t, body.Activities)
	assert.NotEmpty(t, body.Warnings)

	backend.mu.Lock()
	assert.Contains(t, backend.paths, "GET /api/dashboard/stats")
	backend.mu.Unlock()
}

func TestServeDashboard_ConcurrentColdLoadsAllSucceed(t *testing.T) {
	router, backend := newRouter(t, dashboard.Policy{Fallback: dashboard.FallbackMock})
	backend.mu.Lock()
	backend.delay = 50 * time.Millisecond
	backend.mu.Unlock()
	user := testutil.SupervisorUser(primitive.NewObjectID())

	const n = 6
	recs := make([]*testutil.ResponseRecorder, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recs[i] = do(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/dashboard/"), user))
		}(i)
	}
	wg.Wait()

	for i, rec := range recs {
		require.Equal(t, http.StatusOK, rec.Code, "request %d: %s", i, rec.Body.String())
		var body viewBody
		rec.DecodeJSON(t, &body)
		assert.Equal(t, models.RoleClientSupervisor, body.Role)
		assert.NotEmpty(t, body.Cards)
	}
}

func TestServeDashboard_FailPolicyPassesBackendStatus(t *testing.T) {
	router, _ := newRouter(t, dashboard.Policy{Fallback: dashboard.FallbackFail})
	user := testutil.SupervisorUser(primitive.NewObjectID())

	rec := do(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/dashboard/"), user))
	rec.AssertStatus(t, http.StatusServiceUnavailable)
	rec.AssertContains(t, "maintenance")
}

func TestMarkAlertRead_FlipsLocallyWithoutRollback(t *testing.T) {
	router, backend := newRouter(t, dashboard.Policy{Fallback: dashboard.FallbackMock})
	user := testutil.SupervisorUser(primitive.NewObjectID())

	rec := do(router, testutil.WithUser(testutil.NewRequest(http.MethodPut, "/dashboard/alerts/mock-alert-1/read"), user))
	rec.AssertStatus(t, http.StatusConflict)

	do(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/dashboard/"), user)).AssertStatus(t, http.StatusOK)

	rec = do(router, testutil.WithUser(testutil.NewRequest(http.MethodPut, "/dashboard/alerts/mock-alert-1/read"), user))
	rec.AssertStatus(t, http.StatusOK)

	var body viewBody
	rec.DecodeJSON(t, &body)
	read := 0
	for _, a := range body.Alerts {
		if a.IsRead {
			read++
			assert.Equal(t, "mock-alert-1", a.ID)
		}
	}
	assert.Equal(t, 1, read)

	backend.mu.Lock()
	assert.Contains(t, backend.paths, "PUT /api/dashboard/alerts/mock-alert-1/read")
	backend.mu.Unlock()
}

func TestMarkAlertRead_RollbackReportsBackendError(t *testing.T) {
	router, _ := newRouter(t, dashboard.Policy{Fallback: dashboard.FallbackMock, RollbackAlertOnFailure: true})
	user := testutil.SupervisorUser(primitive.NewObjectID())

	do(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/dashboard/"), user)).AssertStatus(t, http.StatusOK)

	rec := do(router, testutil.WithUser(testutil.NewRequest(http.MethodPut, "/dashboard/alerts/mock-alert-1/read"), user))
	rec.AssertStatus(t, http.StatusServiceUnavailable)

	raw := do(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/dashboard/raw"), user))
	raw.AssertStatus(t, http.StatusOK)
	var snap struct {
		Alerts []models.Alert `json:"alerts"`
	}
	raw.DecodeJSON(t, &snap)
	for _, a := range snap.Alerts {
		assert.False(t, a.IsRead, "alert %s should be rolled back", a.ID)
	}
}

func TestHandleRefresh(t *testing.T) {
	router, _ := newRouter(t, dashboard.Policy{Fallback: dashboard.FallbackMock})
	user := testutil.SupervisorUser(primitive.NewObjectID())

	rec := do(router, testutil.WithUser(testutil.NewRequest(http.MethodPost, "/dashboard/refresh/alerts"), user))
	rec.AssertStatus(t, http.StatusConflict)

	do(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/dashboard/"), user)).AssertStatus(t, http.StatusOK)

	for _, section := range []string{"stats", "activities", "alerts"} {
		rec = do(router, testutil.WithUser(testutil.NewRequest(http.MethodPost, "/dashboard/refresh/"+section), user))
		rec.AssertStatus(t, http.StatusOK)
	}

	rec = do(router, testutil.WithUser(testutil.NewRequest(http.MethodPost, "/dashboard/refresh/invoices"), user))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleClose(t *testing.T) {
	router, _ := newRouter(t, dashboard.Policy{Fallback: dashboard.FallbackMock})
	user := testutil.SupervisorUser(primitive.NewObjectID())

	do(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/dashboard/"), user)).AssertStatus(t, http.StatusOK)
	do(router, testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/dashboard/"), user)).AssertStatus(t, http.StatusNoContent)

	rec := do(router, testutil.WithUser(testutil.NewRequest(http.MethodPost, "/dashboard/refresh/stats"), user))
	rec.AssertStatus(t, http.StatusConflict)
}
