package coursesapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/services/coursesapi"
	"github.com/dalemusser/safetyapp/internal/app/system/apiclient"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T, mux *http.ServeMux) *coursesapi.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	api, err := apiclient.New(srv.URL, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	return coursesapi.New(api)
}

func ctx() context.Context {
	return auth.WithUser(context.Background(), &auth.SessionUser{ID: "u1", Token: "tok"})
}

func TestList_SendsFilter(t *testing.T) {
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/courses", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[{"id":"c1","title":"Trabajo en Altura","required":true}]}`))
	})
	c := newClient(t, mux)

	courses, err := c.List(ctx(), coursesapi.Filter{Category: "altura", Limit: 20})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Trabajo en Altura", courses[0].Title)
	assert.True(t, courses[0].Required)
	assert.Equal(t, "category=altura&limit=20", query)
}

func TestGetAndMyCourses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/courses/c9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"c9","title":"Espacios Confinados"}`))
	})
	mux.HandleFunc("/api/courses/my-courses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"courseId":"c9","progress":40,"status":"in_progress"}]`))
	})
	c := newClient(t, mux)

	course, err := c.Get(ctx(), "c9")
	require.NoError(t, err)
	assert.Equal(t, "Espacios Confinados", course.Title)

	mine, err := c.MyCourses(ctx())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 40.0, mine[0].Progress)
}

func TestEnroll_EmptyBodyFillsCourseID(t *testing.T) {
	var method string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/courses/c3/enroll", func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusCreated)
	})
	c := newClient(t, mux)

	p, err := c.Enroll(ctx(), "c3")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "c3", p.CourseID)
}

func TestSyncAndStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/courses/talentlms/sync", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"running"}`))
	})
	mux.HandleFunc("/api/courses/talentlms/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"idle","coursesSynced":42}`))
	})
	mux.HandleFunc("/api/courses/progress/u7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"courseId":"c1","progress":100,"status":"completed"}]`))
	})
	c := newClient(t, mux)

	st, err := c.SyncTalentLMS(ctx())
	require.NoError(t, err)
	assert.Equal(t, "running", st.Status)

	st, err = c.SyncStatus(ctx())
	require.NoError(t, err)
	assert.Equal(t, 42, st.CoursesSynced)

	prog, err := c.UserProgress(ctx(), "u7")
	require.NoError(t, err)
	require.Len(t, prog, 1)
	assert.Equal(t, "completed", prog[0].Status)
}

func TestErrorsAreReturnedUnchanged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/courses/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Course not found"}`))
	})
	c := newClient(t, mux)

	_, err := c.Get(ctx(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(err))
	assert.EqualError(t, err, "Course not found")
}
