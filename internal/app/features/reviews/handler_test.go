package reviews_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	reviewsfeature "github.com/dalemusser/safetyapp/internal/app/features/reviews"
	"github.com/dalemusser/safetyapp/internal/app/reviews"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/dalemusser/safetyapp/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	svc := reviews.NewService(reviews.NewMemoryRepository(), logger)
	h := reviewsfeature.NewHandler(svc, uierrors.NewErrorLogger(logger), logger)
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "t", "", time.Hour, false, []byte("s"), logger)
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Mount("/reviews", reviewsfeature.Routes(h, sm))
	return r
}

func serve(router http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func input(contractor primitive.ObjectID) map[string]any {
	return map[string]any{
		"contractorId": contractor.Hex(),
		"metrics": map[string]float64{
			"punctuality": 4, "quality": 4, "safety": 4, "communication": 5, "professionalBehavior": 5,
		},
		"comment":        "Muy buen trabajo en terreno",
		"wouldRecommend": true,
	}
}

func TestCreateListSummary(t *testing.T) {
	router := newRouter(t)
	user := testutil.SupervisorUser(primitive.NewObjectID())
	contractor := primitive.NewObjectID()

	rec := serve(router, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/reviews/", input(contractor)), user))
	rec.AssertStatus(t, http.StatusCreated)
	var created models.Review
	rec.DecodeJSON(t, &created)
	assert.Equal(t, 4.5, created.Rating)
	assert.Equal(t, user.ID, created.ReviewerID)

	rec = serve(router, testutil.NewAuthenticatedRequest(http.MethodGet, "/reviews/contractor/"+contractor.Hex(), user))
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Review
	rec.DecodeJSON(t, &list)
	require.Len(t, list, 1)

	rec = serve(router, testutil.NewAuthenticatedRequest(http.MethodGet, "/reviews/contractor/"+contractor.Hex()+"/summary", user))
	rec.AssertStatus(t, http.StatusOK)
	var sum reviews.Summary
	rec.DecodeJSON(t, &sum)
	assert.Equal(t, 1, sum.Count)
	assert.Equal(t, 4.5, sum.AverageRating)
}

func TestEmptyListIsArray(t *testing.T) {
	router := newRouter(t)
	user := testutil.SupervisorUser(primitive.NewObjectID())

	rec := serve(router, testutil.NewAuthenticatedRequest(http.MethodGet, "/reviews/contractor/"+primitive.NewObjectID().Hex(), user))
	rec.AssertStatus(t, http.StatusOK)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestUpdate_OnlyReviewer(t *testing.T) {
	router := newRouter(t)
	company := primitive.NewObjectID()
	author := testutil.SupervisorUser(company)
	other := testutil.SupervisorUser(company)
	contractor := primitive.NewObjectID()

	rec := serve(router, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/reviews/", input(contractor)), author))
	rec.AssertStatus(t, http.StatusCreated)
	var created models.Review
	rec.DecodeJSON(t, &created)

	edit := input(contractor)
	edit["comment"] = "Cambiaron de supervisor, bajó la calidad"
	rec = serve(router, testutil.WithUser(testutil.NewJSONRequest(http.MethodPut, "/reviews/"+created.ID.Hex(), edit), other))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = serve(router, testutil.WithUser(testutil.NewJSONRequest(http.MethodPut, "/reviews/"+created.ID.Hex(), edit), author))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "bajó la calidad")

	rec = serve(router, testutil.WithUser(testutil.NewJSONRequest(http.MethodPut, "/reviews/"+primitive.NewObjectID().Hex(), edit), author))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestBadInput(t *testing.T) {
	router := newRouter(t)
	user := testutil.SupervisorUser(primitive.NewObjectID())

	serve(router, testutil.NewAuthenticatedRequest(http.MethodGet, "/reviews/contractor/not-an-id", user)).
		AssertStatus(t, http.StatusBadRequest)

	short := input(primitive.NewObjectID())
	short["comment"] = "ok"
	rec := serve(router, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/reviews/", short), user))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "comment")

	rec = serve(router, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/reviews/", input(primitive.NewObjectID())), testutil.SuperAdminUser()))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestCreate_RejectsOversizedBody(t *testing.T) {
	router := newRouter(t)
	user := testutil.SupervisorUser(primitive.NewObjectID())

	big := input(primitive.NewObjectID())
	big["comment"] = strings.Repeat("a", 70<<10)
	rec := serve(router, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/reviews/", big), user))
	rec.AssertStatus(t, http.StatusBadRequest)
}
