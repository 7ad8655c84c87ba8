package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var clock = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	svc := NewService(repo, zap.NewNop())
	svc.now = func() time.Time { return clock }
	return svc, repo
}

func reviewer() Actor {
	return Actor{UserID: "u1", Name: "Paula", CompanyID: primitive.NewObjectID().Hex()}
}

func TestCreate_DerivesRatingAndSanitizes(t *testing.T) {
	svc, repo := newTestService()
	contractor := primitive.NewObjectID()

	r, err := svc.Create(context.Background(), reviewer(), Input{
		ContractorID:   contractor.Hex(),
		Metrics:        metrics(4, 4, 4, 5, 5),
		Comment:        "  Excelente <script>alert(1)</script>trabajo en altura  ",
		WouldRecommend: true,
	})
	require.NoError(t, err)
	assert.False(t, r.ID.IsZero())
	assert.Equal(t, 4.5, r.Rating)
	assert.Equal(t, "Excelente trabajo en altura", r.Comment)
	assert.Equal(t, clock, r.CreatedAt)

	stored, err := repo.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Comment, stored.Comment)
}

func TestCreate_RejectsBeforePersisting(t *testing.T) {
	svc, repo := newTestService()
	contractor := primitive.NewObjectID()
	ctx := context.Background()

	_, err := svc.Create(ctx, reviewer(), Input{
		ContractorID: contractor.Hex(),
		Metrics:      metrics(4, 4, 4, 4, 4),
		Comment:      "<b></b>ok",
	})
	_, isVal := inputval.AsResult(err)
	assert.True(t, isVal, "got %v", err)

	_, err = svc.Create(ctx, reviewer(), Input{ContractorID: contractor.Hex(), Comment: "Comentario suficientemente largo"})
	_, isVal = inputval.AsResult(err)
	assert.True(t, isVal, "all-zero metrics resolve to a zero rating")

	_, err = svc.Create(ctx, reviewer(), Input{ContractorID: "nope", Rating: 4, Comment: "Comentario suficientemente largo"})
	_, isVal = inputval.AsResult(err)
	assert.True(t, isVal)

	_, err = svc.Create(ctx, Actor{UserID: "u1"}, Input{ContractorID: contractor.Hex(), Rating: 4, Comment: "Comentario suficientemente largo"})
	assert.ErrorIs(t, err, ErrNoCompany)

	all, _ := repo.ListByContractor(ctx, contractor, 0, 0)
	assert.Empty(t, all)
}

func TestCreate_RejectsMalformedIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	contractor := primitive.NewObjectID()

	_, err := svc.Create(ctx, reviewer(), Input{ContractorID: "not-hex", Rating: 4, Comment: "Comentario suficientemente largo"})
	res, ok := inputval.AsResult(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "contractorId", res.Errors[0].Field)

	_, err = svc.Create(ctx, reviewer(), Input{ContractorID: contractor.Hex(), WorkPermitID: "wp-1", Rating: 4, Comment: "Comentario suficientemente largo"})
	res, ok = inputval.AsResult(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "workPermitId", res.Errors[0].Field)

	wp := primitive.NewObjectID()
	r, err := svc.Create(ctx, reviewer(), Input{ContractorID: contractor.Hex(), WorkPermitID: wp.Hex(), Rating: 4, Comment: "Comentario suficientemente largo"})
	require.NoError(t, err)
	require.NotNil(t, r.WorkPermitID)
	assert.Equal(t, wp, *r.WorkPermitID)
}

func TestUpdate_KeepsStoredRating(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := reviewer()
	contractor := primitive.NewObjectID()

	r, err := svc.Create(ctx, a, Input{ContractorID: contractor.Hex(), Rating: 2, Metrics: metrics(5, 5, 5, 5, 5), Comment: "Primera evaluación"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a, r.ID, Input{Metrics: metrics(1, 1, 1, 1, 1), Comment: "Evaluación corregida"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.Rating)
	assert.Equal(t, 1.0, updated.Metrics.Safety)
	assert.Equal(t, contractor, updated.ContractorID)

	_, err = svc.Update(ctx, Actor{UserID: "intruder"}, r.ID, Input{Rating: 5, Comment: "Evaluación corregida"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, a, primitive.NewObjectID(), Input{Rating: 5, Comment: "Evaluación corregida"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndSummary(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	contractor := primitive.NewObjectID()
	other := primitive.NewObjectID()

	for i, rating := range []float64{5, 4, 3} {
		_, err := repo.Insert(ctx, models.Review{
			ContractorID:   contractor,
			Rating:         rating,
			Metrics:        metrics(rating, rating, rating, rating, rating),
			WouldRecommend: rating >= 4,
			CreatedAt:      clock.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Insert(ctx, models.Review{ContractorID: other, Rating: 1, CreatedAt: clock})
	require.NoError(t, err)

	page, err := svc.ListByContractor(ctx, contractor, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 3.0, page[0].Rating, "newest first")

	sum, err := svc.Summary(ctx, contractor)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 4.0, sum.AverageRating)
	assert.Equal(t, 67.0, sum.RecommendPercent)
	assert.Equal(t, contractor.Hex(), sum.ContractorID)
}
