package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seeded(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository(0)
	for i := 0; i < 5; i++ {
		repo.Seed(models.Notification{
			ID:        fmt.Sprintf("a%d", i),
			UserID:    "alice",
			Type:      "course",
			Title:     "t",
			Priority:  models.PriorityLow,
			Read:      i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	repo.Seed(
		models.Notification{ID: "b1", UserID: "bob", Type: "system", CreatedAt: base},
		models.Notification{ID: "b2", UserID: "bob", Type: "work_permit", CreatedAt: base},
	)
	svc := NewService(repo, zap.NewNop())
	svc.now = func() time.Time { return base.Add(time.Hour) }
	return svc, repo
}

func TestList_NewestFirstAndScoped(t *testing.T) {
	svc, _ := seeded(t)

	got, err := svc.List(context.Background(), "alice", Filter{})
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "a4", got[0].ID)
	assert.Equal(t, "a0", got[4].ID)
	for _, n := range got {
		assert.Equal(t, "alice", n.UserID)
	}
}

func TestList_FiltersAndPaging(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	unread, err := svc.List(ctx, "alice", Filter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	page, err := svc.List(ctx, "alice", Filter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a3", page[0].ID)

	typed, err := svc.List(ctx, "bob", Filter{Type: "system"})
	require.NoError(t, err)
	require.Len(t, typed, 1)
	assert.Equal(t, "b1", typed[0].ID)

	empty, err := svc.List(ctx, "nobody", Filter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUnreadCount(t *testing.T) {
	svc, _ := seeded(t)
	n, err := svc.UnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCreate_ValidatesAndDefaults(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{UserID: "alice", Type: "party", Title: "x", Message: "y"})
	res, ok := inputval.AsResult(err)
	require.True(t, ok, "got %v", err)
	assert.Contains(t, res.First(), "Type must be one of")

	n, err := svc.Create(ctx, CreateInput{UserID: "alice", Type: "review", Title: "New review", Message: "You were rated"})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, models.PriorityMedium, n.Priority)
	assert.False(t, n.Read)

	count, err := svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCreate_StoresPlainText(t *testing.T) {
	repo := NewMemoryRepository(0)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	n, err := svc.Create(ctx, CreateInput{
		UserID:  "carla",
		Type:    "work_permit",
		Title:   "<b>Permiso</b> aprobado",
		Message: "WP-0042 listo <script>alert(1)</script>para iniciar",
	})
	require.NoError(t, err)
	assert.Equal(t, "Permiso aprobado", n.Title)
	assert.Equal(t, "WP-0042 listo para iniciar", n.Message)

	stored, err := repo.List(ctx, "carla", Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Permiso aprobado", stored[0].Title)
	assert.Equal(t, "WP-0042 listo para iniciar", stored[0].Message)

	_, err = svc.Create(ctx, CreateInput{UserID: "carla", Type: "system", Title: "<script>x</script>", Message: "hola"})
	res, ok := inputval.AsResult(err)
	require.True(t, ok, "markup-only title is empty after sanitizing, got %v", err)
	assert.Equal(t, "Title is required.", res.First())
}

func TestMarkAsRead_OneWayAndStamped(t *testing.T) {
	svc, repo := seeded(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkAsRead(ctx, "alice", "a1"))
	got, _ := repo.List(ctx, "alice", Filter{})
	for _, n := range got {
		if n.ID == "a1" {
			assert.True(t, n.Read)
			require.NotNil(t, n.ReadAt)
			assert.Equal(t, base.Add(time.Hour), *n.ReadAt)
		}
	}

	// already read is fine
	require.NoError(t, svc.MarkAsRead(ctx, "alice", "a1"))
}

func TestMarkAsRead_ForeignIDIsNotFound(t *testing.T) {
	svc, repo := seeded(t)
	ctx := context.Background()

	err := svc.MarkAsRead(ctx, "alice", "b1")
	assert.True(t, errors.Is(err, ErrNotFound))

	bob, _ := repo.List(ctx, "bob", Filter{UnreadOnly: true})
	assert.Len(t, bob, 2, "bob's notification untouched")
}

func TestMarkAllAsRead_OnlyCaller(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	n, err := svc.MarkAllAsRead(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bobUnread, err := svc.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, bobUnread)
}

func TestDelete(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "alice", "a0"))
	assert.ErrorIs(t, svc.Delete(ctx, "alice", "a0"), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "alice", "b1"), ErrNotFound)
}

func TestBulkDelete_SkipsForeignIDs(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	n, err := svc.BulkDelete(ctx, "alice", []string{"a0", "a1", "b1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, _ := svc.List(ctx, "alice", Filter{})
	assert.Len(t, left, 3)
	bob, _ := svc.List(ctx, "bob", Filter{})
	assert.Len(t, bob, 2)

	n, err = svc.BulkDelete(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryRepository_LatencyHonorsContext(t *testing.T) {
	repo := NewMemoryRepository(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := repo.UnreadCount(ctx, "alice")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryRepository_InstancesAreIndependent(t *testing.T) {
	a := NewMemoryRepository(0)
	b := NewMemoryRepository(0)
	a.Seed(models.Notification{ID: "x", UserID: "u"})

	n, err := b.UnreadCount(context.Background(), "u")
	require.NoError(t, err)
	assert.Zero(t, n)
}
