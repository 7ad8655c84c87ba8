// Package notifications manages per-user notifications. Every operation is
// scoped to one user: IDs belonging to someone else behave as if they do
// not exist.
package notifications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/system/paging"
	"github.com/dalemusser/safetyapp/internal/domain/models"
)

// ErrNotFound is returned when the notification does not exist for the
// calling user.
var ErrNotFound = errors.New("notifications: not found")

// Filter narrows List.
type Filter struct {
	UnreadOnly bool
	Type       string
	Limit      int
	Offset     int
}

// Repository persists notifications.
type Repository interface {
	List(ctx context.Context, userID string, f Filter) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	Insert(ctx context.Context, n models.Notification) error
	// MarkRead returns false when id is not userID's or already read.
	MarkRead(ctx context.Context, userID, id string, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	DeleteMany(ctx context.Context, userID string, ids []string) (int, error)
	// Exists reports whether id belongs to userID.
	Exists(ctx context.Context, userID, id string) (bool, error)
}

// MemoryRepository keeps notifications in process memory. Each instance
// has its own data; latency simulates a slow backend in demos.
type MemoryRepository struct {
	mu      sync.RWMutex
	items   map[string]models.Notification
	latency time.Duration
}

// NewMemoryRepository returns an empty repository that sleeps latency
// before each call (0 for none).
func NewMemoryRepository(latency time.Duration) *MemoryRepository {
	return &MemoryRepository{
		items:   make(map[string]models.Notification),
		latency: latency,
	}
}

// Seed inserts ns as-is, replacing any with the same ID.
func (m *MemoryRepository) Seed(ns ...models.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range ns {
		m.items[n.ID] = n
	}
}

func (m *MemoryRepository) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *MemoryRepository) List(ctx context.Context, userID string, f Filter) ([]models.Notification, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	var out []models.Notification
	for _, n := range m.items {
		if n.UserID != userID {
			continue
		}
		if f.UnreadOnly && n.Read {
			continue
		}
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		out = append(out, n)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return paging.Slice(out, paging.Window{Limit: f.Limit, Offset: f.Offset}), nil
}

func (m *MemoryRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	if err := m.wait(ctx); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, it := range m.items {
		if it.UserID == userID && !it.Read {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, n models.Notification) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[n.ID] = n
	return nil
}

func (m *MemoryRepository) MarkRead(ctx context.Context, userID, id string, at time.Time) (bool, error) {
	if err := m.wait(ctx); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok || n.UserID != userID || n.Read {
		return false, nil
	}
	n.Read = true
	n.ReadAt = &at
	m.items[id] = n
	return true, nil
}

func (m *MemoryRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error) {
	if err := m.wait(ctx); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for id, n := range m.items {
		if n.UserID != userID || n.Read {
			continue
		}
		n.Read = true
		n.ReadAt = &at
		m.items[id] = n
		count++
	}
	return count, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	if err := m.wait(ctx); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *MemoryRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	if err := m.wait(ctx); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, id := range ids {
		n, ok := m.items[id]
		if !ok || n.UserID != userID {
			continue
		}
		delete(m.items, id)
		count++
	}
	return count, nil
}

func (m *MemoryRepository) Exists(ctx context.Context, userID, id string) (bool, error) {
	if err := m.wait(ctx); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.items[id]
	return ok && n.UserID == userID, nil
}
