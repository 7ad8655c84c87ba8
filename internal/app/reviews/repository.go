package reviews

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dalemusser/safetyapp/internal/app/system/paging"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a review does not exist.
var ErrNotFound = errors.New("reviews: not found")

// Repository persists reviews.
type Repository interface {
	// Insert stores r and returns it with its ID assigned.
	Insert(ctx context.Context, r models.Review) (models.Review, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Review, error)
	Update(ctx context.Context, r models.Review) error
	// ListByContractor returns newest first; limit 0 means all.
	ListByContractor(ctx context.Context, contractorID primitive.ObjectID, limit, offset int) ([]models.Review, error)
}

// MemoryRepository keeps reviews in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Review
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[primitive.ObjectID]models.Review)}
}

func (m *MemoryRepository) Insert(ctx context.Context, r models.Review) (models.Review, error) {
	if err := ctx.Err(); err != nil {
		return models.Review{}, err
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.mu.Lock()
	m.items[r.ID] = r
	m.mu.Unlock()
	return r, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	if err := ctx.Err(); err != nil {
		return models.Review{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.items[id]
	if !ok {
		return models.Review{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepository) Update(ctx context.Context, r models.Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[r.ID]; !ok {
		return ErrNotFound
	}
	m.items[r.ID] = r
	return nil
}

func (m *MemoryRepository) ListByContractor(ctx context.Context, contractorID primitive.ObjectID, limit, offset int) ([]models.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := []models.Review{}
	for _, r := range m.items {
		if r.ContractorID == contractorID {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return paging.Slice(out, paging.Window{Limit: limit, Offset: offset}), nil
}
