// Package settings loads and saves the per-company and per-user settings
// sections. Every successful update is recorded in the audit log.
package settings

import (
	"context"
	"sync"

	settingsstore "github.com/dalemusser/safetyapp/internal/app/store/settings"
	"go.mongodb.org/mongo-driver/bson"
)

// Repository persists one struct per (section, owner).
type Repository interface {
	// Load decodes the saved section into dst and reports whether one existed.
	Load(ctx context.Context, section, ownerID string, dst any) (bool, error)
	Save(ctx context.Context, section, ownerID string, v any) error
}

var _ Repository = (*settingsstore.Store)(nil)

// MemoryRepository keeps settings in process memory, BSON encoded so
// loads never alias a caller's maps or slices.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func key(section, ownerID string) string { return section + "/" + ownerID }

func (m *MemoryRepository) Load(ctx context.Context, section, ownerID string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	raw, ok := m.data[key(section, ownerID)]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, bson.Unmarshal(raw, dst)
}

func (m *MemoryRepository) Save(ctx context.Context, section, ownerID string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key(section, ownerID)] = raw
	m.mu.Unlock()
	return nil
}
