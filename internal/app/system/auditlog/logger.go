// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/store/audit"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Destination modes.
const (
	ModeAll = "all" // store + zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Sink persists audit entries. *audit.Store and *MemorySink satisfy it.
type Sink interface {
	Log(ctx context.Context, entry models.AuditLog) error
	Query(ctx context.Context, filter audit.QueryFilter) ([]models.AuditLog, error)
}

// Logger records settings changes to a Sink and to zap depending on mode.
type Logger struct {
	sink   Sink
	zapLog *zap.Logger
	mode   string
	now    func() time.Time
}

// New creates a new audit Logger. An unknown mode behaves like ModeAll.
func New(sink Sink, zapLog *zap.Logger, mode string) *Logger {
	switch mode {
	case ModeAll, ModeDB, ModeLog, ModeOff:
	default:
		mode = ModeAll
	}
	return &Logger{sink: sink, zapLog: zapLog, mode: mode, now: func() time.Time { return time.Now().UTC() }}
}

// Mode returns the effective destination mode.
func (l *Logger) Mode() string {
	if l == nil {
		return ModeOff
	}
	return l.mode
}

func (l *Logger) logToZap(entry models.AuditLog) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("section", entry.Section),
		zap.String("action", entry.Action),
		zap.String("company_id", entry.CompanyID),
		zap.String("user_id", entry.UserID),
	}
	for k, v := range entry.Changes {
		fields = append(fields, zap.String("change_"+k, v))
	}
	l.zapLog.Info("audit event", fields...)
}

// Log records entry. A nil Logger is a no-op. Store failures are logged,
// never returned: an audit outage must not fail the change itself.
func (l *Logger) Log(ctx context.Context, entry models.AuditLog) {
	if l == nil || l.mode == ModeOff {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}

	if l.mode == ModeAll || l.mode == ModeLog {
		l.logToZap(entry)
	}
	if (l.mode == ModeAll || l.mode == ModeDB) && l.sink != nil {
		if err := l.sink.Log(ctx, entry); err != nil {
			l.zapLog.Error("failed to store audit entry",
				zap.Error(err),
				zap.String("section", entry.Section))
		}
	}
}

// SettingsUpdated records an update of one settings section.
func (l *Logger) SettingsUpdated(ctx context.Context, companyID, userID, section string, changes map[string]string) {
	l.Log(ctx, models.AuditLog{
		CompanyID: companyID,
		UserID:    userID,
		Section:   section,
		Action:    audit.ActionUpdate,
		Changes:   changes,
	})
}

// Recent returns companyID's most recent entries. Modes that do not
// persist return an empty list.
func (l *Logger) Recent(ctx context.Context, companyID string, limit int) ([]models.AuditLog, error) {
	if l == nil || l.sink == nil || l.mode == ModeOff || l.mode == ModeLog {
		return []models.AuditLog{}, nil
	}
	return l.sink.Query(ctx, audit.QueryFilter{CompanyID: companyID, Limit: int64(limit)})
}

// MemorySink keeps audit entries in process memory.
type MemorySink struct {
	mu      sync.RWMutex
	entries []models.AuditLog
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Log(ctx context.Context, entry models.AuditLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

func (m *MemorySink) Query(ctx context.Context, filter audit.QueryFilter) ([]models.AuditLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := []models.AuditLog{}
	for _, e := range m.entries {
		if filter.CompanyID != "" && e.CompanyID != filter.CompanyID {
			continue
		}
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.Section != "" && e.Section != filter.Section {
			continue
		}
		if filter.StartTime != nil && e.Timestamp.Before(*filter.StartTime) {
			continue
		}
		if filter.EndTime != nil && e.Timestamp.After(*filter.EndTime) {
			continue
		}
		out = append(out, e)
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	if filter.Offset > 0 {
		if filter.Offset >= int64(len(out)) {
			return []models.AuditLog{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < int64(len(out)) {
		out = out[:filter.Limit]
	}
	return out, nil
}
