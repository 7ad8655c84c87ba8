// Package dashboard assembles role dashboards from the backend. A Loader
// fetches one snapshot, a Session holds the latest snapshot for one user
// and a Registry keeps sessions per user.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/services/dashboardsvc"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetch sizes used by a full load.
const (
	ActivityLimit  = 10
	ActivityOffset = 0
)

// Group names used in warnings and metrics.
const (
	GroupStats      = "stats"
	GroupActivities = "activities"
	GroupAlerts     = "alerts"
	groupSection    = "section:"
)

// Source is the backend the loader reads. *dashboardsvc.Service
// implements it.
type Source interface {
	GetStats(ctx context.Context, role models.Role) (models.Stats, error)
	GetActivities(ctx context.Context, limit, offset int) ([]models.Activity, error)
	GetAlerts(ctx context.Context, alertType string) ([]models.Alert, error)
	MarkAlertAsRead(ctx context.Context, id string) error
	GetSection(ctx context.Context, sec dashboardsvc.Section) (json.RawMessage, error)
}

// Fallback says what happens when a group fails to load.
type Fallback string

const (
	// FallbackMock substitutes canned data and records a warning.
	FallbackMock Fallback = "mock"
	// FallbackFail aborts the load with the first error.
	FallbackFail Fallback = "fail"
)

// ParseFallback accepts "mock" or "fail"; empty means mock.
func ParseFallback(s string) (Fallback, error) {
	switch Fallback(s) {
	case "", FallbackMock:
		return FallbackMock, nil
	case FallbackFail:
		return FallbackFail, nil
	}
	return "", fmt.Errorf("dashboard: unknown fallback %q (want mock or fail)", s)
}

// Policy is applied the same way to every group of a load.
type Policy struct {
	Fallback Fallback
	// RollbackAlertOnFailure restores an alert's read flag when the
	// backend rejects MarkAlertAsRead. When false the local flip stands
	// and the failure is only logged.
	RollbackAlertOnFailure bool
}

// Warning records one group that was replaced by fallback data.
type Warning struct {
	Group   string `json:"group"`
	Message string `json:"message"`
}

// Snapshot is everything a dashboard view needs.
type Snapshot struct {
	Role       models.Role                `json:"role"`
	Stats      models.Stats               `json:"stats"`
	Activities []models.Activity          `json:"activities"`
	Alerts     []models.Alert             `json:"alerts"`
	Sections   map[string]json.RawMessage `json:"sections"`
	Warnings   []Warning                  `json:"warnings,omitempty"`
	Loading    bool                       `json:"loading"`
	Error      string                     `json:"error,omitempty"`
	LoadedAt   time.Time                  `json:"loadedAt"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Activities = append([]models.Activity(nil), s.Activities...)
	out.Alerts = append([]models.Alert(nil), s.Alerts...)
	out.Warnings = append([]Warning(nil), s.Warnings...)
	if s.Sections != nil {
		out.Sections = make(map[string]json.RawMessage, len(s.Sections))
		for k, v := range s.Sections {
			out.Sections[k] = v
		}
	}
	return out
}

// Loader fetches dashboard snapshots.
type Loader struct {
	src     Source
	policy  Policy
	log     *zap.Logger
	metrics *Collector
	now     func() time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithCollector records load outcomes and fallbacks.
func WithCollector(c *Collector) Option { return func(l *Loader) { l.metrics = c } }

// WithClock overrides time.Now (mock timestamps, LoadedAt).
func WithClock(now func() time.Time) Option { return func(l *Loader) { l.now = now } }

// NewLoader returns a Loader reading src under policy.
func NewLoader(src Source, policy Policy, logger *zap.Logger, opts ...Option) *Loader {
	if policy.Fallback == "" {
		policy.Fallback = FallbackMock
	}
	l := &Loader{src: src, policy: policy, log: logger, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Policy returns the loader's failure policy.
func (l *Loader) Policy() Policy { return l.policy }

// Load fetches stats, activities, alerts and the role's supplementary
// sections concurrently.
func (l *Loader) Load(ctx context.Context, role models.Role) (Snapshot, error) {
	spec, err := dashboardsvc.Spec(role)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Role:     role,
		Sections: make(map[string]json.RawMessage, len(spec.Sections)),
	}
	var mu sync.Mutex
	addWarning := func(w *Warning) {
		if w == nil {
			return
		}
		mu.Lock()
		snap.Warnings = append(snap.Warnings, *w)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, w, err := l.LoadStats(gctx, role)
		if err != nil {
			return err
		}
		snap.Stats = stats
		addWarning(w)
		return nil
	})
	g.Go(func() error {
		acts, w, err := l.LoadActivities(gctx)
		if err != nil {
			return err
		}
		snap.Activities = acts
		addWarning(w)
		return nil
	})
	g.Go(func() error {
		alerts, w, err := l.LoadAlerts(gctx)
		if err != nil {
			return err
		}
		snap.Alerts = alerts
		addWarning(w)
		return nil
	})
	for _, sec := range spec.Sections {
		g.Go(func() error {
			raw, w, err := l.loadSection(gctx, sec)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.Sections[sec.Name] = raw
			mu.Unlock()
			addWarning(w)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.metrics.load(role, outcomeFor(err))
		return Snapshot{Role: role, Error: err.Error()}, err
	}

	snap.LoadedAt = l.now()
	if len(snap.Warnings) > 0 {
		l.metrics.load(role, outcomeFallback)
	} else {
		l.metrics.load(role, outcomeOK)
	}
	return snap, nil
}

// LoadStats fetches the role's stats, applying the fallback policy.
func (l *Loader) LoadStats(ctx context.Context, role models.Role) (models.Stats, *Warning, error) {
	stats, err := l.src.GetStats(ctx, role)
	if err == nil {
		return stats, nil, nil
	}
	w, err := l.fail(ctx, GroupStats, err)
	if err != nil {
		return nil, nil, err
	}
	return dashboardsvc.MockStats(role), w, nil
}

// LoadActivities fetches the first page of activities, applying the
// fallback policy.
func (l *Loader) LoadActivities(ctx context.Context) ([]models.Activity, *Warning, error) {
	acts, err := l.src.GetActivities(ctx, ActivityLimit, ActivityOffset)
	if err == nil {
		return acts, nil, nil
	}
	w, err := l.fail(ctx, GroupActivities, err)
	if err != nil {
		return nil, nil, err
	}
	return dashboardsvc.MockActivities(l.now()), w, nil
}

// LoadAlerts fetches every alert, applying the fallback policy.
func (l *Loader) LoadAlerts(ctx context.Context) ([]models.Alert, *Warning, error) {
	alerts, err := l.src.GetAlerts(ctx, dashboardsvc.AlertsAll)
	if err == nil {
		return alerts, nil, nil
	}
	w, err := l.fail(ctx, GroupAlerts, err)
	if err != nil {
		return nil, nil, err
	}
	return dashboardsvc.MockAlerts(l.now()), w, nil
}

// A failed section becomes an empty slot.
func (l *Loader) loadSection(ctx context.Context, sec dashboardsvc.Section) (json.RawMessage, *Warning, error) {
	raw, err := l.src.GetSection(ctx, sec)
	if err == nil {
		return raw, nil, nil
	}
	w, err := l.fail(ctx, groupSection+sec.Name, err)
	if err != nil {
		return nil, nil, err
	}
	return nil, w, nil
}

// fail applies the policy to a group error. Cancellation is never
// replaced by fallback data.
func (l *Loader) fail(ctx context.Context, group string, err error) (*Warning, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if l.policy.Fallback == FallbackFail {
		return nil, fmt.Errorf("dashboard: load %s: %w", group, err)
	}
	l.log.Warn("dashboard group failed, using fallback",
		zap.String("group", group),
		zap.Error(err))
	l.metrics.fallback(group)
	return &Warning{Group: group, Message: err.Error()}, nil
}

func outcomeFor(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeCanceled
	}
	return outcomeError
}
