package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("dashboard: session closed")
	// ErrSuperseded is returned when a newer load replaced the one in
	// flight; its results were discarded.
	ErrSuperseded = errors.New("dashboard: superseded by a newer load")
	// ErrNotLoaded is returned by refreshes before the first Load.
	ErrNotLoaded = errors.New("dashboard: not loaded")
)

// Session holds one user's dashboard. Every load and refresh runs under a
// context tied to the current generation; a new Load or Close cancels it,
// and results are written only while the generation still matches.
type Session struct {
	loader *Loader
	log    *zap.Logger

	mu       sync.Mutex
	snap     Snapshot
	gen      uint64
	genCtx   context.Context
	genStop  context.CancelFunc
	base     context.Context
	stop     context.CancelFunc
	closed   bool
	lastUsed time.Time
	settled  chan struct{} // closed when the newest Load finishes
}

// NewSession returns an open, empty session.
func NewSession(loader *Loader, logger *zap.Logger) *Session {
	base, stop := context.WithCancel(context.Background())
	genCtx, genStop := context.WithCancel(base)
	return &Session{
		loader:   loader,
		log:      logger,
		base:     base,
		stop:     stop,
		genCtx:   genCtx,
		genStop:  genStop,
		lastUsed: loader.now(),
	}
}

// opContext derives a context that ends when the generation ends or the
// caller's ctx does. Values (the caller's identity and token) come from
// caller.
func opContext(gen, caller context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(caller)
	release := context.AfterFunc(gen, cancel)
	return ctx, func() {
		release()
		cancel()
	}
}

// Load replaces the snapshot with a fresh load for role. Any load or
// refresh still in flight is canceled and its results dropped.
func (s *Session) Load(ctx context.Context, role models.Role) (Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	s.genStop()
	s.gen++
	gen := s.gen
	s.genCtx, s.genStop = context.WithCancel(s.base)
	settled := make(chan struct{})
	s.settled = settled
	opCtx, cancel := opContext(s.genCtx, ctx)
	s.snap.Role = role
	s.snap.Loading = true
	s.snap.Error = ""
	s.lastUsed = s.loader.now()
	s.mu.Unlock()
	defer cancel()

	snap, err := s.loader.Load(opCtx, role)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(settled)
	if s.closed {
		return Snapshot{}, ErrClosed
	}
	if gen != s.gen {
		return Snapshot{}, ErrSuperseded
	}
	if err != nil {
		s.snap.Loading = false
		s.snap.Error = err.Error()
		return s.snap.clone(), err
	}
	s.snap = snap
	return s.snap.clone(), nil
}

// Await waits until no Load is in flight and returns the snapshot the
// newest one left behind. A caller whose own Load was superseded uses it
// to answer with the newer result.
func (s *Session) Await(ctx context.Context) (Snapshot, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return Snapshot{}, ErrClosed
		}
		if !s.snap.Loading || s.settled == nil {
			snap := s.snap.clone()
			s.mu.Unlock()
			if snap.Error != "" {
				return snap, errors.New(snap.Error)
			}
			return snap, nil
		}
		ch := s.settled
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}
}

// begin captures the current generation for a refresh.
func (s *Session) begin(ctx context.Context) (models.Role, uint64, context.Context, context.CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", 0, nil, nil, ErrClosed
	}
	if s.snap.Role == "" {
		return "", 0, nil, nil, ErrNotLoaded
	}
	s.lastUsed = s.loader.now()
	opCtx, cancel := opContext(s.genCtx, ctx)
	return s.snap.Role, s.gen, opCtx, cancel, nil
}

// commit runs apply under the lock if gen is still current.
func (s *Session) commit(gen uint64, apply func(*Snapshot)) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Snapshot{}, ErrClosed
	}
	if gen != s.gen {
		return Snapshot{}, ErrSuperseded
	}
	apply(&s.snap)
	return s.snap.clone(), nil
}

// RefreshStats reloads only the stats group.
func (s *Session) RefreshStats(ctx context.Context) (Snapshot, error) {
	role, gen, opCtx, cancel, err := s.begin(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer cancel()
	stats, w, err := s.loader.LoadStats(opCtx, role)
	if err != nil {
		return Snapshot{}, err
	}
	return s.commit(gen, func(snap *Snapshot) {
		snap.Stats = stats
		snap.setWarning(GroupStats, w)
	})
}

// RefreshActivities reloads only the activities group.
func (s *Session) RefreshActivities(ctx context.Context) (Snapshot, error) {
	_, gen, opCtx, cancel, err := s.begin(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer cancel()
	acts, w, err := s.loader.LoadActivities(opCtx)
	if err != nil {
		return Snapshot{}, err
	}
	return s.commit(gen, func(snap *Snapshot) {
		snap.Activities = acts
		snap.setWarning(GroupActivities, w)
	})
}

// RefreshAlerts reloads only the alerts group.
func (s *Session) RefreshAlerts(ctx context.Context) (Snapshot, error) {
	_, gen, opCtx, cancel, err := s.begin(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer cancel()
	alerts, w, err := s.loader.LoadAlerts(opCtx)
	if err != nil {
		return Snapshot{}, err
	}
	return s.commit(gen, func(snap *Snapshot) {
		snap.Alerts = alerts
		snap.setWarning(GroupAlerts, w)
	})
}

// MarkAlertAsRead flips the matching alert locally, then tells the
// backend. On backend failure the flip is undone only when the policy
// asks for rollback; otherwise the error is logged and nil returned.
func (s *Session) MarkAlertAsRead(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	gen := s.gen
	prev, found := false, false
	for i := range s.snap.Alerts {
		if s.snap.Alerts[i].ID == id {
			prev, found = s.snap.Alerts[i].IsRead, true
			s.snap.Alerts[i].IsRead = true
			break
		}
	}
	s.lastUsed = s.loader.now()
	opCtx, cancel := opContext(s.genCtx, ctx)
	s.mu.Unlock()
	defer cancel()

	err := s.loader.src.MarkAlertAsRead(opCtx, id)
	if err == nil {
		return s.Snapshot(), nil
	}
	s.log.Warn("mark alert as read failed", zap.String("alert_id", id), zap.Error(err))
	if !s.loader.policy.RollbackAlertOnFailure {
		return s.Snapshot(), nil
	}
	if !found {
		return s.Snapshot(), err
	}
	snap, cerr := s.commit(gen, func(snap *Snapshot) {
		for i := range snap.Alerts {
			if snap.Alerts[i].ID == id {
				snap.Alerts[i].IsRead = prev
				break
			}
		}
	})
	if cerr != nil {
		return snap, cerr
	}
	return snap, err
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone()
}

// Close cancels in-flight work. Later calls return ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stop()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// LastUsed is when the session last served a call.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// setWarning replaces group's warning with w (or clears it when w is nil).
func (s *Snapshot) setWarning(group string, w *Warning) {
	kept := s.Warnings[:0]
	for _, existing := range s.Warnings {
		if existing.Group != group {
			kept = append(kept, existing)
		}
	}
	s.Warnings = kept
	if w != nil {
		s.Warnings = append(s.Warnings, *w)
	}
}
