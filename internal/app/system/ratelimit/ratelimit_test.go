package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newAt(limit int, d time.Duration) (*Limiter, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(limit, d)
	l.now = c.now
	return l, c
}

func TestAllow_WindowResets(t *testing.T) {
	l, c := newAt(2, time.Minute)

	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
	assert.Equal(t, 0, l.Remaining("k"))
	assert.True(t, l.Allow("other"), "keys are independent")

	c.t = c.t.Add(time.Minute + time.Second)
	assert.Equal(t, 2, l.Remaining("k"))
	assert.True(t, l.Allow("k"))
}

func TestResetAndSweep(t *testing.T) {
	l, c := newAt(1, time.Minute)
	l.Allow("a")
	l.Allow("b")

	l.Reset("a")
	assert.True(t, l.Allow("a"))

	c.t = c.t.Add(2 * time.Minute)
	assert.Equal(t, 2, l.Sweep())
	assert.Zero(t, l.Sweep())
}

func TestRun_StopsOnCancel(t *testing.T) {
	l := New(1, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAccountLimiter_FoldsEmail(t *testing.T) {
	a := NewAccountLimiter(1, time.Minute)

	assert.True(t, a.AllowEmail("Ana@Example.com"))
	assert.False(t, a.AllowEmail("  ana@example.com "))
	assert.True(t, a.AllowEmail(""))
	assert.True(t, a.AllowEmail(""))
}
