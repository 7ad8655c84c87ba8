package timeouts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: time.Second, Long: time.Minute})
	got := Current()
	assert.Equal(t, DefaultPing, got.Ping)
	assert.Equal(t, time.Second, got.Short)
	assert.Equal(t, DefaultMedium, got.Medium)
	assert.Equal(t, time.Minute, got.Long)

	Reset()
	assert.Equal(t, DefaultShort, Short())
}

func TestWithTimeout_LogsOnDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "slow thing")
	<-ctx.Done()
	cancel()

	entries := logs.FilterMessage("operation timed out").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "slow thing", entries[0].ContextMap()["operation"])
	}
}

func TestWithTimeout_SilentWhenCanceledEarly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, cancel := WithTimeout(context.Background(), time.Hour, zap.New(core), "fast thing")
	cancel()

	assert.Zero(t, logs.Len())
}
