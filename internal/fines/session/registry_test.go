package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"police_fines/platform/logger"
)

type gaugeSpy struct{ last int }

func (g *gaugeSpy) SetActiveSessions(n int) { g.last = n }

func newTestRegistry(ttl time.Duration) (*Registry, *gaugeSpy) {
	factory := func(log *logger.Logger) *Orchestrator {
		return NewOrchestrator(&fakeDispatcher{}, english, log, Options{MaxRetries: 3})
	}
	gauge := &gaugeSpy{}
	return NewRegistry(factory, ttl, logger.Nop()).WithGauge(gauge), gauge
}

func TestRegistryLifecycle(t *testing.T) {
	r, gauge := newTestRegistry(time.Minute)

	id, o := r.Create()
	require.NotEmpty(t, id)
	assert.Equal(t, 1, gauge.last)

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, o, got)

	assert.True(t, r.Remove(id))
	assert.False(t, r.Remove(id))
	assert.Equal(t, 0, gauge.last)

	_, err = r.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, o.Clear(), ErrClosed)
}

func TestRegistrySweepEvictsIdleSessions(t *testing.T) {
	r, gauge := newTestRegistry(10 * time.Minute)
	now := time.Now()
	r.now = func() time.Time { return now }

	staleID, stale := r.Create()
	freshID, _ := r.Create()
	stale.mu.Lock()
	stale.lastActive = now.Add(-time.Hour)
	stale.mu.Unlock()

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, gauge.last)

	_, err := r.Get(staleID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Get(freshID)
	assert.NoError(t, err)
}

func TestRegistryRunLeavesSessionsOpenUntilClose(t *testing.T) {
	d := &fakeDispatcher{started: make(chan struct{}, 1), release: make(chan struct{})}
	d.queue(found(1))
	factory := func(log *logger.Logger) *Orchestrator {
		return NewOrchestrator(d, english, log, Options{MaxRetries: 3})
	}
	gauge := &gaugeSpy{}
	r := NewRegistry(factory, time.Minute, logger.Nop()).WithGauge(gauge)
	_, o := r.Create()
	plate := "AA001AA"
	require.NoError(t, o.UpdateForm(FormPatch{CarPlate: &plate}))

	searched := make(chan error, 1)
	go func() { searched <- o.Search(context.Background(), "") }()
	<-d.started

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, 1, r.Len())
	assert.True(t, o.IsLoading())

	close(d.release)
	require.NoError(t, <-searched)
	assert.Equal(t, PhaseSuccess, o.Snapshot().Phase)

	r.Close()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, gauge.last)
	assert.ErrorIs(t, o.Clear(), ErrClosed)
}

func TestRegistryCloseEndsInFlightSearch(t *testing.T) {
	d := &fakeDispatcher{started: make(chan struct{}, 1), release: make(chan struct{})}
	d.queue(found(1))
	factory := func(log *logger.Logger) *Orchestrator {
		return NewOrchestrator(d, english, log, Options{MaxRetries: 3})
	}
	r := NewRegistry(factory, time.Minute, logger.Nop())
	_, o := r.Create()
	plate := "AA001AA"
	require.NoError(t, o.UpdateForm(FormPatch{CarPlate: &plate}))

	searched := make(chan error, 1)
	go func() { searched <- o.Search(context.Background(), "") }()
	<-d.started

	r.Close()
	assert.ErrorIs(t, <-searched, ErrClosed)
	assert.False(t, o.IsLoading())
}
