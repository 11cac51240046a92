package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type blockingService struct {
	started atomic.Bool
	stopped atomic.Bool
	fail    error
}

func (b *blockingService) Start() error {
	b.started.Store(true)
	if b.fail != nil {
		return b.fail
	}
	for !b.stopped.Load() {
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func (b *blockingService) Stop() {
	b.stopped.Store(true)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestLifecycleStopsEverythingOnCancel(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	session := &blockingService{}
	store := &blockingService{}
	lc.Add("session", session)
	lc.Add("store", store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	waitFor(t, func() bool { return session.started.Load() && store.started.Load() })
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	assert.True(t, session.stopped.Load())
	assert.True(t, store.stopped.Load())
}

func TestLifecycleReturnsServiceFailure(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	boom := errors.New("connection lost")
	lc.Add("healthy", &blockingService{})
	lc.Add("broken", &blockingService{fail: boom})

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestLifecycleStopsInReverseOrder(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))

	var mu sync.Mutex
	var order []string
	add := func(name string) *blockingService {
		svc := &blockingService{}
		lc.Add(name, &FuncService{
			StartFn: svc.Start,
			StopFn: func() {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				svc.Stop()
			},
		})
		return svc
	}
	first := add("first")
	second := add("second")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	waitFor(t, func() bool { return first.started.Load() && second.started.Load() })
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestFuncService(t *testing.T) {
	var started, stopped bool
	svc := &FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func() { stopped = true },
	}
	require.NoError(t, svc.Start())
	svc.Stop()
	assert.True(t, started)
	assert.True(t, stopped)
}
