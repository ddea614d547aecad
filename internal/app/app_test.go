package app

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/polkiloo/sourbakery/internal/config"
	testhelpers "github.com/polkiloo/sourbakery/internal/test"
	"github.com/polkiloo/sourbakery/internal/usecase"
	"github.com/polkiloo/sourbakery/internal/worker"
)

type countingResetter struct{ calls atomic.Int32 }

func (r *countingResetter) ResetAll(context.Context) (int64, error) {
	r.calls.Add(1)
	return 0, nil
}

func newTestScheduler() *worker.ResetScheduler {
	return worker.NewResetScheduler(&countingResetter{}, time.Sunday, 23*60, time.UTC, 10*time.Millisecond, testhelpers.DiscardLogger())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	assert.Equal(t, ":9999", server.Addr)
	assert.Equal(t, router, server.Handler)
	assert.Equal(t, readHeaderTimeout, server.ReadHeaderTimeout)
}

func TestNewResetScheduler(t *testing.T) {
	ledger := usecase.NewInventoryLedger(testhelpers.NewMemoryStore().Products(), testhelpers.DiscardLogger())
	params := schedulerParams{Ledger: ledger, Logger: testhelpers.DiscardLogger()}

	params.Config = &config.Config{}
	scheduler, err := newResetScheduler(params)
	require.NoError(t, err)
	assert.Nil(t, scheduler)

	params.Config = &config.Config{WeeklyReset: "sun 23:00", Location: time.UTC, ResetCheckInterval: time.Minute}
	scheduler, err = newResetScheduler(params)
	require.NoError(t, err)
	assert.NotNil(t, scheduler)

	params.Config = &config.Config{WeeklyReset: "someday 25:00"}
	_, err = newResetScheduler(params)
	assert.ErrorContains(t, err, "weekly reset")
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testhelpers.DiscardLogger(),
		Server:     server,
		Scheduler:  newTestScheduler(),
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond, WeeklyReset: "sun 23:00"},
	})
	require.Len(t, recorder.Hooks, 1)

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hook.OnStart(ctx))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleWithoutScheduler(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     testhelpers.DiscardLogger(),
		Server:     server,
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})

	require.NoError(t, recorder.Start(context.Background()))
	require.NoError(t, recorder.Stop(context.Background()))
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testhelpers.DiscardLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Scheduler:  newTestScheduler(),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	require.NoError(t, hook.OnStart(context.Background()))

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}

func TestLifecycleRecorderRunsHooksInOrder(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	var calls []string
	recorder.Append(fx.Hook{
		OnStart: func(context.Context) error { calls = append(calls, "start-1"); return nil },
		OnStop:  func(context.Context) error { calls = append(calls, "stop-1"); return nil },
	})
	recorder.Append(fx.Hook{OnStop: func(context.Context) error { calls = append(calls, "stop-2"); return nil }})

	require.NoError(t, recorder.Start(context.Background()))
	require.NoError(t, recorder.Stop(context.Background()))
	assert.Equal(t, []string{"start-1", "stop-2", "stop-1"}, calls)
}
