// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

var _ suture.Service = (*CatalogWatcherService)(nil)

// fakeWarmer reports a settable version and signals each call.
type fakeWarmer struct {
	mu      sync.Mutex
	version uint64
	err     error
	calls   int
	called  chan struct{}
}

func newFakeWarmer(version uint64) *fakeWarmer {
	return &fakeWarmer{version: version, called: make(chan struct{}, 64)}
}

func (f *fakeWarmer) Warm(context.Context) (uint64, error) {
	f.mu.Lock()
	f.calls++
	v, err := f.version, f.err
	f.mu.Unlock()
	select {
	case f.called <- struct{}{}:
	default:
	}
	return v, err
}

func (f *fakeWarmer) set(version uint64, err error) {
	f.mu.Lock()
	f.version, f.err = version, err
	f.mu.Unlock()
}

func (f *fakeWarmer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeWarmer) waitCalls(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.called:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for warm call %d of %d", i+1, n)
		}
	}
}

type failingSource struct{ err error }

func (f failingSource) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	return nil, f.err
}

func startWatcher(t *testing.T, source EventSource, warmer Warmer, cfg CatalogWatcherConfig) (*CatalogWatcherService, context.CancelFunc, <-chan error) {
	t.Helper()
	svc := NewCatalogWatcherService(source, warmer, cfg, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	t.Cleanup(cancel)
	return svc, cancel, errCh
}

func waitServe(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
		return nil
	}
}

func TestCatalogWatcher_WarmsOnCatalogChanged(t *testing.T) {
	t.Parallel()

	events := catalog.NewEvents(8, nil)
	defer events.Close()
	warmer := newFakeWarmer(1)

	svc, cancel, errCh := startWatcher(t, events, warmer, CatalogWatcherConfig{WarmOnStartup: true})
	warmer.waitCalls(t, 1)

	for _, version := range []uint64{2, 3} {
		warmer.set(version, nil)
		if err := events.PublishCatalogChanged(catalog.CatalogChanged{Version: version, Reason: catalog.ReasonReplaced}); err != nil {
			t.Fatalf("publish: %v", err)
		}
		warmer.waitCalls(t, 1)
	}

	cancel()
	if err := waitServe(t, errCh); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if got := warmer.callCount(); got != 3 {
		t.Errorf("warm calls = %d, want 3", got)
	}
	if got := svc.lastVersion; got != 3 {
		t.Errorf("lastVersion = %d, want 3", got)
	}
}

func TestCatalogWatcher_SkipsAppliedVersion(t *testing.T) {
	t.Parallel()

	warmer := newFakeWarmer(6)
	svc := NewCatalogWatcherService(failingSource{}, warmer, CatalogWatcherConfig{}, zerolog.Nop())
	svc.lastVersion = 5

	event := func(version uint64) *message.Message {
		payload, err := json.Marshal(catalog.CatalogChanged{Version: version, Reason: catalog.ReasonReplaced})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return message.NewMessage(uuid.New().String(), payload)
	}

	svc.handle(context.Background(), event(4))
	svc.handle(context.Background(), event(5))
	if got := warmer.callCount(); got != 0 {
		t.Fatalf("warm calls for applied versions = %d, want 0", got)
	}

	svc.handle(context.Background(), event(6))
	if got := warmer.callCount(); got != 1 {
		t.Errorf("warm calls = %d, want 1", got)
	}
	if svc.lastVersion != 6 {
		t.Errorf("lastVersion = %d, want 6", svc.lastVersion)
	}
}

func TestCatalogWatcher_EmptyCatalogIsApplied(t *testing.T) {
	t.Parallel()

	warmer := newFakeWarmer(7)
	warmer.set(7, fmt.Errorf("%w: version 7", catalog.ErrEmptyCatalog))
	svc := NewCatalogWatcherService(failingSource{}, warmer, CatalogWatcherConfig{}, zerolog.Nop())

	svc.warm(context.Background(), "startup")
	if svc.lastVersion != 7 {
		t.Fatalf("lastVersion = %d, want 7 for an empty catalog", svc.lastVersion)
	}

	payload, err := json.Marshal(catalog.CatalogChanged{Version: 7, Reason: catalog.ReasonSeeded})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	svc.handle(context.Background(), message.NewMessage(uuid.New().String(), payload))
	if got := warmer.callCount(); got != 1 {
		t.Errorf("warm calls = %d, want 1 since version 7 was applied", got)
	}

	warmer.set(8, errors.New("store unavailable"))
	svc.warm(context.Background(), "refresh")
	if svc.lastVersion != 7 {
		t.Errorf("lastVersion = %d, want 7 after a failed warm-up", svc.lastVersion)
	}
}

func TestCatalogWatcher_DropsMalformedEvents(t *testing.T) {
	t.Parallel()

	events := catalog.NewEvents(8, nil)
	defer events.Close()
	warmer := newFakeWarmer(1)

	_, cancel, errCh := startWatcher(t, events, warmer, CatalogWatcherConfig{WarmOnStartup: true})
	warmer.waitCalls(t, 1)

	bad := message.NewMessage(uuid.New().String(), []byte("{not json"))
	if err := events.Publish(catalog.TopicCatalogChanged, bad); err != nil {
		t.Fatalf("publish: %v", err)
	}
	warmer.set(2, nil)
	if err := events.PublishCatalogChanged(catalog.CatalogChanged{Version: 2, Reason: catalog.ReasonSeeded}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	warmer.waitCalls(t, 1)

	cancel()
	waitServe(t, errCh)
	if got := warmer.callCount(); got != 2 {
		t.Errorf("warm calls = %d, want 2", got)
	}
}

func TestCatalogWatcher_RefreshTicker(t *testing.T) {
	t.Parallel()

	events := catalog.NewEvents(8, nil)
	defer events.Close()
	warmer := newFakeWarmer(4)
	warmer.set(4, errors.New("store unavailable"))

	svc, cancel, errCh := startWatcher(t, events, warmer, CatalogWatcherConfig{RefreshInterval: 5 * time.Millisecond})
	warmer.waitCalls(t, 2)

	// One tick may already be in flight with the old error.
	warmer.set(4, nil)
	warmer.waitCalls(t, 2)

	cancel()
	waitServe(t, errCh)
	if got := svc.lastVersion; got != 4 {
		t.Errorf("lastVersion = %d, want 4 after recovery", got)
	}
}

func TestCatalogWatcher_SubscriptionErrors(t *testing.T) {
	t.Parallel()

	t.Run("subscribe fails", func(t *testing.T) {
		t.Parallel()
		subErr := errors.New("bus closed")
		_, _, errCh := startWatcher(t, failingSource{err: subErr}, newFakeWarmer(1), CatalogWatcherConfig{})
		if err := waitServe(t, errCh); !errors.Is(err, subErr) {
			t.Errorf("Serve() = %v, want %v", err, subErr)
		}
	})

	t.Run("channel closes", func(t *testing.T) {
		t.Parallel()
		events := catalog.NewEvents(8, nil)
		warmer := newFakeWarmer(1)
		_, _, errCh := startWatcher(t, events, warmer, CatalogWatcherConfig{WarmOnStartup: true})
		warmer.waitCalls(t, 1)

		if err := events.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if err := waitServe(t, errCh); !errors.Is(err, ErrSubscriptionClosed) {
			t.Errorf("Serve() = %v, want ErrSubscriptionClosed", err)
		}
	})
}

func TestCatalogWatcher_String(t *testing.T) {
	t.Parallel()

	svc := NewCatalogWatcherService(failingSource{}, newFakeWarmer(0), CatalogWatcherConfig{}, zerolog.Nop())
	if svc.String() != "catalog-watcher" {
		t.Errorf("String() = %q", svc.String())
	}
	if svc.config.WarmTimeout != time.Minute {
		t.Errorf("default WarmTimeout = %v, want 1m", svc.config.WarmTimeout)
	}
}
