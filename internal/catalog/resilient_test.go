// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// flakyStore fails snapshot reads while failing is set.
type flakyStore struct {
	Store
	failing bool
	calls   int
}

func (f *flakyStore) Snapshot(context.Context) (*Snapshot, error) {
	f.calls++
	if f.failing {
		return nil, errors.New("disk unavailable")
	}
	return NewSnapshot(1, sampleData()), nil
}

func (f *flakyStore) Interactions(_ context.Context, userID int) (Interactions, error) {
	f.calls++
	if userID == 404 {
		return Interactions{}, ErrNotFound
	}
	return Interactions{UserID: userID}, nil
}

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Hour,
		MinRequests:  2,
		FailureRatio: 0.5,
	}
}

func TestResilientStore_PassesThrough(t *testing.T) {
	t.Parallel()

	inner := &flakyStore{}
	s := NewResilientStore(inner, "catalog-pass", testBreakerConfig())

	snap, err := s.Snapshot(context.Background())
	if err != nil || snap.Version != 1 {
		t.Fatalf("Snapshot() = %v, %v", snap, err)
	}
	in, err := s.Interactions(context.Background(), 3)
	if err != nil || in.UserID != 3 {
		t.Errorf("Interactions() = %+v, %v", in, err)
	}
	if s.State() != "closed" {
		t.Errorf("State() = %q, want closed", s.State())
	}
}

func TestResilientStore_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	inner := &flakyStore{failing: true}
	s := NewResilientStore(inner, "catalog-trip", testBreakerConfig())

	for i := 0; i < 2; i++ {
		if _, err := s.Snapshot(context.Background()); err == nil {
			t.Fatal("expected failure")
		}
	}
	if s.State() != "open" {
		t.Fatalf("State() = %q, want open", s.State())
	}

	callsBefore := inner.calls
	_, err := s.Snapshot(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) || !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrOpenState wrapped in ErrUnavailable", err)
	}
	if inner.calls != callsBefore {
		t.Error("open breaker should not reach the store")
	}
}

func TestResilientStore_NotFoundDoesNotTrip(t *testing.T) {
	t.Parallel()

	inner := &flakyStore{}
	s := NewResilientStore(inner, "catalog-notfound", testBreakerConfig())

	for i := 0; i < 5; i++ {
		if _, err := s.Interactions(context.Background(), 404); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}
	if s.State() != "closed" {
		t.Errorf("State() = %q, want closed", s.State())
	}
}
