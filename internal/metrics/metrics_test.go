// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSearch(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		outcome string
	}{
		{"film hit", "film", "hit"},
		{"user empty", "user", "empty"},
		{"tag invalid", "tag", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(SearchRequests.WithLabelValues(tt.entity, tt.outcome))
			RecordSearch(tt.entity, tt.outcome, 3*time.Millisecond)
			after := testutil.ToFloat64(SearchRequests.WithLabelValues(tt.entity, tt.outcome))
			if after != before+1 {
				t.Errorf("counter = %v, want %v", after, before+1)
			}
		})
	}
}

func TestRecordSearchCache(t *testing.T) {
	hits := testutil.ToFloat64(SearchResultCacheHits)
	misses := testutil.ToFloat64(SearchResultCacheMisses)

	RecordSearchCache(true)
	RecordSearchCache(false)
	RecordSearchCache(false)

	if got := testutil.ToFloat64(SearchResultCacheHits); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(SearchResultCacheMisses); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestRecordRecommend(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("cold_start"))
	RecordRecommend("cold_start", time.Millisecond)
	if got := testutil.ToFloat64(RecommendRequests.WithLabelValues("cold_start")); got != before+1 {
		t.Errorf("cold_start counter = %v, want %v", got, before+1)
	}
}

func TestRecordRecommendCache(t *testing.T) {
	hits := testutil.ToFloat64(RecommendCacheHits)
	misses := testutil.ToFloat64(RecommendCacheMisses)

	RecordRecommendCache(false)
	RecordRecommendCache(true)

	if got := testutil.ToFloat64(RecommendCacheHits); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(RecommendCacheMisses); got != misses+1 {
		t.Errorf("misses = %v, want %v", got, misses+1)
	}
}

func TestRecordInteractionEvent(t *testing.T) {
	before := testutil.ToFloat64(InteractionEvents.WithLabelValues("rating_put"))
	RecordInteractionEvent("rating_put")
	RecordInteractionEvent("rating_put")
	if got := testutil.ToFloat64(InteractionEvents.WithLabelValues("rating_put")); got != before+2 {
		t.Errorf("rating_put counter = %v, want %v", got, before+2)
	}
}

func TestRecordIndexBuildAndWords(t *testing.T) {
	before := testutil.ToFloat64(IndexBuilds.WithLabelValues("text"))
	RecordIndexBuild("text", 20*time.Millisecond)
	if got := testutil.ToFloat64(IndexBuilds.WithLabelValues("text")); got != before+1 {
		t.Errorf("index builds = %v, want %v", got, before+1)
	}

	SetIndexedWords(map[string]int{"film.title": 42})
	if got := testutil.ToFloat64(IndexedWords.WithLabelValues("film.title")); got != 42 {
		t.Errorf("indexed words = %v, want 42", got)
	}
}

func TestSetCatalog(t *testing.T) {
	SetCatalog(17, 250)
	if got := testutil.ToFloat64(CatalogVersion); got != 17 {
		t.Errorf("catalog version = %v, want 17", got)
	}
	if got := testutil.ToFloat64(CatalogFilms); got != 250 {
		t.Errorf("catalog films = %v, want 250", got)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("snapshot"))

	RecordStoreOperation("snapshot", time.Millisecond, nil)
	RecordStoreOperation("snapshot", time.Millisecond, errors.New("disk full"))

	if got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("snapshot")); got != before+1 {
		t.Errorf("store errors = %v, want %v", got, before+1)
	}
}

func TestRecordAPIRequestAndActive(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/search", "200"))
	RecordAPIRequest("GET", "/api/v1/search", "200", 5*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/search", "200")); got != before+1 {
		t.Errorf("api requests = %v, want %v", got, before+1)
	}

	active := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != active+1 {
		t.Errorf("active requests = %v, want %v", got, active+1)
	}
}

func TestRecordBackup(t *testing.T) {
	failures := testutil.ToFloat64(BackupsTotal.WithLabelValues("failure"))
	pruned := testutil.ToFloat64(BackupsPruned)

	RecordBackup("success", time.Second, 4096)
	RecordBackup("failure", time.Second, 999)
	RecordBackupsPruned(2)

	if got := testutil.ToFloat64(BackupSizeBytes); got != 4096 {
		t.Errorf("last backup size = %v, want 4096", got)
	}
	if got := testutil.ToFloat64(BackupsTotal.WithLabelValues("failure")); got != failures+1 {
		t.Errorf("failures = %v, want %v", got, failures+1)
	}
	if got := testutil.ToFloat64(BackupsPruned); got != pruned+2 {
		t.Errorf("pruned = %v, want %v", got, pruned+2)
	}
}
