// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount returns the number of observations recorded by h.
func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordCacheResult(t *testing.T) {
	before := testutil.ToFloat64(CacheOperations.WithLabelValues("test_ns", "hit"))
	RecordCacheResult("test_ns", "hit")
	RecordCacheResult("test_ns", "hit")
	after := testutil.ToFloat64(CacheOperations.WithLabelValues("test_ns", "hit"))

	if after-before != 2 {
		t.Errorf("cache hit counter increased by %v, want 2", after-before)
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_op"))
	RecordDBQuery("test_op", 5*time.Millisecond, nil)
	RecordDBQuery("test_op", 5*time.Millisecond, errors.New("connection refused"))
	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_op"))

	if after-before != 1 {
		t.Errorf("error counter increased by %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("in-flight = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("in-flight = %v, want %v", got, before)
	}
}

func TestRecordSourceFailureAndBundles(t *testing.T) {
	RecordSourceFailure("recent_pool")
	RecordBundle("favorites")
	RecordInvalidation("timeout")
	RecordRecommendation(10*time.Millisecond, 3, 1)

	if got := testutil.ToFloat64(RecommendSourceFailures.WithLabelValues("recent_pool")); got < 1 {
		t.Errorf("source failures = %v, want >= 1", got)
	}
	if got := testutil.ToFloat64(BundlesGenerated.WithLabelValues("favorites")); got < 1 {
		t.Errorf("bundles = %v, want >= 1", got)
	}
	if got := testutil.ToFloat64(CacheInvalidations.WithLabelValues("timeout")); got < 1 {
		t.Errorf("invalidations = %v, want >= 1", got)
	}
}

func TestRecordRecommendation_Observes(t *testing.T) {
	before := histogramCount(t, RecommendDuration)
	itemsBefore := histogramCount(t, RecommendResults.WithLabelValues("item").(prometheus.Histogram))

	RecordRecommendation(25*time.Millisecond, 7, 2)

	if got := histogramCount(t, RecommendDuration); got != before+1 {
		t.Errorf("duration samples = %d, want %d", got, before+1)
	}
	if got := histogramCount(t, RecommendResults.WithLabelValues("item").(prometheus.Histogram)); got != itemsBefore+1 {
		t.Errorf("item result samples = %d, want %d", got, itemsBefore+1)
	}
}
