// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

/*
Package metrics provides the Prometheus collectors for Swapmatch.

Collectors are registered on the default registry at package init via
promauto and exposed by the API at /metrics.

# Available Metrics

HTTP:
  - http_requests_total (method, endpoint, status)
  - http_request_duration_seconds (method, endpoint)
  - http_requests_in_flight

Cache:
  - cache_operations_total (namespace, result): hit, miss, timeout, error, bypass, write_error
  - cache_operation_duration_seconds (operation)
  - cache_invalidations_total (result): ok, timeout, error

Engine:
  - recommend_duration_seconds
  - recommend_source_failures_total (source)
  - recommend_results (kind)
  - bundles_generated_total (source)
  - weight_updates_total

Database:
  - duckdb_query_duration_seconds (operation)
  - duckdb_query_errors_total (operation)

Circuit breaker:
  - circuit_breaker_state (name): 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total (name, result)
  - circuit_breaker_state_transitions_total (name, from_state, to_state)
*/
package metrics
