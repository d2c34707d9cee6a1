// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics exposes the engine's Prometheus instrumentation: index
// run counters, per-file outcomes, and query latency.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// IndexRuns counts completed Builder.Build invocations, labeled by
	// outcome ("ok" or "error").
	IndexRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ferro_index_runs_total",
		Help: "Total number of workspace index runs.",
	}, []string{"outcome"})

	// FilesProcessed counts files handled during indexing, labeled by
	// outcome ("parsed", "unreadable", "unparseable"). Summed across
	// outcomes it equals the number of files discovered for that run.
	FilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ferro_index_files_total",
		Help: "Total number of source files processed during indexing, by outcome.",
	}, []string{"outcome"})

	// QueryLatency observes the duration of query-surface calls, labeled
	// by query kind ("check_file", "index_workspace", "goto_definition",
	// "find_references").
	QueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ferro_query_duration_seconds",
		Help:    "Latency of query surface operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// IndexDuration observes the wall-clock time of a full Build run.
	IndexDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ferro_index_duration_seconds",
		Help:    "Duration of a full workspace index build.",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveQuery records the duration of a query-surface call under kind,
// intended for use as `defer metrics.ObserveQuery("check_file")()`.
func ObserveQuery(kind string) func() {
	start := time.Now()
	return func() {
		QueryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the HTTP handler serving Prometheus text exposition.
func Handler() http.Handler {
	return promhttp.Handler()
}
