/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// QRZ lookup results.
const (
	QRZFound       = "found"
	QRZNotFound    = "not_found"
	QRZUnavailable = "unavailable"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skywave_api_requests_total",
		Help: "The number of API requests (per route and status).",
	}, []string{"route", "status"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skywave_api_request_duration_seconds",
		Help:    "API request latency (per route).",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	imported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skywave_imported_contacts_total",
		Help: "The number of contacts imported from ADIF batches.",
	})

	importMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skywave_import_messages_total",
		Help: "The number of records reported back instead of imported.",
	})

	qrzLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skywave_qrz_lookups_total",
		Help: "The number of QRZ directory lookups (per result).",
	}, []string{"result"})
)

// ObserveRequest records one finished API request.
func ObserveRequest(route string, status int, elapsed time.Duration) {
	requests.With(prometheus.Labels{"route": route, "status": strconv.Itoa(status)}).Inc()
	duration.With(prometheus.Labels{"route": route}).Observe(elapsed.Seconds())
}

// ObserveImport records the outcome of one ingested batch.
func ObserveImport(importedCount, messageCount int) {
	imported.Add(float64(importedCount))
	importMessages.Add(float64(messageCount))
}

// QRZLookupCounter returns the counter for a QRZ lookup result.
func QRZLookupCounter(result string) prometheus.Counter {
	return qrzLookups.With(prometheus.Labels{"result": result})
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
