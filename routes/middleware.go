/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"time"

	"github.com/flamego/flamego"

	"github.com/humaidq/skywave/metrics"
)

// NoCacheHeaders disables caching of API responses and blocks indexing.
func NoCacheHeaders() flamego.Handler {
	return func(c flamego.Context) {
		header := c.ResponseWriter().Header()
		header.Set("X-Robots-Tag", "noindex, nofollow")
		header.Set("Cache-Control", "no-store, max-age=0")

		c.Next()
	}
}

// LimitBody caps the request body at limit bytes. A non-positive limit
// leaves the body alone.
func LimitBody(limit int64) flamego.Handler {
	return func(c flamego.Context) {
		if limit > 0 {
			r := c.Request().Request
			r.Body = http.MaxBytesReader(c.ResponseWriter(), r.Body, limit)
		}

		c.Next()
	}
}

// observe records request count and latency under a fixed route label.
func observe(route string) flamego.Handler {
	return func(c flamego.Context) {
		start := time.Now()

		c.Next()

		metrics.ObserveRequest(route, responseStatus(c), time.Since(start))
	}
}
