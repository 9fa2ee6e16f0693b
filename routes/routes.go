/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package routes serves the JSON API.
package routes

import (
	"github.com/flamego/flamego"

	"github.com/humaidq/skywave/metrics"
)

// DefaultMaxPayloadBytes bounds request bodies when no limit is configured.
const DefaultMaxPayloadBytes = 16 << 20

// Options tunes the API routes.
type Options struct {
	MaxPayloadBytes int64
}

// RegisterAPI installs the middleware and API routes on f. The caller maps
// *logbook.Service, *access.Gate and *qrz.Client into f beforehand.
func RegisterAPI(f *flamego.Flame, opts Options) {
	if opts.MaxPayloadBytes <= 0 {
		opts.MaxPayloadBytes = DefaultMaxPayloadBytes
	}

	f.Use(RequestID)
	f.Use(RequestLogger)
	f.Use(NoCacheHeaders())
	f.Use(LimitBody(opts.MaxPayloadBytes))

	f.Group("/api", func() {
		f.Post("/qso", observe("qso"), PostQSO)
		f.Post("/worked_before", observe("worked_before"), WorkedBefore)
		f.Post("/logbook_check_country", observe("logbook_check_country"), CheckCountry)
		f.Post("/logbook_check_callsign", observe("logbook_check_callsign"), CheckCallsign)
		f.Post("/logbook_check_grid", observe("logbook_check_grid"), CheckGrid)
		f.Post("/recent_qsos", observe("recent_qsos"), RecentQSOs)
		f.Post("/lookup", observe("lookup"), Lookup)
		f.Post("/qrz_lookup", observe("qrz_lookup"), QRZLookup)
		f.Get("/auth/{key}", observe("auth"), Auth)
		f.Post("/radio", observe("radio"), Radio)
		f.Get("/station_info/{key}", observe("station_info"), StationInfo)
		f.Get("/statistics/{key}", observe("statistics"), Statistics)
	})

	f.Get("/metrics", func(c flamego.Context) {
		metrics.Handler().ServeHTTP(c.ResponseWriter(), c.Request().Request)
	})

	f.NotFound(APINotFound)
}
