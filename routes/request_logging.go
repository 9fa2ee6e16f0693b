/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/google/uuid"

	"github.com/humaidq/skywave/logging"
)

const requestIDHeader = "X-Request-ID"

var requestLogger = logging.Logger(logging.SourceWebRequest)

// RequestID reuses a sane client supplied request id or assigns a new one.
func RequestID(c flamego.Context) {
	id := strings.TrimSpace(c.Request().Header.Get(requestIDHeader))
	if id == "" || len(id) > 64 {
		id = uuid.NewString()
	}

	c.ResponseWriter().Header().Set(requestIDHeader, id)
	c.Next()
}

// RequestLogger logs request metadata and timing for each HTTP request.
func RequestLogger(c flamego.Context) {
	start := time.Now()

	c.Next()

	fields := []interface{}{
		"event", "request",
		"status", responseStatus(c),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	fields = append(fields, baseRequestFields(c)...)

	requestLogger.Info("request", fields...)
}

func logAccessDenied(c flamego.Context, reason string, status int) {
	fields := []interface{}{
		"event", "access_denied",
		"reason", reason,
		"status", status,
	}
	fields = append(fields, baseRequestFields(c)...)

	requestLogger.Warn("access denied", fields...)
}

func baseRequestFields(c flamego.Context) []interface{} {
	return []interface{}{
		"method", c.Request().Method,
		"path", redactKeyPath(c.Request().URL.Path),
		"ip", clientIP(c),
		"user_agent", c.Request().UserAgent(),
		"request_id", c.ResponseWriter().Header().Get(requestIDHeader),
	}
}

func responseStatus(c flamego.Context) int {
	status := c.ResponseWriter().Status()
	if status == 0 {
		return http.StatusOK
	}

	return status
}

// redactKeyPath masks the api key segment of /api/auth/{key} style paths.
func redactKeyPath(path string) string {
	for _, prefix := range []string{"/api/auth/", "/api/station_info/", "/api/statistics/"} {
		if key, ok := strings.CutPrefix(path, prefix); ok && key != "" {
			return prefix + logging.MaskSecret(key)
		}
	}

	return path
}

func clientIP(c flamego.Context) string {
	forwardedFor := c.Request().Header.Get("X-Forwarded-For")
	if forwardedFor != "" {
		if idx := strings.Index(forwardedFor, ","); idx != -1 {
			forwardedFor = forwardedFor[:idx]
		}

		if ip := strings.TrimSpace(forwardedFor); ip != "" {
			return ip
		}
	}

	return c.RemoteAddr()
}
