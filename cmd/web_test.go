// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/humaidq/skywave/access"
	"github.com/humaidq/skywave/logbook"
	"github.com/humaidq/skywave/qrz"
	"github.com/humaidq/skywave/routes"
)

func TestNewAppAnswersUnknownPathsWithAPIError(t *testing.T) {
	t.Parallel()

	f := newApp(logbook.NewService(nil, nil), access.NewGate(nil), qrz.New(qrz.Config{}), routes.Options{})

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed decoding response: %v", err)
	}

	if payload["status"] != "failed" {
		t.Fatalf("expected failed status, got %#v", payload)
	}
}

func TestNewAppRejectsMissingKey(t *testing.T) {
	t.Parallel()

	f := newApp(logbook.NewService(nil, nil), access.NewGate(nil), qrz.New(qrz.Config{}), routes.Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/station_info/%20", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestValidPort(t *testing.T) {
	t.Parallel()

	for _, port := range []string{"80", "8080", "65535"} {
		if err := validPort(port); err != nil {
			t.Fatalf("expected port %s to be valid, got %v", port, err)
		}
	}

	for _, port := range []string{"", "0", "65536", "http"} {
		if err := validPort(port); !errors.Is(err, errInvalidPort) {
			t.Fatalf("expected errInvalidPort for %q, got %v", port, err)
		}
	}
}

func TestParseUserID(t *testing.T) {
	t.Parallel()

	if _, err := parseUserID(" 0c1f7e4a-3f2b-4d55-8f0e-5a2d9c7b6e10 "); err != nil {
		t.Fatalf("expected valid user id, got %v", err)
	}

	if _, err := parseUserID("alice"); !errors.Is(err, errInvalidUserID) {
		t.Fatalf("expected errInvalidUserID, got %v", err)
	}
}
