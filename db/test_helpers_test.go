// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/humaidq/skywave/logbook"
)

func testContext() context.Context {
	return context.Background()
}

func mustCreateUser(t *testing.T, displayName string) *User {
	t.Helper()

	user, err := CreateUser(testContext(), displayName)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

func mustCreateStation(t *testing.T, userID uuid.UUID, callsign, grid string) *logbook.Station {
	t.Helper()

	station, err := CreateStation(testContext(), userID, "Home", callsign, grid, true)
	if err != nil {
		t.Fatalf("failed to create station: %v", err)
	}

	return station
}
