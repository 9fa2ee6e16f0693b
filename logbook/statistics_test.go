// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package logbook

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStatisticsCountsCalendarPeriods(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	service.now = func() time.Time { return time.Date(2024, time.June, 12, 18, 30, 0, 0, time.UTC) }

	store.stations[3] = Station{ID: 3, UserID: testOwner, Name: "Portable", Callsign: "N0CALL"}

	addContact(store, Contact{Callsign: "W1AW", Time: time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC)})
	addContact(store, Contact{Callsign: "K1ABC", StationID: 3, Time: time.Date(2024, time.June, 12, 17, 0, 0, 0, time.UTC)})
	addContact(store, Contact{Callsign: "G4ABC", Time: time.Date(2024, time.June, 11, 23, 59, 0, 0, time.UTC)})
	addContact(store, Contact{Callsign: "JA1AAA", Time: time.Date(2024, time.May, 31, 12, 0, 0, 0, time.UTC)})
	addContact(store, Contact{Callsign: "VK2AA", Time: time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC)})
	addContact(store, Contact{Callsign: "ZL1AA", StationID: 2, Time: time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC)})

	counts, err := service.Statistics(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}

	if want := (ContactCounts{Today: 2, Month: 3, Year: 4, Total: 5}); counts != want {
		t.Fatalf("expected %+v, got %+v", want, counts)
	}
}

func TestStatisticsWithoutStations(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)

	counts, err := service.Statistics(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}

	if counts != (ContactCounts{}) {
		t.Fatalf("expected zero counts, got %+v", counts)
	}
}

func TestWindowsAtUsesUTC(t *testing.T) {
	t.Parallel()

	zone := time.FixedZone("UTC+4", 4*60*60)
	windows := WindowsAt(time.Date(2024, time.January, 1, 2, 0, 0, 0, zone))

	if want := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC); !windows.Day.Equal(want) {
		t.Fatalf("expected day start %s, got %s", want, windows.Day)
	}

	if want := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC); !windows.Month.Equal(want) {
		t.Fatalf("expected month start %s, got %s", want, windows.Month)
	}

	if want := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC); !windows.Year.Equal(want) {
		t.Fatalf("expected year start %s, got %s", want, windows.Year)
	}
}
