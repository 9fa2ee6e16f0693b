// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package logbook

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/skywave/dxcc"
)

var errStoreDown = errors.New("store down")

type fakeStore struct {
	mu        sync.Mutex
	stations  map[int64]Station
	logbooks  map[string][]int64
	contacts  []Contact
	radios    map[string]RadioStatus
	failAfter int
	imports   int
	queries   []ContactQuery
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stations:  map[int64]Station{},
		logbooks:  map[string][]int64{},
		radios:    map[string]RadioStatus{},
		failAfter: -1,
	}
}

func (f *fakeStore) GetStation(_ context.Context, id int64) (*Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	station, ok := f.stations[id]
	if !ok {
		return nil, ErrStationNotFound
	}

	return &station, nil
}

func (f *fakeStore) ListStations(_ context.Context, userID uuid.UUID) ([]Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var stations []Station

	for _, station := range f.stations {
		if station.UserID == userID {
			stations = append(stations, station)
		}
	}

	sort.Slice(stations, func(i, j int) bool { return stations[i].ID < stations[j].ID })

	return stations, nil
}

func (f *fakeStore) LogbookLocations(_ context.Context, slug string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	locations, ok := f.logbooks[slug]
	if !ok {
		return nil, ErrLogbookNotFound
	}

	return locations, nil
}

func (f *fakeStore) ImportContact(_ context.Context, contact Contact) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAfter >= 0 && f.imports >= f.failAfter {
		return "", errStoreDown
	}

	f.imports++

	for _, existing := range f.contacts {
		if existing.StationID == contact.StationID && existing.Callsign == contact.Callsign &&
			existing.Time.Equal(contact.Time) && existing.Band == contact.Band && existing.MainMode == contact.MainMode {
			return DuplicateMessage(contact), nil
		}
	}

	contact.ID = uuid.New()
	f.contacts = append(f.contacts, contact)

	return "", nil
}

func (f *fakeStore) ContactExists(_ context.Context, query ContactQuery) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)

	for _, contact := range f.contacts {
		if matches(contact, query) {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeStore) RecentContacts(_ context.Context, stationIDs []int64, limit int) ([]ContactSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var selected []Contact

	for _, contact := range f.contacts {
		if slices.Contains(stationIDs, contact.StationID) {
			selected = append(selected, contact)
		}
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].Time.After(selected[j].Time) })

	if len(selected) > limit {
		selected = selected[:limit]
	}

	summaries := make([]ContactSummary, 0, len(selected))
	for _, contact := range selected {
		summaries = append(summaries, ContactSummary{Time: contact.Time, Callsign: contact.Callsign, Band: contact.Band, Mode: contact.Mode})
	}

	return summaries, nil
}

func (f *fakeStore) LastContact(_ context.Context, stationIDs []int64, callsign string) (*Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var last *Contact

	for i := range f.contacts {
		contact := f.contacts[i]
		if !slices.Contains(stationIDs, contact.StationID) || contact.Callsign != callsign {
			continue
		}

		if last == nil || contact.Time.After(last.Time) {
			last = &contact
		}
	}

	if last == nil {
		return nil, ErrContactNotFound
	}

	return last, nil
}

func matches(contact Contact, query ContactQuery) bool {
	if !slices.Contains(query.StationIDs, contact.StationID) {
		return false
	}

	if query.Callsign != "" && contact.Callsign != query.Callsign {
		return false
	}

	if query.DXCC != nil && (contact.DXCC == nil || *contact.DXCC != *query.DXCC) {
		return false
	}

	if query.GridPrefix != "" && !strings.HasPrefix(contact.Gridsquare, query.GridPrefix) {
		return false
	}

	switch query.Prop {
	case PropSatellite:
		if !contact.Satellite() {
			return false
		}
	case PropTerrestrial:
		if contact.Satellite() {
			return false
		}

		fallthrough
	default:
		if query.Band != "" && contact.Band != query.Band {
			return false
		}

		if query.MainMode != "" && contact.MainMode != query.MainMode {
			return false
		}
	}

	return contact.Confirmed(query.Confirmed)
}

func (f *fakeStore) CountContacts(_ context.Context, stationIDs []int64, windows CountWindows) (ContactCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var counts ContactCounts

	for _, contact := range f.contacts {
		if !slices.Contains(stationIDs, contact.StationID) {
			continue
		}

		counts.Total++

		if !contact.Time.Before(windows.Year) {
			counts.Year++
		}

		if !contact.Time.Before(windows.Month) {
			counts.Month++
		}

		if !contact.Time.Before(windows.Day) {
			counts.Today++
		}
	}

	return counts, nil
}

func (f *fakeStore) SaveRadioStatus(_ context.Context, status RadioStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAfter == 0 {
		return errStoreDown
	}

	f.radios[status.UserID.String()+"/"+status.Radio] = status

	return nil
}

var testOwner = uuid.MustParse("4b0f6bb0-0d6e-4f0c-9c38-5c1f3b0fd9a1")

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()

	resolver, err := dxcc.NewResolver()
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	store := newFakeStore()
	store.stations[1] = Station{ID: 1, UserID: testOwner, Name: "Home", Callsign: "N0CALL", Gridsquare: "FN31pr", Active: true}
	store.stations[2] = Station{ID: 2, UserID: uuid.New(), Name: "Other", Callsign: "K9XYZ"}
	store.logbooks["home"] = []int64{1}
	store.logbooks["empty"] = nil

	service := NewService(store, resolver)
	service.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }

	return service, store
}

func addContact(store *fakeStore, contact Contact) {
	if contact.StationID == 0 {
		contact.StationID = 1
	}

	if contact.Time.IsZero() {
		contact.Time = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	}

	store.contacts = append(store.contacts, contact)
}

func intPtr(v int) *int {
	return &v
}
