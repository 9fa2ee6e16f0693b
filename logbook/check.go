/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package logbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/skywave/dxcc"
	"github.com/humaidq/skywave/utils"
)

// bandFilter turns an optional band label into a query filter. "SAT" selects
// satellite contacts, an empty band matches any propagation.
func bandFilter(band string) (string, PropFilter) {
	band = utils.NormalizeBand(band)

	switch band {
	case "":
		return "", PropAny
	case PropModeSatellite:
		return "", PropSatellite
	default:
		return band, PropTerrestrial
	}
}

// CheckCallsign reports whether the callsign was worked in the logbook,
// optionally on one band.
func (s *Service) CheckCallsign(ctx context.Context, slug, callsign, band string) (bool, error) {
	locations, err := s.locations(ctx, slug)
	if err != nil {
		return false, err
	}

	query := ContactQuery{StationIDs: locations, Callsign: dxcc.NormalizeCallsign(callsign)}
	query.Band, query.Prop = bandFilter(band)

	exists, err := s.store.ContactExists(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to query contacts: %w", err)
	}

	return exists, nil
}

// CheckGrid reports whether the four character grid square was worked in the
// logbook, optionally on one band.
func (s *Service) CheckGrid(ctx context.Context, slug, grid, band string) (bool, error) {
	grid = strings.ToUpper(strings.TrimSpace(grid))
	if len(grid) < 4 {
		return false, ErrInvalidGrid
	}

	locations, err := s.locations(ctx, slug)
	if err != nil {
		return false, err
	}

	query := ContactQuery{StationIDs: locations, GridPrefix: grid[:4]}
	query.Band, query.Prop = bandFilter(band)

	exists, err := s.store.ContactExists(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to query contacts: %w", err)
	}

	return exists, nil
}

// CallsignInfo is the result of a callsign lookup.
type CallsignInfo struct {
	dxcc.Result
	// Station is set when the lookup was scoped to a station.
	Station      *Station
	WorkedBefore bool
	LastContact  *Contact
}

// LookupCallsign resolves a callsign's entity. With a non-zero stationID it
// also reports whether the station worked the callsign before and the last
// such contact.
func (s *Service) LookupCallsign(ctx context.Context, callsign string, stationID int64, ownerID uuid.UUID) (CallsignInfo, error) {
	if s.countries == nil {
		return CallsignInfo{}, ErrUnknownCountry
	}

	result, err := s.countries.Lookup(callsign, s.now())
	if err != nil {
		return CallsignInfo{}, fmt.Errorf("%w: %v", ErrUnknownCountry, err)
	}

	info := CallsignInfo{Result: result}
	if stationID == 0 {
		return info, nil
	}

	station, err := s.OwnedStation(ctx, stationID, ownerID)
	if err != nil {
		return CallsignInfo{}, err
	}

	info.Station = station

	last, err := s.store.LastContact(ctx, []int64{station.ID}, result.Callsign)
	if err != nil && !errors.Is(err, ErrContactNotFound) {
		return CallsignInfo{}, fmt.Errorf("failed to load last contact: %w", err)
	}

	if last != nil {
		info.WorkedBefore = true
		info.LastContact = last
	}

	return info, nil
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}
