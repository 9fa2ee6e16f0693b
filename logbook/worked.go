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

	"github.com/humaidq/skywave/dxcc"
	"github.com/humaidq/skywave/utils"
)

// WorkedBeforeQuery asks whether a callsign and its country were worked.
type WorkedBeforeQuery struct {
	LogbookSlug  string
	Callsign     string
	FrequencyMHz float64
	Mode         string
	At           time.Time
}

// WorkedCells is one row of the worked-before matrix.
type WorkedCells struct {
	Any      bool
	Band     bool
	Mode     bool
	BandMode bool
}

// WorkedBeforeResult holds the callsign and DXCC rows of the matrix.
type WorkedBeforeResult struct {
	Callsign WorkedCells
	DXCC     WorkedCells
	Band     string
	MainMode string
	Entity   dxcc.Entity
}

// CountryWorkedQuery asks whether a callsign's country was worked and
// confirmed. Band and Mode are optional; Type "sat" selects satellite contacts.
type CountryWorkedQuery struct {
	LogbookSlug string
	Callsign    string
	Band        string
	Mode        string
	Type        string
	At          time.Time
}

// Confirmations reports confirmation per channel.
type Confirmations struct {
	QSL  bool
	LoTW bool
	EQSL bool
	QRZ  bool
}

// CountryWorkedResult answers a CountryWorkedQuery.
type CountryWorkedResult struct {
	WorkedBefore bool
	Confirmed    Confirmations
	Entity       dxcc.Entity
}

// WorkedBefore evaluates the worked-before matrix for a callsign on a
// frequency and mode. Satellite contacts never count.
func (s *Service) WorkedBefore(ctx context.Context, query WorkedBeforeQuery) (WorkedBeforeResult, error) {
	band, err := utils.BandFor(query.FrequencyMHz)
	if err != nil {
		return WorkedBeforeResult{}, fmt.Errorf("%w: %v MHz", ErrInvalidFrequency, query.FrequencyMHz)
	}

	locations, err := s.locations(ctx, query.LogbookSlug)
	if err != nil {
		return WorkedBeforeResult{}, err
	}

	entity, err := s.entity(query.Callsign, s.at(query.At))
	if err != nil {
		return WorkedBeforeResult{}, err
	}

	result := WorkedBeforeResult{
		Band:     band,
		MainMode: utils.MainMode(query.Mode),
		Entity:   entity,
	}

	callsign := dxcc.NormalizeCallsign(query.Callsign)

	result.Callsign, err = s.cells(ctx, ContactQuery{StationIDs: locations, Callsign: callsign}, band, result.MainMode)
	if err != nil {
		return WorkedBeforeResult{}, err
	}

	id := entity.ID

	result.DXCC, err = s.cells(ctx, ContactQuery{StationIDs: locations, DXCC: &id}, band, result.MainMode)
	if err != nil {
		return WorkedBeforeResult{}, err
	}

	return result, nil
}

// cells fills one matrix row from a base query. All four cells use the same
// propagation filter.
func (s *Service) cells(ctx context.Context, base ContactQuery, band, mainMode string) (WorkedCells, error) {
	var cells WorkedCells

	base.Prop = PropTerrestrial

	targets := []struct {
		cell     *bool
		band     string
		mainMode string
	}{
		{cell: &cells.Any},
		{cell: &cells.Band, band: band},
		{cell: &cells.Mode, mainMode: mainMode},
		{cell: &cells.BandMode, band: band, mainMode: mainMode},
	}

	for _, target := range targets {
		query := base
		query.Band = target.band
		query.MainMode = target.mainMode

		exists, err := s.store.ContactExists(ctx, query)
		if err != nil {
			return WorkedCells{}, fmt.Errorf("failed to query contacts: %w", err)
		}

		*target.cell = exists
	}

	return cells, nil
}

// CountryWorked reports whether the callsign's DXCC entity was worked in the
// logbook and on which channels it was confirmed.
func (s *Service) CountryWorked(ctx context.Context, query CountryWorkedQuery) (CountryWorkedResult, error) {
	locations, err := s.locations(ctx, query.LogbookSlug)
	if err != nil {
		return CountryWorkedResult{}, err
	}

	entity, err := s.entity(query.Callsign, s.at(query.At))
	if err != nil {
		return CountryWorkedResult{}, err
	}

	id := entity.ID
	base := ContactQuery{StationIDs: locations, DXCC: &id}

	if strings.EqualFold(strings.TrimSpace(query.Type), "sat") {
		base.Prop = PropSatellite
	} else {
		base.Band = utils.NormalizeBand(query.Band)
		if strings.TrimSpace(query.Mode) != "" {
			base.MainMode = utils.MainMode(query.Mode)
		}
	}

	result := CountryWorkedResult{Entity: entity}

	targets := []struct {
		channel Channel
		out     *bool
	}{
		{channel: ChannelNone, out: &result.WorkedBefore},
		{channel: ChannelQSL, out: &result.Confirmed.QSL},
		{channel: ChannelLoTW, out: &result.Confirmed.LoTW},
		{channel: ChannelEQSL, out: &result.Confirmed.EQSL},
		{channel: ChannelQRZ, out: &result.Confirmed.QRZ},
	}

	for _, target := range targets {
		q := base
		q.Confirmed = target.channel

		exists, err := s.store.ContactExists(ctx, q)
		if err != nil {
			return CountryWorkedResult{}, fmt.Errorf("failed to query contacts: %w", err)
		}

		*target.out = exists
	}

	return result, nil
}

// locations resolves a logbook slug to its station ids.
func (s *Service) locations(ctx context.Context, slug string) ([]int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrLogbookNotFound
	}

	locations, err := s.store.LogbookLocations(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrLogbookNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrLogbookNotFound, slug)
		}

		return nil, fmt.Errorf("failed to load logbook locations: %w", err)
	}

	if len(locations) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyLogbook, slug)
	}

	return locations, nil
}

func (s *Service) entity(callsign string, at time.Time) (dxcc.Entity, error) {
	if s.countries == nil {
		return dxcc.Entity{}, ErrUnknownCountry
	}

	result, err := s.countries.Lookup(callsign, at)
	if err != nil {
		return dxcc.Entity{}, fmt.Errorf("%w: %v", ErrUnknownCountry, err)
	}

	return result.Entity, nil
}

func (s *Service) at(at time.Time) time.Time {
	if at.IsZero() {
		return s.now()
	}

	return at
}
