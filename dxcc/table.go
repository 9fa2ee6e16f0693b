/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package dxcc

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
)

//go:embed entities.csv
var entitiesCSV []byte

//go:embed prefixes.csv
var prefixesCSV []byte

const tableDateLayout = "2006-01-02"

type entityRow struct {
	ID        int     `csv:"id"`
	Name      string  `csv:"name"`
	CQZone    int     `csv:"cq_zone"`
	Continent string  `csv:"continent"`
	Latitude  float64 `csv:"lat"`
	Longitude float64 `csv:"long"`
	Start     string  `csv:"start"`
	End       string  `csv:"end"`
}

type prefixRow struct {
	Prefix string `csv:"prefix"`
	Entity int    `csv:"entity"`
	Exact  bool   `csv:"exact"`
	Start  string `csv:"start"`
	End    string `csv:"end"`
}

// validity is an inclusive date range; zero bounds are open.
type validity struct {
	start time.Time
	end   time.Time
}

func (v validity) contains(at time.Time) bool {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	if !v.start.IsZero() && day.Before(v.start) {
		return false
	}

	if !v.end.IsZero() && day.After(v.end) {
		return false
	}

	return true
}

type tableEntity struct {
	Entity
	valid validity
}

type tablePrefix struct {
	entity int
	valid  validity
}

type table struct {
	entities map[int]tableEntity
	prefixes map[string][]tablePrefix
	exact    map[string][]tablePrefix
	longest  int
}

func loadTable(entitiesData, prefixesData []byte) (*table, error) {
	var entityRows []entityRow
	if err := csvutil.Unmarshal(entitiesData, &entityRows); err != nil {
		return nil, fmt.Errorf("failed to decode dxcc entities: %w", err)
	}

	var prefixRows []prefixRow
	if err := csvutil.Unmarshal(prefixesData, &prefixRows); err != nil {
		return nil, fmt.Errorf("failed to decode dxcc prefixes: %w", err)
	}

	t := &table{
		entities: make(map[int]tableEntity, len(entityRows)),
		prefixes: make(map[string][]tablePrefix),
		exact:    make(map[string][]tablePrefix),
	}

	for _, row := range entityRows {
		valid, err := parseValidity(row.Start, row.End)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", row.ID, err)
		}

		t.entities[row.ID] = tableEntity{
			Entity: Entity{
				ID:        row.ID,
				Name:      strings.TrimSpace(row.Name),
				CQZone:    row.CQZone,
				Continent: strings.TrimSpace(row.Continent),
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
			},
			valid: valid,
		}
	}

	for _, row := range prefixRows {
		if _, ok := t.entities[row.Entity]; !ok {
			return nil, fmt.Errorf("%w: prefix %s entity %d", errUnknownEntity, row.Prefix, row.Entity)
		}

		valid, err := parseValidity(row.Start, row.End)
		if err != nil {
			return nil, fmt.Errorf("prefix %s: %w", row.Prefix, err)
		}

		key := strings.ToUpper(strings.TrimSpace(row.Prefix))
		entry := tablePrefix{entity: row.Entity, valid: valid}

		if row.Exact {
			t.exact[key] = append(t.exact[key], entry)
			continue
		}

		t.prefixes[key] = append(t.prefixes[key], entry)
		if len(key) > t.longest {
			t.longest = len(key)
		}
	}

	return t, nil
}

func parseValidity(start, end string) (validity, error) {
	var (
		v   validity
		err error
	)

	if trimmed := strings.TrimSpace(start); trimmed != "" {
		v.start, err = time.Parse(tableDateLayout, trimmed)
		if err != nil {
			return validity{}, fmt.Errorf("%w: start %q", errInvalidDate, start)
		}
	}

	if trimmed := strings.TrimSpace(end); trimmed != "" {
		v.end, err = time.Parse(tableDateLayout, trimmed)
		if err != nil {
			return validity{}, fmt.Errorf("%w: end %q", errInvalidDate, end)
		}
	}

	return v, nil
}

// match returns the first entry valid at the given date whose entity is also valid.
func (t *table) match(entries []tablePrefix, at time.Time) (Entity, bool) {
	for _, entry := range entries {
		if !entry.valid.contains(at) {
			continue
		}

		entity := t.entities[entry.entity]
		if !entity.valid.contains(at) {
			continue
		}

		return entity.Entity, true
	}

	return Entity{}, false
}

// lookup resolves a callsign by exact exception first, then longest prefix.
func (t *table) lookup(callsign string, at time.Time) (Entity, bool) {
	if entity, ok := t.match(t.exact[callsign], at); ok {
		return entity, true
	}

	length := min(len(callsign), t.longest)
	for ; length > 0; length-- {
		if entity, ok := t.match(t.prefixes[callsign[:length]], at); ok {
			return entity, true
		}
	}

	return Entity{}, false
}
