/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package dxcc resolves amateur radio callsigns to DXCC entities at a point in
// time, including portable and foreign-location suffixes.
package dxcc

import (
	"fmt"
	"strings"
	"time"
)

// Entity is a DXCC country or territory.
type Entity struct {
	ID        int
	Name      string
	CQZone    int
	Continent string
	Latitude  float64
	Longitude float64
}

// SuffixKind classifies the part of a callsign after its last slash.
type SuffixKind string

// Suffix kinds reported by Lookup.
const (
	SuffixNone               SuffixKind = ""
	SuffixPortable           SuffixKind = "Portable"
	SuffixMobile             SuffixKind = "Mobile"
	SuffixMaritimeMobile     SuffixKind = "Maritime Mobile"
	SuffixAeronauticalMobile SuffixKind = "Aeronautical Mobile"
	SuffixLowPower           SuffixKind = "QRP"
	SuffixEntity             SuffixKind = "DXCC"
	SuffixUnknown            SuffixKind = "Unknown"
)

// minSuffixSlashIndex is the zero based index from which a slash separates a
// suffix rather than a prefix, so "W1AW/VP9" qualifies and "VP9/W1AW" does not.
const minSuffixSlashIndex = 4

// Result is a full callsign lookup.
type Result struct {
	Callsign     string
	BaseCallsign string
	Suffix       string
	SuffixKind   SuffixKind
	// Base is the entity of the callsign without its suffix.
	Base Entity
	// Entity is the effective entity; a suffix naming another entity wins.
	Entity Entity
}

// Resolver answers point-in-time DXCC lookups. It is safe for concurrent use.
type Resolver struct {
	table *table
}

// NewResolver builds a resolver from the embedded reference tables.
func NewResolver() (*Resolver, error) {
	return NewResolverFromCSV(entitiesCSV, prefixesCSV)
}

// NewResolverFromCSV builds a resolver from entity and prefix CSV documents.
func NewResolverFromCSV(entities, prefixes []byte) (*Resolver, error) {
	t, err := loadTable(entities, prefixes)
	if err != nil {
		return nil, err
	}

	return &Resolver{table: t}, nil
}

// Resolve returns the effective entity for a callsign at the given date.
func (r *Resolver) Resolve(callsign string, at time.Time) (Entity, error) {
	result, err := r.Lookup(callsign, at)
	if err != nil {
		return Entity{}, err
	}

	return result.Entity, nil
}

// Lookup resolves a callsign and classifies its suffix. A zero date means now.
func (r *Resolver) Lookup(callsign string, at time.Time) (Result, error) {
	normalized := NormalizeCallsign(callsign)
	if normalized == "" {
		return Result{}, ErrEmptyCallsign
	}

	if at.IsZero() {
		at = time.Now().UTC()
	}

	result := Result{Callsign: normalized, BaseCallsign: normalized}

	slash := strings.LastIndex(normalized, "/")
	if slash < minSuffixSlashIndex {
		entity, ok := r.table.lookup(normalized, at)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrNotFound, normalized)
		}

		result.Base = entity
		result.Entity = entity

		return result, nil
	}

	result.BaseCallsign = normalized[:slash]
	result.Suffix = normalized[slash+1:]

	base, baseOK := r.table.lookup(result.BaseCallsign, at)

	switch result.Suffix {
	case "P":
		result.SuffixKind = SuffixPortable
	case "M":
		result.SuffixKind = SuffixMobile
	case "MM":
		result.SuffixKind = SuffixMaritimeMobile
	case "AM":
		// AM is also a Spanish prefix block; as a suffix it is always airborne.
		result.SuffixKind = SuffixAeronauticalMobile
	case "QRP":
		result.SuffixKind = SuffixLowPower
	default:
		if entity, ok := r.table.lookup(result.Suffix, at); ok {
			result.SuffixKind = SuffixEntity
			result.Entity = entity

			if !baseOK {
				base, baseOK = entity, true
			}
		} else if result.Suffix != "" {
			result.SuffixKind = SuffixUnknown
		}
	}

	if !baseOK {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, normalized)
	}

	result.Base = base
	if result.SuffixKind != SuffixEntity {
		result.Entity = base
	}

	return result, nil
}

// NormalizeCallsign uppercases and trims a callsign.
func NormalizeCallsign(callsign string) string {
	return strings.ToUpper(strings.TrimSpace(callsign))
}
