/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import (
	"math"
	"strings"
)

// BandRange maps an inclusive frequency interval in MHz to a band label.
type BandRange struct {
	Label string
	Low   float64
	High  float64
}

// Contains reports whether freq lies inside the range, endpoints included.
func (r BandRange) Contains(freq float64) bool {
	return freq >= r.Low && freq <= r.High
}

// bandPlan is ordered by frequency; ranges must not overlap.
var bandPlan = []BandRange{
	{Label: "2200M", Low: 0.1357, High: 0.1378},
	{Label: "630M", Low: 0.472, High: 0.479},
	{Label: "160M", Low: 1.8, High: 2.0},
	{Label: "80M", Low: 3.5, High: 4.0},
	{Label: "60M", Low: 5.3515, High: 5.3665},
	{Label: "40M", Low: 7.0, High: 7.3},
	{Label: "30M", Low: 10.1, High: 10.15},
	{Label: "20M", Low: 14.0, High: 14.35},
	{Label: "17M", Low: 18.068, High: 18.168},
	{Label: "15M", Low: 21.0, High: 21.45},
	{Label: "12M", Low: 24.89, High: 24.99},
	{Label: "10M", Low: 28.0, High: 29.7},
	{Label: "6M", Low: 50, High: 54},
	{Label: "4M", Low: 70, High: 70.5},
	{Label: "2M", Low: 144, High: 148},
	{Label: "1.25M", Low: 222, High: 225},
	{Label: "70CM", Low: 420, High: 450},
	{Label: "33CM", Low: 902, High: 928},
	{Label: "23CM", Low: 1240, High: 1300},
	{Label: "13CM", Low: 2300, High: 2450},
	{Label: "9CM", Low: 3300, High: 3500},
	{Label: "6CM", Low: 5650, High: 5925},
	{Label: "3CM", Low: 10000, High: 10500},
	{Label: "1.25CM", Low: 24000, High: 24250},
}

// BandPlan returns a copy of the band table in frequency order.
func BandPlan() []BandRange {
	plan := make([]BandRange, len(bandPlan))
	copy(plan, bandPlan)

	return plan
}

// BandFor returns the band label for a frequency in MHz.
func BandFor(freqMHz float64) (string, error) {
	if math.IsNaN(freqMHz) || math.IsInf(freqMHz, 0) || freqMHz < 0 {
		return "", ErrBandNotFound
	}

	for _, band := range bandPlan {
		if band.Contains(freqMHz) {
			return band.Label, nil
		}
	}

	return "", ErrBandNotFound
}

// NormalizeBand canonicalises a band label such as "20m" or " 70cm " to the
// uppercase form used by the band plan.
func NormalizeBand(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// IsKnownBand reports whether label names a band in the band plan.
func IsKnownBand(label string) bool {
	normalized := NormalizeBand(label)
	for _, band := range bandPlan {
		if band.Label == normalized {
			return true
		}
	}

	return false
}
