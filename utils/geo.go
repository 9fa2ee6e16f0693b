/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/pd0mz/go-maidenhead"
)

const earthRadiusKm = 6371.0088

// LocatorPoint returns the centre of a Maidenhead locator.
func LocatorPoint(locator string) (maidenhead.Point, error) {
	trimmed := strings.TrimSpace(locator)
	if len(trimmed) < 4 {
		return maidenhead.Point{}, fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}

	point, err := maidenhead.ParseLocatorCentered(trimmed)
	if err != nil {
		return maidenhead.Point{}, fmt.Errorf("%w: %q: %w", ErrInvalidLocator, locator, err)
	}

	return point, nil
}

// PointDistanceBearing returns the great-circle distance in kilometres and the
// initial bearing in degrees from one point to another.
func PointDistanceBearing(from, to maidenhead.Point) (float64, float64) {
	a := s2.LatLngFromDegrees(from.Latitude, from.Longitude)
	b := s2.LatLngFromDegrees(to.Latitude, to.Longitude)

	km := a.Distance(b).Radians() * earthRadiusKm

	bearing := math.Mod(from.Bearing(to)+360, 360)

	return km, bearing
}

// DistanceBearing returns distance and bearing between two locators.
func DistanceBearing(fromLocator, toLocator string) (float64, float64, error) {
	from, err := LocatorPoint(fromLocator)
	if err != nil {
		return 0, 0, err
	}

	to, err := LocatorPoint(toLocator)
	if err != nil {
		return 0, 0, err
	}

	km, bearing := PointDistanceBearing(from, to)

	return km, bearing, nil
}

// FormatDistance renders a distance as whole kilometres, e.g. "5274 km".
func FormatDistance(km float64) string {
	return fmt.Sprintf("%d km", int(math.Round(km)))
}

// FormatBearing renders a bearing as a zero padded degree value, e.g. "052°".
func FormatBearing(degrees float64) string {
	rounded := int(math.Round(degrees)) % 360

	return fmt.Sprintf("%03d°", rounded)
}
