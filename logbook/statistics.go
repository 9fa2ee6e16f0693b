/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package logbook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContactCounts are contact totals over calendar periods, in UTC.
type ContactCounts struct {
	Today int64
	Month int64
	Year  int64
	Total int64
}

// CountWindows holds the lower bounds of the periodic counts.
type CountWindows struct {
	Day   time.Time
	Month time.Time
	Year  time.Time
}

// WindowsAt returns the UTC day, month and year starts containing at.
func WindowsAt(at time.Time) CountWindows {
	at = at.UTC()
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	return CountWindows{
		Day:   day,
		Month: time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC),
		Year:  time.Date(at.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Statistics counts the contacts logged across all of a user's stations.
func (s *Service) Statistics(ctx context.Context, userID uuid.UUID) (ContactCounts, error) {
	stations, err := s.Stations(ctx, userID)
	if err != nil {
		return ContactCounts{}, err
	}

	if len(stations) == 0 {
		return ContactCounts{}, nil
	}

	ids := make([]int64, 0, len(stations))
	for _, station := range stations {
		ids = append(ids, station.ID)
	}

	counts, err := s.store.CountContacts(ctx, ids, WindowsAt(s.now()))
	if err != nil {
		return ContactCounts{}, fmt.Errorf("failed to count contacts: %w", err)
	}

	return counts, nil
}
