/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package logbook

import (
	"context"
	"fmt"
)

// Limits for recent contact listings.
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

// ClampRecentLimit maps non-positive limits to the default and caps the rest.
func ClampRecentLimit(limit int) int {
	switch {
	case limit < 1:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}

// RecentContacts returns the newest contacts of a logbook, newest first.
func (s *Service) RecentContacts(ctx context.Context, slug string, limit int) ([]ContactSummary, error) {
	locations, err := s.locations(ctx, slug)
	if err != nil {
		return nil, err
	}

	contacts, err := s.store.RecentContacts(ctx, locations, ClampRecentLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load recent contacts: %w", err)
	}

	return contacts, nil
}
