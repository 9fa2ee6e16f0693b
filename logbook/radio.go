/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package logbook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RadioStatus is the last state a rig control client reported for one radio.
// Frequencies are in hertz; zero means not reported.
type RadioStatus struct {
	UserID        uuid.UUID
	Radio         string
	FrequencyHz   int64
	Mode          string
	FrequencyRxHz int64
	ModeRx        string
	PropMode      string
	SatName       string
	PowerWatts    *float64
	UpdatedAt     time.Time
}

// UpdateRadio records the state of a user's radio, replacing the previous
// report for the same radio name. A zero UpdatedAt means now.
func (s *Service) UpdateRadio(ctx context.Context, status RadioStatus) error {
	status.Radio = strings.TrimSpace(status.Radio)
	if status.Radio == "" {
		return ErrRadioNameEmpty
	}

	if status.FrequencyHz < 0 || status.FrequencyRxHz < 0 {
		return ErrInvalidRadioFrequency
	}

	if status.PowerWatts != nil && *status.PowerWatts < 0 {
		return ErrInvalidRadioPower
	}

	status.Mode = strings.ToUpper(strings.TrimSpace(status.Mode))
	status.ModeRx = strings.ToUpper(strings.TrimSpace(status.ModeRx))
	status.PropMode = strings.ToUpper(strings.TrimSpace(status.PropMode))
	status.SatName = strings.TrimSpace(status.SatName)

	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = s.now()
	}

	status.UpdatedAt = status.UpdatedAt.UTC()

	if err := s.store.SaveRadioStatus(ctx, status); err != nil {
		return fmt.Errorf("failed to save radio status: %w", err)
	}

	return nil
}
