/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"

	"github.com/humaidq/skywave/logbook"
)

// SaveRadioStatus stores the latest state of a user's radio.
func (s *Store) SaveRadioStatus(ctx context.Context, status logbook.RadioStatus) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	query := `
		INSERT INTO radio_status (
			user_id, radio, frequency, mode, frequency_rx, mode_rx,
			prop_mode, sat_name, power, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT radio_status_user_radio DO UPDATE SET
			frequency = EXCLUDED.frequency,
			mode = EXCLUDED.mode,
			frequency_rx = EXCLUDED.frequency_rx,
			mode_rx = EXCLUDED.mode_rx,
			prop_mode = EXCLUDED.prop_mode,
			sat_name = EXCLUDED.sat_name,
			power = EXCLUDED.power,
			updated_at = EXCLUDED.updated_at
	`

	_, err := pool.Exec(ctx, query,
		status.UserID,
		status.Radio,
		nullableHertz(status.FrequencyHz),
		optional(status.Mode),
		nullableHertz(status.FrequencyRxHz),
		optional(status.ModeRx),
		optional(status.PropMode),
		optional(status.SatName),
		nullableValue(status.PowerWatts),
		status.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save radio status: %w", err)
	}

	return nil
}

func nullableHertz(hz int64) any {
	if hz <= 0 {
		return nil
	}

	return hz
}
