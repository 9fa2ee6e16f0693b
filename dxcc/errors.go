/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package dxcc

import "errors"

var (
	// ErrNotFound is returned when no entity is valid for a callsign at the given date.
	ErrNotFound = errors.New("dxcc entity not found")
	// ErrEmptyCallsign is returned when the callsign is blank.
	ErrEmptyCallsign = errors.New("callsign is empty")

	errUnknownEntity = errors.New("prefix references unknown entity")
	errInvalidDate   = errors.New("invalid table date")
)
