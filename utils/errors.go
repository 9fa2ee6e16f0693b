/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import "errors"

var (
	// ErrBandNotFound is returned when a frequency falls outside every amateur band.
	ErrBandNotFound = errors.New("frequency is not inside an amateur band")
	// ErrADIFUndecodable is returned when a payload holds no ADIF data at all.
	ErrADIFUndecodable = errors.New("payload is not decodable as ADIF")
	// ErrADIFFieldLength is returned for a field whose declared length is unusable.
	ErrADIFFieldLength = errors.New("invalid ADIF field length")
	// ErrInvalidLocator is returned for malformed Maidenhead locators.
	ErrInvalidLocator = errors.New("invalid maidenhead locator")

	errInvalidDateFormat = errors.New("invalid ADIF date format")
	errInvalidTimeFormat = errors.New("invalid ADIF time format")
)
