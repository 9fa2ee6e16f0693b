/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package logbook

import "errors"

var (
	// Authorization failures.
	ErrStationNotOwned         = errors.New("station id does not belong to the API key owner")
	ErrStationCallsignMismatch = errors.New("station callsign does not match station callsign in station profile")

	// Validation failures.
	ErrEmptyPayload           = errors.New("batch payload is empty")
	ErrUnsupportedPayloadType = errors.New("unsupported payload type")
	ErrInvalidFrequency       = errors.New("frequency is not inside an amateur band")
	ErrInvalidGrid            = errors.New("gridsquare must have at least four characters")
	ErrRadioNameEmpty         = errors.New("radio name is empty")
	ErrInvalidRadioFrequency  = errors.New("radio frequency must not be negative")
	ErrInvalidRadioPower      = errors.New("radio power must not be negative")

	// Lookup failures.
	ErrLogbookNotFound = errors.New("logbook not found")
	ErrEmptyLogbook    = errors.New("logbook has no associated station locations")
	ErrUnknownCountry  = errors.New("unknown DXCC entity for callsign")
	ErrStationNotFound = errors.New("station not found")
	ErrContactNotFound = errors.New("contact not found")

	// Per-record failures reported in import messages.
	errRecordCallsignEmpty = errors.New("QSO Call is empty")
	errRecordTimestamp     = errors.New("QSO date/time is missing or invalid")
	errRecordModeEmpty     = errors.New("QSO mode is empty")
	errRecordBandUnknown   = errors.New("QSO has no band and no frequency inside an amateur band")
)
