/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errInvalidRequest   = errors.New("invalid request")
	errInvalidStation   = errors.New("station_profile_id must be a positive integer")
	errInvalidLimit     = errors.New("limit must be an integer")
	errInvalidTimestamp = errors.New("timestamp is not a recognised date")
	errUnknownEndpoint  = errors.New("unknown api endpoint")
)
