/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package access

import "errors"

var (
	// ErrUnauthorized covers missing, unknown and disabled keys alike.
	ErrUnauthorized = errors.New("missing or invalid api key")
	// ErrInsufficientRights is returned when a valid key lacks the needed capability.
	ErrInsufficientRights = errors.New("api key does not grant the required rights")
	// ErrKeyNotFound is returned by key stores when no key matches a digest.
	ErrKeyNotFound = errors.New("api key not found")
)
