/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired   = errors.New("database-url is required (set via --database-url or DATABASE_URL env var)")
	errMigrationNameRequired = errors.New("migration name is required")
	errInvalidUserID         = errors.New("user must be a valid UUID")
	errInvalidKeyID          = errors.New("api key id must be a valid UUID")
	errInvalidPort           = errors.New("port must be between 1 and 65535")
)
