/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable is not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in DATABASE_URL")
	ErrUserNotFound                     = errors.New("user not found")
	ErrLogbookSlugTaken                 = errors.New("logbook public slug is already in use")
	ErrAPIKeyNotFound                   = errors.New("api key not found")
)
