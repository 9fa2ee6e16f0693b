/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/humaidq/skywave/logbook"
)

// User is an account owning stations, logbooks and keys.
type User struct {
	ID          uuid.UUID
	DisplayName string
}

// Logbook groups station profiles under a public slug.
type Logbook struct {
	ID         int64
	UserID     uuid.UUID
	Name       string
	PublicSlug string
}

const uniqueViolation = "23505"

// CreateUser inserts a new user.
func CreateUser(ctx context.Context, displayName string) (*User, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	user := User{DisplayName: strings.TrimSpace(displayName)}

	err := pool.QueryRow(ctx, `INSERT INTO users (display_name) VALUES ($1) RETURNING id`, user.DisplayName).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func userExists(ctx context.Context, userID uuid.UUID) error {
	var exists bool

	if err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}

	if !exists {
		return ErrUserNotFound
	}

	return nil
}

// CreateStation inserts a station profile for a user. Callsign and grid are
// stored uppercase.
func CreateStation(ctx context.Context, userID uuid.UUID, name, callsign, grid string, active bool) (*logbook.Station, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	if err := userExists(ctx, userID); err != nil {
		return nil, err
	}

	station := logbook.Station{
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		Callsign:   strings.ToUpper(strings.TrimSpace(callsign)),
		Gridsquare: strings.ToUpper(strings.TrimSpace(grid)),
		Active:     active,
	}

	query := `
		INSERT INTO station_profiles (user_id, name, callsign, gridsquare, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := pool.QueryRow(ctx, query, station.UserID, station.Name, station.Callsign, optional(station.Gridsquare), station.Active).Scan(&station.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create station: %w", err)
	}

	return &station, nil
}

// CreateLogbook inserts a logbook with a public slug.
func CreateLogbook(ctx context.Context, userID uuid.UUID, name, slug string) (*Logbook, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	if err := userExists(ctx, userID); err != nil {
		return nil, err
	}

	book := Logbook{UserID: userID, Name: strings.TrimSpace(name), PublicSlug: strings.TrimSpace(slug)}

	err := pool.QueryRow(ctx, `INSERT INTO logbooks (user_id, name, public_slug) VALUES ($1, $2, $3) RETURNING id`,
		book.UserID, book.Name, book.PublicSlug).Scan(&book.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrLogbookSlugTaken, book.PublicSlug)
		}

		return nil, fmt.Errorf("failed to create logbook: %w", err)
	}

	return &book, nil
}

// LinkStation adds a station to a logbook. Linking twice is a no-op.
func LinkStation(ctx context.Context, logbookID, stationID int64) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	query := `
		INSERT INTO logbook_relationships (logbook_id, station_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := pool.Exec(ctx, query, logbookID, stationID); err != nil {
		return fmt.Errorf("failed to link station to logbook: %w", err)
	}

	return nil
}
