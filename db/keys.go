/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/skywave/access"
)

// KeyStore implements access.KeyStore on the shared connection pool.
type KeyStore struct{}

// NewKeyStore returns a key store backed by the pool opened with Init.
func NewKeyStore() *KeyStore {
	return &KeyStore{}
}

var _ access.KeyStore = (*KeyStore)(nil)

const apiKeyColumns = `id, user_id, key_digest, rights, description, enabled, last_used, created_at`

func scanAPIKey(row pgx.Row) (*access.Key, error) {
	var key access.Key

	err := row.Scan(
		&key.ID,
		&key.UserID,
		&key.Digest,
		&key.Rights,
		&key.Description,
		&key.Enabled,
		&key.LastUsed,
		&key.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &key, nil
}

// LookupAPIKey returns the key stored under digest.
func (k *KeyStore) LookupAPIKey(ctx context.Context, digest string) (*access.Key, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	key, err := scanAPIKey(pool.QueryRow(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key_digest = $1`, digest))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, access.ErrKeyNotFound
		}

		return nil, fmt.Errorf("failed to get api key: %w", err)
	}

	return key, nil
}

// TouchAPIKey records the last use of a key.
func (k *KeyStore) TouchAPIKey(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if _, err := pool.Exec(ctx, `UPDATE api_keys SET last_used = $2 WHERE id = $1`, id, usedAt); err != nil {
		return fmt.Errorf("failed to update api key last use: %w", err)
	}

	return nil
}

// CreateAPIKey generates a key for a user and stores its digest. The
// plaintext key is returned once and cannot be recovered later.
func CreateAPIKey(ctx context.Context, userID uuid.UUID, rights, description string) (string, *access.Key, error) {
	if pool == nil {
		return "", nil, ErrDatabaseConnectionNotInitialized
	}

	plaintext, err := access.GenerateKey()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate api key: %w", err)
	}

	query := `
		INSERT INTO api_keys (user_id, key_digest, rights, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + apiKeyColumns

	key, err := scanAPIKey(pool.QueryRow(ctx, query, userID, access.HashKey(plaintext), rights, description))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create api key: %w", err)
	}

	return plaintext, key, nil
}

// ListAPIKeys returns the keys of a user, newest first.
func ListAPIKeys(ctx context.Context, userID uuid.UUID) ([]access.Key, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query api keys: %w", err)
	}
	defer rows.Close()

	var keys []access.Key

	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}

		keys = append(keys, *key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating api keys: %w", err)
	}

	return keys, nil
}

// DisableAPIKey disables a key so it no longer authorizes anything.
func DisableAPIKey(ctx context.Context, id uuid.UUID) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	tag, err := pool.Exec(ctx, `UPDATE api_keys SET enabled = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to disable api key: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}

	return nil
}
