/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package access authorizes API requests by opaque key.
package access

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/humaidq/skywave/logging"
)

const keyPrefix = "sw"

var logger = logging.Logger(logging.SourceAccess)

// Key is a stored API key record. The plaintext key is never stored.
type Key struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Digest      string
	Rights      string
	Description string
	Enabled     bool
	LastUsed    *time.Time
	CreatedAt   time.Time
}

// KeyStore looks keys up by digest and records their use.
type KeyStore interface {
	LookupAPIKey(ctx context.Context, digest string) (*Key, error)
	TouchAPIKey(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}

// Principal is the identity behind an authorized request.
type Principal struct {
	KeyID      uuid.UUID
	UserID     uuid.UUID
	Rights     string
	Capability Capability
}

// Gate authorizes keys against a KeyStore.
type Gate struct {
	keys KeyStore
	now  func() time.Time
}

// NewGate returns a gate backed by keys.
func NewGate(keys KeyStore) *Gate {
	return &Gate{
		keys: keys,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Authorize resolves key to a principal holding at least need. Unknown,
// disabled and empty keys all fail with ErrUnauthorized. On success the key's
// last-used time is updated once.
func (g *Gate) Authorize(ctx context.Context, key string, need Capability) (Principal, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return Principal{}, ErrUnauthorized
	}

	record, err := g.keys.LookupAPIKey(ctx, HashKey(trimmed))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			logger.Warn("Unknown api key", "key", logging.MaskSecret(trimmed))
			return Principal{}, ErrUnauthorized
		}

		return Principal{}, fmt.Errorf("failed to look up api key: %w", err)
	}

	if record == nil || !record.Enabled {
		logger.Warn("Disabled api key", "key", logging.MaskSecret(trimmed))
		return Principal{}, ErrUnauthorized
	}

	capability := ParseRights(record.Rights)
	if !capability.Allows(need) {
		logger.Warn("Api key lacks rights", "key_id", record.ID, "have", capability, "need", need)
		return Principal{}, fmt.Errorf("%w: need %s", ErrInsufficientRights, need)
	}

	if err := g.keys.TouchAPIKey(ctx, record.ID, g.now()); err != nil {
		return Principal{}, fmt.Errorf("failed to update api key last used: %w", err)
	}

	return Principal{
		KeyID:      record.ID,
		UserID:     record.UserID,
		Rights:     record.Rights,
		Capability: capability,
	}, nil
}

// HashKey returns the hex BLAKE2b-256 digest under which a key is stored.
func HashKey(key string) string {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(key)))

	return hex.EncodeToString(sum[:])
}

// GenerateKey returns a new random plaintext key.
func GenerateKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}

	return keyPrefix + hex.EncodeToString(buf), nil
}
