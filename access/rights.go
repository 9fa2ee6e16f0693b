/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package access

import "strings"

// Capability is the access class granted by a key's rights string.
type Capability int

// Capabilities ordered from least to most privileged.
const (
	CapNone Capability = iota
	CapRead
	CapWrite
)

// Rights strings stored for new keys.
const (
	RightsRead  = "r"
	RightsWrite = "w"

	legacyRightsReadWrite = "rw"
)

// ParseRights reads the capability from the leading character of a rights
// string: "w" grants write, "r" grants read. The legacy "rw" string grants
// write.
func ParseRights(rights string) Capability {
	trimmed := strings.ToLower(strings.TrimSpace(rights))
	if trimmed == "" {
		return CapNone
	}

	if trimmed == legacyRightsReadWrite {
		return CapWrite
	}

	switch trimmed[0] {
	case 'w':
		return CapWrite
	case 'r':
		return CapRead
	default:
		return CapNone
	}
}

// Allows reports whether c satisfies a requirement of need.
func (c Capability) Allows(need Capability) bool {
	return c != CapNone && c >= need
}

func (c Capability) String() string {
	switch c {
	case CapRead:
		return "read"
	case CapWrite:
		return "write"
	default:
		return "none"
	}
}
