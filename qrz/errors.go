/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package qrz

import "errors"

var (
	ErrCredentialsNotConfigured = errors.New("qrz xml credentials are not configured")
	ErrServiceURLInvalid        = errors.New("qrz xml service url is invalid")
	ErrLoginFailed              = errors.New("qrz xml login failed")
	ErrSessionKeyMissing        = errors.New("qrz xml session key missing")
	ErrAPIReturnedStatus        = errors.New("qrz xml api returned unexpected status")
	ErrRequestFailed            = errors.New("failed to call qrz xml api")
	ErrResponseMalformed        = errors.New("qrz xml response is malformed")
	ErrCallsignNotFound         = errors.New("callsign not found on qrz")
	ErrLookupFailed             = errors.New("qrz xml lookup failed")
)
