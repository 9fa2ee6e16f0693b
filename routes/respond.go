/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flamego/flamego"

	"github.com/humaidq/skywave/access"
	"github.com/humaidq/skywave/logbook"
	"github.com/humaidq/skywave/qrz"
	"github.com/humaidq/skywave/utils"
)

type maxBytesError = http.MaxBytesError

type failure struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func writeJSON(c flamego.Context, status int, payload any) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)

	if err := json.NewEncoder(c.ResponseWriter()).Encode(payload); err != nil {
		logger.Warn("Failed to encode response", "path", c.Request().URL.Path, "error", err)
	}
}

// writeError answers with the status and reason that err maps to.
func writeError(c flamego.Context, err error) {
	status := statusFor(err)
	reason := err.Error()

	switch status {
	case http.StatusUnauthorized:
		logAccessDenied(c, err.Error(), status)
	case http.StatusInternalServerError:
		logger.Error("Request failed", "path", c.Request().URL.Path, "error", err)
		reason = "internal server error"
	case http.StatusServiceUnavailable:
		logger.Warn("Upstream unavailable", "path", c.Request().URL.Path, "error", err)
	}

	writeJSON(c, status, failure{Status: "failed", Reason: reason})
}

func statusFor(err error) int {
	var tooLarge *maxBytesError

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, access.ErrUnauthorized),
		errors.Is(err, access.ErrInsufficientRights),
		errors.Is(err, logbook.ErrStationNotOwned),
		errors.Is(err, logbook.ErrStationCallsignMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, errInvalidStation),
		errors.Is(err, errInvalidLimit),
		errors.Is(err, errInvalidTimestamp),
		errors.Is(err, logbook.ErrInvalidFrequency),
		errors.Is(err, logbook.ErrEmptyPayload),
		errors.Is(err, logbook.ErrUnsupportedPayloadType),
		errors.Is(err, logbook.ErrInvalidGrid),
		errors.Is(err, logbook.ErrRadioNameEmpty),
		errors.Is(err, logbook.ErrInvalidRadioFrequency),
		errors.Is(err, logbook.ErrInvalidRadioPower),
		errors.Is(err, utils.ErrADIFUndecodable):
		return http.StatusBadRequest
	case errors.Is(err, errUnknownEndpoint),
		errors.Is(err, logbook.ErrLogbookNotFound),
		errors.Is(err, logbook.ErrEmptyLogbook),
		errors.Is(err, logbook.ErrUnknownCountry),
		errors.Is(err, qrz.ErrCallsignNotFound),
		errors.Is(err, qrz.ErrLookupFailed):
		return http.StatusNotFound
	case qrz.Unavailable(err) && isQRZError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// isQRZError reports whether err came from the directory client.
func isQRZError(err error) bool {
	var upstream *upstreamError
	return errors.As(err, &upstream)
}

// upstreamError marks errors returned by the QRZ client so transport
// failures map to 503 rather than 500.
type upstreamError struct {
	err error
}

func (e *upstreamError) Error() string { return e.err.Error() }

func (e *upstreamError) Unwrap() error { return e.err }
