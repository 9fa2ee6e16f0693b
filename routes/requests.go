/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// flexString accepts a JSON string or number and keeps its text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*f = flexString(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: expected string or number", errInvalidRequest)
		}

		*f = flexString(n.String())
	}

	return nil
}

func (f flexString) Float() (float64, error) {
	return strconv.ParseFloat(string(f), 64)
}

// Int returns 0 for an empty value.
func (f flexString) Int() (int64, error) {
	if f == "" {
		return 0, nil
	}

	return strconv.ParseInt(string(f), 10, 64)
}

type qsoRequest struct {
	Key              string     `json:"key"`
	StationProfileID flexString `json:"station_profile_id" validate:"required,numeric"`
	Type             string     `json:"type" validate:"required"`
	String           string     `json:"string"`
}

type workedBeforeRequest struct {
	Key         string     `json:"key"`
	LogbookSlug string     `json:"logbook_public_slug" validate:"required"`
	Callsign    string     `json:"callsign" validate:"required"`
	Frequency   flexString `json:"frequency" validate:"required,numeric"`
	Mode        string     `json:"mode" validate:"required"`
}

type checkCountryRequest struct {
	Key         string `json:"key"`
	LogbookSlug string `json:"logbook_public_slug" validate:"required"`
	Callsign    string `json:"callsign" validate:"required"`
	Band        string `json:"band"`
	Mode        string `json:"mode"`
	Type        string `json:"type"`
}

type checkCallsignRequest struct {
	Key         string `json:"key"`
	LogbookSlug string `json:"logbook_public_slug" validate:"required"`
	Callsign    string `json:"callsign" validate:"required"`
	Band        string `json:"band"`
}

type checkGridRequest struct {
	Key         string `json:"key"`
	LogbookSlug string `json:"logbook_public_slug" validate:"required"`
	Grid        string `json:"grid" validate:"required"`
	Band        string `json:"band"`
}

type recentRequest struct {
	Key         string     `json:"key"`
	LogbookSlug string     `json:"logbook_public_slug" validate:"required"`
	Limit       flexString `json:"limit" validate:"omitempty,numeric"`
}

type lookupRequest struct {
	Key              string     `json:"key"`
	Callsign         string     `json:"callsign" validate:"required"`
	StationProfileID flexString `json:"station_profile_id" validate:"omitempty,numeric"`
}

type radioRequest struct {
	Key         string     `json:"key"`
	Radio       string     `json:"radio" validate:"required"`
	Frequency   flexString `json:"frequency" validate:"omitempty,numeric"`
	Mode        string     `json:"mode"`
	FrequencyRx flexString `json:"frequency_rx" validate:"omitempty,numeric"`
	ModeRx      string     `json:"mode_rx"`
	PropMode    string     `json:"prop_mode"`
	SatName     string     `json:"sat_name"`
	Power       flexString `json:"power" validate:"omitempty,numeric"`
	Timestamp   string     `json:"timestamp"`
}

// radioTimestampLayouts are tried in order; rig clients send UTC.
var radioTimestampLayouts = []string{"2006/01/02 15:04", "2006/01/02 15:04:05", "2006-01-02 15:04:05", time.RFC3339}

func parseRadioTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range radioTimestampLayouts {
		if at, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return at, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", errInvalidTimestamp, value)
}

// decodeJSON reads the request body into dst.
func decodeJSON(c flamego.Context, dst any) error {
	if err := json.NewDecoder(c.Request().Body().ReadCloser()).Decode(dst); err != nil {
		var tooLarge *maxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}

		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	return nil
}

// decodeQSORequest accepts JSON and falls back to a form-encoded body.
func decodeQSORequest(c flamego.Context) (qsoRequest, error) {
	var req qsoRequest

	contentType := c.Request().Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/x-www-form-urlencoded") && !strings.HasPrefix(contentType, "multipart/form-data") {
		return req, decodeJSON(c, &req)
	}

	r := c.Request().Request
	if err := r.ParseForm(); err != nil {
		var tooLarge *maxBytesError
		if errors.As(err, &tooLarge) {
			return req, err
		}

		return req, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	req.Key = r.PostForm.Get("key")
	req.StationProfileID = flexString(strings.TrimSpace(r.PostForm.Get("station_profile_id")))
	req.Type = r.PostForm.Get("type")
	req.String = r.PostForm.Get("string")

	return req, nil
}

// check runs struct validation and wraps failures as invalid requests.
func check(req any) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			field := fieldErrors[0]
			return fmt.Errorf("%w: %s failed %s", errInvalidRequest, field.Field(), field.Tag())
		}

		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	return nil
}
