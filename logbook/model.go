/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package logbook ingests ADIF batches and answers worked-before and
// confirmation queries over a logbook's station locations.
package logbook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/skywave/dxcc"
	"github.com/humaidq/skywave/utils"
)

// PropModeSatellite is the ADIF propagation mode of satellite contacts.
const PropModeSatellite = "SAT"

// Station is an operating location owned by one user.
type Station struct {
	ID         int64
	UserID     uuid.UUID
	Name       string
	Callsign   string
	Gridsquare string
	Active     bool
}

// Contact is one logged QSO.
type Contact struct {
	ID              uuid.UUID
	StationID       int64
	Callsign        string
	Time            time.Time
	Band            string
	Mode            string
	Submode         string
	MainMode        string
	FrequencyMHz    *float64
	PropMode        string
	SatName         string
	DXCC            *int
	Country         string
	CQZone          *int
	Gridsquare      string
	Name            string
	QTH             string
	Comment         string
	RSTSent         string
	RSTRcvd         string
	StationCallsign string
	Operator        string
	QSLRcvd         utils.QSLStatus
	LoTWRcvd        utils.QSLStatus
	EQSLRcvd        utils.QSLStatus
	QRZDownload     utils.QSLStatus
}

// Satellite reports whether the contact was made via satellite.
func (c Contact) Satellite() bool {
	return strings.EqualFold(c.PropMode, PropModeSatellite)
}

// DuplicateMessage is the import message for a contact that already exists.
func DuplicateMessage(c Contact) string {
	return fmt.Sprintf("Duplicate for %s at %s on %s %s", c.Callsign, c.Time.UTC().Format(time.DateTime), c.Band, c.MainMode)
}

// Confirmed reports whether the contact is confirmed on a channel.
func (c Contact) Confirmed(channel Channel) bool {
	switch channel {
	case ChannelQSL:
		return c.QSLRcvd.Received()
	case ChannelLoTW:
		return c.LoTWRcvd.Received()
	case ChannelEQSL:
		return c.EQSLRcvd.Received()
	case ChannelQRZ:
		return c.QRZDownload.Received()
	default:
		return true
	}
}

// ContactSummary is the compact form returned by recent contact listings.
type ContactSummary struct {
	Time     time.Time
	Callsign string
	Name     string
	Band     string
	Mode     string
	RSTSent  string
	RSTRcvd  string
	Country  string
	Comment  string
}

// Channel is a confirmation channel.
type Channel int

// Confirmation channels. ChannelNone places no confirmation requirement.
const (
	ChannelNone Channel = iota
	ChannelQSL
	ChannelLoTW
	ChannelEQSL
	ChannelQRZ
)

// PropFilter selects contacts by propagation mode.
type PropFilter int

// Propagation filters. The zero value excludes satellite contacts.
const (
	PropTerrestrial PropFilter = iota
	PropSatellite
	PropAny
)

// ContactQuery filters contacts within a set of stations. Empty fields do not
// constrain. With PropSatellite the band and mode fields are ignored.
type ContactQuery struct {
	StationIDs []int64
	Callsign   string
	DXCC       *int
	GridPrefix string
	Band       string
	MainMode   string
	Prop       PropFilter
	Confirmed  Channel
}

// Store is the persistence the logbook needs.
type Store interface {
	// GetStation returns ErrStationNotFound for unknown ids.
	GetStation(ctx context.Context, id int64) (*Station, error)
	ListStations(ctx context.Context, userID uuid.UUID) ([]Station, error)
	// LogbookLocations returns ErrLogbookNotFound for unknown slugs and an
	// empty slice for logbooks without stations.
	LogbookLocations(ctx context.Context, slug string) ([]int64, error)
	// ImportContact inserts a contact. A non-empty message reports a record
	// the store declined, such as a duplicate.
	ImportContact(ctx context.Context, contact Contact) (string, error)
	ContactExists(ctx context.Context, query ContactQuery) (bool, error)
	RecentContacts(ctx context.Context, stationIDs []int64, limit int) ([]ContactSummary, error)
	// LastContact returns ErrContactNotFound when the callsign was never worked.
	LastContact(ctx context.Context, stationIDs []int64, callsign string) (*Contact, error)
	CountContacts(ctx context.Context, stationIDs []int64, windows CountWindows) (ContactCounts, error)
	// SaveRadioStatus upserts by user and radio name.
	SaveRadioStatus(ctx context.Context, status RadioStatus) error
}

// CountryResolver maps callsigns to DXCC entities at a date.
type CountryResolver interface {
	Lookup(callsign string, at time.Time) (dxcc.Result, error)
}

// Service runs logbook operations against a store.
type Service struct {
	store     Store
	countries CountryResolver
	now       func() time.Time
}

// NewService returns a service over store and countries.
func NewService(store Store, countries CountryResolver) *Service {
	return &Service{
		store:     store,
		countries: countries,
		now:       func() time.Time { return time.Now().UTC() },
	}
}
