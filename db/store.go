/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/skywave/logbook"
	"github.com/humaidq/skywave/utils"
)

// Store implements logbook.Store on the shared connection pool.
type Store struct{}

// NewStore returns a store backed by the pool opened with Init.
func NewStore() *Store {
	return &Store{}
}

var _ logbook.Store = (*Store)(nil)

// GetStation returns a station profile by id.
func (s *Store) GetStation(ctx context.Context, id int64) (*logbook.Station, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, user_id, name, callsign, gridsquare, active
		FROM station_profiles
		WHERE id = $1
	`

	var (
		station logbook.Station
		grid    *string
	)

	err := pool.QueryRow(ctx, query, id).Scan(
		&station.ID,
		&station.UserID,
		&station.Name,
		&station.Callsign,
		&grid,
		&station.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, logbook.ErrStationNotFound
		}

		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	station.Gridsquare = deref(grid)

	return &station, nil
}

// ListStations returns the stations of a user ordered by id.
func (s *Store) ListStations(ctx context.Context, userID uuid.UUID) ([]logbook.Station, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, user_id, name, callsign, gridsquare, active
		FROM station_profiles
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	stations := []logbook.Station{}

	for rows.Next() {
		var (
			station logbook.Station
			grid    *string
		)

		if err := rows.Scan(&station.ID, &station.UserID, &station.Name, &station.Callsign, &grid, &station.Active); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}

		station.Gridsquare = deref(grid)
		stations = append(stations, station)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stations: %w", err)
	}

	return stations, nil
}

// LogbookLocations returns the station ids linked to the logbook with the given public slug.
func (s *Store) LogbookLocations(ctx context.Context, slug string) ([]int64, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var logbookID int64

	err := pool.QueryRow(ctx, `SELECT id FROM logbooks WHERE public_slug = $1`, slug).Scan(&logbookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, logbook.ErrLogbookNotFound
		}

		return nil, fmt.Errorf("failed to get logbook: %w", err)
	}

	rows, err := pool.Query(ctx, `SELECT station_id FROM logbook_relationships WHERE logbook_id = $1 ORDER BY station_id`, logbookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query logbook locations: %w", err)
	}

	locations, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to collect logbook locations: %w", err)
	}

	return locations, nil
}

// ImportContact inserts a contact. A contact with the same station, callsign,
// time, band and main mode is left alone and reported as a duplicate.
func (s *Store) ImportContact(ctx context.Context, contact logbook.Contact) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	query := `
		INSERT INTO qsos (
			station_id, call, qso_time, band, mode, submode, main_mode, freq,
			prop_mode, sat_name, dxcc, country, cqz, gridsquare, name, qth,
			comment, rst_sent, rst_rcvd, station_callsign, operator,
			qsl_rcvd, lotw_qsl_rcvd, eqsl_qsl_rcvd, qrzcom_qso_download_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21,
			$22, $23, $24, $25
		)
		ON CONFLICT ON CONSTRAINT qsos_unique_contact DO NOTHING
		RETURNING id
	`

	var id uuid.UUID

	err := pool.QueryRow(ctx, query,
		contact.StationID,
		contact.Callsign,
		contact.Time.UTC(),
		contact.Band,
		contact.Mode,
		optional(contact.Submode),
		contact.MainMode,
		nullableValue(contact.FrequencyMHz),
		optional(contact.PropMode),
		optional(contact.SatName),
		nullableValue(contact.DXCC),
		optional(contact.Country),
		nullableValue(contact.CQZone),
		optional(contact.Gridsquare),
		optional(contact.Name),
		optional(contact.QTH),
		optional(contact.Comment),
		optional(contact.RSTSent),
		optional(contact.RSTRcvd),
		optional(contact.StationCallsign),
		optional(contact.Operator),
		optional(string(contact.QSLRcvd)),
		optional(string(contact.LoTWRcvd)),
		optional(string(contact.EQSLRcvd)),
		optional(string(contact.QRZDownload)),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return logbook.DuplicateMessage(contact), nil
		}

		return "", fmt.Errorf("failed to insert contact: %w", err)
	}

	return "", nil
}

// ContactExists reports whether any contact matches the query.
func (s *Store) ContactExists(ctx context.Context, query logbook.ContactQuery) (bool, error) {
	if pool == nil {
		return false, ErrDatabaseConnectionNotInitialized
	}

	where, args := contactFilter(query)

	var exists bool

	if err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM qsos WHERE `+where+`)`, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check contacts: %w", err)
	}

	return exists, nil
}

// RecentContacts returns the newest contacts of the given stations.
func (s *Store) RecentContacts(ctx context.Context, stationIDs []int64, limit int) ([]logbook.ContactSummary, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT qso_time, call, name, band, mode, submode, rst_sent, rst_rcvd, country, comment
		FROM qsos
		WHERE station_id = ANY($1)
		ORDER BY qso_time DESC
		LIMIT $2
	`

	rows, err := pool.Query(ctx, query, stationIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent contacts: %w", err)
	}
	defer rows.Close()

	contacts := []logbook.ContactSummary{}

	for rows.Next() {
		var (
			item                                              logbook.ContactSummary
			name, submode, rstSent, rstRcvd, country, comment *string
		)

		err := rows.Scan(&item.Time, &item.Callsign, &name, &item.Band, &item.Mode, &submode,
			&rstSent, &rstRcvd, &country, &comment)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}

		item.Mode = utils.DisplayMode(item.Mode, deref(submode))
		item.Name = deref(name)
		item.RSTSent = deref(rstSent)
		item.RSTRcvd = deref(rstRcvd)
		item.Country = deref(country)
		item.Comment = deref(comment)
		item.Time = item.Time.UTC()

		contacts = append(contacts, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// CountContacts counts the contacts of the given stations in total and since
// each window start.
func (s *Store) CountContacts(ctx context.Context, stationIDs []int64, windows logbook.CountWindows) (logbook.ContactCounts, error) {
	if pool == nil {
		return logbook.ContactCounts{}, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE qso_time >= $2),
			COUNT(*) FILTER (WHERE qso_time >= $3),
			COUNT(*) FILTER (WHERE qso_time >= $4),
			COUNT(*)
		FROM qsos
		WHERE station_id = ANY($1)
	`

	var counts logbook.ContactCounts

	err := pool.QueryRow(ctx, query, stationIDs, windows.Day.UTC(), windows.Month.UTC(), windows.Year.UTC()).Scan(
		&counts.Today,
		&counts.Month,
		&counts.Year,
		&counts.Total,
	)
	if err != nil {
		return logbook.ContactCounts{}, fmt.Errorf("failed to count contacts: %w", err)
	}

	return counts, nil
}

// LastContact returns the newest contact with callsign at the given stations.
func (s *Store) LastContact(ctx context.Context, stationIDs []int64, callsign string) (*logbook.Contact, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, station_id, call, qso_time, band, mode, submode, main_mode, freq,
			prop_mode, sat_name, dxcc, country, cqz, gridsquare, name, qth, comment,
			rst_sent, rst_rcvd, station_callsign, operator,
			qsl_rcvd, lotw_qsl_rcvd, eqsl_qsl_rcvd, qrzcom_qso_download_status
		FROM qsos
		WHERE station_id = ANY($1) AND call = $2
		ORDER BY qso_time DESC
		LIMIT 1
	`

	var (
		c                                               logbook.Contact
		submode, propMode, satName, country, grid, name *string
		qth, comment, rstSent, rstRcvd, stationCall, op *string
		qslRcvd, lotwRcvd, eqslRcvd, qrzDownload        *string
	)

	err := pool.QueryRow(ctx, query, stationIDs, strings.ToUpper(strings.TrimSpace(callsign))).Scan(
		&c.ID, &c.StationID, &c.Callsign, &c.Time, &c.Band, &c.Mode, &submode, &c.MainMode, &c.FrequencyMHz,
		&propMode, &satName, &c.DXCC, &country, &c.CQZone, &grid, &name, &qth, &comment,
		&rstSent, &rstRcvd, &stationCall, &op,
		&qslRcvd, &lotwRcvd, &eqslRcvd, &qrzDownload,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, logbook.ErrContactNotFound
		}

		return nil, fmt.Errorf("failed to get last contact: %w", err)
	}

	c.Time = c.Time.UTC()
	c.Submode = deref(submode)
	c.PropMode = deref(propMode)
	c.SatName = deref(satName)
	c.Country = deref(country)
	c.Gridsquare = deref(grid)
	c.Name = deref(name)
	c.QTH = deref(qth)
	c.Comment = deref(comment)
	c.RSTSent = deref(rstSent)
	c.RSTRcvd = deref(rstRcvd)
	c.StationCallsign = deref(stationCall)
	c.Operator = deref(op)
	c.QSLRcvd = utils.ParseQSLStatus(deref(qslRcvd))
	c.LoTWRcvd = utils.ParseQSLStatus(deref(lotwRcvd))
	c.EQSLRcvd = utils.ParseQSLStatus(deref(eqslRcvd))
	c.QRZDownload = utils.ParseQSLStatus(deref(qrzDownload))

	return &c, nil
}

// confirmationColumns maps confirmation channels to their status column.
var confirmationColumns = map[logbook.Channel]string{
	logbook.ChannelQSL:  "qsl_rcvd",
	logbook.ChannelLoTW: "lotw_qsl_rcvd",
	logbook.ChannelEQSL: "eqsl_qsl_rcvd",
	logbook.ChannelQRZ:  "qrzcom_qso_download_status",
}

// contactFilter builds the WHERE clause and arguments for a contact query.
func contactFilter(query logbook.ContactQuery) (string, []any) {
	args := []any{query.StationIDs}
	conditions := []string{"station_id = ANY($1)"}

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, strings.ReplaceAll(condition, "?", "$"+strconv.Itoa(len(args))))
	}

	if query.Callsign != "" {
		add("call = ?", query.Callsign)
	}

	if query.DXCC != nil {
		add("dxcc = ?", *query.DXCC)
	}

	if query.GridPrefix != "" {
		add("LEFT(gridsquare, 4) = ?", strings.ToUpper(query.GridPrefix))
	}

	switch query.Prop {
	case logbook.PropSatellite:
		conditions = append(conditions, "UPPER(COALESCE(prop_mode, '')) = '"+logbook.PropModeSatellite+"'")
	case logbook.PropTerrestrial:
		conditions = append(conditions, "UPPER(COALESCE(prop_mode, '')) <> '"+logbook.PropModeSatellite+"'")
	}

	if query.Prop != logbook.PropSatellite {
		if query.Band != "" {
			add("band = ?", query.Band)
		}

		if query.MainMode != "" {
			add("main_mode = ?", query.MainMode)
		}
	}

	if column, ok := confirmationColumns[query.Confirmed]; ok {
		conditions = append(conditions, column+" = '"+string(utils.QslYes)+"'")
	}

	return strings.Join(conditions, " AND "), args
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

func nullableValue[T any](value *T) any {
	if value == nil {
		return nil
	}

	return *value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}
