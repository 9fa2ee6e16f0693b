/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package logbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/humaidq/skywave/logging"
	"github.com/humaidq/skywave/utils"
)

var logger = logging.Logger(logging.SourceIngest)

// PayloadTypeADIF is the only accepted batch payload type.
const PayloadTypeADIF = "adif"

// ImportResult summarises one ingested batch.
type ImportResult struct {
	ImportedCount int
	Messages      []string
}

// Ingest imports an ADIF batch into a station owned by ownerID. Records are
// imported in source order. Records that fail validation or that the store
// declines are reported in Messages and skipped. A station callsign mismatch
// anywhere in the batch rejects the whole batch before anything is written.
func (s *Service) Ingest(ctx context.Context, payload []byte, stationID int64, ownerID uuid.UUID) (ImportResult, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return ImportResult{}, ErrEmptyPayload
	}

	station, err := s.OwnedStation(ctx, stationID, ownerID)
	if err != nil {
		return ImportResult{}, err
	}

	reader, err := utils.NewADIFReader(payload)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read batch: %w", err)
	}

	if err := checkStationCallsigns(reader, station.Callsign); err != nil {
		logger.Warn("Rejected batch", "station_id", station.ID, "error", err)
		return ImportResult{}, err
	}

	reader.Reset()

	result := ImportResult{Messages: []string{}}
	index := 0

	for reader.Next() {
		index++

		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("import interrupted at record %d: %w", index, err)
		}

		if err := reader.Err(); err != nil {
			result.Messages = append(result.Messages, fmt.Sprintf("Record %d: %v", index, err))
			continue
		}

		record := reader.Record()
		if record.Empty() {
			break
		}

		contact, err := ContactFromRecord(record, s.countries)
		if err != nil {
			result.Messages = append(result.Messages, fmt.Sprintf("Record %d: %v.", index, err))
			continue
		}

		contact.StationID = station.ID
		if contact.StationCallsign == "" {
			contact.StationCallsign = station.Callsign
		}

		message, err := s.store.ImportContact(ctx, contact)
		if err != nil {
			return result, fmt.Errorf("failed to import record %d: %w", index, err)
		}

		if message != "" {
			result.Messages = append(result.Messages, message)
			continue
		}

		result.ImportedCount++
	}

	logger.Info("Imported batch", "station_id", station.ID, "imported", result.ImportedCount, "messages", len(result.Messages))

	return result, nil
}

// OwnedStation returns the station when it exists and belongs to ownerID.
// Unknown and foreign stations are reported identically.
func (s *Service) OwnedStation(ctx context.Context, stationID int64, ownerID uuid.UUID) (*Station, error) {
	station, err := s.store.GetStation(ctx, stationID)
	if err != nil {
		if errors.Is(err, ErrStationNotFound) {
			return nil, ErrStationNotOwned
		}

		return nil, fmt.Errorf("failed to load station: %w", err)
	}

	if station.UserID != ownerID {
		return nil, ErrStationNotOwned
	}

	return station, nil
}

// Stations lists the stations of a user.
func (s *Service) Stations(ctx context.Context, ownerID uuid.UUID) ([]Station, error) {
	stations, err := s.store.ListStations(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	return stations, nil
}

// checkStationCallsigns scans up to the terminal record and fails on the
// first record naming a different station callsign.
func checkStationCallsigns(reader *utils.ADIFReader, callsign string) error {
	expected := strings.ToUpper(strings.TrimSpace(callsign))
	index := 0

	for reader.Next() {
		index++

		if reader.Err() != nil {
			continue
		}

		record := reader.Record()
		if record.Empty() {
			return nil
		}

		got := strings.ToUpper(record.Get("station_callsign"))
		if got != "" && got != expected {
			return fmt.Errorf("%w: record %d has %s, station is %s", ErrStationCallsignMismatch, index, got, expected)
		}
	}

	return nil
}

// ContactFromRecord validates an ADIF record and derives band, main mode and
// DXCC entity. countries may be nil, in which case the entity is only taken
// from the record.
func ContactFromRecord(record utils.Record, countries CountryResolver) (Contact, error) {
	callsign := strings.ToUpper(record.Get("call"))
	if callsign == "" {
		return Contact{}, errRecordCallsignEmpty
	}

	at, err := utils.ParseADIFTimestamp(record.Get("qso_date"), record.Get("time_on"))
	if err != nil {
		return Contact{}, fmt.Errorf("%w for %s", errRecordTimestamp, callsign)
	}

	mode := strings.ToUpper(record.Get("mode"))
	if mode == "" {
		return Contact{}, fmt.Errorf("%w for %s", errRecordModeEmpty, callsign)
	}

	contact := Contact{
		Callsign:        callsign,
		Time:            at,
		Mode:            mode,
		Submode:         strings.ToUpper(record.Get("submode")),
		MainMode:        utils.MainMode(mode),
		PropMode:        strings.ToUpper(record.Get("prop_mode")),
		SatName:         strings.ToUpper(record.Get("sat_name")),
		Country:         record.Get("country"),
		Gridsquare:      strings.ToUpper(record.Get("gridsquare")),
		Name:            record.Get("name"),
		QTH:             record.Get("qth"),
		Comment:         record.Get("comment"),
		RSTSent:         record.Get("rst_sent"),
		RSTRcvd:         record.Get("rst_rcvd"),
		StationCallsign: strings.ToUpper(record.Get("station_callsign")),
		Operator:        strings.ToUpper(record.Get("operator")),
		QSLRcvd:         utils.ParseQSLStatus(record.Get("qsl_rcvd")),
		LoTWRcvd:        utils.ParseQSLStatus(record.Get("lotw_qsl_rcvd")),
		EQSLRcvd:        utils.ParseQSLStatus(record.Get("eqsl_qsl_rcvd")),
		QRZDownload:     utils.ParseQSLStatus(record.Get("qrzcom_qso_download_status")),
	}

	if freq, err := strconv.ParseFloat(record.Get("freq"), 64); err == nil && freq > 0 {
		contact.FrequencyMHz = &freq
	}

	contact.Band = utils.NormalizeBand(record.Get("band"))
	if !utils.IsKnownBand(contact.Band) {
		contact.Band = ""

		if contact.FrequencyMHz != nil {
			if band, err := utils.BandFor(*contact.FrequencyMHz); err == nil {
				contact.Band = band
			}
		}
	}

	if contact.Band == "" {
		return Contact{}, fmt.Errorf("%w for %s", errRecordBandUnknown, callsign)
	}

	if id, err := strconv.Atoi(record.Get("dxcc")); err == nil && id > 0 {
		contact.DXCC = &id
	}

	if zone, err := strconv.Atoi(record.Get("cqz")); err == nil && zone > 0 {
		contact.CQZone = &zone
	}

	resolveEntity(&contact, countries)

	return contact, nil
}

// resolveEntity fills the DXCC fields the record left empty. A callsign the
// resolver cannot place is stored without an entity.
func resolveEntity(contact *Contact, countries CountryResolver) {
	if countries == nil || (contact.DXCC != nil && contact.Country != "" && contact.CQZone != nil) {
		return
	}

	result, err := countries.Lookup(contact.Callsign, contact.Time)
	if err != nil {
		logger.Debug("No DXCC entity for contact", "callsign", contact.Callsign, "error", err)
		return
	}

	if contact.DXCC != nil && *contact.DXCC != result.Entity.ID {
		return
	}

	if contact.DXCC == nil {
		id := result.Entity.ID
		contact.DXCC = &id
	}

	if contact.Country == "" {
		contact.Country = result.Entity.Name
	}

	if contact.CQZone == nil && result.Entity.CQZone > 0 {
		zone := result.Entity.CQZone
		contact.CQZone = &zone
	}
}
