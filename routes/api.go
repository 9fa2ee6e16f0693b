/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/pd0mz/go-maidenhead"

	"github.com/humaidq/skywave/access"
	"github.com/humaidq/skywave/logbook"
	"github.com/humaidq/skywave/logging"
	"github.com/humaidq/skywave/metrics"
	"github.com/humaidq/skywave/qrz"
	"github.com/humaidq/skywave/utils"
)

var logger = logging.Logger(logging.SourceWeb)

const timestampLayout = "2006-01-02 15:04:05"

type qsoResponse struct {
	Status        string   `json:"status"`
	Type          string   `json:"type"`
	String        string   `json:"string"`
	ImportedCount int      `json:"imported_count"`
	Messages      []string `json:"messages"`
}

type workedCells struct {
	Any      bool `json:"any"`
	Band     bool `json:"band"`
	Mode     bool `json:"mode"`
	BandMode bool `json:"bandMode"`
}

type workedBeforeResponse struct {
	Callsign workedCells `json:"callsign"`
	DXCC     workedCells `json:"dxcc"`
	Info     struct {
		Band       string `json:"band"`
		Mode       string `json:"mode"`
		DXCC       int    `json:"dxcc"`
		DXCCEntity string `json:"dxccEntity"`
	} `json:"info"`
}

type confirmations struct {
	QSL  bool `json:"qsl"`
	LoTW bool `json:"lotw"`
	EQSL bool `json:"eqsl"`
	QRZ  bool `json:"qrz"`
}

type checkCountryResponse struct {
	WorkedBefore bool          `json:"workedBefore"`
	Confirmed    confirmations `json:"confirmed"`
}

type recentContact struct {
	Timestamp string `json:"timestamp"`
	Callsign  string `json:"callsign"`
	Name      string `json:"name"`
	Band      string `json:"band"`
	Mode      string `json:"mode"`
	RSTSent   string `json:"rst_sent"`
	RSTRcvd   string `json:"rst_rcvd"`
	Country   string `json:"country"`
	Comment   string `json:"comment"`
}

type lookupResponse struct {
	Callsign     string `json:"callsign"`
	DXCC         int    `json:"dxcc"`
	DXCCName     string `json:"dxcc_name"`
	CQZone       int    `json:"dxcc_cqz"`
	Continent    string `json:"dxcc_cont"`
	Suffix       string `json:"suffix,omitempty"`
	SuffixKind   string `json:"suffix_slash,omitempty"`
	WorkedBefore bool   `json:"workedBefore"`
	LastWorked   string `json:"last_worked,omitempty"`
	Name         string `json:"name,omitempty"`
	QTH          string `json:"qth,omitempty"`
	Gridsquare   string `json:"gridsquare,omitempty"`
	Distance     string `json:"distance,omitempty"`
	Bearing      string `json:"bearing,omitempty"`
}

type qrzLookupResponse struct {
	Callsign   string `json:"callsign"`
	Name       string `json:"name"`
	Gridsquare string `json:"gridsquare"`
	City       string `json:"city"`
	State      string `json:"state"`
	County     string `json:"us_county"`
	Country    string `json:"country"`
	DXCC       int    `json:"dxcc"`
	IOTA       string `json:"iota"`
	QSLManager string `json:"qsl_manager"`
	Image      string `json:"image"`
	Distance   string `json:"distance,omitempty"`
	Bearing    string `json:"bearing,omitempty"`
}

type stationInfo struct {
	ID         int64  `json:"station_id"`
	Name       string `json:"station_profile_name"`
	Gridsquare string `json:"station_gridsquare"`
	Callsign   string `json:"station_callsign"`
	Active     bool   `json:"station_active"`
}

type statisticsResponse struct {
	Today int64 `json:"Today"`
	Total int64 `json:"total_qsos"`
	Month int64 `json:"month_qsos"`
	Year  int64 `json:"year_qsos"`
}

func stationID(value flexString) (int64, error) {
	id, err := value.Int()
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidStation, string(value))
	}

	return id, nil
}

// PostQSO imports an ADIF batch into a station of the key's owner.
func PostQSO(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	req, err := decodeQSORequest(c)
	if err != nil {
		writeError(c, err)
		return
	}

	principal, err := gate.Authorize(ctx, req.Key, access.CapWrite)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	station, err := stationID(req.StationProfileID)
	if err != nil || station == 0 {
		writeError(c, errInvalidStation)
		return
	}

	if !strings.EqualFold(strings.TrimSpace(req.Type), logbook.PayloadTypeADIF) {
		writeError(c, fmt.Errorf("%w: %q", logbook.ErrUnsupportedPayloadType, req.Type))
		return
	}

	result, err := svc.Ingest(ctx, []byte(req.String), station, principal.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	metrics.ObserveImport(result.ImportedCount, len(result.Messages))

	writeJSON(c, http.StatusCreated, qsoResponse{
		Status:        "created",
		Type:          req.Type,
		String:        req.String,
		ImportedCount: result.ImportedCount,
		Messages:      result.Messages,
	})
}

// WorkedBefore reports the worked-before matrix for a callsign.
func WorkedBefore(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	var req workedBeforeRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	if _, err := gate.Authorize(ctx, req.Key, access.CapRead); err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	freq, err := req.Frequency.Float()
	if err != nil {
		writeError(c, fmt.Errorf("%w: %v", logbook.ErrInvalidFrequency, err))
		return
	}

	result, err := svc.WorkedBefore(ctx, logbook.WorkedBeforeQuery{
		LogbookSlug:  req.LogbookSlug,
		Callsign:     req.Callsign,
		FrequencyMHz: freq,
		Mode:         req.Mode,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	var resp workedBeforeResponse
	resp.Callsign = workedCells(result.Callsign)
	resp.DXCC = workedCells(result.DXCC)
	resp.Info.Band = result.Band
	resp.Info.Mode = result.MainMode
	resp.Info.DXCC = result.Entity.ID
	resp.Info.DXCCEntity = result.Entity.Name

	writeJSON(c, http.StatusOK, resp)
}

// CheckCountry reports whether a callsign's country was worked and confirmed.
func CheckCountry(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	var req checkCountryRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	if _, err := gate.Authorize(ctx, req.Key, access.CapRead); err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	result, err := svc.CountryWorked(ctx, logbook.CountryWorkedQuery{
		LogbookSlug: req.LogbookSlug,
		Callsign:    req.Callsign,
		Band:        req.Band,
		Mode:        req.Mode,
		Type:        req.Type,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	writeJSON(c, http.StatusCreated, checkCountryResponse{
		WorkedBefore: result.WorkedBefore,
		Confirmed:    confirmations(result.Confirmed),
	})
}

func foundLabel(found bool) string {
	if found {
		return "Found"
	}

	return "Not Found"
}

// CheckCallsign reports whether a callsign is in the logbook.
func CheckCallsign(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	var req checkCallsignRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	if _, err := gate.Authorize(ctx, req.Key, access.CapRead); err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	found, err := svc.CheckCallsign(ctx, req.LogbookSlug, req.Callsign, req.Band)
	if err != nil {
		writeError(c, err)
		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{
		"callsign": strings.ToUpper(strings.TrimSpace(req.Callsign)),
		"result":   foundLabel(found),
	})
}

// CheckGrid reports whether a grid square is in the logbook.
func CheckGrid(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	var req checkGridRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	if _, err := gate.Authorize(ctx, req.Key, access.CapRead); err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	found, err := svc.CheckGrid(ctx, req.LogbookSlug, req.Grid, req.Band)
	if err != nil {
		writeError(c, err)
		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{
		"gridsquare": strings.ToUpper(strings.TrimSpace(req.Grid)),
		"result":     foundLabel(found),
	})
}

// RecentQSOs lists the newest contacts of a logbook.
func RecentQSOs(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	var req recentRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	if _, err := gate.Authorize(ctx, req.Key, access.CapRead); err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	limit, err := req.Limit.Int()
	if err != nil {
		writeError(c, errInvalidLimit)
		return
	}

	contacts, err := svc.RecentContacts(ctx, req.LogbookSlug, int(limit))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]recentContact, 0, len(contacts))
	for _, contact := range contacts {
		resp = append(resp, recentContact{
			Timestamp: contact.Time.UTC().Format(timestampLayout),
			Callsign:  contact.Callsign,
			Name:      contact.Name,
			Band:      contact.Band,
			Mode:      contact.Mode,
			RSTSent:   contact.RSTSent,
			RSTRcvd:   contact.RSTRcvd,
			Country:   contact.Country,
			Comment:   contact.Comment,
		})
	}

	writeJSON(c, http.StatusOK, resp)
}

// Lookup resolves a callsign's entity and, for a station, its history.
func Lookup(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	var req lookupRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	principal, err := gate.Authorize(ctx, req.Key, access.CapRead)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	station, err := stationID(req.StationProfileID)
	if err != nil {
		writeError(c, err)
		return
	}

	info, err := svc.LookupCallsign(ctx, req.Callsign, station, principal.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := lookupResponse{
		Callsign:     info.Callsign,
		DXCC:         info.Entity.ID,
		DXCCName:     info.Entity.Name,
		CQZone:       info.Entity.CQZone,
		Continent:    info.Entity.Continent,
		Suffix:       info.Suffix,
		SuffixKind:   string(info.SuffixKind),
		WorkedBefore: info.WorkedBefore,
	}

	lat, long := info.Entity.Latitude, info.Entity.Longitude
	target := ""

	if last := info.LastContact; last != nil {
		resp.LastWorked = last.Time.UTC().Format(timestampLayout)
		resp.Name = last.Name
		resp.QTH = last.QTH
		resp.Gridsquare = last.Gridsquare
		target = last.Gridsquare
	}

	if info.Station != nil {
		resp.Distance, resp.Bearing = distanceBearing(info.Station.Gridsquare, target, &lat, &long)
	}

	writeJSON(c, http.StatusOK, resp)
}

// QRZLookup fetches a callsign's QRZ.com profile.
func QRZLookup(c flamego.Context, svc *logbook.Service, gate *access.Gate, directory *qrz.Client) {
	ctx := c.Request().Context()

	var req lookupRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	principal, err := gate.Authorize(ctx, req.Key, access.CapRead)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	id, err := stationID(req.StationProfileID)
	if err != nil {
		writeError(c, err)
		return
	}

	var station *logbook.Station

	if id > 0 {
		station, err = svc.OwnedStation(ctx, id, principal.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
	}

	profile, err := directory.Lookup(ctx, req.Callsign)
	if err != nil {
		if ctx.Err() != nil {
			logger.Debug("QRZ lookup abandoned by client", "callsign", req.Callsign, "error", err)
			return
		}

		switch {
		case errors.Is(err, qrz.ErrCallsignNotFound), errors.Is(err, qrz.ErrLookupFailed):
			metrics.QRZLookupCounter(metrics.QRZNotFound).Inc()
		default:
			metrics.QRZLookupCounter(metrics.QRZUnavailable).Inc()
		}

		writeError(c, &upstreamError{err: err})

		return
	}

	metrics.QRZLookupCounter(metrics.QRZFound).Inc()

	resp := qrzLookupResponse{
		Callsign:   profile.Callsign,
		Name:       profile.Name,
		Gridsquare: profile.Grid,
		City:       profile.City,
		State:      profile.State,
		County:     profile.County,
		Country:    profile.Country,
		DXCC:       profile.DXCC,
		IOTA:       profile.IOTA,
		QSLManager: profile.QSLManager,
		Image:      profile.Image,
	}

	if station != nil {
		resp.Distance, resp.Bearing = distanceBearing(station.Gridsquare, profile.Grid, profile.Lat, profile.Long)
	}

	writeJSON(c, http.StatusOK, resp)
}

// distanceBearing measures from a station locator to a target locator, or
// to the given coordinates when the target locator is unusable. Empty
// strings mean nothing could be measured.
func distanceBearing(fromGrid, toGrid string, lat, long *float64) (string, string) {
	from, err := utils.LocatorPoint(fromGrid)
	if err != nil {
		return "", ""
	}

	to, err := utils.LocatorPoint(toGrid)
	if err != nil {
		if lat == nil || long == nil {
			return "", ""
		}

		to = maidenhead.Point{Latitude: *lat, Longitude: *long}
	}

	km, bearing := utils.PointDistanceBearing(from, to)

	return utils.FormatDistance(km), utils.FormatBearing(bearing)
}

// Auth reports whether the key in the path is valid and its rights.
func Auth(c flamego.Context, gate *access.Gate) {
	principal, err := gate.Authorize(c.Request().Context(), c.Param("key"), access.CapRead)
	if err != nil {
		writeError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, map[string]string{
		"status": "valid",
		"rights": principal.Rights,
	})
}

// StationInfo lists the stations of the key's owner.
func StationInfo(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	principal, err := gate.Authorize(ctx, c.Param("key"), access.CapRead)
	if err != nil {
		writeError(c, err)
		return
	}

	stations, err := svc.Stations(ctx, principal.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]stationInfo, 0, len(stations))
	for _, station := range stations {
		resp = append(resp, stationInfo{
			ID:         station.ID,
			Name:       station.Name,
			Gridsquare: station.Gridsquare,
			Callsign:   station.Callsign,
			Active:     station.Active,
		})
	}

	writeJSON(c, http.StatusOK, resp)
}

// Radio stores the state a rig control client reports for one of the key
// owner's radios.
func Radio(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	var req radioRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	principal, err := gate.Authorize(ctx, req.Key, access.CapWrite)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := check(req); err != nil {
		writeError(c, err)
		return
	}

	status, err := radioStatus(req)
	if err != nil {
		writeError(c, err)
		return
	}

	status.UserID = principal.UserID

	if err := svc.UpdateRadio(ctx, status); err != nil {
		writeError(c, err)
		return
	}

	logger.Debug("Radio status updated", "radio", status.Radio, "frequency", status.FrequencyHz, "mode", status.Mode)

	writeJSON(c, http.StatusOK, map[string]string{"status": "success"})
}

func radioStatus(req radioRequest) (logbook.RadioStatus, error) {
	status := logbook.RadioStatus{
		Radio:    req.Radio,
		Mode:     req.Mode,
		ModeRx:   req.ModeRx,
		PropMode: req.PropMode,
		SatName:  req.SatName,
	}

	var err error

	if status.FrequencyHz, err = req.Frequency.Int(); err != nil {
		return status, fmt.Errorf("%w: frequency must be whole hertz", logbook.ErrInvalidRadioFrequency)
	}

	if status.FrequencyRxHz, err = req.FrequencyRx.Int(); err != nil {
		return status, fmt.Errorf("%w: frequency_rx must be whole hertz", logbook.ErrInvalidRadioFrequency)
	}

	if req.Power != "" {
		power, err := req.Power.Float()
		if err != nil {
			return status, fmt.Errorf("%w: %q", logbook.ErrInvalidRadioPower, string(req.Power))
		}

		status.PowerWatts = &power
	}

	if status.UpdatedAt, err = parseRadioTimestamp(req.Timestamp); err != nil {
		return status, err
	}

	return status, nil
}

// Statistics counts the contacts of the key owner for today, this month,
// this year and overall.
func Statistics(c flamego.Context, svc *logbook.Service, gate *access.Gate) {
	ctx := c.Request().Context()

	principal, err := gate.Authorize(ctx, c.Param("key"), access.CapRead)
	if err != nil {
		writeError(c, err)
		return
	}

	counts, err := svc.Statistics(ctx, principal.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, statisticsResponse{
		Today: counts.Today,
		Total: counts.Total,
		Month: counts.Month,
		Year:  counts.Year,
	})
}

// APINotFound answers unknown API paths in the API error format.
func APINotFound(c flamego.Context) {
	writeError(c, fmt.Errorf("%w: %s", errUnknownEndpoint, c.Request().URL.Path))
}
