/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// QSLStatus is an ADIF QSL received/sent enumeration value.
type QSLStatus string

// QSL status values used by the *_QSL_RCVD and QRZCOM_QSO_DOWNLOAD_STATUS fields.
const (
	QslYes       QSLStatus = "Y"
	QslNo        QSLStatus = "N"
	QslRequested QSLStatus = "R"
	QslIgnore    QSLStatus = "I"
	QslVerified  QSLStatus = "V"
)

// ParseQSLStatus normalizes a raw ADIF value; unknown values yield "".
func ParseQSLStatus(value string) QSLStatus {
	switch status := QSLStatus(strings.ToUpper(strings.TrimSpace(value))); status {
	case QslYes, QslNo, QslRequested, QslIgnore, QslVerified:
		return status
	default:
		return ""
	}
}

// Received reports whether the status marks a received confirmation.
func (s QSLStatus) Received() bool {
	return s == QslYes
}

// Record is one ADIF record keyed by lowercase field name.
type Record map[string]string

// Get returns the trimmed value of a field, matching the name case-insensitively.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[strings.ToLower(field)])
}

// Empty reports whether the record carries no fields.
func (r Record) Empty() bool {
	return len(r) == 0
}

// ADIFReader walks the records of an ADIF document one at a time. It keeps
// the whole payload in memory so the sequence can be restarted with Reset.
type ADIFReader struct {
	data      []byte
	bodyStart int
	pos       int
	header    Record
	record    Record
	err       error
}

// NewADIFReader prepares a reader over payload. It fails with
// ErrADIFUndecodable when the payload is not UTF-8 or has no ADIF field at all.
func NewADIFReader(payload []byte) (*ADIFReader, error) {
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrADIFUndecodable)
	}

	reader := &ADIFReader{data: payload}
	reader.bodyStart = reader.scanHeader()

	if !hasFieldSpecifier(payload[reader.bodyStart:]) {
		return nil, fmt.Errorf("%w: no ADIF fields found", ErrADIFUndecodable)
	}

	reader.pos = reader.bodyStart

	return reader, nil
}

// Header returns the fields declared before <EOH>.
func (r *ADIFReader) Header() Record {
	return r.header
}

// Reset rewinds the reader to the first record.
func (r *ADIFReader) Reset() {
	r.pos = r.bodyStart
	r.record = nil
	r.err = nil
}

// Next advances to the next record. It returns false once the payload is
// exhausted. A record terminated by <EOR> without fields is still returned
// so callers can treat it as an end-of-stream marker.
func (r *ADIFReader) Next() bool {
	r.record = nil
	r.err = nil

	if r.pos >= len(r.data) {
		return false
	}

	record := Record{}

	for {
		open := bytes.IndexByte(r.data[r.pos:], '<')
		if open < 0 {
			r.pos = len(r.data)
			break
		}

		tagStart := r.pos + open
		closeIdx := bytes.IndexByte(r.data[tagStart:], '>')

		if closeIdx < 0 {
			r.pos = len(r.data)
			break
		}

		tagEnd := tagStart + closeIdx
		spec := string(r.data[tagStart+1 : tagEnd])
		r.pos = tagEnd + 1

		name, length, hasLength, err := parseFieldSpecifier(spec)
		if err != nil {
			r.err = fmt.Errorf("field <%s>: %w", spec, err)
			r.skipToEndOfRecord()

			break
		}

		if name == "eor" {
			r.record = record

			return true
		}

		if !hasLength {
			continue
		}

		if r.pos+length > len(r.data) {
			r.err = fmt.Errorf("field <%s>: %w: value runs past end of payload", spec, ErrADIFFieldLength)
			r.pos = len(r.data)

			break
		}

		record[name] = string(r.data[r.pos : r.pos+length])
		r.pos += length
	}

	if len(record) == 0 && r.err == nil {
		return false
	}

	r.record = record

	return true
}

// Record returns the record loaded by the last call to Next.
func (r *ADIFReader) Record() Record {
	return r.record
}

// Err returns the parse error of the current record, if any. Errors are per
// record; the reader can continue with Next.
func (r *ADIFReader) Err() error {
	return r.err
}

func (r *ADIFReader) scanHeader() int {
	var eoh int

	// A header that opens with a field has to be walked tag by tag so a
	// value containing "<eoh>" is not mistaken for the end of the header.
	trimmed := bytes.TrimLeft(r.data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '<' {
		eoh = headerEnd(r.data)
	} else {
		eoh = bytes.Index(bytes.ToLower(r.data), []byte("<eoh>"))
	}

	if eoh < 0 {
		if first := bytes.IndexByte(r.data, '<'); first >= 0 {
			return first
		}

		return len(r.data)
	}

	header := Record{}
	headerReader := &ADIFReader{data: r.data[:eoh]}

	if first := bytes.IndexByte(headerReader.data, '<'); first >= 0 {
		headerReader.pos = first
		if headerReader.Next() {
			header = headerReader.Record()
		}
	}

	r.header = header

	return eoh + len("<eoh>")
}

// headerEnd returns the offset of the <eoh> tag when it comes before the
// first <eor>, or -1.
func headerEnd(data []byte) int {
	for pos := 0; pos < len(data); {
		open := bytes.IndexByte(data[pos:], '<')
		if open < 0 {
			return -1
		}

		start := pos + open

		closeIdx := bytes.IndexByte(data[start:], '>')
		if closeIdx < 0 {
			return -1
		}

		name, length, hasLength, err := parseFieldSpecifier(string(data[start+1 : start+closeIdx]))
		if err != nil {
			return -1
		}

		switch name {
		case "eoh":
			return start
		case "eor":
			return -1
		}

		pos = start + closeIdx + 1
		if hasLength {
			pos += length
		}
	}

	return -1
}

func (r *ADIFReader) skipToEndOfRecord() {
	lower := bytes.ToLower(r.data[r.pos:])

	idx := bytes.Index(lower, []byte("<eor>"))
	if idx < 0 {
		r.pos = len(r.data)
		return
	}

	r.pos += idx + len("<eor>")
}

func parseFieldSpecifier(spec string) (string, int, bool, error) {
	parts := strings.Split(spec, ":")
	name := strings.ToLower(strings.TrimSpace(parts[0]))

	if len(parts) == 1 {
		return name, 0, false, nil
	}

	length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return name, 0, false, fmt.Errorf("%w: %w", ErrADIFFieldLength, err)
	}

	if length < 0 {
		return name, 0, false, ErrADIFFieldLength
	}

	return name, length, true, nil
}

func hasFieldSpecifier(body []byte) bool {
	for offset := 0; offset < len(body); {
		open := bytes.IndexByte(body[offset:], '<')
		if open < 0 {
			return false
		}

		start := offset + open

		closeIdx := bytes.IndexByte(body[start:], '>')
		if closeIdx < 0 {
			return false
		}

		if bytes.IndexByte(body[start:start+closeIdx], ':') > 0 {
			return true
		}

		offset = start + closeIdx + 1
	}

	return false
}

// ParseADIFTimestamp combines an ADIF date (YYYYMMDD) and time (HHMM or
// HHMMSS) into a UTC timestamp.
func ParseADIFTimestamp(date, timeOn string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeOn = strings.TrimSpace(timeOn)

	if len(date) != 8 {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidDateFormat, date)
	}

	if len(timeOn) == 4 {
		timeOn += "00"
	}

	if len(timeOn) != 6 {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidTimeFormat, timeOn)
	}

	parsed, err := time.Parse("20060102150405", date+timeOn)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse adif timestamp %q: %w", date+timeOn, err)
	}

	return parsed, nil
}

// ParseADIFDate parses an ADIF date (YYYYMMDD).
func ParseADIFDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if len(date) != 8 {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidDateFormat, date)
	}

	parsed, err := time.Parse("20060102", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse adif date %q: %w", date, err)
	}

	return parsed, nil
}
