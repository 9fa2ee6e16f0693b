// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func collectRecords(t *testing.T, reader *ADIFReader) ([]Record, []error) {
	t.Helper()

	var (
		records []Record
		errs    []error
	)

	for reader.Next() {
		records = append(records, reader.Record())
		errs = append(errs, reader.Err())
	}

	return records, errs
}

func TestADIFReaderSkipsHeaderAndReadsRecords(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"Exported log",
		"<ADIF_VER:5>3.1.4 <PROGRAMID:7>skywave",
		"<EOH>",
		"<call:5>ab1cd<qso_date:8>20240102<time_on:6>130501<band:3>20m<country:5>Japan<eor>",
		"<CALL:4>W1AW<QSO_DATE:8>20240103<TIME_ON:4>1305<MODE:3>SSB<EOR>",
	}, "\n")

	reader, err := NewADIFReader([]byte(content))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	if got := reader.Header().Get("programid"); got != "skywave" {
		t.Fatalf("expected header programid skywave, got %q", got)
	}

	records, errs := collectRecords(t, reader)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	for i, err := range errs {
		if err != nil {
			t.Fatalf("record %d: unexpected error %v", i, err)
		}
	}

	if records[0].Get("CALL") != "ab1cd" {
		t.Fatalf("expected raw call value ab1cd, got %q", records[0].Get("CALL"))
	}

	if records[0].Get("band") != "20m" || records[0].Get("country") != "Japan" {
		t.Fatalf("unexpected first record: %#v", records[0])
	}

	if records[1].Get("call") != "W1AW" || records[1].Get("mode") != "SSB" {
		t.Fatalf("expected case-insensitive tags to be read, got %#v", records[1])
	}
}

func TestADIFReaderWithoutHeader(t *testing.T) {
	t.Parallel()

	reader, err := NewADIFReader([]byte("<call:4>K1AB<freq:6:N>14.074<eor>"))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	records, _ := collectRecords(t, reader)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0].Get("freq") != "14.074" {
		t.Fatalf("expected typed field value 14.074, got %q", records[0].Get("freq"))
	}
}

func TestADIFReaderHeaderStartingWithField(t *testing.T) {
	t.Parallel()

	reader, err := NewADIFReader([]byte("<ADIF_VER:5>3.1.4<PROGRAMID:7>skywave<EOH>\n<call:4>K1AB<comment:5><eoh>x<eor>"))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	if got := reader.Header().Get("adif_ver"); got != "3.1.4" {
		t.Fatalf("expected header adif_ver 3.1.4, got %q", got)
	}

	records, _ := collectRecords(t, reader)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0].Get("call") != "K1AB" || records[0].Get("adif_ver") != "" {
		t.Fatalf("expected header fields to stay out of the record, got %#v", records[0])
	}

	if records[0].Get("comment") != "<eoh>" {
		t.Fatalf("expected comment value <eoh>, got %q", records[0].Get("comment"))
	}
}

func TestADIFReaderYieldsEmptyTerminalRecord(t *testing.T) {
	t.Parallel()

	reader, err := NewADIFReader([]byte("<call:4>K1AB<eor><eor><call:4>K2AB<eor>"))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	records, _ := collectRecords(t, reader)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if !records[1].Empty() {
		t.Fatalf("expected second record to be empty, got %#v", records[1])
	}
}

func TestADIFReaderRecordWithoutTrailingEOR(t *testing.T) {
	t.Parallel()

	reader, err := NewADIFReader([]byte("<call:4>K1AB<eor>\n<call:4>K2AB   \n"))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	records, _ := collectRecords(t, reader)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[1].Get("call") != "K2AB" {
		t.Fatalf("expected trailing record K2AB, got %#v", records[1])
	}
}

func TestADIFReaderReportsBadLengthPerRecord(t *testing.T) {
	t.Parallel()

	content := "<call:4>K1AB<eor><call:x>K2AB<eor><call:4>K3AB<eor>"

	reader, err := NewADIFReader([]byte(content))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	records, errs := collectRecords(t, reader)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if !errors.Is(errs[1], ErrADIFFieldLength) {
		t.Fatalf("expected ErrADIFFieldLength for record 2, got %v", errs[1])
	}

	if errs[0] != nil || errs[2] != nil {
		t.Fatalf("expected neighbouring records to parse, got %v and %v", errs[0], errs[2])
	}

	if records[2].Get("call") != "K3AB" {
		t.Fatalf("expected reader to resume at K3AB, got %#v", records[2])
	}
}

func TestADIFReaderLengthPastEndOfPayload(t *testing.T) {
	t.Parallel()

	reader, err := NewADIFReader([]byte("<call:6>ABC"))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	if !reader.Next() {
		t.Fatal("expected a record carrying the error")
	}

	if !errors.Is(reader.Err(), ErrADIFFieldLength) {
		t.Fatalf("expected ErrADIFFieldLength, got %v", reader.Err())
	}

	if reader.Next() {
		t.Fatal("expected reader to be exhausted")
	}
}

func TestADIFReaderLengthOverflow(t *testing.T) {
	t.Parallel()

	reader, err := NewADIFReader([]byte("<call:999999999999999999999999999999>ABC<eor>"))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	if !reader.Next() || reader.Err() == nil {
		t.Fatal("expected error for length overflow record")
	}
}

func TestADIFReaderReset(t *testing.T) {
	t.Parallel()

	reader, err := NewADIFReader([]byte("header<eoh><call:4>K1AB<eor><call:4>K2AB<eor>"))
	if err != nil {
		t.Fatalf("NewADIFReader failed: %v", err)
	}

	first, _ := collectRecords(t, reader)
	reader.Reset()
	second, _ := collectRecords(t, reader)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 records on both passes, got %d and %d", len(first), len(second))
	}

	if second[0].Get("call") != "K1AB" {
		t.Fatalf("expected replay to start at K1AB, got %#v", second[0])
	}
}

func TestNewADIFReaderRejectsUndecodablePayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "plain text", payload: []byte("hello world")},
		{name: "tags without fields", payload: []byte("<eoh><eor>")},
		{name: "invalid utf8", payload: []byte{'<', 'c', 0xff, 0xfe, '>'}},
		{name: "header only", payload: []byte("notes <adif_ver:5>3.1.4 <eoh>")},
		{name: "tagged header only", payload: []byte("<ADIF_VER:5>3.1.4<PROGRAMID:7>skywave<EOH>\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewADIFReader(tt.payload); !errors.Is(err, ErrADIFUndecodable) {
				t.Fatalf("expected ErrADIFUndecodable, got %v", err)
			}
		})
	}
}

func TestParseADIFTimestamp(t *testing.T) {
	t.Parallel()

	expected := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

	parsed, err := ParseADIFTimestamp("20240102", "030405")
	if err != nil {
		t.Fatalf("ParseADIFTimestamp failed: %v", err)
	}

	if !parsed.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, parsed)
	}

	short, err := ParseADIFTimestamp("20240102", "0304")
	if err != nil {
		t.Fatalf("ParseADIFTimestamp with HHMM failed: %v", err)
	}

	if !short.Equal(time.Date(2024, time.January, 2, 3, 4, 0, 0, time.UTC)) {
		t.Fatalf("expected HHMM to be padded, got %v", short)
	}

	for _, tc := range [][2]string{
		{"202401", "030405"},
		{"20240102", "03"},
		{"20aa0102", "030405"},
		{"20240102", "0304aa"},
		{"20241302", "030405"},
	} {
		if _, err := ParseADIFTimestamp(tc[0], tc[1]); err == nil {
			t.Fatalf("expected error for %q %q", tc[0], tc[1])
		}
	}
}

func TestParseQSLStatus(t *testing.T) {
	t.Parallel()

	if got := ParseQSLStatus(" y "); got != QslYes || !got.Received() {
		t.Fatalf("expected received Y status, got %q", got)
	}

	if got := ParseQSLStatus("R"); got != QslRequested || got.Received() {
		t.Fatalf("expected requested status not received, got %q", got)
	}

	if got := ParseQSLStatus("maybe"); got != "" {
		t.Fatalf("expected unknown status to be empty, got %q", got)
	}
}
