/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package qrz

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlNode struct {
	Fields []xmlField `xml:",any"`
}

type xmlEnvelope struct {
	XMLName  xml.Name `xml:"QRZDatabase"`
	Version  string   `xml:"version,attr"`
	Session  xmlNode  `xml:"Session"`
	Callsign xmlNode  `xml:"Callsign"`
}

// response is a decoded QRZDatabase document with its nodes flattened.
type response struct {
	Version  string
	Session  fields
	Callsign fields
}

type fields map[string]string

// get matches a field name case-insensitively.
func (f fields) get(key string) string {
	if value, ok := f[strings.ToLower(key)]; ok {
		return value
	}

	return ""
}

func parseResponse(raw []byte) (*response, error) {
	var envelope xmlEnvelope

	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseMalformed, err)
	}

	return &response{
		Version:  strings.TrimSpace(envelope.Version),
		Session:  flatten(envelope.Session.Fields),
		Callsign: flatten(envelope.Callsign.Fields),
	}, nil
}

func flatten(nodes []xmlField) fields {
	result := make(fields, len(nodes))

	for _, node := range nodes {
		key := strings.ToLower(strings.TrimSpace(node.XMLName.Local))
		if key == "" {
			continue
		}

		result[key] = strings.TrimSpace(node.Value)
	}

	return result
}

// Profile is the directory record of one callsign.
type Profile struct {
	Callsign   string
	Name       string
	Grid       string
	City       string
	State      string
	County     string
	Country    string
	Lat        *float64
	Long       *float64
	DXCC       int
	IOTA       string
	QSLManager string
	Image      string
}

func profileFromFields(f fields) Profile {
	name := f.get("name_fmt")
	if name == "" {
		name = strings.TrimSpace(f.get("fname") + " " + f.get("name"))
	}

	dxcc, _ := strconv.Atoi(f.get("dxcc"))

	return Profile{
		Callsign:   strings.ToUpper(f.get("call")),
		Name:       name,
		Grid:       f.get("grid"),
		City:       f.get("addr2"),
		State:      f.get("state"),
		County:     f.get("county"),
		Country:    f.get("country"),
		Lat:        optionalFloat(f.get("lat")),
		Long:       optionalFloat(f.get("lon")),
		DXCC:       dxcc,
		IOTA:       f.get("iota"),
		QSLManager: f.get("qslmgr"),
		Image:      f.get("image"),
	}
}

func optionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}

	return &parsed
}
