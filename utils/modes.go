/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import "strings"

// submodeFamilies maps ADIF submodes to the mode they belong to.
var submodeFamilies = map[string]string{
	"USB": "SSB",
	"LSB": "SSB",

	"PCW": "CW",

	"ASCI": "RTTY",

	"FSQCALL":  "MFSK",
	"FST4":     "MFSK",
	"FST4W":    "MFSK",
	"FT4":      "MFSK",
	"JS8":      "MFSK",
	"JTMS":     "MFSK",
	"MFSK4":    "MFSK",
	"MFSK8":    "MFSK",
	"MFSK11":   "MFSK",
	"MFSK16":   "MFSK",
	"MFSK22":   "MFSK",
	"MFSK31":   "MFSK",
	"MFSK32":   "MFSK",
	"MFSK64":   "MFSK",
	"MFSK64L":  "MFSK",
	"MFSK128":  "MFSK",
	"MFSK128L": "MFSK",
	"Q65":      "MFSK",

	"PSK31":   "PSK",
	"PSK63":   "PSK",
	"PSK63F":  "PSK",
	"PSK125":  "PSK",
	"PSK250":  "PSK",
	"PSK500":  "PSK",
	"PSK1000": "PSK",
	"BPSK31":  "PSK",
	"BPSK63":  "PSK",
	"BPSK125": "PSK",
	"QPSK31":  "PSK",
	"QPSK63":  "PSK",
	"QPSK125": "PSK",
	"QPSK250": "PSK",
	"QPSK500": "PSK",
	"8PSK125": "PSK",
	"8PSK250": "PSK",
	"8PSK500": "PSK",

	"JT65A": "JT65",
	"JT65B": "JT65",
	"JT65C": "JT65",

	"JT9-1":  "JT9",
	"JT9-2":  "JT9",
	"JT9-5":  "JT9",
	"JT9-10": "JT9",
	"JT9-30": "JT9",

	"JT4A": "JT4",
	"JT4B": "JT4",
	"JT4C": "JT4",
	"JT4D": "JT4",
	"JT4E": "JT4",
	"JT4F": "JT4",
	"JT4G": "JT4",

	"OLIVIA 4/125":   "OLIVIA",
	"OLIVIA 4/250":   "OLIVIA",
	"OLIVIA 8/250":   "OLIVIA",
	"OLIVIA 8/500":   "OLIVIA",
	"OLIVIA 16/500":  "OLIVIA",
	"OLIVIA 16/1000": "OLIVIA",
	"OLIVIA 32/1000": "OLIVIA",

	"C4FM":   "DIGITALVOICE",
	"DMR":    "DIGITALVOICE",
	"DSTAR":  "DIGITALVOICE",
	"FREEDV": "DIGITALVOICE",
	"M17":    "DIGITALVOICE",

	"FMHELL":   "HELL",
	"FSKHELL":  "HELL",
	"HELL80":   "HELL",
	"PSKHELL":  "HELL",
	"SLOWHELL": "HELL",

	"DOMINOEX": "DOMINO",
	"DOMINOF":  "DOMINO",

	"PAX":  "PAX",
	"PAX2": "PAX",
}

// MainMode collapses a mode or submode into its mode family, e.g. "USB" and
// "LSB" both become "SSB". Unknown modes are returned uppercased.
func MainMode(mode string) string {
	normalized := strings.ToUpper(strings.TrimSpace(mode))
	if family, ok := submodeFamilies[normalized]; ok {
		return family
	}

	return normalized
}

// DisplayMode returns the submode when present, otherwise the mode.
func DisplayMode(mode, submode string) string {
	if trimmed := strings.TrimSpace(submode); trimmed != "" {
		return trimmed
	}

	return strings.TrimSpace(mode)
}
