// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package logbook

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUpdateRadioNormalizesAndStamps(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)

	err := service.UpdateRadio(context.Background(), RadioStatus{
		UserID:      testOwner,
		Radio:       " FT-950 ",
		FrequencyHz: 14075000,
		Mode:        "usb",
		PropMode:    "sat",
	})
	if err != nil {
		t.Fatalf("UpdateRadio failed: %v", err)
	}

	saved, ok := store.radios[testOwner.String()+"/FT-950"]
	if !ok {
		t.Fatalf("expected radio to be stored under its trimmed name, got %#v", store.radios)
	}

	if saved.Mode != "USB" || saved.PropMode != "SAT" || saved.FrequencyHz != 14075000 {
		t.Fatalf("unexpected stored status: %#v", saved)
	}

	if !saved.UpdatedAt.Equal(service.now()) {
		t.Fatalf("expected missing timestamp to default to now, got %s", saved.UpdatedAt)
	}

	reported := time.Date(2012, time.April, 7, 16, 47, 0, 0, time.UTC)
	if err := service.UpdateRadio(context.Background(), RadioStatus{UserID: testOwner, Radio: "FT-950", Mode: "CW", UpdatedAt: reported}); err != nil {
		t.Fatalf("UpdateRadio failed: %v", err)
	}

	if saved := store.radios[testOwner.String()+"/FT-950"]; saved.Mode != "CW" || !saved.UpdatedAt.Equal(reported) {
		t.Fatalf("expected second report to replace the first, got %#v", saved)
	}

	if len(store.radios) != 1 {
		t.Fatalf("expected one radio, got %d", len(store.radios))
	}
}

func TestUpdateRadioRejections(t *testing.T) {
	t.Parallel()

	negative := -5.0

	tests := []struct {
		name   string
		status RadioStatus
		want   error
	}{
		{name: "empty name", status: RadioStatus{UserID: testOwner, Radio: "  "}, want: ErrRadioNameEmpty},
		{name: "negative frequency", status: RadioStatus{UserID: testOwner, Radio: "IC-7300", FrequencyHz: -1}, want: ErrInvalidRadioFrequency},
		{name: "negative rx frequency", status: RadioStatus{UserID: testOwner, Radio: "IC-7300", FrequencyRxHz: -1}, want: ErrInvalidRadioFrequency},
		{name: "negative power", status: RadioStatus{UserID: testOwner, Radio: "IC-7300", PowerWatts: &negative}, want: ErrInvalidRadioPower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service, store := newTestService(t)

			if err := service.UpdateRadio(context.Background(), tt.status); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			if len(store.radios) != 0 {
				t.Fatalf("expected nothing stored, got %#v", store.radios)
			}
		})
	}
}

func TestUpdateRadioStoreFailure(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	store.failAfter = 0

	err := service.UpdateRadio(context.Background(), RadioStatus{UserID: testOwner, Radio: "IC-7300"})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}
