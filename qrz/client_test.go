// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package qrz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	loginXML    = `<?xml version="1.0"?><QRZDatabase version="1.34"><Session><Key>test-session-key</Key><GMTime>Fri Feb 13 15:00:00 2026</GMTime></Session></QRZDatabase>`
	timeoutXML  = `<?xml version="1.0"?><QRZDatabase version="1.34"><Session><Error>Session Timeout</Error></Session></QRZDatabase>`
	callsignXML = `<?xml version="1.0"?><QRZDatabase version="1.34"><Callsign><call>A65RW</call><fname>Reiner</fname><name>Klohn</name><addr2>Ajman</addr2><country>United Arab Emirates</country><lat>25.407897</lat><lon>55.590072</lon><grid>LL75tj</grid><dxcc>391</dxcc><iota>AS-021</iota><qslmgr>direct</qslmgr></Callsign><Session><Key>test-session-key</Key></Session></QRZDatabase>`
)

type fakeDirectory struct {
	logins   atomic.Int32
	password string
}

func (d *fakeDirectory) handler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/xml")

	if r.Form.Get("username") != "" {
		d.logins.Add(1)

		if r.Form.Get("password") != d.password {
			_, _ = w.Write([]byte(`<?xml version="1.0"?><QRZDatabase version="1.34"><Session><Error>Username/password incorrect</Error></Session></QRZDatabase>`))
			return
		}

		_, _ = w.Write([]byte(loginXML))

		return
	}

	if r.Form.Get("s") != "test-session-key" {
		_, _ = w.Write([]byte(timeoutXML))
		return
	}

	if strings.EqualFold(r.Form.Get("callsign"), "A65RW") {
		_, _ = w.Write([]byte(callsignXML))
		return
	}

	_, _ = fmt.Fprintf(w, `<?xml version="1.0"?><QRZDatabase version="1.34"><Session><Key>test-session-key</Key><Error>Not found: %s</Error></Session></QRZDatabase>`, r.Form.Get("callsign"))
}

func newTestClient(t *testing.T, password string) (*Client, *fakeDirectory) {
	t.Helper()

	directory := &fakeDirectory{password: "demo-pass"}
	server := httptest.NewServer(http.HandlerFunc(directory.handler))
	t.Cleanup(server.Close)

	return New(Config{Username: "demo", Password: password, ServiceURL: server.URL}), directory
}

func TestLookupReturnsProfile(t *testing.T) {
	t.Parallel()

	client, directory := newTestClient(t, "demo-pass")

	profile, err := client.Lookup(context.Background(), "a65rw")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if profile.Callsign != "A65RW" || profile.Name != "Reiner Klohn" || profile.City != "Ajman" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if profile.DXCC != 391 || profile.Grid != "LL75tj" || profile.IOTA != "AS-021" {
		t.Fatalf("unexpected profile fields: %+v", profile)
	}

	if profile.Lat == nil || *profile.Lat != 25.407897 {
		t.Fatalf("expected latitude 25.407897, got %v", profile.Lat)
	}

	if _, err := client.Lookup(context.Background(), "A65RW"); err != nil {
		t.Fatalf("second Lookup failed: %v", err)
	}

	if got := directory.logins.Load(); got != 1 {
		t.Fatalf("expected session to be reused, got %d logins", got)
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, "demo-pass")

	_, err := client.Lookup(context.Background(), "N0WHERE")
	if !errors.Is(err, ErrCallsignNotFound) {
		t.Fatalf("expected ErrCallsignNotFound, got %v", err)
	}

	if Unavailable(err) {
		t.Fatal("expected not found to leave the directory available")
	}
}

func TestLookupRenewsExpiredSession(t *testing.T) {
	t.Parallel()

	client, directory := newTestClient(t, "demo-pass")
	client.sessionKey = "stale-key"

	if _, err := client.Lookup(context.Background(), "A65RW"); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if got := directory.logins.Load(); got != 1 {
		t.Fatalf("expected one login after expiry, got %d", got)
	}
}

func TestLookupLoginFailures(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, "wrong")

	_, err := client.Lookup(context.Background(), "A65RW")
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}

	if !Unavailable(err) {
		t.Fatal("expected login failure to mark the directory unavailable")
	}

	unconfigured := New(Config{})
	if _, err := unconfigured.Lookup(context.Background(), "A65RW"); !errors.Is(err, ErrCredentialsNotConfigured) {
		t.Fatalf("expected ErrCredentialsNotConfigured, got %v", err)
	}
}

func TestLookupStatusAndMalformedResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name:    "status",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			want:    ErrAPIReturnedStatus,
		},
		{
			name:    "malformed",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("<html>")) },
			want:    ErrResponseMalformed,
		},
		{
			name: "missing key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<?xml version="1.0"?><QRZDatabase version="1.34"><Session></Session></QRZDatabase>`))
			},
			want: ErrSessionKeyMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := New(Config{Username: "demo", Password: "demo-pass", ServiceURL: server.URL})
			if _, err := client.Lookup(context.Background(), "A65RW"); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConcurrentLookupsShareLogin(t *testing.T) {
	t.Parallel()

	client, directory := newTestClient(t, "demo-pass")

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := client.Lookup(context.Background(), "A65RW"); err != nil {
				t.Errorf("Lookup failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if got := directory.logins.Load(); got > 8 || got < 1 {
		t.Fatalf("expected between 1 and 8 logins, got %d", got)
	}
}

func TestLookupTimeoutMarksDirectoryUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(loginXML))
	}))
	t.Cleanup(server.Close)

	client := New(Config{Username: "demo", Password: "demo-pass", ServiceURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := client.Lookup(context.Background(), "A65RW")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}

	if !Unavailable(err) {
		t.Fatalf("expected client timeout to mark the directory unavailable, got %v", err)
	}
}

func TestTransportErrorsOmitCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	serviceURL := server.URL
	server.Close()

	client := New(Config{Username: "demo", Password: "s3cret-pass", ServiceURL: serviceURL})

	_, err := client.Lookup(context.Background(), "A65RW")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed on login, got %v", err)
	}

	if strings.Contains(err.Error(), "s3cret-pass") || strings.Contains(err.Error(), "password=") {
		t.Fatalf("expected password to be left out of %q", err.Error())
	}

	client.sessionKey = "s3cret-session-key"

	_, err = client.Lookup(context.Background(), "A65RW")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed on lookup, got %v", err)
	}

	if strings.Contains(err.Error(), "s3cret-session-key") || strings.Contains(err.Error(), "A65RW") {
		t.Fatalf("expected session key and query to be left out of %q", err.Error())
	}
}

func TestCanceledCallerLeavesSharedLoginRunning(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectory{password: "demo-pass"}
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "" {
			select {
			case started <- struct{}{}:
			default:
			}

			<-release
		}

		directory.handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := New(Config{Username: "demo", Password: "demo-pass", ServiceURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)

	go func() {
		_, err := client.Lookup(ctx, "A65RW")
		first <- err
	}()

	<-started

	second := make(chan error, 1)

	go func() {
		_, err := client.Lookup(context.Background(), "A65RW")
		second <- err
	}()

	cancel()

	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the canceled caller to see context.Canceled, got %v", err)
	}

	close(release)

	if err := <-second; err != nil {
		t.Fatalf("expected the waiting caller to succeed, got %v", err)
	}

	if got := directory.logins.Load(); got != 1 {
		t.Fatalf("expected one shared login, got %d", got)
	}
}
