/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package qrz is a client for the QRZ.com XML callsign directory.
package qrz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/humaidq/skywave/logging"
)

const (
	// DefaultServiceURL is the QRZ XML endpoint.
	DefaultServiceURL = "https://xmldata.qrz.com/xml/current/"
	// DefaultAgent identifies the client to QRZ.
	DefaultAgent = "Skywave/1.0"

	requestTimeout = 30 * time.Second
)

var logger = logging.Logger(logging.SourceQRZ)

// Config holds credentials and endpoint settings.
type Config struct {
	Username   string
	Password   string
	Agent      string
	ServiceURL string
	Timeout    time.Duration
}

// Client looks up callsigns, keeping one session key shared by all callers.
type Client struct {
	cfg    Config
	http   *http.Client
	logins singleflight.Group

	mu         sync.Mutex
	sessionKey string
}

// New returns a client. Missing agent, URL and timeout take defaults.
func New(cfg Config) *Client {
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.Password = strings.TrimSpace(cfg.Password)

	if strings.TrimSpace(cfg.Agent) == "" {
		cfg.Agent = DefaultAgent
	}

	if cfg.ServiceURL == "" {
		cfg.ServiceURL = DefaultServiceURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = requestTimeout
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether credentials are set.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.Username != "" && c.cfg.Password != ""
}

// Lookup returns the directory profile of callsign. An expired session is
// renewed once.
func (c *Client) Lookup(ctx context.Context, callsign string) (*Profile, error) {
	if !c.Configured() {
		return nil, ErrCredentialsNotConfigured
	}

	callsign = strings.ToUpper(strings.TrimSpace(callsign))

	for attempt := 0; ; attempt++ {
		key, err := c.session(ctx)
		if err != nil {
			return nil, err
		}

		params := url.Values{}
		params.Set("s", key)
		params.Set("callsign", callsign)

		resp, err := c.request(ctx, params)
		if err != nil {
			return nil, err
		}

		sessionError := resp.Session.get("Error")

		switch {
		case sessionError == "" && len(resp.Callsign) > 0:
			profile := profileFromFields(resp.Callsign)
			return &profile, nil
		case strings.HasPrefix(strings.ToLower(sessionError), "not found"), sessionError == "":
			return nil, fmt.Errorf("%w: %s", ErrCallsignNotFound, callsign)
		case resp.Session.get("Key") == "" && attempt == 0:
			logger.Info("QRZ session expired, logging in again", "reason", sessionError)
			c.invalidate(key)

			continue
		default:
			return nil, fmt.Errorf("%w: %s", ErrLookupFailed, sessionError)
		}
	}
}

// session returns the cached session key or logs in. Concurrent logins are
// collapsed into one request.
func (c *Client) session(ctx context.Context) (string, error) {
	c.mu.Lock()
	key := c.sessionKey
	c.mu.Unlock()

	if key != "" {
		return key, nil
	}

	// The shared login outlives any single caller so one cancellation does
	// not fail everyone waiting on it.
	results := c.logins.DoChan("login", func() (any, error) {
		loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
		defer cancel()

		key, err := c.login(loginCtx)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.sessionKey = key
		c.mu.Unlock()

		return key, nil
	})

	var result singleflight.Result

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result = <-results:
	}

	if result.Err != nil {
		return "", result.Err
	}

	key, _ = result.Val.(string)

	return key, nil
}

func (c *Client) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionKey == key {
		c.sessionKey = ""
	}
}

func (c *Client) login(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("username", c.cfg.Username)
	params.Set("password", c.cfg.Password)
	params.Set("agent", c.cfg.Agent)

	resp, err := c.request(ctx, params)
	if err != nil {
		return "", err
	}

	if sessionError := resp.Session.get("Error"); sessionError != "" {
		logger.Warn("QRZ login rejected", "username", c.cfg.Username, "password", logging.MaskSecret(c.cfg.Password))
		return "", fmt.Errorf("%w: %s", ErrLoginFailed, sessionError)
	}

	key := resp.Session.get("Key")
	if key == "" {
		return "", ErrSessionKeyMissing
	}

	logger.Debug("QRZ session established", "version", resp.Version)

	return key, nil
}

func (c *Client) request(ctx context.Context, params url.Values) (*response, error) {
	endpoint, err := url.Parse(c.cfg.ServiceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceURLInvalid, err)
	}

	query := endpoint.Query()

	for key := range params {
		query.Set(key, params.Get(key))
	}

	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create qrz xml request: %w", err)
	}

	req.Header.Set("User-Agent", c.cfg.Agent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, redactURLError(err))
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close QRZ XML response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read qrz xml response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrAPIReturnedStatus, resp.StatusCode)
	}

	return parseResponse(body)
}

// Unavailable reports whether err means the directory could not be used at
// all, as opposed to a failed lookup. Client timeouts and transport failures
// count as unavailable; callers check their own context separately.
func Unavailable(err error) bool {
	if err == nil || errors.Is(err, ErrCallsignNotFound) || errors.Is(err, ErrLookupFailed) {
		return false
	}

	return true
}

// redactURLError drops the query string from a transport error. It carries the
// password on login and the session key on lookups.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	redacted := *urlErr

	if parsed, parseErr := url.Parse(urlErr.URL); parseErr == nil {
		parsed.RawQuery = ""
		parsed.User = nil
		redacted.URL = parsed.String()
	} else {
		redacted.URL = ""
	}

	return &redacted
}
