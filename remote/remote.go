// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package remote runs the Owl registration and login flows against a server over HTTP.
//
// Messages are exchanged as JSON. Registration is a single POST to /register, and login two PUTs to /login/init and
// /login/verify carrying the same X-Request-Id header. Any non-2xx response fails the step, and there are no retries.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bytemare/owl/message"
)

const (
	// RegisterPath is the registration endpoint.
	RegisterPath = "/register"

	// LoginInitPath is the endpoint receiving the AuthInit message.
	LoginInitPath = "/login/init"

	// LoginVerifyPath is the endpoint receiving the AuthVerify message.
	LoginVerifyPath = "/login/verify"

	// RequestIDHeader carries the identifier correlating the two requests of a login.
	RequestIDHeader = "X-Request-Id"

	maxResponseSize = 1 << 16
)

// ErrStatus indicates that the server answered with a non-2xx status.
var ErrStatus = errors.New("unexpected HTTP status")

// Client sends the protocol messages to a server.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	baseURL string
}

// New returns a Client for the server at baseURL. A nil httpClient selects http.DefaultClient, and a nil logger
// discards records.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		http:    httpClient,
		logger:  logger,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Register sends the registration record.
func (c *Client) Register(ctx context.Context, record *message.Registration) error {
	_, err := c.exchange(ctx, http.MethodPost, RegisterPath, "", record)
	return err
}

// LoginInit sends the AuthInit message, and returns the server's raw response.
func (c *Client) LoginInit(ctx context.Context, requestID string, m *message.AuthInit) ([]byte, error) {
	return c.exchange(ctx, http.MethodPut, LoginInitPath, requestID, m)
}

// LoginVerify sends the AuthVerify message, and returns the server's raw response.
func (c *Client) LoginVerify(ctx context.Context, requestID string, m *message.AuthVerify) ([]byte, error) {
	return c.exchange(ctx, http.MethodPut, LoginVerifyPath, requestID, m)
}

func (c *Client) exchange(ctx context.Context, method, path, requestID string, in any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding request to %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request to %s: %w", path, err)
	}

	req.Header.Set("Content-Type", "application/json")

	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", path, err)
	}

	c.logger.Debug("request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s: %s", ErrStatus, method, path, resp.Status)
	}

	return out, nil
}
