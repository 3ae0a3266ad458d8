// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package remote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bytemare/owl"
)

// Credentials identify the user and the server.
type Credentials struct {
	Username string
	Password string
	Server   string
}

// RegisterUser registers the credentials on the server.
func (c *Client) RegisterUser(ctx context.Context, conf *owl.Configuration, creds *Credentials) error {
	client, err := owl.NewClient(conf, creds.Username, creds.Password, creds.Server)
	if err != nil {
		return err
	}

	record, err := client.Register()
	if err != nil {
		return err
	}

	return c.Register(ctx, record)
}

// Login authenticates to the server with the credentials, and returns the session key.
func (c *Client) Login(ctx context.Context, conf *owl.Configuration, creds *Credentials) ([]byte, error) {
	client, err := owl.NewClient(conf, creds.Username, creds.Password, creds.Server)
	if err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	logger := c.logger.With(slog.String("request_id", requestID))

	authInit, err := client.AuthInit()
	if err != nil {
		return nil, err
	}

	raw, err := c.LoginInit(ctx, requestID, authInit)
	if err != nil {
		return nil, fmt.Errorf("login init: %w", err)
	}

	serverInit, err := client.Deserialize.ServerInit(raw)
	if err != nil {
		return nil, err
	}

	authVerify, err := client.AuthVerify(serverInit)
	if err != nil {
		return nil, err
	}

	raw, err = c.LoginVerify(ctx, requestID, authVerify)
	if err != nil {
		return nil, fmt.Errorf("login verify: %w", err)
	}

	serverVerify, err := client.Deserialize.ServerVerify(raw)
	if err != nil {
		return nil, err
	}

	if err = client.ValidateServer(serverVerify); err != nil {
		return nil, err
	}

	logger.Debug("login complete")

	return client.SessionKey()
}
