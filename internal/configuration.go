// SPDX-License-Identifier: MIT
//
// Copyright (C) 2021-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate Owl that are not part of the public API.
package internal

import (
	"io"
	"log/slog"

	"github.com/bytemare/owl/internal/curve"
	"github.com/bytemare/owl/internal/ksf"
)

// Configuration is the resolved configuration shared by the components of a client.
type Configuration struct {
	Curve  *curve.Curve
	KSF    *ksf.KSF
	Random io.Reader
	Logger *slog.Logger
}

// DiscardLogger returns a logger that drops all records.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
