// SPDX-License-Identifier: MIT
//
// Copyright (C) 2021-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package tag provides the static tag strings to Owl.
package tag

// These strings are the static labels used throughout the protocol.
const (
	// Key derivation labels.

	// SessionKey is the label hashed with the raw key to derive the session key.
	SessionKey = "session_key"

	// ConfirmationKey is the label hashed with the raw key to derive the key confirmation key.
	ConfirmationKey = "confirmation_key"

	// Key confirmation tags.

	// ClientKeyConfirmation is the client's key confirmation label.
	ClientKeyConfirmation = "KC_1_U"

	// ServerKeyConfirmation is the server's key confirmation label.
	ServerKeyConfirmation = "KC_1_V"
)
