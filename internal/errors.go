// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import "errors"

var (
	// ErrEmptyUsername indicates that the client identity is empty.
	ErrEmptyUsername = errors.New("empty username")

	// ErrEmptyServer indicates that the server identity is empty.
	ErrEmptyServer = errors.New("empty server identity")

	// ErrSameIdentity indicates that client and server share the same identity.
	ErrSameIdentity = errors.New("username and server identity must be different")

	// ErrInvalidKSF indicates an unavailable key stretching function.
	ErrInvalidKSF = errors.New("invalid KSF identifier")

	// ErrNilMessage indicates that a nil message was received.
	ErrNilMessage = errors.New("nil message")

	// ErrPhase indicates that an operation was called in the wrong phase.
	ErrPhase = errors.New("operation not allowed in the current phase")

	// ErrPeerValue indicates that a group element received from the peer is invalid.
	ErrPeerValue = errors.New("invalid peer group element")

	// ErrTagMismatch indicates that the peer's key confirmation tag did not match the expected one.
	ErrTagMismatch = errors.New("key confirmation tag mismatch")
)
