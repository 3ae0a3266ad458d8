// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message provides the messages exchanged during Owl registration and authentication.
//
// Group elements are carried as their compressed SEC1 encoding, and scalars and tags as their minimal big-endian
// encoding. The JSON encoding of these byte fields is standard base64.
package message

// Registration is the record sent once by the client to the server at registration, and stored by the server.
type Registration struct {
	User string `json:"User"`
	PI   []byte `json:"PI"`
	T    []byte `json:"T"`
}
