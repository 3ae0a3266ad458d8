// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package message

// AuthInit is the first message of the login flow, created by the client and sent to the server.
type AuthInit struct {
	User string `json:"User"`
	X1   []byte `json:"X1"`
	X2   []byte `json:"X2"`
	PI1V []byte `json:"PI1_V"`
	PI2V []byte `json:"PI2_V"`
	PI1R []byte `json:"PI1_R"`
	PI2R []byte `json:"PI2_R"`
}

// ServerInit is the server's response to AuthInit.
type ServerInit struct {
	X3      []byte `json:"X3"`
	X4      []byte `json:"X4"`
	PI3V    []byte `json:"PI3_V"`
	PI4V    []byte `json:"PI4_V"`
	PI3R    []byte `json:"PI3_R"`
	PI4R    []byte `json:"PI4_R"`
	Beta    []byte `json:"Beta"`
	PIBetaV []byte `json:"PIBeta_V"`
	PIBetaR []byte `json:"PIBeta_R"`
}

// AuthVerify is the client's response to ServerInit. It proves knowledge of the password and carries the client's
// key confirmation tag.
type AuthVerify struct {
	Alpha       []byte `json:"Alpha"`
	PIAlphaV    []byte `json:"PIAlpha_V"`
	PIAlphaR    []byte `json:"PIAlpha_R"`
	R           []byte `json:"R"`
	ClientKCTag []byte `json:"ClientKCTag"`
}

// ServerVerify is the last message of the login flow, carrying the server's key confirmation tag.
type ServerVerify struct {
	ServerKCTag []byte `json:"ServerKCTag"`
}
