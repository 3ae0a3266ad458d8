// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package owl implements the client side of the Owl augmented password-authenticated key exchange.
//
// Owl is an augmented PAKE: the server only stores a verifier derived from the password, and the password is never
// sent. The client commits to two ephemeral secrets, proves knowledge of them with Schnorr zero-knowledge proofs, and
// binds its password to the whole transcript. Both parties then confirm the derived key with HMAC tags.
//
// A Client is single-use. Registration is one call:
//
//	client, _ := owl.DefaultConfiguration().Client(username, password, server)
//	record, _ := client.Register()
//
// Authentication takes two round trips:
//
//	client, _ := owl.DefaultConfiguration().Client(username, password, server)
//	authInit, _ := client.AuthInit()
//	// send authInit, receive serverInit
//	authVerify, err := client.AuthVerify(serverInit)
//	// send authVerify, receive serverVerify
//	err = client.ValidateServer(serverVerify)
//	sessionKey, _ := client.SessionKey()
//
// Any failed verification aborts the client. Use Redact on errors sent back to a peer.
package owl
