// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package transcript hashes sequences of protocol values into integers.
package transcript

import (
	"math/big"

	"github.com/bytemare/owl/internal"
	"github.com/bytemare/owl/internal/encoding"
)

// Hash returns the SHA-256 digest of the concatenated canonical encodings of args, read as a big-endian unsigned
// integer. The result is not reduced.
func Hash(args ...any) (*big.Int, error) {
	input, err := encoding.EncodeAll(args...)
	if err != nil {
		return nil, err
	}

	h := internal.NewHash()
	h.Write(input)

	return new(big.Int).SetBytes(h.Sum()), nil
}

// HashModN returns Hash(args...) mod n.
func HashModN(n *big.Int, args ...any) (*big.Int, error) {
	d, err := Hash(args...)
	if err != nil {
		return nil, err
	}

	return d.Mod(d, n), nil
}
