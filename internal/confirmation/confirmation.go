// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package confirmation computes and compares the key confirmation tags.
package confirmation

import (
	"math/big"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/owl/internal"
	"github.com/bytemare/owl/internal/encoding"
)

// Tag returns HMAC(key, label || idA || idB || A1 || A2 || B1 || B2) read as an integer. The key is the minimal
// big-endian encoding of k, and the other inputs are concatenated raw, without length prefixes.
func Tag(k *big.Int, label, idA, idB string, a1, a2, b1, b2 *group.Element) *big.Int {
	message := encoding.Concatenate(
		[]byte(label),
		[]byte(idA),
		[]byte(idB),
		a1.Encode(),
		a2.Encode(),
		b1.Encode(),
		b2.Encode(),
	)

	return new(big.Int).SetBytes(internal.NewMac().MAC(encoding.IntBytes(k), message))
}

// Equal returns whether both tags are the same integer, in constant time with regard to their values. Tags longer
// than the MAC output never match.
func Equal(a, b *big.Int) bool {
	if a == nil || b == nil || a.Sign() < 0 || b.Sign() < 0 {
		return false
	}

	mac := internal.NewMac()
	size := mac.Size()

	if a.BitLen() > 8*size || b.BitLen() > 8*size {
		return false
	}

	return mac.Equal(a.FillBytes(make([]byte, size)), b.FillBytes(make([]byte, size)))
}
