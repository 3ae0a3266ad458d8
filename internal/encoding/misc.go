// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

import "math/big"

// Concatenate takes the variadic array of input and returns a concatenation of it.
func Concatenate(input ...[]byte) []byte {
	length := 0
	for _, b := range input {
		length += len(b)
	}

	buf := make([]byte, 0, length)

	for _, in := range input {
		buf = append(buf, in...)
	}

	return buf
}

// IntBytes returns the minimal big-endian representation of the non-negative integer i. Zero is encoded as a single
// 0x00 byte, and not as an empty slice.
func IntBytes(i *big.Int) []byte {
	if i.Sign() == 0 {
		return []byte{0}
	}

	return i.Bytes()
}

// BytesInt returns the unsigned big-endian integer encoded in b, or nil if b is empty.
func BytesInt(b []byte) *big.Int {
	if len(b) == 0 {
		return nil
	}

	return new(big.Int).SetBytes(b)
}
