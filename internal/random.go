// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"errors"
	"fmt"
	"io"
	"math/big"
)

// ErrEmptyRange is returned when sampling from a range without any value.
var ErrEmptyRange = errors.New("empty sampling range")

// RandomBytes returns length random bytes read from r.
func RandomBytes(r io.Reader, length int) ([]byte, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("unexpected error in generating random bytes : %w", err)
	}

	return b, nil
}

// RandomInRange returns an integer drawn uniformly from [low, high] by rejection sampling: random bytes of the byte
// length of the range are drawn, the bits above the range's bit length are cleared, and the draw is repeated as long as
// the result does not fall within the range.
func RandomInRange(r io.Reader, low, high *big.Int) (*big.Int, error) {
	size := new(big.Int).Sub(high, low)
	size.Add(size, big.NewInt(1))

	if size.Sign() <= 0 {
		return nil, ErrEmptyRange
	}

	bitLen := size.BitLen()
	byteLen := (bitLen + 7) / 8
	mask := byte(0xff >> (8*byteLen - bitLen))
	candidate := new(big.Int)

	for {
		b, err := RandomBytes(r, byteLen)
		if err != nil {
			return nil, err
		}

		b[0] &= mask

		if candidate.SetBytes(b).Cmp(size) < 0 {
			return candidate.Add(candidate, low), nil
		}
	}
}

// RandomScalar returns a scalar drawn uniformly from [1, n-1].
func RandomScalar(r io.Reader, n *big.Int) (*big.Int, error) {
	return RandomInRange(r, big.NewInt(1), new(big.Int).Sub(n, big.NewInt(1)))
}
