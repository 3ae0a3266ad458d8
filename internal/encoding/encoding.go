// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding provides the canonical length-prefixed encoding used for every hash input of the protocol.
package encoding

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf16"

	group "github.com/bytemare/crypto"
)

const (
	// lengthPrefix is the byte size of the big-endian length in front of each encoded value.
	lengthPrefix = 4

	flagHighBit   = 0
	flagNoHighBit = 1
)

var (
	// ErrUnsupportedType is returned when a value can't be canonically encoded.
	ErrUnsupportedType = errors.New("unsupported type for canonical encoding")

	// ErrNegativeInteger is returned when encoding a negative integer.
	ErrNegativeInteger = errors.New("negative integer can't be canonically encoded")
)

// Proof is a Schnorr proof as seen by the encoder: a commitment point and a response scalar.
type Proof interface {
	Commitment() []byte
	Response() *big.Int
}

// Encode returns the canonical encoding of v, which can be one of []byte, string, *big.Int, *group.Element or Proof.
func Encode(v any) ([]byte, error) {
	switch v := v.(type) {
	case []byte:
		return encodeBytes(v), nil
	case string:
		return encodeString(v), nil
	case *big.Int:
		if v == nil {
			break
		}

		return encodeScalar(v)
	case *group.Element:
		if v == nil {
			break
		}

		return encodeBytes(v.Encode()), nil
	case Proof:
		if isNil(v) {
			break
		}

		return encodeProof(v)
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// EncodeAll returns the concatenation of the canonical encodings of all values, in order.
func EncodeAll(values ...any) ([]byte, error) {
	out := make([]byte, 0, len(values)*64)

	for i, v := range values {
		e, err := Encode(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}

		out = append(out, e...)
	}

	return out, nil
}

func isNil(p Proof) bool {
	return p.Response() == nil || p.Commitment() == nil
}

func prefixed(length int, data []byte) []byte {
	out := make([]byte, 0, lengthPrefix+len(data))
	out = append(out, I2OSP(length, lengthPrefix)...)

	return append(out, data...)
}

func encodeBytes(b []byte) []byte {
	return prefixed(len(b), b)
}

// encodeString prefixes the UTF-8 bytes with the number of UTF-16 code units of the string, which is the length peers
// compute for their identifiers. It equals the byte length for ASCII.
func encodeString(s string) []byte {
	return prefixed(len(utf16.Encode([]rune(s))), []byte(s))
}

// encodeScalar prepends a flag byte to the minimal big-endian encoding: 0 if the leading byte has its high bit set,
// 1 otherwise. It is not a sign, but peers include it in their hashes.
func encodeScalar(s *big.Int) ([]byte, error) {
	if s.Sign() < 0 {
		return nil, ErrNegativeInteger
	}

	i := IntBytes(s)
	buf := make([]byte, 0, 1+len(i))

	if i[0]&0x80 != 0 {
		buf = append(buf, flagHighBit)
	} else {
		buf = append(buf, flagNoHighBit)
	}

	buf = append(buf, i...)

	return encodeBytes(buf), nil
}

// encodeProof has no flag byte on the response, unlike a standalone scalar.
func encodeProof(p Proof) ([]byte, error) {
	r := p.Response()
	if r.Sign() < 0 {
		return nil, ErrNegativeInteger
	}

	return Concatenate(encodeBytes(p.Commitment()), encodeBytes(IntBytes(r))), nil
}
