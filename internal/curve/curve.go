// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package curve holds the parameters of the supported NIST curves and the point and scalar conversions on them.
package curve

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"filippo.io/nistec"
	group "github.com/bytemare/crypto"
)

// ID identifies a curve by its bit-strength label.
type ID uint16

const (
	// P256 identifies the NIST P-256 curve.
	P256 ID = 256

	// P384 identifies the NIST P-384 curve.
	P384 ID = 384

	// P521 identifies the NIST P-521 curve.
	P521 ID = 521
)

const (
	p256PointLength  = 33
	p256ScalarLength = 32
	p384PointLength  = 49
	p384ScalarLength = 48
	p521PointLength  = 67
	p521ScalarLength = 66
)

var (
	// ErrUnknownCurve is returned for an unsupported curve identifier.
	ErrUnknownCurve = errors.New("unknown curve")

	// ErrPointEncoding indicates that the input is not the encoding of a point on the curve.
	ErrPointEncoding = errors.New("invalid point encoding")

	// ErrIdentity indicates that the point is the identity element.
	ErrIdentity = errors.New("point is the identity element")

	// ErrScalarRange indicates that a scalar is not in [0, N).
	ErrScalarRange = errors.New("scalar out of range")
)

// Curve holds a group and its parameters.
type Curve struct {
	// Order is the prime order N of the group.
	Order *big.Int

	// Cofactor is the ratio between the number of points on the curve and Order.
	Cofactor *big.Int

	affine       func(encoded []byte) (x, y *big.Int, err error)
	Group        group.Group
	ID           ID
	PointLength  int
	ScalarLength int
}

var curves = map[ID]*Curve{
	P256: newCurve(P256, group.P256Sha256, elliptic.P256(), p256PointLength, p256ScalarLength,
		affineFrom(nistec.NewP256Point, p256ScalarLength)),
	P384: newCurve(P384, group.P384Sha384, elliptic.P384(), p384PointLength, p384ScalarLength,
		affineFrom(nistec.NewP384Point, p384ScalarLength)),
	P521: newCurve(P521, group.P521Sha512, elliptic.P521(), p521PointLength, p521ScalarLength,
		affineFrom(nistec.NewP521Point, p521ScalarLength)),
}

func newCurve(
	id ID,
	g group.Group,
	c elliptic.Curve,
	pointLength, scalarLength int,
	affine func([]byte) (*big.Int, *big.Int, error),
) *Curve {
	params := c.Params()

	return &Curve{
		Order:        new(big.Int).Set(params.N),
		Cofactor:     big.NewInt(1),
		affine:       affine,
		Group:        g,
		ID:           id,
		PointLength:  pointLength,
		ScalarLength: scalarLength,
	}
}

// Get returns the curve for the identifier.
func Get(id ID) (*Curve, error) {
	c, ok := curves[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCurve, id)
	}

	return c, nil
}

// Available returns whether the identifier is a supported curve.
func (id ID) Available() bool {
	_, ok := curves[id]
	return ok
}

// String implements the fmt.Stringer interface.
func (id ID) String() string {
	switch id {
	case P256:
		return "P-256"
	case P384:
		return "P-384"
	case P521:
		return "P-521"
	default:
		return fmt.Sprintf("unknown curve (%d)", uint16(id))
	}
}

// Generator returns a copy of the group's base point.
func (c *Curve) Generator() *group.Element {
	return c.Group.Base()
}

// ModN returns x mod N, always in [0, N).
func (c *Curve) ModN(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, c.Order)
}

// Scalar converts x, which must be in [0, N), to a group scalar.
func (c *Curve) Scalar(x *big.Int) (*group.Scalar, error) {
	if x == nil || x.Sign() < 0 || x.Cmp(c.Order) >= 0 {
		return nil, ErrScalarRange
	}

	s := c.Group.NewScalar()
	if err := s.Decode(x.FillBytes(make([]byte, c.ScalarLength))); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScalarRange, err)
	}

	return s, nil
}

// Multiply returns a new element set to p·(k mod N), leaving p untouched.
func (c *Curve) Multiply(p *group.Element, k *big.Int) (*group.Element, error) {
	if p == nil || k == nil {
		return nil, ErrScalarRange
	}

	s, err := c.Scalar(c.ModN(k))
	if err != nil {
		return nil, err
	}

	return p.Copy().Multiply(s), nil
}

// BaseMultiply returns g·(k mod N).
func (c *Curve) BaseMultiply(k *big.Int) (*group.Element, error) {
	return c.Multiply(c.Generator(), k)
}

// Add returns the sum of the points, leaving them untouched.
func (c *Curve) Add(first *group.Element, others ...*group.Element) *group.Element {
	sum := first.Copy()
	for _, p := range others {
		sum.Add(p)
	}

	return sum
}

// Subtract returns a - b, leaving a and b untouched.
func (c *Curve) Subtract(a, b *group.Element) *group.Element {
	return a.Copy().Subtract(b)
}

// Equal returns whether both elements have the same encoding.
func (c *Curve) Equal(a, b *group.Element) bool {
	if a == nil || b == nil {
		return false
	}

	return string(a.Encode()) == string(b.Encode())
}

// DecodePoint decodes and validates a point encoding, and rejects the identity element.
func (c *Curve) DecodePoint(encoded []byte) (*group.Element, error) {
	if len(encoded) == 0 {
		return nil, ErrPointEncoding
	}

	if _, _, err := c.affine(encoded); err != nil {
		return nil, err
	}

	e := c.Group.NewElement()
	if err := e.Decode(encoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPointEncoding, err)
	}

	if e.IsIdentity() {
		return nil, ErrIdentity
	}

	return e, nil
}

// Affine returns the affine coordinates of p. It fails for the identity element.
func (c *Curve) Affine(p *group.Element) (x, y *big.Int, err error) {
	if p == nil || p.IsIdentity() {
		return nil, nil, ErrIdentity
	}

	return c.affine(p.Encode())
}

type nistecPoint[P any] interface {
	Bytes() []byte
	SetBytes(b []byte) (P, error)
}

// affineFrom returns a function decoding a point with the given nistec constructor, and returning its coordinates of
// size bytes each.
func affineFrom[P nistecPoint[P]](newPoint func() P, size int) func([]byte) (*big.Int, *big.Int, error) {
	return func(encoded []byte) (*big.Int, *big.Int, error) {
		p, err := newPoint().SetBytes(encoded)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrPointEncoding, err)
		}

		// The identity is encoded as a single 0x00 byte.
		uncompressed := p.Bytes()
		if len(uncompressed) != 1+2*size {
			return nil, nil, ErrIdentity
		}

		x := new(big.Int).SetBytes(uncompressed[1 : 1+size])
		y := new(big.Int).SetBytes(uncompressed[1+size:])

		return x, y, nil
	}
}
