// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package schnorr implements non-interactive Schnorr proofs of knowledge of a discrete logarithm, made
// non-interactive with the Fiat-Shamir transform and bound to the prover's identity.
package schnorr

import (
	"errors"
	"io"
	"math/big"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/owl/internal"
	"github.com/bytemare/owl/internal/curve"
	"github.com/bytemare/owl/internal/transcript"
)

var (
	// ErrMissingValue indicates that the public key, the commitment, or the response is absent.
	ErrMissingValue = errors.New("missing proof value")

	// ErrResponseRange indicates a response outside [0, N).
	ErrResponseRange = errors.New("proof response out of range")

	// ErrInvalidPoint indicates a public key that is not a valid curve point.
	ErrInvalidPoint = errors.New("invalid public key")

	// ErrCoordinateRange indicates a public key with an affine coordinate outside [0, N-1].
	ErrCoordinateRange = errors.New("public key coordinate out of range")

	// ErrLowOrder indicates that the public key multiplied by the cofactor is the identity.
	ErrLowOrder = errors.New("public key has low order")

	// ErrProofMismatch indicates that the proof equation does not hold.
	ErrProofMismatch = errors.New("proof verification failed")
)

// Proof is a Schnorr proof (V, r) for a public key X = g·x, where V = g·v and r = v - x·h mod N.
type Proof struct {
	V *group.Element
	R *big.Int
}

// Commitment returns the encoding of V, or nil if absent.
func (p *Proof) Commitment() []byte {
	if p == nil || p.V == nil {
		return nil
	}

	return p.V.Encode()
}

// Response returns r, or nil if absent.
func (p *Proof) Response() *big.Int {
	if p == nil {
		return nil
	}

	return p.R
}

func challenge(c *curve.Curve, g, v, x *group.Element, prover string) (*big.Int, error) {
	return transcript.HashModN(c.Order, g, v, x, prover)
}

// Generate returns a proof of knowledge of x such that X = g·x, bound to the prover's identity.
func Generate(c *curve.Curve, random io.Reader, g *group.Element, x *big.Int, X *group.Element,
	prover string,
) (*Proof, error) {
	if g == nil || x == nil || X == nil {
		return nil, ErrMissingValue
	}

	v, err := internal.RandomScalar(random, c.Order)
	if err != nil {
		return nil, err
	}

	V, err := c.Multiply(g, v)
	if err != nil {
		return nil, err
	}

	h, err := challenge(c, g, V, X, prover)
	if err != nil {
		return nil, err
	}

	// r = v - x·h mod N
	r := new(big.Int).Mul(x, h)
	r.Sub(v, r)
	r.Mod(r, c.Order)

	return &Proof{V: V, R: r}, nil
}

// Check returns nil if the proof attests that the prover knows the discrete logarithm of X in base g, and a
// descriptive error otherwise.
func Check(c *curve.Curve, g, X *group.Element, proof *Proof, prover string) error {
	if g == nil || X == nil || proof == nil || proof.V == nil || proof.R == nil {
		return ErrMissingValue
	}

	if proof.R.Sign() < 0 || proof.R.Cmp(c.Order) >= 0 {
		return ErrResponseRange
	}

	x, y, err := c.Affine(X)
	if err != nil {
		return errors.Join(ErrInvalidPoint, err)
	}

	if x.Cmp(c.Order) >= 0 || y.Cmp(c.Order) >= 0 {
		return ErrCoordinateRange
	}

	hX, err := c.Multiply(X, c.Cofactor)
	if err != nil || hX.IsIdentity() {
		return ErrLowOrder
	}

	h, err := challenge(c, g, proof.V, X, prover)
	if err != nil {
		return err
	}

	gr, err := c.Multiply(g, proof.R)
	if err != nil {
		return err
	}

	xh, err := c.Multiply(X, h)
	if err != nil {
		return err
	}

	if !c.Equal(proof.V, c.Add(gr, xh)) {
		return ErrProofMismatch
	}

	return nil
}

// Verify returns whether the proof is valid. See Check for the reason of a failure.
func Verify(c *curve.Curve, g, X *group.Element, proof *Proof, prover string) bool {
	return Check(c, g, X, proof, prover) == nil
}
