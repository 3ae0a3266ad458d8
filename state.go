// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package owl

import (
	"math/big"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/owl/internal/schnorr"
)

// Phase is the step of the protocol a Client is in.
type Phase byte

const (
	// PhaseFresh is the phase of a new client.
	PhaseFresh Phase = iota

	// PhaseRegistered is the terminal phase after Register.
	PhaseRegistered

	// PhaseInitialized follows AuthInit.
	PhaseInitialized

	// PhaseVerified follows a successful AuthVerify.
	PhaseVerified

	// PhaseConfirmed is the terminal phase after the server's key confirmation was validated.
	PhaseConfirmed

	// PhaseAborted is the terminal phase reached on any failed verification. All secrets have been discarded.
	PhaseAborted
)

// String implements the fmt.Stringer interface.
func (p Phase) String() string {
	switch p {
	case PhaseFresh:
		return "fresh"
	case PhaseRegistered:
		return "registered"
	case PhaseInitialized:
		return "initialized"
	case PhaseVerified:
		return "verified"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// state is the payload of a phase. Each payload is only built from its predecessor's.
type state interface {
	phase() Phase
	flush()
}

type fresh struct{}

func (fresh) phase() Phase { return PhaseFresh }

func (fresh) flush() {}

type registered struct{}

func (registered) phase() Phase { return PhaseRegistered }

func (registered) flush() {}

type aborted struct{}

func (aborted) phase() Phase { return PhaseAborted }

func (aborted) flush() {}

// initialized holds the password scalars and the ephemeral secrets of AuthInit.
type initialized struct {
	t, pi    *big.Int
	x1, x2   *big.Int
	X1, X2   *group.Element
	PI1, PI2 *schnorr.Proof
}

func (*initialized) phase() Phase { return PhaseInitialized }

func (s *initialized) flush() {
	wipe(s.t, s.pi, s.x1, s.x2)
	*s = initialized{}
}

// verified holds what ValidateServer needs to check the server's tag, and the pending session key.
type verified struct {
	X1, X2, X3, X4  *group.Element
	confirmationKey *big.Int
	sessionKey      *big.Int
}

func (*verified) phase() Phase { return PhaseVerified }

func (s *verified) flush() {
	wipe(s.confirmationKey, s.sessionKey)
	*s = verified{}
}

type confirmed struct {
	sessionKey *big.Int
}

func (*confirmed) phase() Phase { return PhaseConfirmed }

func (s *confirmed) flush() {
	wipe(s.sessionKey)
	*s = confirmed{}
}

// wipe overwrites the integers' words with zeroes.
func wipe(secrets ...*big.Int) {
	for _, s := range secrets {
		if s == nil {
			continue
		}

		words := s.Bits()
		for i := range words {
			words[i] = 0
		}

		s.SetInt64(0)
	}
}
