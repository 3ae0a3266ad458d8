// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package owl

import (
	"encoding/json"
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/owl/internal"
	"github.com/bytemare/owl/internal/curve"
	"github.com/bytemare/owl/internal/encoding"
	"github.com/bytemare/owl/internal/schnorr"
	"github.com/bytemare/owl/message"
)

var (
	errMissingField  = errors.New("missing field")
	errInvalidLength = errors.New("invalid point length for the configuration")
)

// Deserializer exposes the message deserialization functions.
type Deserializer struct {
	conf *internal.Configuration
}

// ServerInit takes a JSON encoded ServerInit message and returns it deserialized. Only the presence and the sizes of
// the fields are checked here: group elements and proofs are validated by the client.
func (d *Deserializer) ServerInit(data []byte) (*message.ServerInit, error) {
	m := new(message.ServerInit)
	if err := json.Unmarshal(data, m); err != nil {
		return nil, ErrMessage.Join(err)
	}

	fields := []struct {
		value []byte
		name  string
		point bool
	}{
		{m.X3, "X3", true},
		{m.X4, "X4", true},
		{m.PI3V, "PI3_V", true},
		{m.PI4V, "PI4_V", true},
		{m.PI3R, "PI3_R", false},
		{m.PI4R, "PI4_R", false},
		{m.Beta, "Beta", true},
		{m.PIBetaV, "PIBeta_V", true},
		{m.PIBetaR, "PIBeta_R", false},
	}

	for _, f := range fields {
		if len(f.value) == 0 {
			return nil, ErrMessage.Join(fmt.Errorf("%w: %s", errMissingField, f.name))
		}

		if f.point && len(f.value) != d.conf.Curve.PointLength {
			return nil, ErrMessage.Join(fmt.Errorf("%w: %s", errInvalidLength, f.name))
		}
	}

	return m, nil
}

// ServerVerify takes a JSON encoded ServerVerify message and returns it deserialized.
func (d *Deserializer) ServerVerify(data []byte) (*message.ServerVerify, error) {
	m := new(message.ServerVerify)
	if err := json.Unmarshal(data, m); err != nil {
		return nil, ErrMessage.Join(err)
	}

	if len(m.ServerKCTag) == 0 {
		return nil, ErrMessage.Join(fmt.Errorf("%w: ServerKCTag", errMissingField))
	}

	return m, nil
}

// serverInit is a ServerInit message whose group elements have been decoded and validated.
type serverInit struct {
	X3, X4, Beta     *group.Element
	PI3, PI4, PIBeta *schnorr.Proof
}

func decodeProof(c *curve.Curve, v, r []byte) (*schnorr.Proof, error) {
	V, err := c.DecodePoint(v)
	if err != nil {
		return nil, err
	}

	return &schnorr.Proof{V: V, R: encoding.BytesInt(r)}, nil
}

func decodeServerInit(c *curve.Curve, m *message.ServerInit) (*serverInit, error) {
	var (
		s   serverInit
		err error
	)

	if s.X3, err = c.DecodePoint(m.X3); err != nil {
		return nil, fmt.Errorf("X3: %w", err)
	}

	if s.X4, err = c.DecodePoint(m.X4); err != nil {
		return nil, fmt.Errorf("X4: %w", err)
	}

	if s.Beta, err = c.DecodePoint(m.Beta); err != nil {
		return nil, fmt.Errorf("Beta: %w", err)
	}

	if s.PI3, err = decodeProof(c, m.PI3V, m.PI3R); err != nil {
		return nil, fmt.Errorf("PI3: %w", err)
	}

	if s.PI4, err = decodeProof(c, m.PI4V, m.PI4R); err != nil {
		return nil, fmt.Errorf("PI4: %w", err)
	}

	if s.PIBeta, err = decodeProof(c, m.PIBetaV, m.PIBetaR); err != nil {
		return nil, fmt.Errorf("PIBeta: %w", err)
	}

	return &s, nil
}
