// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package owl

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytemare/ksf"

	"github.com/bytemare/owl/internal"
	"github.com/bytemare/owl/internal/curve"
	internalKSF "github.com/bytemare/owl/internal/ksf"
)

// Curve identifies the NIST curve the protocol runs on, by its bit-strength label.
type Curve uint16

const (
	// P256 identifies the NIST P-256 curve.
	P256 = Curve(curve.P256)

	// P384 identifies the NIST P-384 curve.
	P384 = Curve(curve.P384)

	// P521 identifies the NIST P-521 curve.
	P521 = Curve(curve.P521)
)

// Available returns whether the Curve is supported.
func (c Curve) Available() bool {
	return curve.ID(c).Available()
}

// String implements the fmt.Stringer interface.
func (c Curve) String() string {
	return curve.ID(c).String()
}

// ParseCurve returns the curve named by s, which can be its bit-strength label ("256") or its name ("P256" or
// "P-256"), case-insensitive.
func ParseCurve(s string) (Curve, error) {
	name := strings.TrimPrefix(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", ""), "P")

	for _, c := range []Curve{P256, P384, P521} {
		if name == fmt.Sprint(uint16(c)) {
			return c, nil
		}
	}

	return 0, ErrConfiguration.Join(fmt.Errorf("%w: %q", curve.ErrUnknownCurve, s))
}

// Configuration represents the parameters shared by a client and the server it authenticates to.
type Configuration struct {
	// Logger receives the client's debug and failure records. A nil Logger discards them.
	Logger *slog.Logger `json:"-"`

	// KSFParameters overrides the default parameters of the key stretching function.
	KSFParameters []int `json:"ksfParameters,omitempty"`

	// KSFLength is the output length of the key stretching function. 0 selects the default.
	KSFLength int `json:"ksfLength,omitempty"`

	// KSF identifies the key stretching function applied to the password. 0 uses the password as is. Both peers
	// must agree on this value.
	KSF ksf.Identifier `json:"ksf"`

	// Curve identifies the group.
	Curve Curve `json:"curve"`
}

// DefaultConfiguration returns a default configuration with strong parameters.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Curve:         P256,
		KSF:           0,
		KSFParameters: nil,
		KSFLength:     0,
		Logger:        nil,
	}
}

// Verify returns an error on the first non-compliant parameter, nil otherwise.
func (c *Configuration) Verify() error {
	if !c.Curve.Available() {
		return ErrConfiguration.Join(fmt.Errorf("%w: %d", curve.ErrUnknownCurve, c.Curve))
	}

	if c.KSF != 0 && !c.KSF.Available() {
		return ErrConfiguration.Join(internal.ErrInvalidKSF)
	}

	return nil
}

// Client returns a newly instantiated Client for the given identities. The client is single-use: it can run one
// registration or one authentication attempt.
func (c *Configuration) Client(username, password, server string) (*Client, error) {
	switch {
	case username == "":
		return nil, ErrConfiguration.Join(internal.ErrEmptyUsername)
	case server == "":
		return nil, ErrConfiguration.Join(internal.ErrEmptyServer)
	case username == server:
		return nil, ErrConfiguration.Join(internal.ErrSameIdentity)
	}

	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return newClient(conf, username, password, server), nil
}

func (c *Configuration) toInternal() (*internal.Configuration, error) {
	if err := c.Verify(); err != nil {
		return nil, err
	}

	g, err := curve.Get(curve.ID(c.Curve))
	if err != nil {
		return nil, ErrConfiguration.Join(err)
	}

	k, err := internalKSF.New(c.KSF, c.KSFParameters, c.KSFLength)
	if err != nil {
		return nil, ErrConfiguration.Join(err)
	}

	logger := c.Logger
	if logger == nil {
		logger = internal.DiscardLogger()
	}

	return &internal.Configuration{
		Curve:  g,
		KSF:    k,
		Random: rand.Reader,
		Logger: logger.With(slog.String("curve", c.Curve.String())),
	}, nil
}
