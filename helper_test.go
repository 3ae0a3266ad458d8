// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package owl_test

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/owl"
	"github.com/bytemare/owl/internal"
	"github.com/bytemare/owl/internal/confirmation"
	"github.com/bytemare/owl/internal/curve"
	"github.com/bytemare/owl/internal/encoding"
	"github.com/bytemare/owl/internal/schnorr"
	"github.com/bytemare/owl/internal/tag"
	"github.com/bytemare/owl/internal/transcript"
	"github.com/bytemare/owl/message"
)

const (
	testUser     = "alice"
	testPassword = "correct horse battery staple"
	testServer   = "auth.example"
)

type configuration struct {
	conf  *owl.Configuration
	curve *curve.Curve
	name  string
}

var configurationTable = []*configuration{
	{name: "P-256", conf: &owl.Configuration{Curve: owl.P256}},
	{name: "P-384", conf: &owl.Configuration{Curve: owl.P384}},
	{name: "P-521", conf: &owl.Configuration{Curve: owl.P521}},
}

func init() {
	for _, c := range configurationTable {
		var err error
		if c.curve, err = curve.Get(curve.ID(c.conf.Curve)); err != nil {
			panic(err)
		}
	}
}

func testAll(t *testing.T, f func(t *testing.T, conf *configuration)) {
	for _, test := range configurationTable {
		t.Run(test.name, func(t *testing.T) {
			f(t, test)
		})
	}
}

func newClient(t testing.TB, conf *owl.Configuration, username, password, server string) *owl.Client {
	t.Helper()

	client, err := conf.Client(username, password, server)
	if err != nil {
		t.Fatal(err)
	}

	return client
}

var (
	errServerProof   = errors.New("server: invalid client proof")
	errServerR       = errors.New("server: password check failed")
	errServerKCTag   = errors.New("server: client key confirmation failed")
	errServerMessage = errors.New("server: invalid message")
)

// server plays the server's role of the protocol, to run full sessions against the client.
type server struct {
	curve *curve.Curve
	name  string

	// Registration record and long-term secret.
	user string
	pi   *big.Int
	T    *group.Element
	x3   *big.Int
	X3   *group.Element
	PI3  *schnorr.Proof

	// Session.
	x4, x4pi         *big.Int
	X1, X2, X4, Beta *group.Element
	PI1, PI2, PI4    *schnorr.Proof
	PIBeta           *schnorr.Proof
	sessionKey       *big.Int
	confirmationKey  *big.Int

	// lenient skips the verification of the client's values, to send a tag regardless.
	lenient bool
}

func newServer(t testing.TB, c *curve.Curve, name string, record *message.Registration) *server {
	t.Helper()

	s := &server{curve: c, name: name, user: record.User, pi: encoding.BytesInt(record.PI)}

	var err error
	if s.T, err = c.DecodePoint(record.T); err != nil {
		t.Fatal(err)
	}

	s.x3, s.X3, s.PI3 = s.keyPair(t, c.Generator())

	return s
}

func (s *server) keyPair(t testing.TB, g *group.Element) (*big.Int, *group.Element, *schnorr.Proof) {
	t.Helper()

	x, err := internal.RandomScalar(rand.Reader, s.curve.Order)
	if err != nil {
		t.Fatal(err)
	}

	X, err := s.curve.Multiply(g, x)
	if err != nil {
		t.Fatal(err)
	}

	proof, err := schnorr.Generate(s.curve, rand.Reader, g, x, X, s.name)
	if err != nil {
		t.Fatal(err)
	}

	return x, X, proof
}

func (s *server) decodeProof(v, r []byte) (*schnorr.Proof, error) {
	V, err := s.curve.DecodePoint(v)
	if err != nil {
		return nil, err
	}

	return &schnorr.Proof{V: V, R: encoding.BytesInt(r)}, nil
}

func (s *server) authInit(t testing.TB, m *message.AuthInit) (*message.ServerInit, error) {
	t.Helper()

	var err error

	if m.User != s.user {
		return nil, errServerMessage
	}

	if s.X1, err = s.curve.DecodePoint(m.X1); err != nil {
		return nil, errors.Join(errServerMessage, err)
	}

	if s.X2, err = s.curve.DecodePoint(m.X2); err != nil {
		return nil, errors.Join(errServerMessage, err)
	}

	if s.PI1, err = s.decodeProof(m.PI1V, m.PI1R); err != nil {
		return nil, errors.Join(errServerMessage, err)
	}

	if s.PI2, err = s.decodeProof(m.PI2V, m.PI2R); err != nil {
		return nil, errors.Join(errServerMessage, err)
	}

	g := s.curve.Generator()
	if !schnorr.Verify(s.curve, g, s.X1, s.PI1, s.user) || !schnorr.Verify(s.curve, g, s.X2, s.PI2, s.user) {
		return nil, errServerProof
	}

	s.x4, s.X4, s.PI4 = s.keyPair(t, g)

	gBeta := s.curve.Add(s.X1, s.X2, s.X3)
	s.x4pi = s.curve.ModN(new(big.Int).Mul(s.x4, s.pi))

	if s.Beta, err = s.curve.Multiply(gBeta, s.x4pi); err != nil {
		t.Fatal(err)
	}

	if s.PIBeta, err = schnorr.Generate(s.curve, rand.Reader, gBeta, s.x4pi, s.Beta, s.name); err != nil {
		t.Fatal(err)
	}

	return &message.ServerInit{
		X3:      s.X3.Encode(),
		X4:      s.X4.Encode(),
		PI3V:    s.PI3.Commitment(),
		PI4V:    s.PI4.Commitment(),
		PI3R:    encoding.IntBytes(s.PI3.R),
		PI4R:    encoding.IntBytes(s.PI4.R),
		Beta:    s.Beta.Encode(),
		PIBetaV: s.PIBeta.Commitment(),
		PIBetaR: encoding.IntBytes(s.PIBeta.R),
	}, nil
}

func (s *server) authVerify(t testing.TB, m *message.AuthVerify) (*message.ServerVerify, error) {
	t.Helper()

	alpha, err := s.curve.DecodePoint(m.Alpha)
	if err != nil {
		return nil, errors.Join(errServerMessage, err)
	}

	piAlpha, err := s.decodeProof(m.PIAlphaV, m.PIAlphaR)
	if err != nil {
		return nil, errors.Join(errServerMessage, err)
	}

	gAlpha := s.curve.Add(s.X1, s.X3, s.X4)
	if !schnorr.Verify(s.curve, gAlpha, alpha, piAlpha, s.user) && !s.lenient {
		return nil, errServerProof
	}

	// rawKey = (Alpha - X2·x4pi)·x4
	blind, _ := s.curve.Multiply(s.X2, s.x4pi)

	rawKey, err := s.curve.Multiply(s.curve.Subtract(alpha, blind), s.x4)
	if err != nil {
		t.Fatal(err)
	}

	if s.sessionKey, err = transcript.Hash(rawKey, tag.SessionKey); err != nil {
		t.Fatal(err)
	}

	if s.confirmationKey, err = transcript.Hash(rawKey, tag.ConfirmationKey); err != nil {
		t.Fatal(err)
	}

	h, err := transcript.HashModN(s.curve.Order,
		rawKey, s.user, s.X1, s.X2, s.PI1, s.PI2,
		s.name, s.X3, s.X4, s.PI3, s.PI4, s.Beta, s.PIBeta,
		alpha, piAlpha)
	if err != nil {
		t.Fatal(err)
	}

	// X1 == g·r + T·h
	gr, _ := s.curve.BaseMultiply(encoding.BytesInt(m.R))
	th, _ := s.curve.Multiply(s.T, h)

	if !s.curve.Equal(s.X1, s.curve.Add(gr, th)) && !s.lenient {
		return nil, errServerR
	}

	expected := confirmation.Tag(s.confirmationKey, tag.ClientKeyConfirmation,
		s.user, s.name, s.X1, s.X2, s.X3, s.X4)
	if !confirmation.Equal(expected, encoding.BytesInt(m.ClientKCTag)) && !s.lenient {
		return nil, errServerKCTag
	}

	serverTag := confirmation.Tag(s.confirmationKey, tag.ServerKeyConfirmation,
		s.name, s.user, s.X3, s.X4, s.X1, s.X2)

	return &message.ServerVerify{ServerKCTag: encoding.IntBytes(serverTag)}, nil
}

func (s *server) key() []byte {
	return s.sessionKey.FillBytes(make([]byte, 32))
}

// register runs a registration and returns a server holding the record.
func register(t testing.TB, conf *configuration, username, password, serverName string) *server {
	t.Helper()

	record, err := newClient(t, conf.conf, username, password, serverName).Register()
	if err != nil {
		t.Fatal(err)
	}

	return newServer(t, conf.curve, serverName, record)
}

// authenticate runs the login flow up to the client's AuthVerify.
func authenticate(t testing.TB, client *owl.Client, s *server) *message.AuthVerify {
	t.Helper()

	authInit, err := client.AuthInit()
	if err != nil {
		t.Fatal(err)
	}

	serverInit, err := s.authInit(t, authInit)
	if err != nil {
		t.Fatal(err)
	}

	authVerify, err := client.AuthVerify(serverInit)
	if err != nil {
		t.Fatal(err)
	}

	return authVerify
}

// highCoordinatePoint returns a valid point whose x-coordinate is in [N, P).
func highCoordinatePoint(t testing.TB, c *curve.Curve) *group.Element {
	t.Helper()

	x := new(big.Int).Set(c.Order)
	encoded := make([]byte, c.PointLength)
	encoded[0] = 0x02

	for range 1000 {
		x.FillBytes(encoded[1:])

		if p, err := c.DecodePoint(encoded); err == nil {
			return p
		}

		x.Add(x, big.NewInt(1))
	}

	t.Fatal("no point found with a high x-coordinate")

	return nil
}

func expectErrors(t testing.TB, err error, targets ...error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected error")
	}

	for _, target := range targets {
		if !errors.Is(err, target) {
			t.Fatalf("expected %q in the chain, got %+v", target, err)
		}
	}
}
