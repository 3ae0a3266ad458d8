// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package owl

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/owl/internal"
	"github.com/bytemare/owl/internal/confirmation"
	"github.com/bytemare/owl/internal/encoding"
	"github.com/bytemare/owl/internal/schnorr"
	"github.com/bytemare/owl/internal/tag"
	"github.com/bytemare/owl/internal/transcript"
	"github.com/bytemare/owl/message"
)

// sessionKeyLength is the byte length of the exported session key.
const sessionKeyLength = 32

// Client represents an Owl client, exposing its functions and holding its state. A Client runs a single registration
// or a single authentication attempt, and is not safe for concurrent use.
type Client struct {
	Deserialize *Deserializer
	conf        *internal.Configuration
	state       state
	logger      *slog.Logger
	username    string
	password    string
	server      string
}

func newClient(conf *internal.Configuration, username, password, server string) *Client {
	return &Client{
		Deserialize: &Deserializer{conf: conf},
		conf:        conf,
		state:       fresh{},
		logger:      conf.Logger.With(slog.String("user", username), slog.String("server", server)),
		username:    username,
		password:    password,
		server:      server,
	}
}

// NewClient returns a new Client for the given identities. A nil configuration selects DefaultConfiguration.
func NewClient(c *Configuration, username, password, server string) (*Client, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	return c.Client(username, password, server)
}

// Phase returns the current phase of the client.
func (c *Client) Phase() Phase {
	return c.state.phase()
}

// Register returns the registration record to send to the server. The record only depends on the identities, the
// password and the configuration. The client can't be used afterwards.
func (c *Client) Register() (*message.Registration, error) {
	if _, ok := c.state.(fresh); !ok {
		return nil, c.sequenceError("Register")
	}

	t, pi, err := c.passwordScalars()
	if err != nil {
		return nil, c.abort(err)
	}

	T, err := c.conf.Curve.BaseMultiply(t)
	if err != nil {
		return nil, c.abort(ErrInternal.Join(err))
	}

	record := &message.Registration{
		User: c.username,
		PI:   encoding.IntBytes(pi),
		T:    T.Encode(),
	}

	wipe(t, pi)
	c.password = ""
	c.transition(registered{})

	return record, nil
}

// AuthInit starts the authentication, returning the first message to send to the server.
func (c *Client) AuthInit() (*message.AuthInit, error) {
	if _, ok := c.state.(fresh); !ok {
		return nil, c.sequenceError("AuthInit")
	}

	t, pi, err := c.passwordScalars()
	if err != nil {
		return nil, c.abort(err)
	}

	s := &initialized{t: t, pi: pi}

	s.x1, s.X1, s.PI1, err = c.ephemeralKeyPair()
	if err != nil {
		s.flush()
		return nil, c.abort(err)
	}

	s.x2, s.X2, s.PI2, err = c.ephemeralKeyPair()
	if err != nil {
		s.flush()
		return nil, c.abort(err)
	}

	c.password = ""
	c.transition(s)

	return &message.AuthInit{
		User: c.username,
		X1:   s.X1.Encode(),
		X2:   s.X2.Encode(),
		PI1V: s.PI1.Commitment(),
		PI2V: s.PI2.Commitment(),
		PI1R: encoding.IntBytes(s.PI1.R),
		PI2R: encoding.IntBytes(s.PI2.R),
	}, nil
}

// AuthVerify verifies the server's commitments and proofs, and returns the message proving knowledge of the password
// and carrying the client's key confirmation tag. On failure, the client is aborted.
func (c *Client) AuthVerify(m *message.ServerInit) (*message.AuthVerify, error) {
	s, ok := c.state.(*initialized)
	if !ok {
		return nil, c.sequenceError("AuthVerify")
	}

	if m == nil {
		return nil, ErrMessage.Join(internal.ErrNilMessage)
	}

	peer, err := decodeServerInit(c.conf.Curve, m)
	if err != nil {
		return nil, c.abort(failure(ErrCodeInvalidPoint, err))
	}

	cv := c.conf.Curve
	g := cv.Generator()

	if err = c.checkProof(g, peer.X3, peer.PI3, "PI3"); err != nil {
		return nil, c.abort(err)
	}

	if err = c.checkProof(g, peer.X4, peer.PI4, "PI4"); err != nil {
		return nil, c.abort(err)
	}

	gBeta := cv.Add(s.X1, s.X2, peer.X3)
	if err = c.checkProof(gBeta, peer.Beta, peer.PIBeta, "PIBeta"); err != nil {
		return nil, c.abort(err)
	}

	gAlpha := cv.Add(s.X1, peer.X3, peer.X4)
	x2pi := cv.ModN(new(big.Int).Mul(s.x2, s.pi))

	alpha, err := cv.Multiply(gAlpha, x2pi)
	if err != nil {
		wipe(x2pi)
		return nil, c.abort(ErrInternal.Join(err))
	}

	piAlpha, err := schnorr.Generate(cv, c.conf.Random, gAlpha, x2pi, alpha, c.username)
	if err != nil {
		wipe(x2pi)
		return nil, c.abort(ErrInternal.Join(err))
	}

	rawKey, err := c.rawKey(peer, s.x2, x2pi)
	wipe(x2pi)

	if err != nil {
		return nil, c.abort(err)
	}

	keys, err := deriveKeys(rawKey)
	if err != nil {
		return nil, c.abort(err)
	}

	h, err := transcript.HashModN(cv.Order,
		rawKey, c.username, s.X1, s.X2, s.PI1, s.PI2,
		c.server, peer.X3, peer.X4, peer.PI3, peer.PI4, peer.Beta, peer.PIBeta,
		alpha, piAlpha)
	if err != nil {
		keys.flush()
		return nil, c.abort(ErrEncoding.Join(err))
	}

	// r = x1 - t·h mod N
	r := new(big.Int).Mul(s.t, h)
	r.Sub(s.x1, r)
	r = cv.ModN(r)

	clientTag := confirmation.Tag(keys.confirmationKey, tag.ClientKeyConfirmation,
		c.username, c.server, s.X1, s.X2, peer.X3, peer.X4)

	keys.X1, keys.X2, keys.X3, keys.X4 = s.X1, s.X2, peer.X3, peer.X4
	c.transition(keys)

	return &message.AuthVerify{
		Alpha:       alpha.Encode(),
		PIAlphaV:    piAlpha.Commitment(),
		PIAlphaR:    encoding.IntBytes(piAlpha.R),
		R:           encoding.IntBytes(r),
		ClientKCTag: encoding.IntBytes(clientTag),
	}, nil
}

// ValidateServer checks the server's key confirmation tag. On success, the session key becomes available. On failure,
// the client is aborted.
func (c *Client) ValidateServer(m *message.ServerVerify) error {
	s, ok := c.state.(*verified)
	if !ok {
		return c.sequenceError("ValidateServer")
	}

	if m == nil {
		return ErrMessage.Join(internal.ErrNilMessage)
	}

	expected := confirmation.Tag(s.confirmationKey, tag.ServerKeyConfirmation,
		c.server, c.username, s.X3, s.X4, s.X1, s.X2)

	if !confirmation.Equal(expected, encoding.BytesInt(m.ServerKCTag)) {
		return c.abort(failure(ErrCodeKeyConfirmation, internal.ErrTagMismatch))
	}

	c.transition(&confirmed{sessionKey: new(big.Int).Set(s.sessionKey)})

	return nil
}

// SessionKey returns the 32-byte session key, once the server has been validated.
func (c *Client) SessionKey() ([]byte, error) {
	s, ok := c.state.(*confirmed)
	if !ok {
		return nil, c.sequenceError("SessionKey")
	}

	return s.sessionKey.FillBytes(make([]byte, sessionKeyLength)), nil
}

// passwordScalars returns t = H(username, password) mod N and PI = H(t) mod N.
func (c *Client) passwordScalars() (t, pi *big.Int, err error) {
	n := c.conf.Curve.Order

	t, err = transcript.HashModN(n, c.username, c.conf.KSF.PasswordInput(c.username, c.password))
	if err != nil {
		return nil, nil, ErrEncoding.Join(err)
	}

	pi, err = transcript.HashModN(n, t)
	if err != nil {
		return nil, nil, ErrEncoding.Join(err)
	}

	return t, pi, nil
}

// ephemeralKeyPair returns a fresh secret, its public key, and a proof of knowledge bound to the username.
func (c *Client) ephemeralKeyPair() (*big.Int, *group.Element, *schnorr.Proof, error) {
	cv := c.conf.Curve

	x, err := internal.RandomScalar(c.conf.Random, cv.Order)
	if err != nil {
		return nil, nil, nil, ErrInternal.Join(err)
	}

	X, err := cv.BaseMultiply(x)
	if err != nil {
		wipe(x)
		return nil, nil, nil, ErrInternal.Join(err)
	}

	proof, err := schnorr.Generate(cv, c.conf.Random, cv.Generator(), x, X, c.username)
	if err != nil {
		wipe(x)
		return nil, nil, nil, ErrInternal.Join(err)
	}

	return x, X, proof, nil
}

// checkProof verifies a proof from the server, and classifies the failure.
func (c *Client) checkProof(g, X *group.Element, proof *schnorr.Proof, name string) error {
	err := schnorr.Check(c.conf.Curve, g, X, proof, c.server)
	if err == nil {
		return nil
	}

	err = fmt.Errorf("%s: %w", name, err)

	switch {
	case errors.Is(err, schnorr.ErrInvalidPoint),
		errors.Is(err, schnorr.ErrCoordinateRange),
		errors.Is(err, schnorr.ErrLowOrder):
		return failure(ErrCodeInvalidPoint, err)
	default:
		return failure(ErrCodeProofVerification, err)
	}
}

// rawKey returns (Beta - X4·x2pi)·x2.
func (c *Client) rawKey(peer *serverInit, x2, x2pi *big.Int) (*group.Element, error) {
	cv := c.conf.Curve

	blind, err := cv.Multiply(peer.X4, x2pi)
	if err != nil {
		return nil, failure(ErrCodeInvalidPoint, err)
	}

	key, err := cv.Multiply(cv.Subtract(peer.Beta, blind), x2)
	if err != nil {
		return nil, failure(ErrCodeInvalidPoint, err)
	}

	if key.IsIdentity() {
		return nil, failure(ErrCodeInvalidPoint, fmt.Errorf("raw key: %w", internal.ErrPeerValue))
	}

	return key, nil
}

// deriveKeys returns the Verified payload holding the session and confirmation keys derived from the raw key.
func deriveKeys(rawKey *group.Element) (*verified, error) {
	sessionKey, err := transcript.Hash(rawKey, tag.SessionKey)
	if err != nil {
		return nil, ErrEncoding.Join(err)
	}

	confirmationKey, err := transcript.Hash(rawKey, tag.ConfirmationKey)
	if err != nil {
		wipe(sessionKey)
		return nil, ErrEncoding.Join(err)
	}

	return &verified{confirmationKey: confirmationKey, sessionKey: sessionKey}, nil
}

// failure returns a cryptographic failure. Its message never tells which check failed.
func failure(code ErrorCode, cause error) *Error {
	return code.New(authenticationFailed, cause)
}

func (c *Client) transition(next state) {
	c.logger.Debug("phase transition",
		slog.String("from", c.state.phase().String()),
		slog.String("to", next.phase().String()))
	c.state.flush()
	c.state = next
}

// abort discards all secrets and moves the client to the terminal Aborted phase.
func (c *Client) abort(err error) error {
	c.logger.Warn("authentication aborted",
		slog.String("phase", c.state.phase().String()),
		slog.Any("error", err))
	c.transition(aborted{})
	c.password = ""

	return err
}

func (c *Client) sequenceError(operation string) error {
	return ErrSequence.Join(fmt.Errorf("%w: %s in phase %s", internal.ErrPhase, operation, c.state.phase()))
}
