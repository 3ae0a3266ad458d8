// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package remote_test

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"sync"
	"testing"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/owl/internal"
	"github.com/bytemare/owl/internal/confirmation"
	"github.com/bytemare/owl/internal/curve"
	"github.com/bytemare/owl/internal/encoding"
	"github.com/bytemare/owl/internal/schnorr"
	"github.com/bytemare/owl/internal/tag"
	"github.com/bytemare/owl/internal/transcript"
	"github.com/bytemare/owl/message"
	"github.com/bytemare/owl/remote"
)

// peer serves the server's side of the protocol over HTTP.
type peer struct {
	t        *testing.T
	curve    *curve.Curve
	records  map[string]*message.Registration
	sessions map[string]*session
	name     string
	ids      []string
	keys     [][]byte
	mu       sync.Mutex
}

type session struct {
	record           *message.Registration
	x4, x4pi         *big.Int
	X1, X2, X3, X4   *group.Element
	Beta             *group.Element
	PI1, PI2, PI3    *schnorr.Proof
	PI4, PIBeta      *schnorr.Proof
	passwordVerifier *big.Int
}

func newPeer(t *testing.T, name string) *peer {
	c, err := curve.Get(curve.P256)
	if err != nil {
		t.Fatal(err)
	}

	return &peer{
		t:        t,
		curve:    c,
		name:     name,
		records:  make(map[string]*message.Registration),
		sessions: make(map[string]*session),
	}
}

func (p *peer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == remote.RegisterPath:
		var m message.Registration
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		p.records[m.User] = &m
		w.WriteHeader(http.StatusCreated)
	case r.Method == http.MethodPut && r.URL.Path == remote.LoginInitPath:
		id := r.Header.Get(remote.RequestIDHeader)
		p.ids = append(p.ids, id)

		var m message.AuthInit
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		record, ok := p.records[m.User]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		s, out := p.init(record, &m)
		if s == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		p.sessions[id] = s
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodPut && r.URL.Path == remote.LoginVerifyPath:
		id := r.Header.Get(remote.RequestIDHeader)
		p.ids = append(p.ids, id)

		s, ok := p.sessions[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		delete(p.sessions, id)

		var m message.AuthVerify
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		out := p.verify(s, &m)
		if out == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		_ = json.NewEncoder(w).Encode(out)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (p *peer) keyPair(g *group.Element) (*big.Int, *group.Element, *schnorr.Proof) {
	x, err := internal.RandomScalar(rand.Reader, p.curve.Order)
	if err != nil {
		p.t.Error(err)
	}

	X, _ := p.curve.Multiply(g, x)

	proof, err := schnorr.Generate(p.curve, rand.Reader, g, x, X, p.name)
	if err != nil {
		p.t.Error(err)
	}

	return x, X, proof
}

func (p *peer) proof(v, r []byte) *schnorr.Proof {
	V, err := p.curve.DecodePoint(v)
	if err != nil {
		return nil
	}

	return &schnorr.Proof{V: V, R: encoding.BytesInt(r)}
}

func (p *peer) init(record *message.Registration, m *message.AuthInit) (*session, *message.ServerInit) {
	s := &session{record: record, passwordVerifier: encoding.BytesInt(record.PI)}

	var err error
	if s.X1, err = p.curve.DecodePoint(m.X1); err != nil {
		return nil, nil
	}

	if s.X2, err = p.curve.DecodePoint(m.X2); err != nil {
		return nil, nil
	}

	s.PI1, s.PI2 = p.proof(m.PI1V, m.PI1R), p.proof(m.PI2V, m.PI2R)
	g := p.curve.Generator()

	if !schnorr.Verify(p.curve, g, s.X1, s.PI1, record.User) || !schnorr.Verify(p.curve, g, s.X2, s.PI2, record.User) {
		return nil, nil
	}

	_, s.X3, s.PI3 = p.keyPair(g)
	s.x4, s.X4, s.PI4 = p.keyPair(g)

	gBeta := p.curve.Add(s.X1, s.X2, s.X3)
	s.x4pi = p.curve.ModN(new(big.Int).Mul(s.x4, s.passwordVerifier))
	s.Beta, _ = p.curve.Multiply(gBeta, s.x4pi)

	if s.PIBeta, err = schnorr.Generate(p.curve, rand.Reader, gBeta, s.x4pi, s.Beta, p.name); err != nil {
		p.t.Error(err)
	}

	return s, &message.ServerInit{
		X3:      s.X3.Encode(),
		X4:      s.X4.Encode(),
		PI3V:    s.PI3.Commitment(),
		PI4V:    s.PI4.Commitment(),
		PI3R:    encoding.IntBytes(s.PI3.R),
		PI4R:    encoding.IntBytes(s.PI4.R),
		Beta:    s.Beta.Encode(),
		PIBetaV: s.PIBeta.Commitment(),
		PIBetaR: encoding.IntBytes(s.PIBeta.R),
	}
}

func (p *peer) verify(s *session, m *message.AuthVerify) *message.ServerVerify {
	alpha, err := p.curve.DecodePoint(m.Alpha)
	if err != nil {
		return nil
	}

	piAlpha := p.proof(m.PIAlphaV, m.PIAlphaR)
	user := s.record.User

	if !schnorr.Verify(p.curve, p.curve.Add(s.X1, s.X3, s.X4), alpha, piAlpha, user) {
		return nil
	}

	blind, _ := p.curve.Multiply(s.X2, s.x4pi)
	rawKey, _ := p.curve.Multiply(p.curve.Subtract(alpha, blind), s.x4)
	sessionKey, _ := transcript.Hash(rawKey, tag.SessionKey)
	confirmationKey, _ := transcript.Hash(rawKey, tag.ConfirmationKey)

	h, err := transcript.HashModN(p.curve.Order,
		rawKey, user, s.X1, s.X2, s.PI1, s.PI2,
		p.name, s.X3, s.X4, s.PI3, s.PI4, s.Beta, s.PIBeta,
		alpha, piAlpha)
	if err != nil {
		p.t.Error(err)
		return nil
	}

	T, _ := p.curve.DecodePoint(s.record.T)
	gr, _ := p.curve.BaseMultiply(encoding.BytesInt(m.R))
	th, _ := p.curve.Multiply(T, h)

	if !p.curve.Equal(s.X1, p.curve.Add(gr, th)) {
		return nil
	}

	expected := confirmation.Tag(confirmationKey, tag.ClientKeyConfirmation, user, p.name, s.X1, s.X2, s.X3, s.X4)
	if !confirmation.Equal(expected, encoding.BytesInt(m.ClientKCTag)) {
		return nil
	}

	p.keys = append(p.keys, sessionKey.FillBytes(make([]byte, 32)))
	serverTag := confirmation.Tag(confirmationKey, tag.ServerKeyConfirmation, p.name, user, s.X3, s.X4, s.X1, s.X2)

	return &message.ServerVerify{ServerKCTag: encoding.IntBytes(serverTag)}
}

func (p *peer) lastKey() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return nil
	}

	return p.keys[len(p.keys)-1]
}

func (p *peer) requestIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.ids...)
}
