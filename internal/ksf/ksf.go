// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ksf provides the optional Key Stretching Function applied to the password before deriving the verifier.
package ksf

import (
	"errors"
	"fmt"

	"github.com/bytemare/ksf"
)

// DefaultLength is the output length of the hardened password when none is specified.
const DefaultLength = 32

var (
	// ErrParameters indicates an invalid amount of KSF parameters.
	ErrParameters = errors.New("invalid number of KSF parameters")

	// ErrLength indicates a negative output length.
	ErrLength = errors.New("the KSF output length must not be negative")
)

// KSF wraps a key stretching function and exposes its functions.
type KSF struct {
	ksfInterface
	length int
}

// New returns a newly instantiated KSF. The zero identifier returns the identity KSF, leaving the password untouched.
func New(id ksf.Identifier, parameters []int, length int) (*KSF, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrLength, length)
	}

	if length == 0 {
		length = DefaultLength
	}

	if id == 0 {
		return &KSF{ksfInterface: &IdentityKSF{}, length: length}, nil
	}

	f := id.Get()

	if len(parameters) != 0 {
		if len(parameters) != len(f.Params()) {
			return nil, fmt.Errorf("%w: expected %d, got %d",
				ErrParameters, len(f.Params()), len(parameters))
		}

		f.Parameterize(parameters...)
	}

	return &KSF{ksfInterface: f, length: length}, nil
}

// IsIdentity returns whether the password is used as is.
func (k *KSF) IsIdentity() bool {
	_, ok := k.ksfInterface.(*IdentityKSF)
	return ok
}

// PasswordInput returns the value to hash together with the username to derive the password scalar. Without stretching
// this is the password string itself. Otherwise, it's the password hardened with the username as salt.
func (k *KSF) PasswordInput(username, password string) any {
	if k.IsIdentity() {
		return password
	}

	return k.Harden([]byte(password), []byte(username), k.length)
}

type ksfInterface interface {
	// Harden uses default parameters for the key derivation function over the input password and salt.
	Harden(password, salt []byte, length int) []byte

	// Parameterize replaces the functions parameters with the new ones.
	// Must match the amount of parameters for the KSF.
	Parameterize(parameters ...int)

	// Params returns the list of internal parameters. If none were provided or modified,
	// the recommended defaults values are used.
	Params() []int
}

// IdentityKSF represents a KSF with no operations.
type IdentityKSF struct{}

// Harden returns the password as is.
func (i IdentityKSF) Harden(password, _ []byte, _ int) []byte {
	return password
}

// Parameterize applies KSF parameters if defined.
func (i IdentityKSF) Parameterize(_ ...int) {
	// no-op
}

// Params returns the list of internal parameters, which is always empty.
func (i IdentityKSF) Params() []int {
	return nil
}
