// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package crypto

import (
	"fmt"

	"github.com/mhsnprvr/corebc-tes/common"
)

// Algorithm identifies the curve family a Key belongs to.
type Algorithm uint8

const (
	Ed448 Algorithm = iota + 1
	Secp256k1
)

func (a Algorithm) String() string {
	switch a {
	case Ed448:
		return "ed448"
	case Secp256k1:
		return "secp256k1"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

// Key is private key material of either family. Operations that need a
// specific family check for it and fail with common.ErrUnsupported.
type Key interface {
	Algorithm() Algorithm
	PrivateKey() []byte
}

var (
	_ Key = (*Ed448Key)(nil)
	_ Key = (*Secp256k1Key)(nil)
)

func NewKey(alg Algorithm, priv []byte) (Key, error) {
	switch alg {
	case Ed448:
		return NewEd448Key(priv)
	case Secp256k1:
		return NewSecp256k1Key(priv)
	default:
		return nil, fmt.Errorf("%w: key algorithm %s", common.ErrUnsupported, alg)
	}
}

// Sign signs a 32-byte digest with an Ed448 key.
func Sign(key Key, digest []byte) ([]byte, error) {
	k, ok := key.(*Ed448Key)
	if !ok {
		return nil, fmt.Errorf("%w: signing transactions with a %s key", common.ErrUnsupported, key.Algorithm())
	}
	return k.Sign(digest)
}

// ComputeSharedSecret derives the secp256k1 shared point between key and other.
func ComputeSharedSecret(key Key, other []byte) ([]byte, error) {
	k, ok := key.(*Secp256k1Key)
	if !ok {
		return nil, fmt.Errorf("%w: shared secret with a %s key", common.ErrUnsupported, key.Algorithm())
	}
	return k.SharedSecret(other)
}

// ComputePublicKey normalises key material into a public key. 57 bytes are
// an Ed448 private key; 32 bytes are a secp256k1 private key; 33 or 65 bytes
// are a secp256k1 public key, re-encoded as requested by compressed.
func ComputePublicKey(key []byte, compressed bool) ([]byte, error) {
	switch len(key) {
	case Ed448PrivateKeyLength:
		k, err := NewEd448Key(key)
		if err != nil {
			return nil, err
		}
		return k.PublicKey(), nil
	case Secp256k1PrivateKeyLength:
		k, err := NewSecp256k1Key(key)
		if err != nil {
			return nil, err
		}
		return k.PublicKey(compressed), nil
	case 33, 65:
		pub, err := parseSecp256k1Pub(key)
		if err != nil {
			return nil, err
		}
		return serializePub(pub, compressed), nil
	default:
		return nil, fmt.Errorf("%w: key of %d bytes", common.ErrInvalidArgument, len(key))
	}
}
