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

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/holiman/uint256"

	"github.com/mhsnprvr/corebc-tes/common"
)

const Secp256k1PrivateKeyLength = 32

// Secp256k1Key serves key agreement and point arithmetic. Transactions are
// never signed with it.
type Secp256k1Key struct {
	priv *secp256k1.PrivateKey
}

func NewSecp256k1Key(priv []byte) (*Secp256k1Key, error) {
	if len(priv) != Secp256k1PrivateKeyLength {
		return nil, fmt.Errorf("%w: secp256k1 private key must be %d bytes, got %d", common.ErrInvalidArgument, Secp256k1PrivateKeyLength, len(priv))
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(priv); overflow || s.IsZero() {
		return nil, fmt.Errorf("%w: invalid secp256k1 private key", common.ErrInvalidArgument)
	}
	return &Secp256k1Key{priv: secp256k1.NewPrivateKey(&s)}, nil
}

func GenerateSecp256k1Key() (*Secp256k1Key, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &Secp256k1Key{priv: priv}, nil
}

func (k *Secp256k1Key) Algorithm() Algorithm { return Secp256k1 }

func (k *Secp256k1Key) PrivateKey() []byte {
	b := k.priv.Key.Bytes()
	return b[:]
}

// PublicKey returns the SEC1 encoding: 33 bytes compressed or 65 bytes uncompressed.
func (k *Secp256k1Key) PublicKey(compressed bool) []byte {
	return serializePub(k.priv.PubKey(), compressed)
}

// Sign produces a recoverable signature over a 32-byte digest.
func (k *Secp256k1Key) Sign(digest []byte) (*Signature, error) {
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("%w: digest must be %d bytes, got %d", common.ErrInvalidArgument, DigestLength, len(digest))
	}
	// <recovery code 27|28><R><S>
	compact := ecdsa.SignCompact(k.priv, digest, false)
	return NewSignature(compact[1:33], compact[33:65], uint256.NewInt(uint64(compact[0])))
}

// SharedSecret returns the uncompressed point k*other. Both sides of an
// exchange arrive at the same value.
func (k *Secp256k1Key) SharedSecret(other []byte) ([]byte, error) {
	pub, err := parseSecp256k1Pub(other)
	if err != nil {
		return nil, err
	}
	var point, result secp256k1.JacobianPoint
	pub.AsJacobian(&point)
	secp256k1.ScalarMultNonConst(&k.priv.Key, &point, &result)
	result.ToAffine()
	return secp256k1.NewPublicKey(&result.X, &result.Y).SerializeUncompressed(), nil
}

// AddPoints returns p0+p1. Each operand is either a public key or a 32-byte
// private key, which stands for its public point.
func AddPoints(p0, p1 []byte, compressed bool) ([]byte, error) {
	var a, b, sum secp256k1.JacobianPoint
	for _, it := range []struct {
		in  []byte
		out *secp256k1.JacobianPoint
	}{{p0, &a}, {p1, &b}} {
		pub, err := secp256k1Point(it.in)
		if err != nil {
			return nil, err
		}
		pub.AsJacobian(it.out)
	}
	secp256k1.AddNonConst(&a, &b, &sum)
	if sum.Z.IsZero() {
		return nil, fmt.Errorf("%w: points add up to infinity", common.ErrInvalidArgument)
	}
	sum.ToAffine()
	return serializePub(secp256k1.NewPublicKey(&sum.X, &sum.Y), compressed), nil
}

// Ecrecover returns the uncompressed public key that produced sig over digest.
func Ecrecover(digest []byte, sig *Signature) ([]byte, error) {
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("%w: digest must be %d bytes, got %d", common.ErrInvalidArgument, DigestLength, len(digest))
	}
	compact := make([]byte, 0, 65)
	compact = append(compact, sig.V())
	compact = append(compact, sig.R()...)
	compact = append(compact, sig.S()...)
	pub, _, err := ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrVerification, err)
	}
	return pub.SerializeUncompressed(), nil
}

func secp256k1Point(b []byte) (*secp256k1.PublicKey, error) {
	if len(b) == Secp256k1PrivateKeyLength {
		k, err := NewSecp256k1Key(b)
		if err != nil {
			return nil, err
		}
		return k.priv.PubKey(), nil
	}
	return parseSecp256k1Pub(b)
}

func parseSecp256k1Pub(b []byte) (*secp256k1.PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: secp256k1 public key: %v", common.ErrInvalidArgument, err)
	}
	return pub, nil
}

func serializePub(pub *secp256k1.PublicKey, compressed bool) []byte {
	if compressed {
		return pub.SerializeCompressed()
	}
	return pub.SerializeUncompressed()
}
