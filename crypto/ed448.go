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
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/ecc/goldilocks"
	"github.com/cloudflare/circl/sign/ed448"
	"golang.org/x/crypto/sha3"

	"github.com/mhsnprvr/corebc-tes/common"
)

const (
	Ed448PrivateKeyLength = ed448.SeedSize
	Ed448PublicKeyLength  = ed448.PublicKeySize
	Ed448SignatureLength  = ed448.SignatureSize
	// SignatureLength is the serialized size of a transaction signature:
	// the Ed448 signature followed by the signer's public key.
	SignatureLength = Ed448SignatureLength + Ed448PublicKeyLength
	DigestLength    = 32
)

// Ed448Key is the key used to sign transactions. A 57-byte private key is an
// RFC 8032 seed, unless its last byte is above 127: such keys carry an
// already expanded scalar and are signed with directly.
type Ed448Key struct {
	priv [Ed448PrivateKeyLength]byte
	pub  [Ed448PublicKeyLength]byte
	seed ed448.PrivateKey
}

func NewEd448Key(priv []byte) (*Ed448Key, error) {
	if len(priv) != Ed448PrivateKeyLength {
		return nil, fmt.Errorf("%w: ed448 private key must be %d bytes, got %d", common.ErrInvalidArgument, Ed448PrivateKeyLength, len(priv))
	}
	k := &Ed448Key{}
	copy(k.priv[:], priv)
	if k.isScalar() {
		prefix := k.clampedPrefix()
		if err := scalarPublicKey(prefix[:56], k.pub[:]); err != nil {
			return nil, err
		}
		return k, nil
	}
	k.seed = ed448.NewKeyFromSeed(k.priv[:])
	copy(k.pub[:], k.seed[ed448.SeedSize:])
	return k, nil
}

func GenerateEd448Key(r io.Reader) (*Ed448Key, error) {
	if r == nil {
		r = rand.Reader
	}
	seed := make([]byte, Ed448PrivateKeyLength)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, err
	}
	// keep generated keys in seed form
	seed[Ed448PrivateKeyLength-1] &= 0x7f
	return NewEd448Key(seed)
}

func (k *Ed448Key) Algorithm() Algorithm { return Ed448 }

func (k *Ed448Key) PrivateKey() []byte { return common.Copy(k.priv[:]) }

func (k *Ed448Key) PublicKey() []byte { return common.Copy(k.pub[:]) }

// Sign signs a 32-byte digest and returns the signature followed by the public key.
func (k *Ed448Key) Sign(digest []byte) ([]byte, error) {
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("%w: digest must be %d bytes, got %d", common.ErrInvalidArgument, DigestLength, len(digest))
	}
	var sig []byte
	if k.isScalar() {
		var err error
		if sig, err = signWithScalar(k.clampedPrefix(), k.pub[:], digest); err != nil {
			return nil, err
		}
	} else {
		sig = ed448.Sign(k.seed, digest, "")
	}
	out := make([]byte, 0, SignatureLength)
	out = append(out, sig...)
	return append(out, k.pub[:]...), nil
}

func (k *Ed448Key) isScalar() bool {
	return k.priv[Ed448PrivateKeyLength-1] > 127
}

func (k *Ed448Key) clampedPrefix() [Ed448PrivateKeyLength]byte {
	prefix := k.priv
	prefix[0] &= 0xfc
	prefix[55] |= 0x80
	prefix[56] = 0
	return prefix
}

func scalarPublicKey(scalar []byte, out []byte) error {
	s := &goldilocks.Scalar{}
	s.FromBytes(scalar)
	return goldilocks.Curve{}.ScalarBaseMult(s).ToBytes(out)
}

// signWithScalar is RFC 8032 Ed448 signing with the secret scalar and the
// nonce prefix taken from the clamped key instead of SHAKE256(seed).
func signWithScalar(prefix [Ed448PrivateKeyLength]byte, pub, msg []byte) ([]byte, error) {
	s := &goldilocks.Scalar{}
	s.FromBytes(prefix[:56])

	H := sha3.NewShake256()
	writeDom(H)
	H.Write(prefix[:])
	H.Write(msg)
	var rh [2 * Ed448PrivateKeyLength]byte
	H.Read(rh[:])

	r := &goldilocks.Scalar{}
	r.FromBytes(rh[:])
	R := make([]byte, Ed448PublicKeyLength)
	if err := (goldilocks.Curve{}.ScalarBaseMult(r).ToBytes(R)); err != nil {
		return nil, err
	}

	H.Reset()
	writeDom(H)
	H.Write(R)
	H.Write(pub)
	H.Write(msg)
	var kh [2 * Ed448PrivateKeyLength]byte
	H.Read(kh[:])

	k := &goldilocks.Scalar{}
	k.FromBytes(kh[:])
	S := &goldilocks.Scalar{}
	S.Mul(k, s)
	S.Add(S, r)

	sig := make([]byte, Ed448SignatureLength)
	copy(sig, R)
	copy(sig[Ed448PublicKeyLength:], S[:])
	return sig, nil
}

// dom4 with an empty context, pure (non-prehashed) variant
func writeDom(h io.Writer) {
	h.Write([]byte("SigEd448"))
	h.Write([]byte{0x00, 0x00})
}

// VerifyEd448 checks a bare 114-byte signature against pub.
func VerifyEd448(pub, digest, sig []byte) bool {
	if len(pub) != Ed448PublicKeyLength || len(sig) != Ed448SignatureLength {
		return false
	}
	return ed448.Verify(ed448.PublicKey(pub), digest, sig, "")
}

// RecoverPublicKey returns the public key embedded in sig after checking
// that it verifies digest.
func RecoverPublicKey(digest, sig []byte) ([]byte, error) {
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("%w: digest must be %d bytes, got %d", common.ErrInvalidArgument, DigestLength, len(digest))
	}
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: signature must be %d bytes, got %d", common.ErrInvalidArgument, SignatureLength, len(sig))
	}
	pub := sig[Ed448SignatureLength:]
	if !VerifyEd448(pub, digest, sig[:Ed448SignatureLength]) {
		return nil, fmt.Errorf("%w: ed448 signature does not match embedded public key", common.ErrVerification)
	}
	return common.Copy(pub), nil
}
