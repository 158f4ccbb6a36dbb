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

	"github.com/holiman/uint256"

	"github.com/mhsnprvr/corebc-tes/common"
)

var big35 = uint256.NewInt(35)

// Signature is a recoverable secp256k1 signature. s is always in canonical
// (low) form and v is normalised to 27 or 28; a replay-protected v, if one
// was supplied, is kept as the network v.
type Signature struct {
	r, s     [32]byte
	v        byte
	networkV *uint256.Int
}

// NewSignature validates r and s and normalises v. v may be a recovery id
// (0/1), a legacy v (27/28) or a network v (>= 35).
func NewSignature(r, s []byte, v *uint256.Int) (*Signature, error) {
	if len(r) != 32 {
		return nil, fmt.Errorf("%w: invalid r length %d", common.ErrInvalidArgument, len(r))
	}
	if len(s) != 32 {
		return nil, fmt.Errorf("%w: invalid s length %d", common.ErrInvalidArgument, len(s))
	}
	if s[0] >= 0x80 {
		return nil, fmt.Errorf("%w: non-canonical s", common.ErrInvalidArgument)
	}
	nv, err := NormalizeV(v)
	if err != nil {
		return nil, err
	}
	sig := &Signature{v: nv}
	copy(sig.r[:], r)
	copy(sig.s[:], s)
	if v.Cmp(big35) >= 0 {
		sig.networkV = v.Clone()
	}
	return sig, nil
}

// SignatureFromBytes parses the 65-byte r||s||v form or the 64-byte compact
// r||yParityAndS form.
func SignatureFromBytes(b []byte) (*Signature, error) {
	switch len(b) {
	case 64:
		s := common.Copy(b[32:])
		parity := s[0] >> 7
		s[0] &= 0x7f
		return NewSignature(b[:32], s, uint256.NewInt(27+uint64(parity)))
	case 65:
		return NewSignature(b[:32], b[32:64], uint256.NewInt(uint64(b[64])))
	default:
		return nil, fmt.Errorf("%w: invalid raw signature length %d", common.ErrInvalidArgument, len(b))
	}
}

func (sig *Signature) R() []byte { return common.Copy(sig.r[:]) }

func (sig *Signature) S() []byte { return common.Copy(sig.s[:]) }

func (sig *Signature) V() byte { return sig.v }

// NetworkV is the replay-protected v this signature was created from, or nil.
func (sig *Signature) NetworkV() *uint256.Int {
	if sig.networkV == nil {
		return nil
	}
	return sig.networkV.Clone()
}

// LegacyNetworkID is the network id encoded in NetworkV, or nil.
func (sig *Signature) LegacyNetworkID() *uint256.Int {
	if sig.networkV == nil {
		return nil
	}
	id, _ := GetNetworkID(sig.networkV)
	return id
}

func (sig *Signature) YParity() byte {
	if sig.v == 27 {
		return 0
	}
	return 1
}

// YParityAndS folds the y parity into the top bit of s.
func (sig *Signature) YParityAndS() []byte {
	out := sig.S()
	if sig.YParity() == 1 {
		out[0] |= 0x80
	}
	return out
}

// CompactSerialized is r || yParityAndS, 64 bytes.
func (sig *Signature) CompactSerialized() []byte {
	return append(sig.R(), sig.YParityAndS()...)
}

// Serialized is r || s || v with v as 0x1b or 0x1c, 65 bytes.
func (sig *Signature) Serialized() []byte {
	out := make([]byte, 0, 65)
	out = append(out, sig.r[:]...)
	out = append(out, sig.s[:]...)
	return append(out, sig.v)
}

func (sig *Signature) String() string {
	return fmt.Sprintf("Signature{r: 0x%x, s: 0x%x, yParity: %d, networkV: %v}", sig.r, sig.s, sig.YParity(), sig.networkV)
}

// GetNetworkID extracts the network id from a v value: 27 and 28 carry none
// (0), anything else must be a network v.
func GetNetworkID(v *uint256.Int) (*uint256.Int, error) {
	if v.IsUint64() && (v.Uint64() == 27 || v.Uint64() == 28) {
		return new(uint256.Int), nil
	}
	if v.Cmp(big35) < 0 {
		return nil, fmt.Errorf("%w: invalid network v %s", common.ErrInvalidArgument, v)
	}
	id := new(uint256.Int).Sub(v, big35)
	return id.Rsh(id, 1), nil
}

// GetNetworkV computes networkId*2 + 35 + (v - 27).
func GetNetworkV(networkID *uint256.Int, v byte) *uint256.Int {
	out := new(uint256.Int).Lsh(networkID, 1)
	out.Add(out, big35)
	if v == 28 {
		out.AddUint64(out, 1)
	}
	return out
}

// NormalizeV maps any accepted v onto 27 or 28.
func NormalizeV(v *uint256.Int) (byte, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: missing v", common.ErrInvalidArgument)
	}
	if v.IsUint64() {
		switch v.Uint64() {
		case 0, 27:
			return 27, nil
		case 1, 28:
			return 28, nil
		}
	}
	if v.Cmp(big35) < 0 {
		return 0, fmt.Errorf("%w: invalid v %s", common.ErrInvalidArgument, v)
	}
	// network v: odd is 27, even is 28
	if v.Uint64()&1 == 1 {
		return 27, nil
	}
	return 28, nil
}
