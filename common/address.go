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

package common

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/holiman/uint256"
)

const (
	// AddressLength is the raw size of an address: prefix byte, checksum byte, key hash.
	AddressLength = 22
	// KeyHashLength is the size of the key hash carried by an address.
	KeyHashLength = 20
)

// Well-known network prefixes.
const (
	PrefixMainnet = "cb"
	PrefixTestnet = "ab"
	PrefixPrivate = "ce"
)

var addressRe = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{44}$`)

// Address is a checksummed account identifier. In text form it reads
// 0x{prefix:2 hex}{checksum:2 decimal digits}{key hash:40 hex}; the raw form
// keeps the same 22 bytes, so the checksum byte holds its two decimal digits
// as nibbles.
type Address [AddressLength]byte

// NewAddress builds the checksummed address for keyHash on the network
// identified by prefix.
func NewAddress(prefix string, keyHash []byte) (Address, error) {
	if len(keyHash) != KeyHashLength {
		return Address{}, fmt.Errorf("%w: key hash must be %d bytes, got %d", ErrInvalidArgument, KeyHashLength, len(keyHash))
	}
	p, err := parsePrefix(prefix)
	if err != nil {
		return Address{}, err
	}
	sum, err := Checksum(hex.EncodeToString(keyHash), prefix)
	if err != nil {
		return Address{}, err
	}
	c, _ := hex.DecodeString(sum)

	var a Address
	a[0] = p
	a[1] = c[0]
	copy(a[2:], keyHash)
	return a, nil
}

// Checksum computes the two decimal check digits for keyHashHex under prefix:
// the string keyHash+prefix+"00" is read as a decimal numeral with each hex
// letter a..f replaced by "10".."15", and the result is 98 - (n mod 97).
func Checksum(keyHashHex, prefix string) (string, error) {
	r, err := mod97(keyHashHex + prefix + "00")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d", 98-r), nil
}

func mod97(s string) (int, error) {
	r := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			r = (r*10 + int(c-'0')) % 97
		case c >= 'a' && c <= 'f':
			r = (r*100 + 10 + int(c-'a')) % 97
		case c >= 'A' && c <= 'F':
			r = (r*100 + 10 + int(c-'A')) % 97
		default:
			return 0, fmt.Errorf("%w: non-hex character %q in checksum input", ErrInvalidArgument, c)
		}
	}
	return r, nil
}

// PrefixForNetwork maps a network id onto its address prefix. Only the
// listed ids are known; everything from 0 and above 10 shares the private
// prefix.
func PrefixForNetwork(id *uint256.Int) (string, error) {
	if id == nil || id.IsZero() {
		return PrefixPrivate, nil
	}
	if !id.IsUint64() || id.Uint64() > 10 {
		return PrefixPrivate, nil
	}
	switch id.Uint64() {
	case 1:
		return PrefixMainnet, nil
	case 3, 4:
		return PrefixTestnet, nil
	}
	return "", fmt.Errorf("%w: no address prefix for network id %d", ErrUnsupported, id.Uint64())
}

// PrefixForNetworkID is PrefixForNetwork for small ids.
func PrefixForNetworkID(id uint64) (string, error) {
	return PrefixForNetwork(uint256.NewInt(id))
}

// ParseAddress validates s and returns the address it denotes. The checksum
// digits must match exactly; reserved precompile addresses are accepted
// without a checksum.
func ParseAddress(s string) (Address, error) {
	if !addressRe.MatchString(s) {
		return Address{}, fmt.Errorf("%w: invalid address %q", ErrInvalidArgument, s)
	}
	raw := strings.ToLower(strings.TrimPrefix(s, "0x"))
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Address{}, fmt.Errorf("%w: invalid address %q: %v", ErrInvalidArgument, s, err)
	}
	var a Address
	copy(a[:], b)
	if a.IsPrecompile() {
		return a, nil
	}
	sum, err := Checksum(raw[4:], raw[:2])
	if err != nil {
		return Address{}, err
	}
	if sum != raw[2:4] {
		return Address{}, fmt.Errorf("%w: bad address checksum %q, expected %s", ErrInvalidArgument, s, sum)
	}
	return a, nil
}

// MustParseAddress is ParseAddress that panics on error; for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// BytesToAddress validates a raw 22-byte address.
func BytesToAddress(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("%w: address must be %d bytes, got %d", ErrInvalidArgument, AddressLength, len(b))
	}
	return ParseAddress(hex.EncodeToString(b))
}

// IsPrecompile reports whether the key hash is one of the reserved values 0..9.
func (a Address) IsPrecompile() bool {
	for _, c := range a[2 : AddressLength-1] {
		if c != 0 {
			return false
		}
	}
	return a[AddressLength-1] <= 9
}

func (a Address) Prefix() string { return hex.EncodeToString(a[:1]) }

func (a Address) Checksum() string { return hex.EncodeToString(a[1:2]) }

func (a Address) KeyHash() []byte { return Copy(a[2:]) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	v, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func parsePrefix(prefix string) (byte, error) {
	if len(prefix) != 2 {
		return 0, fmt.Errorf("%w: prefix %q must be 2 hex characters", ErrInvalidArgument, prefix)
	}
	b, err := hex.DecodeString(prefix)
	if err != nil {
		return 0, fmt.Errorf("%w: prefix %q: %v", ErrInvalidArgument, prefix, err)
	}
	return b[0], nil
}
