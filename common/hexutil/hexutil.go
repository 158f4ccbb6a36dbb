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

// Package hexutil implements 0x-prefixed hex encoding used in JSON and on the command line.
package hexutil

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mhsnprvr/corebc-tes/common"
)

var (
	ErrEmptyString = fmt.Errorf("%w: empty hex string", common.ErrInvalidArgument)
	ErrSyntax      = fmt.Errorf("%w: invalid hex string", common.ErrInvalidArgument)
	ErrOddLength   = fmt.Errorf("%w: hex string of odd length", common.ErrInvalidArgument)
)

// Encode encodes b as a hex string with 0x prefix.
func Encode(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// Decode decodes a hex string with an optional 0x prefix. "0x" alone is the empty slice.
func Decode(input string) ([]byte, error) {
	if len(input) == 0 {
		return nil, ErrEmptyString
	}
	input = strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	if len(input)%2 == 1 {
		return nil, ErrOddLength
	}
	b, err := hex.DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return b, nil
}

// MustDecode decodes a hex string and panics on failure; for constants and tests.
func MustDecode(input string) []byte {
	b, err := Decode(input)
	if err != nil {
		panic(err)
	}
	return b
}

// Bytes marshals/unmarshals as a JSON string with 0x prefix.
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(Encode(b)), nil
}

func (b *Bytes) UnmarshalText(input []byte) error {
	dec, err := Decode(string(input))
	if err != nil {
		return err
	}
	*b = dec
	return nil
}

func (b Bytes) String() string { return Encode(b) }
