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

package rlp

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Value is a decoded RLP item: either a byte string or a list of items.
type Value struct {
	str    []byte
	list   []Value
	isList bool
}

func String(b []byte) Value { return Value{str: b} }

func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{list: items, isList: true}
}

// Uint64 builds the minimal big-endian string for n.
func Uint64(n uint64) Value {
	var b [8]byte
	i := 8
	for ; n > 0; n >>= 8 {
		i--
		b[i] = byte(n)
	}
	return String(append([]byte{}, b[i:]...))
}

func U256(n *uint256.Int) Value {
	if n == nil || n.IsZero() {
		return String([]byte{})
	}
	return String(n.Bytes())
}

func (v Value) IsList() bool { return v.isList }

func (v Value) Bytes() []byte { return v.str }

func (v Value) Items() []Value { return v.list }

func (v Value) Len() int {
	if v.isList {
		return len(v.list)
	}
	return len(v.str)
}

func (v Value) Equal(o Value) bool {
	if v.isList != o.isList {
		return false
	}
	if !v.isList {
		return bytes.Equal(v.str, o.str)
	}
	if len(v.list) != len(o.list) {
		return false
	}
	for i := range v.list {
		if !v.list[i].Equal(o.list[i]) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	if !v.isList {
		return fmt.Sprintf("0x%x", v.str)
	}
	var b bytes.Buffer
	b.WriteByte('[')
	for i, it := range v.list {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(it.String())
	}
	b.WriteByte(']')
	return b.String()
}

// AsUint64 interprets a string item as a canonical big-endian integer.
func (v Value) AsUint64() (uint64, error) {
	b, err := v.numeric(8)
	if err != nil {
		return 0, err
	}
	var n uint64
	for _, c := range b {
		n = n<<8 | uint64(c)
	}
	return n, nil
}

// AsUint256 interprets a string item as a canonical big-endian integer of at most 32 bytes.
func (v Value) AsUint256() (*uint256.Int, error) {
	b, err := v.numeric(32)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (v Value) AsBig() (*big.Int, error) {
	n, err := v.AsUint256()
	if err != nil {
		return nil, err
	}
	return n.ToBig(), nil
}

func (v Value) numeric(maxLen int) ([]byte, error) {
	if v.isList {
		return nil, ErrExpectedStr
	}
	if len(v.str) > maxLen {
		return nil, fmt.Errorf("%w: %d bytes for a %d-byte integer", ErrTooLarge, len(v.str), maxLen)
	}
	if len(v.str) > 0 && v.str[0] == 0 {
		return nil, fmt.Errorf("%w: integer with leading zero", ErrNonCanonical)
	}
	return v.str, nil
}

func (v Value) payloadLen() int {
	if !v.isList {
		return len(v.str)
	}
	n := 0
	for _, it := range v.list {
		n += it.encodedLen()
	}
	return n
}

func (v Value) encodedLen() int {
	if !v.isList {
		return StringLen(v.str)
	}
	n := v.payloadLen()
	return ListPrefixLen(n) + n
}

func (v Value) encodeTo(to []byte) int {
	if !v.isList {
		return EncodeString(v.str, to)
	}
	pos := EncodeListPrefix(v.payloadLen(), to)
	for _, it := range v.list {
		pos += it.encodeTo(to[pos:])
	}
	return pos
}

// Encode returns the canonical encoding of v.
func Encode(v Value) []byte {
	out := make([]byte, v.encodedLen())
	v.encodeTo(out)
	return out
}

// EncodeList is shorthand for Encode(List(items...)).
func EncodeList(items ...Value) []byte {
	return Encode(List(items...))
}
