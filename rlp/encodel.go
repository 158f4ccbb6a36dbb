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
	"math/bits"

	"github.com/holiman/uint256"
)

// General design:
//      - low-level encoders don't manage memory, the caller sizes the buffer using the matching *Len function
//      - each Encode function writes into the given buffer and returns the number of bytes written
//      - rlp has 2 data types: List and String (bytes array); numbers are strings holding minimal big-endian bytes

func prefixLen(dataLen int) int {
	if dataLen >= 56 {
		return 1 + (bits.Len64(uint64(dataLen))+7)/8
	}
	return 1
}

func encodePrefix(base byte, dataLen int, to []byte) int {
	if dataLen < 56 {
		to[0] = base + byte(dataLen)
		return 1
	}
	beLen := (bits.Len64(uint64(dataLen)) + 7) / 8
	to[0] = base + 55 + byte(beLen)
	for i := beLen; i > 0; i-- {
		to[i] = byte(dataLen)
		dataLen >>= 8
	}
	return 1 + beLen
}

func ListPrefixLen(dataLen int) int { return prefixLen(dataLen) }

func EncodeListPrefix(dataLen int, to []byte) int {
	return encodePrefix(0xc0, dataLen, to)
}

func StringLen(s []byte) int {
	if len(s) == 1 && s[0] < 0x80 {
		return 1
	}
	return prefixLen(len(s)) + len(s)
}

func EncodeString(s []byte, to []byte) int {
	if len(s) == 1 && s[0] < 0x80 {
		to[0] = s[0]
		return 1
	}
	n := encodePrefix(0x80, len(s), to)
	return n + copy(to[n:], s)
}

func U64Len(i uint64) int {
	if i >= 0x80 {
		return 1 + (bits.Len64(i)+7)/8
	}
	return 1
}

func EncodeU64(i uint64, to []byte) int {
	if i == 0 {
		to[0] = 0x80
		return 1
	}
	if i < 0x80 {
		to[0] = byte(i)
		return 1
	}
	beLen := (bits.Len64(i) + 7) / 8
	to[0] = 0x80 + byte(beLen)
	for k := beLen; k > 0; k-- {
		to[k] = byte(i)
		i >>= 8
	}
	return 1 + beLen
}

func U256Len(i *uint256.Int) int {
	if i == nil {
		return 1
	}
	if i.IsUint64() {
		return U64Len(i.Uint64())
	}
	return 1 + i.ByteLen()
}

// EncodeU256 writes i as a minimal big-endian string; nil and zero encode as the empty string.
func EncodeU256(i *uint256.Int, to []byte) int {
	if i == nil {
		to[0] = 0x80
		return 1
	}
	if i.IsUint64() {
		return EncodeU64(i.Uint64(), to)
	}
	return EncodeString(i.Bytes(), to)
}

// EncodeHash assumes that `to` buffer is at least 33 bytes long
func EncodeHash(h, to []byte) int {
	_ = to[32]
	to[0] = 0x80 + 32
	copy(to[1:33], h[:32])
	return 33
}
