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

type Token int32

const (
	TokenUnknown Token = iota
	TokenDecimal
	TokenShortBlob
	TokenLongBlob
	TokenShortList
	TokenLongList
)

func (t Token) String() string {
	switch t {
	case TokenDecimal:
		return "decimal"
	case TokenShortBlob:
		return "short_blob"
	case TokenLongBlob:
		return "long_blob"
	case TokenShortList:
		return "short_list"
	case TokenLongList:
		return "long_list"
	default:
		return "unknown"
	}
}

func (t Token) IsList() bool {
	return t == TokenShortList || t == TokenLongList
}

// Diff returns the size (short forms) or the length-of-size (long forms)
// encoded in the prefix byte b.
func (t Token) Diff(b byte) byte {
	switch t {
	case TokenShortBlob:
		return b - 0x80
	case TokenLongBlob:
		return b - 0xb7
	case TokenShortList:
		return b - 0xc0
	case TokenLongList:
		return b - 0xf7
	default:
		return 0
	}
}

func identifyToken(b byte) Token {
	switch {
	case b <= 0x7f:
		return TokenDecimal
	case b <= 0xb7:
		return TokenShortBlob
	case b <= 0xbf:
		return TokenLongBlob
	case b <= 0xf7:
		return TokenShortList
	default:
		return TokenLongList
	}
}
