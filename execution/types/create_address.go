// Copyright 2014 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
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

package types

import (
	"fmt"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/crypto"
	"github.com/mhsnprvr/corebc-tes/rlp"
)

// CreateAddress derives the address of a contract deployed by sender with
// the given nonce: SHA3-256(rlp([sender, nonce]))[12:] on the sender's network.
func CreateAddress(sender common.Address, nonce uint64) (common.Address, error) {
	listLen := rlp.StringLen(sender[:]) + rlp.U64Len(nonce)
	data := make([]byte, rlp.ListPrefixLen(listLen)+listLen)
	pos := rlp.EncodeListPrefix(listLen, data)
	pos += rlp.EncodeString(sender[:], data[pos:])
	rlp.EncodeU64(nonce, data[pos:])
	return common.NewAddress(sender.Prefix(), crypto.SHA3(data)[12:])
}

// CreateAddress2 derives the address of a contract deployed by sender with
// CREATE2: SHA3-256(0xff ++ sender ++ salt ++ initCodeHash)[12:].
func CreateAddress2(sender common.Address, salt, initCodeHash []byte) (common.Address, error) {
	if len(salt) != 32 {
		return common.Address{}, fmt.Errorf("%w: salt must be 32 bytes, got %d", common.ErrInvalidArgument, len(salt))
	}
	if len(initCodeHash) != 32 {
		return common.Address{}, fmt.Errorf("%w: initCodeHash must be 32 bytes, got %d", common.ErrInvalidArgument, len(initCodeHash))
	}
	return common.NewAddress(sender.Prefix(), crypto.SHA3([]byte{0xff}, sender[:], salt, initCodeHash)[12:])
}
