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

package types

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/crypto"
	"github.com/mhsnprvr/corebc-tes/rlp"
)

var ErrBadLegacyTx = fmt.Errorf("%w: malformed legacy transaction", common.ErrBadData)

// Legacy wire layout. The network id is the last field of the pre-image but
// moves to index 3 once a signature is appended.
//
//	unsigned: [nonce, energyPrice, energyLimit, to, value, data, networkId]
//	signed:   [nonce, energyPrice, energyLimit, networkId, to, value, data, signature]
const (
	legacyUnsignedFields = 7
	legacySignedFields   = 8
)

// UnsignedSerialized is the pre-image that gets hashed and signed.
func (tx *Transaction) UnsignedSerialized() ([]byte, error) {
	if err := tx.checkEncodable(); err != nil {
		return nil, err
	}
	return tx.encodeLegacy(false), nil
}

// Serialized is the signed wire form.
func (tx *Transaction) Serialized() ([]byte, error) {
	if tx.signature == nil {
		return nil, fmt.Errorf("%w: cannot serialize an unsigned transaction", common.ErrInvalidArgument)
	}
	if err := tx.checkEncodable(); err != nil {
		return nil, err
	}
	return tx.encodeLegacy(true), nil
}

func (tx *Transaction) checkEncodable() error {
	if t := tx.Type(); t != LegacyTxType {
		return fmt.Errorf("%w %d", ErrUnsupportedTxType, t)
	}
	return nil
}

func (tx *Transaction) payloadSize(signed bool) int {
	size := rlp.U64Len(tx.nonce)
	size += rlp.U256Len(tx.energyPrice)
	size += rlp.U256Len(&tx.energyLimit)
	// to is either empty or a full address
	size++
	if tx.to != nil {
		size += common.AddressLength
	}
	size += rlp.U256Len(&tx.value)
	size += rlp.StringLen(tx.data)
	size += rlp.U256Len(&tx.networkID)
	if signed {
		size += rlp.StringLen(tx.signature)
	}
	return size
}

func (tx *Transaction) encodeLegacy(signed bool) []byte {
	payloadSize := tx.payloadSize(signed)
	out := make([]byte, rlp.ListPrefixLen(payloadSize)+payloadSize)

	pos := rlp.EncodeListPrefix(payloadSize, out)
	pos += rlp.EncodeU64(tx.nonce, out[pos:])
	pos += rlp.EncodeU256(tx.energyPrice, out[pos:])
	pos += rlp.EncodeU256(&tx.energyLimit, out[pos:])
	if signed {
		pos += rlp.EncodeU256(&tx.networkID, out[pos:])
	}
	if tx.to != nil {
		pos += rlp.EncodeString(tx.to[:], out[pos:])
	} else {
		pos += rlp.EncodeString(nil, out[pos:])
	}
	pos += rlp.EncodeU256(&tx.value, out[pos:])
	pos += rlp.EncodeString(tx.data, out[pos:])
	if signed {
		rlp.EncodeString(tx.signature, out[pos:])
	} else {
		rlp.EncodeU256(&tx.networkID, out[pos:])
	}
	return out
}

// ParseTransaction decodes wire bytes. A first byte of 0x7f or above marks
// the legacy encoding; lower values are typed envelopes, none of which are
// supported.
func ParseTransaction(b []byte) (*Transaction, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrBadLegacyTx)
	}
	if b[0] >= 0x7f {
		return parseLegacy(b)
	}
	return nil, fmt.Errorf("%w %d", ErrUnsupportedTxType, b[0])
}

func parseLegacy(b []byte) (*Transaction, error) {
	v, err := rlp.Decode(b)
	if err != nil {
		return nil, err
	}
	if !v.IsList() {
		return nil, fmt.Errorf("%w: not a list", ErrBadLegacyTx)
	}
	items := v.Items()
	var networkIdx, toIdx, valueIdx, dataIdx int
	switch len(items) {
	case legacyUnsignedFields:
		toIdx, valueIdx, dataIdx, networkIdx = 3, 4, 5, 6
	case legacySignedFields:
		networkIdx, toIdx, valueIdx, dataIdx = 3, 4, 5, 6
	default:
		return nil, fmt.Errorf("%w: %d fields, want %d or %d", ErrBadLegacyTx, len(items), legacyUnsignedFields, legacySignedFields)
	}
	for i, it := range items {
		if it.IsList() {
			return nil, fmt.Errorf("%w: field %d is a list", ErrBadLegacyTx, i)
		}
	}

	tx := NewTransaction()
	if tx.nonce, err = items[0].AsUint64(); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	if tx.energyPrice, err = items[1].AsUint256(); err != nil {
		return nil, fmt.Errorf("energyPrice: %w", err)
	}
	if err = decodeU256("energyLimit", items[2], &tx.energyLimit); err != nil {
		return nil, err
	}
	if tx.to, err = decodeTo(items[toIdx].Bytes()); err != nil {
		return nil, err
	}
	if err = decodeU256("value", items[valueIdx], &tx.value); err != nil {
		return nil, err
	}
	tx.data = common.Copy(items[dataIdx].Bytes())
	if err = decodeU256("networkId", items[networkIdx], &tx.networkID); err != nil {
		return nil, err
	}

	if len(items) == legacyUnsignedFields {
		return tx, nil
	}
	sig := items[7].Bytes()
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: signature of %d bytes", ErrBadLegacyTx, len(sig))
	}
	tx.signature = common.Copy(sig)
	// the signature must hold up against the reassembled pre-image
	if _, err := tx.From(); err != nil {
		return nil, err
	}
	return tx, nil
}

func decodeU256(field string, v rlp.Value, dst *uint256.Int) error {
	n, err := v.AsUint256()
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = *n
	return nil
}

func decodeTo(b []byte) (*common.Address, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) != common.AddressLength {
		return nil, fmt.Errorf("%w: to of %d bytes", ErrBadLegacyTx, len(b))
	}
	a, err := common.BytesToAddress(b)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %w", ErrBadLegacyTx, err)
	}
	return &a, nil
}
