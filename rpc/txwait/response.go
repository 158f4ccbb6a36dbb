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

package txwait

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/execution/types"
)

// TxResponse is a transaction as reported by a node, optionally carrying the
// block height from which replacements are looked for.
type TxResponse struct {
	Hash        common.Hash
	BlockNumber *uint64
	BlockHash   *common.Hash
	From        common.Address
	To          *common.Address
	Nonce       uint64
	EnergyLimit *uint256.Int
	EnergyPrice *uint256.Int
	Value       *uint256.Int
	Data        []byte
	NetworkID   *uint256.Int

	startBlock    uint64
	hasStartBlock bool
}

// NewTxResponse describes a signed transaction that has not been mined.
func NewTxResponse(tx *types.Transaction) (*TxResponse, error) {
	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	from, err := types.Sender(tx)
	if err != nil {
		return nil, err
	}
	return &TxResponse{
		Hash:        hash,
		From:        from,
		To:          tx.To(),
		Nonce:       tx.Nonce(),
		EnergyLimit: tx.EnergyLimit(),
		EnergyPrice: tx.EnergyPrice(),
		Value:       tx.Value(),
		Data:        tx.Data(),
		NetworkID:   tx.NetworkID(),
	}, nil
}

// ReplaceableTransaction returns a copy that looks for replacements from
// startBlock onwards.
func (r *TxResponse) ReplaceableTransaction(startBlock uint64) *TxResponse {
	cpy := *r
	cpy.Data = common.Copy(r.Data)
	cpy.startBlock = startBlock
	cpy.hasStartBlock = true
	return &cpy
}

// StartBlock reports the height replacement detection starts from, if any.
func (r *TxResponse) StartBlock() (uint64, bool) {
	return r.startBlock, r.hasStartBlock
}

func (r *TxResponse) IsMined() bool { return r.BlockNumber != nil }

func (r *TxResponse) String() string {
	return fmt.Sprintf("tx %s from %s nonce %d", r.Hash.TerminalString(), r.From, r.Nonce)
}

// replacementReason classifies other, which consumed r's nonce.
func (r *TxResponse) replacementReason(other *TxResponse) Reason {
	if bytes.Equal(other.Data, r.Data) && sameAddress(other.To, r.To) && sameValue(other.Value, r.Value) {
		return ReasonRepriced
	}
	if len(other.Data) == 0 && other.To != nil && *other.To == other.From && (other.Value == nil || other.Value.IsZero()) {
		return ReasonCancelled
	}
	return ReasonReplaced
}

func sameAddress(a, b *common.Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameValue(a, b *uint256.Int) bool {
	var za, zb uint256.Int
	if a != nil {
		za = *a
	}
	if b != nil {
		zb = *b
	}
	return za.Eq(&zb)
}
