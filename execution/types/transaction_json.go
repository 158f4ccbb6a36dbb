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
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/common/hexutil"
)

// TxLike is the loose, JSON-friendly description of a transaction. Hash and
// From are derived values: when present they are checked, never trusted.
type TxLike struct {
	Type        *byte           `json:"type,omitempty"`
	To          *common.Address `json:"to,omitempty"`
	From        *common.Address `json:"from,omitempty"`
	Nonce       uint64          `json:"nonce"`
	EnergyLimit *uint256.Int    `json:"energyLimit,omitempty"`
	EnergyPrice *uint256.Int    `json:"energyPrice,omitempty"`
	Data        hexutil.Bytes   `json:"data,omitempty"`
	Value       *uint256.Int    `json:"value,omitempty"`
	NetworkID   *uint256.Int    `json:"networkId,omitempty"`
	Signature   hexutil.Bytes   `json:"signature,omitempty"`
	Hash        *common.Hash    `json:"hash,omitempty"`
}

// FromTxLike builds a transaction from like, recomputing and comparing any
// declared hash or sender.
func FromTxLike(like *TxLike) (*Transaction, error) {
	tx, err := like.toTransaction()
	if err != nil {
		return nil, err
	}
	if (like.Hash != nil || like.From != nil) && !tx.IsSigned() {
		return nil, fmt.Errorf("%w: unsigned transaction cannot declare hash or from", common.ErrInvalidArgument)
	}
	if !tx.IsSigned() {
		return tx, nil
	}
	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	from, err := tx.From()
	if err != nil {
		return nil, err
	}
	if like.Hash != nil && *like.Hash != hash {
		return nil, fmt.Errorf("%w: hash mismatch, declared %s, computed %s", common.ErrInvalidArgument, like.Hash, hash)
	}
	if like.From != nil && *like.From != *from {
		return nil, fmt.Errorf("%w: from mismatch, declared %s, computed %s", common.ErrInvalidArgument, like.From, from)
	}
	return tx, nil
}

func (like *TxLike) toTransaction() (*Transaction, error) {
	tx := NewTransaction()
	if like.Type != nil {
		if err := tx.SetType(*like.Type); err != nil {
			return nil, err
		}
	}
	if err := tx.SetTo(like.To); err != nil {
		return nil, err
	}
	tx.nonce = like.Nonce
	if like.EnergyLimit != nil {
		tx.energyLimit = *like.EnergyLimit
	}
	if like.EnergyPrice != nil {
		tx.energyPrice = like.EnergyPrice.Clone()
	}
	tx.data = common.Copy(like.Data)
	if like.Value != nil {
		tx.value = *like.Value
	}
	if like.NetworkID != nil {
		tx.networkID = *like.NetworkID
	}
	if like.Signature != nil {
		if err := tx.SetSignature(like.Signature); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// ToTxLike describes tx, including hash and sender when it is signed.
func (tx *Transaction) ToTxLike() (*TxLike, error) {
	like := &TxLike{
		To:          tx.To(),
		Nonce:       tx.nonce,
		EnergyLimit: tx.EnergyLimit(),
		Data:        tx.Data(),
		Value:       tx.Value(),
		NetworkID:   tx.NetworkID(),
		Signature:   tx.Signature(),
	}
	if tx.txType != nil {
		t := *tx.txType
		like.Type = &t
	}
	if tx.energyPrice != nil {
		like.EnergyPrice = tx.energyPrice.Clone()
	}
	if tx.IsSigned() {
		hash, err := tx.Hash()
		if err != nil {
			return nil, err
		}
		from, err := tx.From()
		if err != nil {
			return nil, err
		}
		like.Hash = &hash
		like.From = from
	}
	return like, nil
}

func (tx *Transaction) MarshalJSON() ([]byte, error) {
	like, err := tx.ToTxLike()
	if err != nil {
		return nil, err
	}
	return json.Marshal(like)
}

func (tx *Transaction) UnmarshalJSON(input []byte) error {
	var like TxLike
	if err := json.Unmarshal(input, &like); err != nil {
		return err
	}
	parsed, err := FromTxLike(&like)
	if err != nil {
		return err
	}
	*tx = *parsed
	return nil
}
