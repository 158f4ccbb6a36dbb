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
)

// SignTx returns a signed copy of tx. The original is left untouched.
func SignTx(tx *Transaction, key *crypto.Ed448Key) (*Transaction, error) {
	cpy := tx.Clone()
	cpy.signature = nil
	digest, err := cpy.UnsignedHash()
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(digest[:])
	if err != nil {
		return nil, err
	}
	cpy.signature = sig
	return cpy, nil
}

// Sender returns the address that signed tx.
func Sender(tx *Transaction) (common.Address, error) {
	from, err := tx.From()
	if err != nil {
		return common.Address{}, err
	}
	if from == nil {
		return common.Address{}, fmt.Errorf("%w: transaction is not signed", common.ErrInvalidArgument)
	}
	return *from, nil
}

// Signer signs transaction requests on behalf of one Ed448 key.
type Signer struct {
	key *crypto.Ed448Key
}

func NewSigner(key *crypto.Ed448Key) *Signer {
	return &Signer{key: key}
}

// Address is the signer's address on the given network.
func (s *Signer) Address(networkID *uint256.Int) (common.Address, error) {
	prefix, err := common.PrefixForNetwork(networkID)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(s.key.PublicKey(), prefix)
}

// SignTransaction builds a transaction from req and signs it. A declared
// sender must be this signer.
func (s *Signer) SignTransaction(req *TxLike) (*Transaction, error) {
	if req.Hash != nil || req.Signature != nil {
		return nil, fmt.Errorf("%w: request is already signed", common.ErrInvalidArgument)
	}
	tx, err := req.toTransaction()
	if err != nil {
		return nil, err
	}
	if req.From != nil {
		self, err := s.Address(tx.NetworkID())
		if err != nil {
			return nil, err
		}
		if *req.From != self {
			return nil, fmt.Errorf("%w: transaction from %s does not match signer %s", common.ErrInvalidArgument, req.From, self)
		}
	}
	return SignTx(tx, s.key)
}
