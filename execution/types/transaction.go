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
	"math/big"

	"github.com/holiman/uint256"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/crypto"
)

// Transaction types. Only LegacyTxType has an encoding; the others exist so
// that type inference can name what it found.
const (
	LegacyTxType     byte = 0
	AccessListTxType byte = 1
	DynamicFeeTxType byte = 2
)

var ErrUnsupportedTxType = fmt.Errorf("%w: unsupported transaction type", common.ErrUnsupported)

// Transaction is a mutable transaction under construction or parsed from
// the wire. The hash, sender and pre-image are never stored; they are
// derived from the fields and the signature on every call.
type Transaction struct {
	txType      *byte
	to          *common.Address
	nonce       uint64
	energyLimit uint256.Int
	energyPrice *uint256.Int
	data        []byte
	value       uint256.Int
	networkID   uint256.Int
	signature   []byte
}

// NewTransaction returns an empty legacy transaction.
func NewTransaction() *Transaction {
	t := LegacyTxType
	return &Transaction{txType: &t}
}

// Type returns the declared type or, when none is declared, the inferred one.
func (tx *Transaction) Type() byte {
	if tx.txType != nil {
		return *tx.txType
	}
	types := tx.InferTypes()
	return types[len(types)-1]
}

// SetType declares the type explicitly. Only LegacyTxType can be declared.
func (tx *Transaction) SetType(t byte) error {
	if t != LegacyTxType {
		return fmt.Errorf("%w: %w %d", common.ErrInvalidArgument, ErrUnsupportedTxType, t)
	}
	tx.txType = &t
	return nil
}

// ClearType removes the declared type so that Type falls back to inference.
func (tx *Transaction) ClearType() {
	tx.txType = nil
}

// InferTypes lists, in ascending order, the types this transaction could be
// encoded as. A declared type is the only candidate; otherwise a set energy
// price admits the legacy and access-list forms, and an unset one admits the
// fee-market form as well.
func (tx *Transaction) InferTypes() []byte {
	if tx.txType != nil {
		return []byte{*tx.txType}
	}
	if tx.energyPrice != nil {
		return []byte{LegacyTxType, AccessListTxType}
	}
	return []byte{LegacyTxType, AccessListTxType, DynamicFeeTxType}
}

func (tx *Transaction) IsLegacy() bool { return tx.Type() == LegacyTxType }

// To returns a copy of the recipient, nil for contract creation.
func (tx *Transaction) To() *common.Address {
	if tx.to == nil {
		return nil
	}
	to := *tx.to
	return &to
}

// SetTo validates the recipient's checksum; nil means contract creation.
func (tx *Transaction) SetTo(to *common.Address) error {
	if to == nil {
		tx.to = nil
		return nil
	}
	a, err := common.BytesToAddress(to[:])
	if err != nil {
		return err
	}
	tx.to = &a
	return nil
}

// SetToHex parses and validates a textual recipient; "" means contract creation.
func (tx *Transaction) SetToHex(to string) error {
	if to == "" {
		tx.to = nil
		return nil
	}
	a, err := common.ParseAddress(to)
	if err != nil {
		return err
	}
	tx.to = &a
	return nil
}

func (tx *Transaction) Nonce() uint64 { return tx.nonce }

func (tx *Transaction) SetNonce(n uint64) { tx.nonce = n }

func (tx *Transaction) EnergyLimit() *uint256.Int { return tx.energyLimit.Clone() }

func (tx *Transaction) SetEnergyLimit(v *big.Int) error {
	return setU256("energyLimit", &tx.energyLimit, v)
}

// EnergyPrice returns the energy price, zero when unset.
func (tx *Transaction) EnergyPrice() *uint256.Int {
	if tx.energyPrice == nil {
		return new(uint256.Int)
	}
	return tx.energyPrice.Clone()
}

func (tx *Transaction) HasEnergyPrice() bool { return tx.energyPrice != nil }

// SetEnergyPrice sets the energy price; nil unsets it.
func (tx *Transaction) SetEnergyPrice(v *big.Int) error {
	if v == nil {
		tx.energyPrice = nil
		return nil
	}
	var p uint256.Int
	if err := setU256("energyPrice", &p, v); err != nil {
		return err
	}
	tx.energyPrice = &p
	return nil
}

func (tx *Transaction) Value() *uint256.Int { return tx.value.Clone() }

func (tx *Transaction) SetValue(v *big.Int) error {
	return setU256("value", &tx.value, v)
}

// NetworkID is the target network, zero when unspecified.
func (tx *Transaction) NetworkID() *uint256.Int { return tx.networkID.Clone() }

func (tx *Transaction) SetNetworkID(v *big.Int) error {
	return setU256("networkId", &tx.networkID, v)
}

func (tx *Transaction) Data() []byte { return common.Copy(tx.data) }

func (tx *Transaction) SetData(data []byte) { tx.data = common.Copy(data) }

// Signature returns the opaque signature, nil when unsigned.
func (tx *Transaction) Signature() []byte { return common.Copy(tx.signature) }

// SetSignature attaches or, with nil, removes a signature. Derived values
// follow on the next call to Hash or From.
func (tx *Transaction) SetSignature(sig []byte) error {
	if sig != nil && len(sig) != crypto.SignatureLength {
		return fmt.Errorf("%w: signature must be %d bytes, got %d", common.ErrInvalidArgument, crypto.SignatureLength, len(sig))
	}
	tx.signature = common.Copy(sig)
	return nil
}

func (tx *Transaction) IsSigned() bool { return tx.signature != nil }

// Hash is the SHA3-256 of the signed serialization.
func (tx *Transaction) Hash() (common.Hash, error) {
	b, err := tx.Serialized()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.SHA3Hash(b), nil
}

// UnsignedHash is the digest that gets signed.
func (tx *Transaction) UnsignedHash() (common.Hash, error) {
	b, err := tx.UnsignedSerialized()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.SHA3Hash(b), nil
}

// From recovers the sender. The address prefix comes from the declared
// network id. Unsigned transactions have no sender.
func (tx *Transaction) From() (*common.Address, error) {
	pub, err := tx.FromPublicKey()
	if err != nil || pub == nil {
		return nil, err
	}
	prefix, err := common.PrefixForNetwork(&tx.networkID)
	if err != nil {
		return nil, err
	}
	a, err := crypto.PubkeyToAddress(pub, prefix)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FromPublicKey returns the verified public key of the signer, nil when unsigned.
func (tx *Transaction) FromPublicKey() ([]byte, error) {
	if tx.signature == nil {
		return nil, nil
	}
	digest, err := tx.UnsignedHash()
	if err != nil {
		return nil, err
	}
	return crypto.RecoverPublicKey(digest[:], tx.signature)
}

// Clone returns a deep copy.
func (tx *Transaction) Clone() *Transaction {
	cpy := &Transaction{
		nonce:       tx.nonce,
		energyLimit: tx.energyLimit,
		data:        common.Copy(tx.data),
		value:       tx.value,
		networkID:   tx.networkID,
		signature:   common.Copy(tx.signature),
	}
	if tx.txType != nil {
		t := *tx.txType
		cpy.txType = &t
	}
	if tx.to != nil {
		to := *tx.to
		cpy.to = &to
	}
	if tx.energyPrice != nil {
		cpy.energyPrice = tx.energyPrice.Clone()
	}
	return cpy
}

func setU256(field string, dst *uint256.Int, v *big.Int) error {
	if v == nil {
		dst.Clear()
		return nil
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %s", common.ErrInvalidArgument, field, v)
	}
	var n uint256.Int
	if n.SetFromBig(v) {
		return fmt.Errorf("%w: %s overflows 256 bits", common.ErrInvalidArgument, field)
	}
	*dst = n
	return nil
}
