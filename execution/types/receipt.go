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
	"github.com/holiman/uint256"

	"github.com/mhsnprvr/corebc-tes/common"
)

const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt reports the inclusion of a transaction in a block.
type Receipt struct {
	TxHash           common.Hash     `json:"transactionHash"`
	TransactionIndex uint            `json:"transactionIndex"`
	BlockHash        common.Hash     `json:"blockHash"`
	BlockNumber      uint64          `json:"blockNumber"`
	From             common.Address  `json:"from"`
	To               *common.Address `json:"to"`
	ContractAddress  *common.Address `json:"contractAddress"`
	EnergyUsed       uint64          `json:"energyUsed"`
	EnergyPrice      *uint256.Int    `json:"energyPrice"`
	Status           uint64          `json:"status"`
}

// Confirmations is the number of blocks, including its own, that the
// receipt's block is buried under at the given chain height.
func (r *Receipt) Confirmations(height uint64) uint64 {
	if height < r.BlockNumber {
		return 0
	}
	return height - r.BlockNumber + 1
}
