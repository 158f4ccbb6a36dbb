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
	"context"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/execution/types"
)

//go:generate mockgen -typed=false -source=./provider.go -destination=./provider_mock.go -package=txwait . Provider

// Provider is the view of a node the tracker needs. TransactionReceipt and
// Transaction return nil without an error for hashes the node does not know
// or has not mined; BlockByNumber returns nil for blocks it does not have yet.
type Provider interface {
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionCount(ctx context.Context, account common.Address) (uint64, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	Transaction(ctx context.Context, hash common.Hash) (*TxResponse, error)
	BlockByNumber(ctx context.Context, number uint64) (*Block, error)
	SubscribeNewBlocks(ctx context.Context) (Subscription, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
}

// Subscription delivers new block numbers until Unsubscribe is called.
// Unsubscribe is idempotent and closes no channel the receiver may still read.
type Subscription interface {
	Blocks() <-chan uint64
	Unsubscribe()
}

// Block is a block together with its transactions.
type Block struct {
	Number       uint64
	Hash         common.Hash
	Transactions []*TxResponse
}
