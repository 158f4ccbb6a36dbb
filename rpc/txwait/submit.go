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
	"fmt"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/execution/types"
)

// Submit broadcasts a signed transaction and returns a response that detects
// replacements from the height observed just before the broadcast.
func (t *Tracker) Submit(ctx context.Context, tx *types.Transaction) (*TxResponse, error) {
	raw, err := tx.Serialized()
	if err != nil {
		return nil, err
	}
	resp, err := NewTxResponse(tx)
	if err != nil {
		return nil, err
	}
	startBlock, err := fetchWithRetry(ctx, t.config, func() (uint64, error) {
		return t.provider.BlockNumber(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch start block: %w", err)
	}
	hash, err := t.provider.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, err
	}
	if hash != resp.Hash {
		return nil, fmt.Errorf("%w: node returned hash %s for transaction %s", common.ErrBadData, hash, resp.Hash)
	}
	t.logger.Debug("[txwait] submitted", "hash", hash, "from", resp.From, "nonce", resp.Nonce, "startBlock", startBlock)
	return resp.ReplaceableTransaction(startBlock), nil
}
