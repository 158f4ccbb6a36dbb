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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/execution/types"
)

// replacementLookBack is how many blocks before the recorded start a
// replacement scan begins, bounded below by the original start block.
const replacementLookBack = 3

// Tracker follows submitted transactions until they are confirmed, replaced
// or given up on. Waiters started from one tracker share its cache of blocks
// at least FinalityDepth below the head.
type Tracker struct {
	provider Provider
	config   Config
	logger   log.Logger
	blocks   *lru.Cache[uint64, *Block]
}

func NewTracker(provider Provider, config Config, logger log.Logger) *Tracker {
	blocks, err := lru.New[uint64, *Block](max(config.BlockCacheSize, 1))
	if err != nil {
		panic(fmt.Errorf("failed to create block LRU cache: %w", err))
	}
	return &Tracker{
		provider: provider,
		config:   config,
		logger:   logger,
		blocks:   blocks,
	}
}

// Wait blocks until tx reaches confirms confirmations, is replaced, times out
// or ctx is done. A zero timeout waits forever. With confirms of zero an
// unmined transaction yields a nil receipt straight away.
func (t *Tracker) Wait(ctx context.Context, tx *TxResponse, confirms uint64, timeout time.Duration) (*types.Receipt, error) {
	w := t.Start(tx, confirms, timeout)
	select {
	case <-w.Done():
		w.Cancel()
		return w.Result()
	case <-ctx.Done():
		w.Cancel()
		return nil, ctx.Err()
	}
}

// Start begins waiting for tx in the background.
func (t *Tracker) Start(tx *TxResponse, confirms uint64, timeout time.Duration) *Waiter {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Waiter{
		tracker:  t,
		tx:       tx,
		confirms: confirms,
		cancel:   cancel,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	w.originalStart, w.scanning = tx.StartBlock()
	w.startBlock = w.originalStart
	if timeout > 0 {
		w.mu.Lock()
		w.timer = time.AfterFunc(timeout, func() {
			if w.settle(nil, ErrTimeout) {
				t.logger.Debug("[txwait] timed out", "hash", tx.Hash, "timeout", timeout)
			}
		})
		w.mu.Unlock()
	}
	go w.run(ctx)
	return w
}

// Waiter is one wait on one transaction. The first outcome to arrive settles
// it; once cancelled it never settles.
type Waiter struct {
	tracker  *Tracker
	tx       *TxResponse
	confirms uint64

	// replacement scan state, owned by the run goroutine
	scanning      bool
	originalStart uint64
	startBlock    uint64
	nextScan      uint64
	scanStarted   bool

	cancel  context.CancelFunc
	stopped chan struct{}

	mu        sync.Mutex
	timer     *time.Timer
	done      chan struct{}
	settled   bool
	cancelled bool
	status    Status
	receipt   *types.Receipt
	err       error
}

// Done is closed once the wait has an outcome. It is never closed for a
// cancelled wait.
func (w *Waiter) Done() <-chan struct{} { return w.done }

// Result returns the outcome; it is meaningful only after Done is closed.
// A nil receipt with a nil error means the transaction was still unmined and
// zero confirmations were requested.
func (w *Waiter) Result() (*types.Receipt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.receipt, w.err
}

func (w *Waiter) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Cancel abandons the wait and returns once all background work has stopped.
// It is safe to call more than once and after the wait has settled.
func (w *Waiter) Cancel() {
	w.mu.Lock()
	if !w.settled && !w.cancelled {
		w.cancelled = true
		w.status = StatusCancelled
	}
	w.mu.Unlock()
	w.stop()
	<-w.stopped
}

func (w *Waiter) stop() {
	w.mu.Lock()
	timer := w.timer
	w.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
	w.cancel()
}

func (w *Waiter) settle(receipt *types.Receipt, err error) bool {
	w.mu.Lock()
	if w.settled || w.cancelled {
		w.mu.Unlock()
		return false
	}
	w.settled = true
	w.receipt, w.err = receipt, err
	w.status = statusOf(err)
	if err == nil && receipt == nil {
		w.status = StatusPending
	}
	close(w.done)
	w.mu.Unlock()
	w.stop()
	return true
}

func (w *Waiter) run(ctx context.Context) {
	defer close(w.stopped)
	logger := w.tracker.logger

	done, err := w.poll(ctx)
	if err != nil {
		w.settle(nil, err)
		return
	}
	if done {
		return
	}
	if w.confirms == 0 {
		w.settle(nil, nil)
		return
	}

	sub, err := w.tracker.provider.SubscribeNewBlocks(ctx)
	if err != nil {
		w.settle(nil, fmt.Errorf("subscribe to new blocks: %w", err))
		return
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case number, ok := <-sub.Blocks():
			if !ok {
				w.settle(nil, ErrSubscriptionClosed)
				return
			}
			logger.Trace("[txwait] new block", "hash", w.tx.Hash, "block", number)
			done, err := w.poll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// provider trouble is retried on the next block
				logger.Warn("[txwait] check failed", "hash", w.tx.Hash, "block", number, "err", err)
				continue
			}
			if done {
				return
			}
		}
	}
}

// poll checks the receipt and then for a replacement. It reports true once
// it has settled the waiter.
func (w *Waiter) poll(ctx context.Context) (bool, error) {
	receipt, err := fetchWithRetry(ctx, w.tracker.config, func() (*types.Receipt, error) {
		return w.tracker.provider.TransactionReceipt(ctx, w.tx.Hash)
	})
	if err != nil {
		return false, err
	}
	if receipt != nil {
		height, err := fetchWithRetry(ctx, w.tracker.config, func() (uint64, error) {
			return w.tracker.provider.BlockNumber(ctx)
		})
		if err != nil {
			return false, err
		}
		if confirmations := receipt.Confirmations(height); confirmations >= w.confirms {
			w.tracker.logger.Debug("[txwait] confirmed", "hash", w.tx.Hash, "block", receipt.BlockNumber, "confirmations", confirmations)
			w.settle(receipt, nil)
			return true, nil
		}
		return false, nil
	}

	replaced, err := w.checkReplacement(ctx)
	if err != nil {
		return false, err
	}
	if replaced != nil {
		w.tracker.logger.Debug("[txwait] replaced", "hash", w.tx.Hash, "by", replaced.Hash, "reason", replaced.Reason)
		w.settle(nil, replaced)
		return true, nil
	}
	return false, nil
}

// checkReplacement looks for a transaction from the same sender with the
// same nonce that has reached the requested depth. A nil result with a nil
// error means nothing conclusive was found yet.
func (w *Waiter) checkReplacement(ctx context.Context) (*ReplacedError, error) {
	if !w.scanning {
		return nil, nil
	}
	provider := w.tracker.provider

	var blockNumber, nonce uint64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		blockNumber, err = fetchWithRetry(egCtx, w.tracker.config, func() (uint64, error) {
			return provider.BlockNumber(egCtx)
		})
		return err
	})
	eg.Go(func() (err error) {
		nonce, err = fetchWithRetry(egCtx, w.tracker.config, func() (uint64, error) {
			return provider.TransactionCount(egCtx, w.tx.From)
		})
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// the sender has not got this far yet, scanning can start later
	if nonce < w.tx.Nonce {
		w.startBlock = blockNumber
		return nil, nil
	}

	mined, err := fetchWithRetry(ctx, w.tracker.config, func() (*TxResponse, error) {
		return provider.Transaction(ctx, w.tx.Hash)
	})
	if err != nil {
		return nil, err
	}
	if mined != nil && mined.IsMined() {
		return nil, nil
	}

	if !w.scanStarted {
		w.scanStarted = true
		w.nextScan = w.originalStart
		if w.startBlock >= w.originalStart+replacementLookBack {
			w.nextScan = w.startBlock - replacementLookBack
		}
	}

	for ; w.nextScan <= blockNumber; w.nextScan++ {
		block, err := w.tracker.block(ctx, w.nextScan, blockNumber)
		if err != nil {
			return nil, err
		}
		if block == nil {
			return nil, nil
		}
		for _, tx := range block.Transactions {
			if tx.Hash == w.tx.Hash {
				return nil, nil
			}
		}
		for _, tx := range block.Transactions {
			if tx.From != w.tx.From || tx.Nonce != w.tx.Nonce {
				continue
			}
			receipt, err := fetchWithRetry(ctx, w.tracker.config, func() (*types.Receipt, error) {
				return provider.TransactionReceipt(ctx, tx.Hash)
			})
			if err != nil {
				return nil, err
			}
			if receipt == nil || receipt.Confirmations(blockNumber) < w.confirms {
				return nil, nil
			}
			return &ReplacedError{
				Reason:      w.tx.replacementReason(tx),
				Hash:        tx.Hash,
				Replacement: tx.ReplaceableTransaction(w.startBlock),
				Receipt:     receipt,
			}, nil
		}
	}
	return nil, nil
}

// block returns block number as seen with the chain at head. Only blocks
// that can no longer be reorganised away are served from or kept in the cache.
func (t *Tracker) block(ctx context.Context, number, head uint64) (*Block, error) {
	final := head >= number && head-number >= t.config.FinalityDepth
	if final {
		if b, ok := t.blocks.Get(number); ok {
			return b, nil
		}
	}
	b, err := fetchWithRetry(ctx, t.config, func() (*Block, error) {
		return t.provider.BlockByNumber(ctx, number)
	})
	if err != nil || b == nil {
		return nil, err
	}
	if final {
		t.blocks.Add(number, b)
	}
	return b, nil
}

func fetchWithRetry[TData any](ctx context.Context, config Config, fetch func() (TData, error)) (TData, error) {
	var zero TData
	data, err := backoff.RetryWithData(func() (TData, error) {
		data, err := fetch()
		if err != nil {
			// cancellation and bad input are not retried
			if errors.Is(err, context.Canceled) || errors.Is(err, common.ErrInvalidArgument) {
				return zero, backoff.Permanent(err)
			}
			return zero, err
		}
		return data, nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(config.RetryBackOff), config.MaxRetries), ctx))
	if err != nil {
		return zero, err
	}
	return data, nil
}
