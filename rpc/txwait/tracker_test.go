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

package txwait_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/ledgerwatch/log/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/execution/types"
	"github.com/mhsnprvr/corebc-tes/rpc/txwait"
)

var (
	sender    = common.MustParseAddress("0xcb648ba1f109551bd432803012645ac136ddd64dba72")
	recipient = common.MustParseAddress("0xcb39a8822e734cd366a251a4c3766ca0d3b2dfc95b90")
)

func testConfig() txwait.Config {
	return txwait.Config{
		PollInterval:   time.Millisecond,
		RetryBackOff:   time.Millisecond,
		BlockCacheSize: 16,
	}
}

func pendingTx() *txwait.TxResponse {
	to := recipient
	return &txwait.TxResponse{
		Hash:  common.BytesToHash([]byte{0x01}),
		From:  sender,
		To:    &to,
		Nonce: 5,
		Value: uint256.NewInt(1000),
		Data:  []byte{0xde, 0xad},
	}
}

type testSubscription struct {
	blocks       chan uint64
	unsubscribed atomic.Bool
}

func newTestSubscription() *testSubscription {
	return &testSubscription{blocks: make(chan uint64)}
}

func (s *testSubscription) Blocks() <-chan uint64 { return s.blocks }

func (s *testSubscription) Unsubscribe() { s.unsubscribed.Store(true) }

// expectSubscription hands out sub and closes the returned channel once the
// waiter has subscribed.
func expectSubscription(provider *txwait.MockProvider, sub *testSubscription) <-chan struct{} {
	subscribed := make(chan struct{})
	provider.EXPECT().
		SubscribeNewBlocks(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (txwait.Subscription, error) {
			close(subscribed)
			return sub, nil
		})
	return subscribed
}

func awaitDone(t *testing.T, w *txwait.Waiter) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not settle")
	}
}

func awaitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

func TestWaitConfirmedImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx().ReplaceableTransaction(8)

	receipt := &types.Receipt{TxHash: pending.Hash, BlockNumber: 10, Status: types.ReceiptStatusSuccessful}
	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(receipt, nil)
	provider.EXPECT().BlockNumber(gomock.Any()).Return(uint64(12), nil)

	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	got, err := tracker.Wait(context.Background(), pending, 3, 0)
	require.NoError(t, err)
	require.Equal(t, receipt, got)
}

func TestWaitConfirmedLater(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx()

	var height atomic.Uint64
	height.Store(10)
	receipt := &types.Receipt{TxHash: pending.Hash, BlockNumber: 11}
	provider.EXPECT().
		TransactionReceipt(gomock.Any(), pending.Hash).
		DoAndReturn(func(context.Context, common.Hash) (*types.Receipt, error) {
			if height.Load() < 11 {
				return nil, nil
			}
			return receipt, nil
		}).
		AnyTimes()
	provider.EXPECT().
		BlockNumber(gomock.Any()).
		DoAndReturn(func(context.Context) (uint64, error) { return height.Load(), nil }).
		AnyTimes()
	sub := newTestSubscription()
	subscribed := expectSubscription(provider, sub)

	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	w := tracker.Start(pending, 2, 0)
	awaitSignal(t, subscribed)

	height.Store(11)
	sub.blocks <- 11
	select {
	case <-w.Done():
		t.Fatal("settled with too few confirmations")
	case <-time.After(20 * time.Millisecond):
	}

	height.Store(12)
	select {
	case sub.blocks <- 12:
	case <-w.Done():
	}
	awaitDone(t, w)
	got, err := w.Result()
	require.NoError(t, err)
	require.Equal(t, receipt, got)
	require.Equal(t, txwait.StatusConfirmed, w.Status())
	w.Cancel()
	require.True(t, sub.unsubscribed.Load())
}

func TestWaitTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx()

	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, nil)
	sub := newTestSubscription()
	expectSubscription(provider, sub)

	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	start := time.Now()
	w := tracker.Start(pending, 1, 100*time.Millisecond)
	awaitDone(t, w)
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)

	got, err := w.Result()
	require.Nil(t, got)
	require.ErrorIs(t, err, txwait.ErrTimeout)
	require.Equal(t, txwait.StatusTimedOut, w.Status())

	w.Cancel()
	require.Equal(t, txwait.StatusTimedOut, w.Status(), "cancel after settlement keeps the outcome")
	require.True(t, sub.unsubscribed.Load())
}

func TestWaitReplaced(t *testing.T) {
	self := sender
	tests := []struct {
		name      string
		mutate    func(tx *txwait.TxResponse)
		reason    txwait.Reason
		cancelled bool
	}{
		{
			name:   "repriced",
			mutate: func(tx *txwait.TxResponse) { tx.EnergyPrice = uint256.NewInt(2) },
			reason: txwait.ReasonRepriced,
		},
		{
			name: "cancelled",
			mutate: func(tx *txwait.TxResponse) {
				tx.To = &self
				tx.Value = new(uint256.Int)
				tx.Data = nil
			},
			reason:    txwait.ReasonCancelled,
			cancelled: true,
		},
		{
			name:      "replaced",
			mutate:    func(tx *txwait.TxResponse) { tx.Data = []byte{0xbe, 0xef} },
			reason:    txwait.ReasonReplaced,
			cancelled: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)
			ctrl := gomock.NewController(t)
			provider := txwait.NewMockProvider(ctrl)
			pending := pendingTx().ReplaceableTransaction(10)

			replacement := pendingTx()
			replacement.Hash = common.BytesToHash([]byte{0x02})
			tt.mutate(replacement)
			unrelated := pendingTx()
			unrelated.Hash = common.BytesToHash([]byte{0x03})
			unrelated.Nonce = 9

			var height atomic.Uint64
			height.Store(10)
			provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, nil).AnyTimes()
			provider.EXPECT().
				BlockNumber(gomock.Any()).
				DoAndReturn(func(context.Context) (uint64, error) { return height.Load(), nil }).
				AnyTimes()
			provider.EXPECT().
				TransactionCount(gomock.Any(), sender).
				DoAndReturn(func(context.Context, common.Address) (uint64, error) {
					if height.Load() < 11 {
						return 4, nil
					}
					return 6, nil
				}).
				AnyTimes()
			unmined := *pending
			provider.EXPECT().Transaction(gomock.Any(), pending.Hash).Return(&unmined, nil).AnyTimes()
			provider.EXPECT().
				BlockByNumber(gomock.Any(), uint64(10)).
				Return(&txwait.Block{Number: 10, Transactions: []*txwait.TxResponse{unrelated}}, nil)
			provider.EXPECT().
				BlockByNumber(gomock.Any(), uint64(11)).
				Return(&txwait.Block{Number: 11, Transactions: []*txwait.TxResponse{unrelated, replacement}}, nil)
			replacementReceipt := &types.Receipt{TxHash: replacement.Hash, BlockNumber: 11}
			provider.EXPECT().TransactionReceipt(gomock.Any(), replacement.Hash).Return(replacementReceipt, nil)
			sub := newTestSubscription()
			subscribed := expectSubscription(provider, sub)

			tracker := txwait.NewTracker(provider, testConfig(), log.New())
			w := tracker.Start(pending, 1, 0)
			awaitSignal(t, subscribed)

			height.Store(11)
			sub.blocks <- 11
			awaitDone(t, w)

			got, err := w.Result()
			require.Nil(t, got)
			require.ErrorIs(t, err, txwait.ErrReplaced)
			var replaced *txwait.ReplacedError
			require.ErrorAs(t, err, &replaced)
			require.Equal(t, tt.reason, replaced.Reason)
			require.Equal(t, tt.cancelled, replaced.Cancelled())
			require.Equal(t, replacement.Hash, replaced.Hash)
			require.Equal(t, replacementReceipt, replaced.Receipt)
			start, ok := replaced.Replacement.StartBlock()
			require.True(t, ok)
			require.Equal(t, uint64(10), start)
			require.Equal(t, txwait.StatusReplaced, w.Status())
			w.Cancel()
		})
	}
}

func TestWaitReplacementNeedsConfirmations(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx().ReplaceableTransaction(10)

	replacement := pendingTx()
	replacement.Hash = common.BytesToHash([]byte{0x02})

	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, nil).AnyTimes()
	provider.EXPECT().BlockNumber(gomock.Any()).Return(uint64(10), nil).AnyTimes()
	provider.EXPECT().TransactionCount(gomock.Any(), sender).Return(uint64(6), nil).AnyTimes()
	provider.EXPECT().Transaction(gomock.Any(), pending.Hash).Return(nil, nil).AnyTimes()
	provider.EXPECT().
		BlockByNumber(gomock.Any(), uint64(10)).
		Return(&txwait.Block{Number: 10, Transactions: []*txwait.TxResponse{replacement}}, nil)
	provider.EXPECT().
		TransactionReceipt(gomock.Any(), replacement.Hash).
		Return(&types.Receipt{TxHash: replacement.Hash, BlockNumber: 10}, nil).
		AnyTimes()
	sub := newTestSubscription()
	subscribed := expectSubscription(provider, sub)

	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	w := tracker.Start(pending, 3, 0)
	awaitSignal(t, subscribed)
	sub.blocks <- 10

	select {
	case <-w.Done():
		t.Fatal("replacement with one confirmation settled a wait for three")
	case <-time.After(50 * time.Millisecond):
	}
	w.Cancel()
	require.Equal(t, txwait.StatusCancelled, w.Status())
}

func TestWaitMinedSkipsScan(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx().ReplaceableTransaction(10)

	blockNumber := uint64(11)
	mined := *pending
	mined.BlockNumber = &blockNumber
	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, nil)
	provider.EXPECT().BlockNumber(gomock.Any()).Return(uint64(11), nil)
	provider.EXPECT().TransactionCount(gomock.Any(), sender).Return(uint64(6), nil)
	provider.EXPECT().Transaction(gomock.Any(), pending.Hash).Return(&mined, nil)

	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	got, err := tracker.Wait(context.Background(), pending, 0, 0)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestWaitZeroConfirmations(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx()

	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, nil)

	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	w := tracker.Start(pending, 0, 0)
	awaitDone(t, w)
	got, err := w.Result()
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, txwait.StatusPending, w.Status())
	w.Cancel()
}

func TestWaitCancelledNeverSettles(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx()

	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, nil)
	sub := newTestSubscription()
	subscribed := expectSubscription(provider, sub)

	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	w := tracker.Start(pending, 1, 100*time.Millisecond)
	awaitSignal(t, subscribed)
	w.Cancel()
	w.Cancel()

	// well past the timeout: a cancelled wait neither times out nor resolves
	select {
	case <-w.Done():
		t.Fatal("cancelled wait settled")
	case <-time.After(300 * time.Millisecond):
	}
	require.Equal(t, txwait.StatusCancelled, w.Status())
	require.True(t, sub.unsubscribed.Load())
}

func TestWaitContextCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx()

	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, nil)
	sub := newTestSubscription()
	subscribed := expectSubscription(provider, sub)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-subscribed
		cancel()
	}()
	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	_, err := tracker.Wait(ctx, pending, 1, 0)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, sub.unsubscribed.Load())
}

func TestWaitProviderFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx()

	errBoom := errors.New("boom")
	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, errBoom).Times(3)

	cfg := testConfig()
	cfg.MaxRetries = 2
	tracker := txwait.NewTracker(provider, cfg, log.New())
	w := tracker.Start(pending, 1, 0)
	awaitDone(t, w)
	_, err := w.Result()
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, txwait.StatusFailed, w.Status())
	w.Cancel()
}

func TestSubscriptionClosed(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)
	pending := pendingTx()

	provider.EXPECT().TransactionReceipt(gomock.Any(), pending.Hash).Return(nil, nil)
	sub := newTestSubscription()
	subscribed := expectSubscription(provider, sub)

	tracker := txwait.NewTracker(provider, testConfig(), log.New())
	w := tracker.Start(pending, 1, 0)
	awaitSignal(t, subscribed)
	close(sub.blocks)
	awaitDone(t, w)
	_, err := w.Result()
	require.ErrorIs(t, err, txwait.ErrSubscriptionClosed)
	w.Cancel()
}

func TestWaitReorgedBlockNotCached(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)

	first := pendingTx().ReplaceableTransaction(11)
	second := pendingTx()
	second.Hash = common.BytesToHash([]byte{0x0b})
	second.Nonce = 7
	second = second.ReplaceableTransaction(11)
	replacement := pendingTx()
	replacement.Hash = common.BytesToHash([]byte{0xcc})
	replacement.Nonce = 7

	provider.EXPECT().TransactionReceipt(gomock.Any(), first.Hash).Return(nil, nil)
	provider.EXPECT().TransactionReceipt(gomock.Any(), second.Hash).Return(nil, nil)
	provider.EXPECT().BlockNumber(gomock.Any()).Return(uint64(11), nil).AnyTimes()
	provider.EXPECT().TransactionCount(gomock.Any(), sender).Return(uint64(8), nil).AnyTimes()
	provider.EXPECT().Transaction(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	// block 11 is reorganised between the two waits
	provider.EXPECT().
		BlockByNumber(gomock.Any(), uint64(11)).
		Return(&txwait.Block{Number: 11}, nil)
	provider.EXPECT().
		BlockByNumber(gomock.Any(), uint64(11)).
		Return(&txwait.Block{Number: 11, Transactions: []*txwait.TxResponse{replacement}}, nil)
	replacementReceipt := &types.Receipt{TxHash: replacement.Hash, BlockNumber: 11}
	provider.EXPECT().TransactionReceipt(gomock.Any(), replacement.Hash).Return(replacementReceipt, nil)

	config := testConfig()
	config.FinalityDepth = 12
	tracker := txwait.NewTracker(provider, config, log.New())

	got, err := tracker.Wait(context.Background(), first, 0, time.Second)
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = tracker.Wait(context.Background(), second, 1, 5*time.Second)
	require.ErrorIs(t, err, txwait.ErrReplaced)
	var replaced *txwait.ReplacedError
	require.ErrorAs(t, err, &replaced)
	require.Equal(t, replacement.Hash, replaced.Hash)
	require.Equal(t, txwait.ReasonRepriced, replaced.Reason)
}

func TestWaitFinalBlocksCached(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	provider := txwait.NewMockProvider(ctrl)

	first := pendingTx().ReplaceableTransaction(11)
	second := pendingTx()
	second.Hash = common.BytesToHash([]byte{0x0b})
	second = second.ReplaceableTransaction(11)

	provider.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	provider.EXPECT().BlockNumber(gomock.Any()).Return(uint64(11), nil).AnyTimes()
	provider.EXPECT().TransactionCount(gomock.Any(), sender).Return(uint64(8), nil).AnyTimes()
	provider.EXPECT().Transaction(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	provider.EXPECT().BlockByNumber(gomock.Any(), uint64(11)).Return(&txwait.Block{Number: 11}, nil)

	config := testConfig()
	config.FinalityDepth = 0
	tracker := txwait.NewTracker(provider, config, log.New())
	for _, pending := range []*txwait.TxResponse{first, second} {
		got, err := tracker.Wait(context.Background(), pending, 0, time.Second)
		require.NoError(t, err)
		require.Nil(t, got)
	}
}
