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
	"sync"
	"time"

	"github.com/ledgerwatch/log/v3"
)

type blockNumberer interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// pollingSubscription turns a node without push notifications into a block
// feed by asking for the head on every tick.
type pollingSubscription struct {
	blocks  chan uint64
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewPollingSubscription emits every new head seen on an interval tick.
// Heads that do not advance are not reported. The feed is closed once ctx
// ends or Unsubscribe is called.
func NewPollingSubscription(ctx context.Context, client blockNumberer, interval time.Duration, logger log.Logger) Subscription {
	s := &pollingSubscription{
		blocks:  make(chan uint64),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run(ctx, client, interval, logger)
	return s
}

func (s *pollingSubscription) run(ctx context.Context, client blockNumberer, interval time.Duration, logger log.Logger) {
	defer close(s.stopped)
	defer close(s.blocks)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last uint64
	var seen bool
	for {
		select {
		case <-ticker.C:
			number, err := client.BlockNumber(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("[txwait] failed to poll block number", "err", err)
				continue
			}
			if seen && number <= last {
				continue
			}
			last, seen = number, true
			select {
			case s.blocks <- number:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *pollingSubscription) Blocks() <-chan uint64 { return s.blocks }

func (s *pollingSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.quit) })
	<-s.stopped
}
