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

import "time"

type Config struct {
	// PollInterval is how often a polling subscription asks for the head.
	PollInterval time.Duration
	// RetryBackOff and MaxRetries bound the retries of a failing provider call.
	RetryBackOff time.Duration
	MaxRetries   uint64
	// BlockCacheSize is the number of scanned blocks kept for replacement checks.
	BlockCacheSize int
	// FinalityDepth is how far below the head a block must be before it is
	// cached. Blocks closer to the head are fetched again on every scan.
	FinalityDepth uint64
}

func DefaultConfig() Config {
	return Config{
		PollInterval:   4 * time.Second,
		RetryBackOff:   time.Second,
		MaxRetries:     5,
		BlockCacheSize: 128,
		FinalityDepth:  12,
	}
}
