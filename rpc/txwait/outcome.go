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
	"errors"
	"fmt"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/execution/types"
)

var (
	ErrTimeout  = errors.New("wait for transaction timeout")
	ErrReplaced = errors.New("transaction was replaced")
	// ErrSubscriptionClosed is returned when the block feed ends before the wait settles.
	ErrSubscriptionClosed = errors.New("block subscription closed")
)

// Reason tells how a replacing transaction relates to the one it replaced.
type Reason string

const (
	ReasonRepriced  Reason = "repriced"
	ReasonCancelled Reason = "cancelled"
	ReasonReplaced  Reason = "replaced"
)

// ReplacedError is the outcome of a wait whose nonce was consumed by another
// transaction that reached the requested depth.
type ReplacedError struct {
	Reason      Reason
	Hash        common.Hash
	Replacement *TxResponse
	Receipt     *types.Receipt
}

func (e *ReplacedError) Error() string {
	return fmt.Sprintf("%s (%s) by %s", ErrReplaced, e.Reason, e.Hash)
}

func (e *ReplacedError) Is(target error) bool { return target == ErrReplaced }

// Cancelled reports whether the original transaction's effect is lost, that is
// whether the replacement did something other than repricing it.
func (e *ReplacedError) Cancelled() bool { return e.Reason != ReasonRepriced }

type Status uint8

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusReplaced
	StatusTimedOut
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusReplaced:
		return "replaced"
	case StatusTimedOut:
		return "timed-out"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusConfirmed
	case errors.Is(err, ErrReplaced):
		return StatusReplaced
	case errors.Is(err, ErrTimeout):
		return StatusTimedOut
	default:
		return StatusFailed
	}
}
