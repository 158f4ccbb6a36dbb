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

package common

import "errors"

// Error classes. Every error returned by this module wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed caller input: bad address
	// text, wrong-length salt or digest, negative numeric fields, mismatched
	// declared hash or sender.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBadData is returned while decoding malformed wire bytes.
	ErrBadData = errors.New("bad data")

	ErrUnsupported = errors.New("unsupported operation")

	// ErrVerification is returned when a signature does not verify against
	// the key it carries.
	ErrVerification = errors.New("signature verification failed")
)
