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

package crypto

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/mhsnprvr/corebc-tes/common"
)

var hashersPool = sync.Pool{
	New: func() any {
		return sha3.New256()
	},
}

func newHasher() hash.Hash {
	h := hashersPool.Get().(hash.Hash)
	h.Reset()
	return h
}

// SHA3 calculates and returns the SHA3-256 hash of the input data.
func SHA3(data ...[]byte) []byte {
	h := newHasher()
	defer hashersPool.Put(h)
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// SHA3Hash calculates and returns the SHA3-256 hash of the input data,
// converting it to an internal Hash data structure.
func SHA3Hash(data ...[]byte) (out common.Hash) {
	h := newHasher()
	defer hashersPool.Put(h)
	for _, b := range data {
		h.Write(b)
	}
	h.Sum(out[:0])
	return out
}
