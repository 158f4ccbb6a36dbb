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
	"github.com/mhsnprvr/corebc-tes/common"
)

// PubkeyToAddress returns the address of a public key on the network with
// the given prefix: the low 20 bytes of SHA3-256(pub), checksummed.
func PubkeyToAddress(pub []byte, prefix string) (common.Address, error) {
	h := SHA3(pub)
	return common.NewAddress(prefix, h[12:])
}

// RecoverAddress verifies sig over digest and returns the signer's address.
// prefix must come from the network id the signed payload declares.
func RecoverAddress(digest, sig []byte, prefix string) (common.Address, error) {
	pub, err := RecoverPublicKey(digest, sig)
	if err != nil {
		return common.Address{}, err
	}
	return PubkeyToAddress(pub, prefix)
}

// ExtractPrefix validates address and returns its network prefix.
func ExtractPrefix(address string) (string, error) {
	a, err := common.ParseAddress(address)
	if err != nil {
		return "", err
	}
	return a.Prefix(), nil
}
