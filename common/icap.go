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

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// ICAP is the legacy IBAN-compatible address form: "XE", two mod-97 check
// digits and the base-36 value of the full 22-byte address, left-padded to at
// least 30 characters.

const (
	icapMinBody = 30
	// largest run of decimal digits that fits the chunked reduction
	icapSafeDigits = 15
)

var icapRe = regexp.MustCompile(`^XE[0-9]{2}[0-9A-Z]{30,}$`)

func ToICAP(a Address) string {
	body := strings.ToUpper(new(big.Int).SetBytes(a[:]).Text(36))
	if len(body) < icapMinBody {
		body = strings.Repeat("0", icapMinBody-len(body)) + body
	}
	return "XE" + ibanChecksum("XE00"+body) + body
}

// ParseICAP validates the check digits of an ICAP string and the checksum of
// the address it encodes.
func ParseICAP(s string) (Address, error) {
	s = strings.ToUpper(s)
	if !icapRe.MatchString(s) {
		return Address{}, fmt.Errorf("%w: invalid ICAP address %q", ErrInvalidArgument, s)
	}
	body := s[4:]
	if sum := ibanChecksum(s[:2] + "00" + body); sum != s[2:4] {
		return Address{}, fmt.Errorf("%w: bad ICAP checksum %q, expected %s", ErrInvalidArgument, s, sum)
	}
	n, ok := new(big.Int).SetString(body, 36)
	if !ok || n.BitLen() > AddressLength*8 {
		return Address{}, fmt.Errorf("%w: ICAP body %q does not encode an address", ErrInvalidArgument, body)
	}
	var raw [AddressLength]byte
	n.FillBytes(raw[:])
	return BytesToAddress(raw[:])
}

func ibanChecksum(s string) string {
	s = s[4:] + s[:2] + "00"

	var expanded strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			expanded.WriteString(strconv.Itoa(int(c-'A') + 10))
		} else {
			expanded.WriteByte(c)
		}
	}

	digits := expanded.String()
	for len(digits) >= icapSafeDigits {
		block, _ := strconv.ParseUint(digits[:icapSafeDigits], 10, 64)
		digits = strconv.FormatUint(block%97, 10) + digits[icapSafeDigits:]
	}
	rest, _ := strconv.ParseUint(digits, 10, 64)
	return fmt.Sprintf("%02d", 98-rest%97)
}
