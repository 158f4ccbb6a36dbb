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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/common/hexutil"
	"github.com/mhsnprvr/corebc-tes/execution/types"
)

const (
	testUnsignedTx = "0xe505843b9aca0082520896cb648ba1f109551bd432803012645ac136ddd64dba720182dead01"
	testKey        = "0x6c82a562cb808d10d632be89c8513ebf6c929f34ddfa8c9f63c9960ef6e348a3528c8a3fcc2f044e39a3fc5b94492f8f032e7549a20098f95b"
	testSender     = "0xcb648ba1f109551bd432803012645ac136ddd64dba72"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"txtool", "--verbosity", "1"}, args...))
	return out.String(), err
}

func TestCreateAddressCommand(t *testing.T) {
	out, err := run(t, "create-address", "--from", testSender, "--nonce", "5")
	require.NoError(t, err)
	require.Equal(t, "0xcb574c20577e95cba7259ebcd455446d5e981506cf65\n", out)

	_, err = run(t, "create-address", "--from", "0xcb658ba1f109551bd432803012645ac136ddd64dba72")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestCreate2AddressCommand(t *testing.T) {
	salt := "0x" + strings.Repeat("00", 32)
	out, err := run(t, "create2-address", "--from", testSender, "--salt", salt, "--init-code", "0x")
	require.NoError(t, err)
	require.Equal(t, "0xcb150f154930436558b264f97f517a89bb7bee0158b7\n", out)

	out, err = run(t, "create2-address", "--from", testSender, "--salt", salt,
		"--init-code-hash", "0xa7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a")
	require.NoError(t, err)
	require.Equal(t, "0xcb150f154930436558b264f97f517a89bb7bee0158b7\n", out)

	_, err = run(t, "create2-address", "--from", testSender, "--salt", "0x00", "--init-code", "0x")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestAddressCommand(t *testing.T) {
	out, err := run(t, "address", "XE22XDF3UQF19QE096SD3RQ4G4RLS1Q1D8RTKI")
	require.NoError(t, err)
	require.Contains(t, out, "address:  "+testSender)
	require.Contains(t, out, "checksum: 64")

	out, err = run(t, "address", testSender)
	require.NoError(t, err)
	require.Contains(t, out, "icap:     XE22XDF3UQF19QE096SD3RQ4G4RLS1Q1D8RTKI")

	_, err = run(t, "address")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "decode", testUnsignedTx)
	require.NoError(t, err)

	var decoded struct {
		Transaction struct {
			To        string `json:"to"`
			Nonce     uint64 `json:"nonce"`
			NetworkID string `json:"networkId"`
		} `json:"transaction"`
		IntrinsicEnergy uint64 `json:"intrinsicEnergy"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, testSender, decoded.Transaction.To)
	require.Equal(t, uint64(5), decoded.Transaction.Nonce)
	require.Equal(t, "1", decoded.Transaction.NetworkID)
	require.Equal(t, uint64(21000+2*16), decoded.IntrinsicEnergy)

	_, err = run(t, "decode", "0x02c0")
	require.ErrorIs(t, err, common.ErrUnsupported)
	_, err = run(t, "decode", testUnsignedTx+"00")
	require.ErrorIs(t, err, common.ErrBadData)
}

func TestSignCommand(t *testing.T) {
	out, err := run(t, "sign", "--key", testKey, testUnsignedTx)
	require.NoError(t, err)

	tx, err := types.ParseTransaction(hexutil.MustDecode(strings.TrimSpace(out)))
	require.NoError(t, err)
	from, err := types.Sender(tx)
	require.NoError(t, err)
	require.Equal(t, "0xcb39a8822e734cd366a251a4c3766ca0d3b2dfc95b90", from.Hex())

	_, err = run(t, "sign", "--key", testKey, strings.TrimSpace(out))
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestNetworksCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[networks]]\nname = \"devin\"\nnetworkId = 7777\n"), 0o600))

	out, err := run(t, "--config", path, "networks")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Contains(t, lines[0], "mainnet")
	require.Contains(t, lines[0], "cb")
	require.Contains(t, out, "devin")
	require.Contains(t, out, "7777  ce")
}
