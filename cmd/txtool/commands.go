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
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/common/hexutil"
	"github.com/mhsnprvr/corebc-tes/crypto"
	"github.com/mhsnprvr/corebc-tes/execution/types"
	"github.com/mhsnprvr/corebc-tes/params"
)

var (
	NetworkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "Network name or id whose energy costs apply",
		Value: "mainnet",
	}
	KeyFlag = cli.StringFlag{
		Name:     "key",
		Usage:    "Hex encoded 57-byte Ed448 private key",
		Required: true,
	}
	FromFlag = cli.StringFlag{
		Name:     "from",
		Usage:    "Deployer address",
		Required: true,
	}
	NonceFlag = cli.Uint64Flag{
		Name:  "nonce",
		Usage: "Deployer nonce",
	}
	SaltFlag = cli.StringFlag{
		Name:     "salt",
		Usage:    "Hex encoded 32-byte salt",
		Required: true,
	}
	InitCodeHashFlag = cli.StringFlag{
		Name:  "init-code-hash",
		Usage: "Hex encoded 32-byte hash of the init code",
	}
	InitCodeFlag = cli.StringFlag{
		Name:  "init-code",
		Usage: "Hex encoded init code, hashed when --init-code-hash is not given",
	}
)

var decodeCommand = cli.Command{
	Action:    decode,
	Name:      "decode",
	Usage:     "Decode a raw transaction and print it as JSON",
	ArgsUsage: "<raw tx hex>",
	Flags:     []cli.Flag{&NetworkFlag},
}

var signCommand = cli.Command{
	Action:    sign,
	Name:      "sign",
	Usage:     "Sign a raw unsigned transaction",
	ArgsUsage: "<unsigned tx hex>",
	Flags:     []cli.Flag{&KeyFlag},
}

var addressCommand = cli.Command{
	Action:    address,
	Name:      "address",
	Usage:     "Validate an address given in hex or ICAP form",
	ArgsUsage: "<address>",
}

var createAddressCommand = cli.Command{
	Action: createAddress,
	Name:   "create-address",
	Usage:  "Address of a contract deployed with CREATE",
	Flags:  []cli.Flag{&FromFlag, &NonceFlag},
}

var create2AddressCommand = cli.Command{
	Action: create2Address,
	Name:   "create2-address",
	Usage:  "Address of a contract deployed with CREATE2",
	Flags:  []cli.Flag{&FromFlag, &SaltFlag, &InitCodeHashFlag, &InitCodeFlag},
}

var networksCommand = cli.Command{
	Action: networks,
	Name:   "networks",
	Usage:  "List known networks",
}

func registry(ctx *cli.Context) (*params.Registry, error) {
	r := params.NewDefaultRegistry()
	if path := ctx.String(ConfigFlag.Name); path != "" {
		if err := params.LoadRegistryFile(r, path); err != nil {
			return nil, err
		}
		log.Debug("Loaded networks", "file", path)
	}
	return r, nil
}

func firstArg(ctx *cli.Context, what string) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("%w: expected exactly one %s", common.ErrInvalidArgument, what)
	}
	return ctx.Args().First(), nil
}

type decodedTx struct {
	Transaction     *types.Transaction `json:"transaction"`
	UnsignedHash    common.Hash        `json:"unsignedHash"`
	IntrinsicEnergy uint64             `json:"intrinsicEnergy"`
}

func decode(ctx *cli.Context) error {
	arg, err := firstArg(ctx, "raw transaction")
	if err != nil {
		return err
	}
	raw, err := hexutil.Decode(arg)
	if err != nil {
		return err
	}
	tx, err := types.ParseTransaction(raw)
	if err != nil {
		return err
	}
	r, err := registry(ctx)
	if err != nil {
		return err
	}
	network, err := r.Lookup(ctx.String(NetworkFlag.Name))
	if err != nil {
		return err
	}
	unsignedHash, err := tx.UnsignedHash()
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(decodedTx{
		Transaction:     tx,
		UnsignedHash:    unsignedHash,
		IntrinsicEnergy: network.Costs.IntrinsicEnergy(tx.To(), tx.Data()),
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(out))
	return err
}

func sign(ctx *cli.Context) error {
	arg, err := firstArg(ctx, "unsigned transaction")
	if err != nil {
		return err
	}
	raw, err := hexutil.Decode(arg)
	if err != nil {
		return err
	}
	tx, err := types.ParseTransaction(raw)
	if err != nil {
		return err
	}
	if tx.IsSigned() {
		return fmt.Errorf("%w: transaction is already signed", common.ErrInvalidArgument)
	}
	keyBytes, err := hexutil.Decode(ctx.String(KeyFlag.Name))
	if err != nil {
		return err
	}
	key, err := crypto.NewEd448Key(keyBytes)
	if err != nil {
		return err
	}
	signed, err := types.SignTx(tx, key)
	if err != nil {
		return err
	}
	wire, err := signed.Serialized()
	if err != nil {
		return err
	}
	hash, err := signed.Hash()
	if err != nil {
		return err
	}
	from, err := types.Sender(signed)
	if err != nil {
		return err
	}
	log.Info("Signed transaction", "hash", hash, "from", from)
	_, err = fmt.Fprintln(ctx.App.Writer, hexutil.Encode(wire))
	return err
}

func address(ctx *cli.Context) error {
	arg, err := firstArg(ctx, "address")
	if err != nil {
		return err
	}
	var a common.Address
	if strings.HasPrefix(strings.ToUpper(arg), "XE") {
		a, err = common.ParseICAP(arg)
	} else {
		a, err = common.ParseAddress(arg)
	}
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	fmt.Fprintf(w, "address:  %s\n", a.Hex())
	fmt.Fprintf(w, "icap:     %s\n", common.ToICAP(a))
	fmt.Fprintf(w, "prefix:   %s\n", a.Prefix())
	fmt.Fprintf(w, "checksum: %s\n", a.Checksum())
	_, err = fmt.Fprintf(w, "keyHash:  %s\n", hexutil.Encode(a.KeyHash()))
	return err
}

func createAddress(ctx *cli.Context) error {
	from, err := common.ParseAddress(ctx.String(FromFlag.Name))
	if err != nil {
		return err
	}
	a, err := types.CreateAddress(from, ctx.Uint64(NonceFlag.Name))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, a.Hex())
	return err
}

func create2Address(ctx *cli.Context) error {
	from, err := common.ParseAddress(ctx.String(FromFlag.Name))
	if err != nil {
		return err
	}
	salt, err := hexutil.Decode(ctx.String(SaltFlag.Name))
	if err != nil {
		return err
	}
	var initCodeHash []byte
	switch {
	case ctx.IsSet(InitCodeHashFlag.Name):
		if initCodeHash, err = hexutil.Decode(ctx.String(InitCodeHashFlag.Name)); err != nil {
			return err
		}
	case ctx.IsSet(InitCodeFlag.Name):
		initCode, err := hexutil.Decode(ctx.String(InitCodeFlag.Name))
		if err != nil {
			return err
		}
		initCodeHash = crypto.SHA3(initCode)
	default:
		return errors.New("one of --init-code-hash or --init-code is required")
	}
	a, err := types.CreateAddress2(from, salt, initCodeHash)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, a.Hex())
	return err
}

func networks(ctx *cli.Context) error {
	r, err := registry(ctx)
	if err != nil {
		return err
	}
	for _, n := range r.All() {
		prefix, err := n.Prefix()
		if err != nil {
			prefix = "-"
		}
		if _, err := fmt.Fprintf(ctx.App.Writer, "%-16s %10d  %s\n", n.Name, n.ID, prefix); err != nil {
			return err
		}
	}
	return nil
}
