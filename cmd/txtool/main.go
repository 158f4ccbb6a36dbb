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
	"fmt"
	"os"

	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/mhsnprvr/corebc-tes/params"
)

var (
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: int(log.LvlInfo),
	}
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Extra networks from a .yaml or .toml file",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = params.ClientName
	app.Version = params.VersionWithCommit(params.GitCommit)
	app.Usage = "Inspect, derive and sign Core Blockchain transactions and addresses"
	app.UsageText = app.Name + ` [command] [flags]`

	app.Commands = []*cli.Command{
		&decodeCommand,
		&signCommand,
		&addressCommand,
		&createAddressCommand,
		&create2AddressCommand,
		&networksCommand,
	}
	app.Flags = []cli.Flag{
		&VerbosityFlag,
		&ConfigFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		lvl := log.Lvl(ctx.Int(VerbosityFlag.Name))
		log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat())))
		return nil
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
