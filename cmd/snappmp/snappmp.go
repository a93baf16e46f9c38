// snappmp-go: Snapshot to PMP mod pack converter
// Copyright (C) 2026  Yishen Miao
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mys721tx/snappmp-go/pkg/config"
	"github.com/mys721tx/snappmp-go/pkg/payload"
	"github.com/mys721tx/snappmp-go/pkg/pmp"
	"github.com/mys721tx/snappmp-go/pkg/snapshot"
)

// setup loads the configuration, applies the global flags and installs the
// logger.
func setup(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()

	if fn := c.String("config"); fn != "" {
		var err error
		if cfg, err = config.LoadConfig(fn); err != nil {
			return nil, nil, err
		}
	}

	if dir := c.String("working-dir"); dir != "" {
		cfg.WorkingDirectory = dir
	}

	if c.Bool("verbose") {
		cfg.LogLevel = "debug"
	}

	l, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// convert is a wrapper for exporting snapshots one after another.
func convert(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowSubcommandHelp(c)
	}

	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	e := pmp.NewExporter(cfg.WorkingDirectory, pmp.WithLogger(logger))

	for _, src := range c.Args().Slice() {
		out, err := e.Export(src)
		if err != nil {
			return err
		}

		if out.Archive != "" {
			fmt.Fprintln(c.App.Writer, out.Archive)
		}
	}

	return nil
}

// inspect prints the payload of a snapshot.
func inspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowSubcommandHelp(c)
	}

	if _, _, err := setup(c); err != nil {
		return err
	}

	info, err := snapshot.Load(c.Args().First())
	if err != nil {
		return err
	}

	w := c.App.Writer

	fmt.Fprintf(w, "files: %d\n", len(info.FileReplacements))

	res := payload.Decode[[]pmp.ManipulationEntry](info.ManipulationString)
	if !res.OK() {
		fmt.Fprintf(w, "manipulations: undecodable (%s)\n", res.Err)
		return nil
	}

	fmt.Fprintf(w, "version: %d\n", res.Version)

	b, err := json.MarshalIndent(res.Value, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "manipulations: %s\n", b)

	return nil
}

// encode prints the payload of a JSON file.
func encode(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowSubcommandHelp(c)
	}

	ver := c.Uint("payload-version")
	if ver > math.MaxUint8 {
		return fmt.Errorf("payload version %d is larger than %d", ver, math.MaxUint8)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}

	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	if !json.Valid(b) {
		return fmt.Errorf("%s is not valid JSON", c.Args().First())
	}

	s, err := payload.Encode(json.RawMessage(b), byte(ver))
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, s)

	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "snappmp",
		Usage: "convert snapshots into PMP mod packs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:    "working-dir",
				Aliases: []string{"w"},
				Usage:   "write packs into `DIR`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug messages",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "convert snapshot directories into packs",
				ArgsUsage: "<snapshot>...",
				Action:    convert,
			},
			{
				Name:      "inspect",
				Usage:     "print the manipulations of a snapshot",
				ArgsUsage: "<snapshot>",
				Action:    inspect,
			},
			{
				Name:      "encode",
				Usage:     "encode a JSON file as a manipulation payload",
				ArgsUsage: "<file.json>",
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:  "payload-version",
						Usage: "version byte written before the JSON",
					},
				},
				Action: encode,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
