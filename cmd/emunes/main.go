package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/urfave/cli.v2"

	"emunes/log"
	"emunes/nes"
)

func main() {
	app := &cli.App{
		Name:      "emunes",
		Usage:     "run a 6502/NES program from an iNES cartridge image",
		Version:   "v0.0.1",
		ArgsUsage: "<rom_path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "reset-vector",
				Usage: "override the reset vector, e.g. 0xC000 (default: read from the cartridge)",
			},
			&cli.IntFlag{
				Name:  "max-instructions",
				Usage: "stop after this many instructions (default: unbounded)",
			},
			&cli.StringFlag{
				Name:  "trace-out",
				Usage: "path to write the nestest-format trace log",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "silence console logging",
			},
		},
		Action: run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("quiet") {
		log.Mute()
	}

	romPath := c.Args().First()
	if romPath == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("missing rom_path", 1)
	}

	machine, err := nes.New(romPath)
	if err != nil {
		log.Errorf("%s", err)
		return cli.Exit(err, 1)
	}

	if rv := c.String("reset-vector"); rv != "" {
		addr, err := parseAddress(rv)
		if err != nil {
			log.Errorf("%s", err)
			return cli.Exit(err, 1)
		}
		machine.SetResetVectorOverride(addr)
	}

	if n := c.Int("max-instructions"); n > 0 {
		machine.SetMaxInstructions(n)
	}

	machine.Reset()
	if err := machine.Run(); err != nil {
		log.Errorf("%s", err)
		return cli.Exit(err, 1)
	}

	if tracePath := c.String("trace-out"); tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			log.Errorf("cannot open trace output: %s", err)
			return nil
		}
		defer f.Close()
		if err := machine.FlushTrace(f); err != nil {
			log.Errorf("cannot write trace output: %s", err)
		}
	}

	return nil
}

// parseAddress parses a 16-bit address given as a decimal or 0x-prefixed
// hex string.
func parseAddress(s string) (uint16, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}
