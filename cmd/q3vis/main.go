// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Debug   bool     `help:"Whether to enable debug logging."`
	Configs []string `help:"Configuration files, later ones override earlier ones." short:"c" type:"existingfile"`
	BaseDir string   `help:"Directory containing maps, textures and pk3 files." name:"base-dir"`
	Map     string   `help:"Map to load, for example maps/q3dm1.bsp." short:"m"`

	Info struct {
		Format string `help:"Output format." enum:"yaml,json,cbor" default:"yaml"`
	} `cmd:"" help:"Print a summary of the map."`

	Spawns struct {
	} `cmd:"" help:"List the spawn points of the map."`

	Leaf struct {
		X float32 `arg:""`
		Y float32 `arg:""`
		Z float32 `arg:""`
	} `cmd:"" help:"Find the leaf containing a point given in map file coordinates."`

	Visible struct {
		Spawn int `help:"Spawn point to look from, defaults to the configured one." default:"-1"`
	} `cmd:"" help:"Count the faces visible from a spawn point."`

	Lightmaps struct {
		Dir    string `arg:"" help:"Output directory." type:"path"`
		Format string `help:"Image format." enum:"png,webp" default:"png"`
		Scale  int    `help:"Integer upscaling factor." default:"1"`
	} `cmd:"" help:"Export the gamma corrected lightmaps as images."`

	Maps struct {
	} `cmd:"" help:"List the maps in the base directory."`

	Config struct {
	} `cmd:"" help:"Write the effective configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("q3vis"),
		kong.Description("inspect Quake3 maps and their visibility data"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("debug logging enabled")
	}

	opts := options{
		configs: CLI.Configs,
		baseDir: CLI.BaseDir,
		mapName: CLI.Map,
	}
	out := os.Stdout

	var err error
	switch ctx.Command() {
	case "info":
		err = infoCommand(opts, CLI.Info.Format, out)
	case "spawns":
		err = spawnsCommand(opts, out)
	case "leaf <x> <y> <z>":
		err = leafCommand(opts, [3]float32{CLI.Leaf.X, CLI.Leaf.Y, CLI.Leaf.Z}, out)
	case "visible":
		err = visibleCommand(opts, CLI.Visible.Spawn, out)
	case "lightmaps <dir>":
		err = lightmapsCommand(opts, CLI.Lightmaps.Dir, CLI.Lightmaps.Format, CLI.Lightmaps.Scale, out)
	case "maps":
		err = mapsCommand(opts, out)
	case "config":
		err = configCommand(opts, out)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		writeError(err)
	}
}
