// Package cli contains the armsim command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	configFlag        = "config"
	debugFlag         = "debug"
	ticksFlag         = "ticks"
	commandFlag       = "command"
	snapshotDirFlag   = "snapshot-dir"
	snapshotEveryFlag = "snapshot-every"
	plotFlag          = "plot"
	tableFlag         = "table"
	realtimeFlag      = "realtime"
	poseFlag          = "pose"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "armsim",
		Usage:           "simulate a telescoping arm that refuses to hit its own drive base",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`, defaults to the stock scene",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run the arm for a number of ticks, feeding it commands",
				UsageText: "armsim run --ticks 300 --command A@1 --command 10,20,300@120",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  ticksFlag,
						Value: 300,
						Usage: "number of ticks to run",
					},
					&cli.StringSliceFlag{
						Name:    commandFlag,
						Aliases: []string{"cmd"},
						Usage: "command a pose before tick `TICK`, as PRESET@TICK or pivot,wrist,telescope@TICK. " +
							"Repeatable",
					},
					&cli.StringFlag{
						Name:  snapshotDirFlag,
						Usage: "write PNG frames to `DIR`",
					},
					&cli.IntFlag{
						Name:  snapshotEveryFlag,
						Value: 10,
						Usage: "write a frame and table row every `N` ticks",
					},
					&cli.StringFlag{
						Name:  plotFlag,
						Usage: "write a chart of every axis over time to `FILE`",
					},
					&cli.BoolFlag{
						Name:  tableFlag,
						Usage: "print a table of the arm's state every snapshot interval",
					},
					&cli.BoolFlag{
						Name:  realtimeFlag,
						Usage: "tick on the wall clock at the configured rate instead of as fast as possible",
					},
				},
				Action: RunAction,
			},
			{
				Name:      "check",
				Usage:     "check whether a pose is legal",
				UsageText: "armsim check --pose 30,50,200",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     poseFlag,
						Required: true,
						Usage:    "`POSE` to check, as a preset name or pivot,wrist,telescope",
					},
				},
				Action: CheckAction,
			},
			{
				Name:   "presets",
				Usage:  "list the preset poses and whether each is legal",
				Action: PresetsAction,
			},
			{
				Name:   "config",
				Usage:  "print the loaded configuration",
				Action: ConfigAction,
			},
		},
	}
}
