package cli

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"pfeifer.dev/trackd/params"
	"pfeifer.dev/trackd/telemetry"
	"pfeifer.dev/trackd/track"
)

func Handle() {
	shouldExit := true
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Change settings of an active trackd instance",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					interactive()
					return nil
				},
			},
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Watch live metrics and edit settings of an active trackd instance",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					watch()
					return nil
				},
			},
			{
				Name:    "replay",
				Aliases: []string{"r"},
				Usage:   "Process a recorded episode file with one telemetry record per line",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Category: "Inputs and Outputs",
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "The telemetry jsonl file to replay",
						Required: true,
					},
					&cli.StringFlag{
						Category: "Inputs and Outputs",
						Name:     "db",
						Usage:    "Record the metrics to this sqlite database",
					},
					&cli.StringFlag{
						Category: "Inputs and Outputs",
						Name:     "score",
						Usage:    "Store a score per step with the recorded metrics, one of " + strings.Join(telemetry.ScoreNames(), ", "),
					},
					&cli.BoolFlag{
						Category: "Inputs and Outputs",
						Name:     "json",
						Usage:    "Print every metrics snapshot as a json line",
					},
					&cli.Float64Flag{
						Category: "Engine",
						Name:     "steps-per-second",
						Usage:    "Simulator step rate used for speeds and lap times",
						Value:    telemetry.DefaultConfig().StepsPerSecond,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := telemetry.DefaultConfig()
					cfg.StepsPerSecond = cmd.Float64("steps-per-second")
					return replay(ctx, replaySettings{
						InputFile: cmd.String("input"),
						Database:  cmd.String("db"),
						Score:     cmd.String("score"),
						JSON:      cmd.Bool("json"),
						Config:    cfg,
						Output:    os.Stdout,
					})
				},
			},
			{
				Name:  "track",
				Usage: "Work with track definition files",
				Commands: []*cli.Command{
					{
						Name:  "import-osm",
						Usage: "Generate a track file from a raceway in an open street maps pbf file",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Category: "Inputs and Outputs",
								Name:     "input",
								Aliases:  []string{"i"},
								Usage:    "The open street maps pbf file to read",
								Value:    "./map.osm.pbf",
							},
							&cli.Int64Flag{
								Category: "Selection",
								Name:     "way",
								Usage:    "The id of the way to import, the first raceway is used when unset",
							},
							&cli.StringFlag{
								Category: "Selection",
								Name:     "name",
								Usage:    "Only consider raceways with this name",
							},
							&cli.Float64Flag{
								Category: "Geometry",
								Name:     "width",
								Usage:    "Track width in metres",
								Value:    10,
							},
							&cli.StringFlag{
								Category: "Inputs and Outputs",
								Name:     "output",
								Aliases:  []string{"o"},
								Usage:    "Where to write the track file, .json or .yaml",
								Value:    filepath.Join(params.BasePath, "tracks", "track.yaml"),
							},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							t, err := track.ImportOSM(ctx, track.OSMImportSettings{
								InputFile: cmd.String("input"),
								WayID:     cmd.Int64("way"),
								Name:      cmd.String("name"),
								Width:     cmd.Float64("width"),
							})
							if err != nil {
								return err
							}
							return track.SaveFile(t, cmd.String("output"))
						},
					},
					{
						Name:  "plot",
						Usage: "Render a track's centerline and safe corridor to an image",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Category: "Inputs and Outputs",
								Name:     "track",
								Aliases:  []string{"t"},
								Usage:    "The track file to plot",
								Required: true,
							},
							&cli.StringFlag{
								Category: "Inputs and Outputs",
								Name:     "output",
								Aliases:  []string{"o"},
								Usage:    "The image to write, the format follows the extension",
								Value:    "corridor.png",
							},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							t, err := track.LoadFile(cmd.String("track"))
							if err != nil {
								return err
							}
							return track.PlotCorridor(t, telemetry.DefaultConfig().Overhang(), cmd.String("output"))
						},
					},
				},
			},
		},
		Name:  "trackd",
		Usage: "Start an instance of trackd",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			shouldExit = false
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}

	if shouldExit {
		os.Exit(0)
	}
}
