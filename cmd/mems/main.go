package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/bodgit/mems"
	"github.com/bodgit/mems/bitmap"
	"github.com/bodgit/mems/grid"
	"github.com/bodgit/mems/param"
	"github.com/bodgit/mems/table"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func config(c *cli.Context) (mems.Config, error) {
	cfg := mems.DefaultConfig()

	cfg.Width = c.Int("width")
	cfg.Height = c.Int("height")
	cfg.GroupSize = c.Int("group-size")
	cfg.Angles = mems.AngleConfig{
		Inactive: c.Int("angle-inactive"),
		Positive: c.Int("angle-positive"),
		Negative: c.Int("angle-negative"),
	}

	var err error
	if cfg.Filter, err = bitmap.ParseFilter(c.String("filter")); err != nil {
		return cfg, err
	}
	if cfg.Orientation, err = table.ParseOrientation(c.String("orientation")); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func newSession(c *cli.Context) (*mems.Session, error) {
	cfg, err := config(c)
	if err != nil {
		return nil, err
	}
	return mems.New(cfg, newLogger(c))
}

func main() {
	app := cli.NewApp()

	app.Name = "mems"
	app.Usage = "MEMS mirror array pattern to simulation parameter converter"
	app.Version = "1.0.0"

	defaults := mems.DefaultConfig()

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "width",
			EnvVars: []string{"MEMS_WIDTH"},
			Value:   defaults.Width,
			Usage:   "number of mirrors along X",
		},
		&cli.IntFlag{
			Name:    "height",
			EnvVars: []string{"MEMS_HEIGHT"},
			Value:   defaults.Height,
			Usage:   "number of mirrors along Y",
		},
		&cli.IntFlag{
			Name:    "group-size",
			EnvVars: []string{"MEMS_GROUP_SIZE"},
			Value:   defaults.GroupSize,
			Usage:   "pixels packed into each parameter",
		},
		&cli.IntFlag{
			Name:    "angle-inactive",
			EnvVars: []string{"MEMS_ANGLE_INACTIVE"},
			Value:   defaults.Angles.Inactive,
			Usage:   "tilt angle in degrees of inactive pixels",
		},
		&cli.IntFlag{
			Name:    "angle-positive",
			EnvVars: []string{"MEMS_ANGLE_POSITIVE"},
			Value:   defaults.Angles.Positive,
			Usage:   "tilt angle in degrees of positive (on) pixels",
		},
		&cli.IntFlag{
			Name:    "angle-negative",
			EnvVars: []string{"MEMS_ANGLE_NEGATIVE"},
			Value:   defaults.Angles.Negative,
			Usage:   "tilt angle in degrees of negative (off) pixels",
		},
		&cli.StringFlag{
			Name:    "filter",
			EnvVars: []string{"MEMS_FILTER"},
			Value:   defaults.Filter.String(),
			Usage:   "image resampling filter: lanczos, cubic, linear, box or nearest",
		},
		&cli.StringFlag{
			Name:    "orientation",
			EnvVars: []string{"MEMS_ORIENTATION"},
			Value:   defaults.Orientation.String(),
			Usage:   "table layout: rows or columns",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Encode a pattern as a parameter table",
			Description: "The pattern starts empty, or from IMAGE if given, then --fill and --set are applied in that order.",
			ArgsUsage:   "[IMAGE]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "fill",
					Usage: "fill every pixel with `STATE`",
				},
				&cli.StringSliceFlag{
					Name:  "set",
					Usage: "set a single pixel, as `X,Y,STATE`",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write the table to `FILE` instead of stdout",
				},
				&cli.StringFlag{
					Name:  "preview",
					Usage: "write a PNG rendering of the pattern to `FILE`",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 15,
					Usage: "preview block size in pixels",
				},
				&cli.BoolFlag{
					Name:  "info",
					Usage: "print the configuration report to stderr",
				},
			},
			Action: encode,
		},
		{
			Name:        "session",
			Usage:       "Run an editing session from a script",
			Description: "Commands are read one per line from SCRIPT, or stdin if not given. Failed commands are reported and the session continues.",
			ArgsUsage:   "[SCRIPT]",
			Action: func(c *cli.Context) error {
				s, err := newSession(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				in := os.Stdin
				if c.NArg() > 0 {
					f, err := os.Open(c.Args().First())
					if err != nil {
						return cli.Exit(err, 1)
					}
					defer f.Close()
					in = f
				}

				if err := s.Run(in, os.Stdout, os.Stderr); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Export a parameter table beside every image in a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := newSession(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := s.Batch(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Print the pixel states packed in a parameter value",
			Description: "",
			ArgsUsage:   "VALUE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "digits",
					Value: param.DefaultGroupSize,
					Usage: "number of pixels in the group",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				value, err := strconv.ParseUint(c.Args().First(), 10, 64)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := mems.WriteDecoded(os.Stdout, value, c.Int("digits")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func encode(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if c.NArg() > 0 {
		if err := s.LoadImage(c.Args().First()); err != nil {
			return cli.Exit(err, 1)
		}
	}

	if v := c.String("fill"); v != "" {
		state, err := grid.ParseState(v)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if err := s.Fill(state); err != nil {
			return cli.Exit(err, 1)
		}
	}

	for _, v := range c.StringSlice("set") {
		x, y, state, err := parseSet(v)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if err := s.Set(x, y, state); err != nil {
			return cli.Exit(err, 1)
		}
	}

	if file := c.String("preview"); file != "" {
		if err := s.WritePreview(file, c.Int("scale")); err != nil {
			return cli.Exit(err, 1)
		}
	}

	result := s.Calculate()
	if c.Bool("info") {
		fmt.Fprint(os.Stderr, s.Report(result))
		fmt.Fprintln(os.Stderr, mems.Status(result))
	}

	if file := c.String("output"); file != "" {
		if err := s.WriteTable(file, s.Config().Orientation); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}

	if _, err := table.Format(result.Records, s.Config().Orientation).WriteTo(os.Stdout); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

// parseSet parses "X,Y,STATE"
func parseSet(v string) (int, int, grid.State, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		return 0, 0, grid.Inactive, fmt.Errorf("invalid pixel %q, expected X,Y,STATE", v)
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, grid.Inactive, fmt.Errorf("invalid X in %q: %w", v, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, grid.Inactive, fmt.Errorf("invalid Y in %q: %w", v, err)
	}
	state, err := grid.ParseState(parts[2])
	if err != nil {
		return 0, 0, grid.Inactive, err
	}

	return x, y, state, nil
}
