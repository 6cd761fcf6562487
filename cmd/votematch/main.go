// Command votematch matches free-text queries against a catalog of
// candidate strings by majority vote over several string-similarity
// algorithms.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "votematch",
		Usage: "Match queries against a catalog by string-similarity consensus",
		// Queries may legitimately contain commas.
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "vote",
				Usage:  "Run an ensemble vote for one or more queries",
				Action: voteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to an ensemble YAML file; defaults to the three jaro variants",
					},
					&cli.StringFlag{
						Name:     "candidates",
						Aliases:  []string{"f"},
						Usage:    "Path to the candidate catalog, one entry per line",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query to match; repeat for several queries",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Score a candidate must exceed when no config is given",
						Value: 0.8,
					},
					&cli.IntFlag{
						Name:  "top-n",
						Usage: "Override the number of tallies returned (negative keeps the last N, 0 keeps all)",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "winners",
						Usage: "Include each algorithm's winning prediction in the output",
					},
					&cli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum number of queries evaluated at once",
						Value: 4,
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "Serve Prometheus metrics on this address and keep running until interrupted",
					},
				},
			},
			{
				Name:   "rank",
				Usage:  "Rank the catalog for a query with a single configured algorithm",
				Action: rankCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to an ensemble YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "algorithm",
						Aliases:  []string{"a"},
						Usage:    "Algorithm ID from the config",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "candidates",
						Aliases:  []string{"f"},
						Usage:    "Path to the candidate catalog, one entry per line",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query to match",
						Required: true,
					},
				},
			},
			{
				Name:   "algorithms",
				Usage:  "List the supported scorer types",
				Action: algorithmsCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
