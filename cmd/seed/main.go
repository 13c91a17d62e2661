package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/weekplan/internal/seed"
	"github.com/okian/weekplan/pkg/logger"
	"github.com/urfave/cli/v2"
)

// Default configuration constants.
const (
	defaultClasses = 200
	defaultEvents  = 60
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	defaultTimeout = 30 * time.Second
	runTimeout     = 10 * time.Minute
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "weekplan-seed",
		Usage: "Fill a running planner with generated records and verify its read endpoints.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:9080", Usage: "Base URL of the service", EnvVars: []string{"WEEKPLAN_SEED_URL"}},
			&cli.IntFlag{Name: "classes", Value: defaultClasses, Usage: "Number of classes to generate"},
			&cli.IntFlag{Name: "events", Value: defaultEvents, Usage: "Number of events to generate"},
			&cli.Float64Flag{Name: "invalid", Value: 0.1, Usage: "Share of classes with an inverted time interval"},
			&cli.IntFlag{Name: "workers", Value: runtime.NumCPU() * defaultWorkers, Usage: "Number of concurrent submitters"},
			&cli.DurationFlag{Name: "timeout", Value: defaultTimeout, Usage: "HTTP request timeout"},
			&cli.StringFlag{Name: "output", Usage: "Write generated records to this JSON file"},
			&cli.BoolFlag{Name: "verbose", Usage: "Log unexpected answers"},
		},
		Action: func(c *cli.Context) error {
			if err := logger.Init(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, runTimeout)
			defer cancel()

			_, err := seed.Run(ctx, &seed.Config{
				BaseURL:      c.String("url"),
				NumClasses:   c.Int("classes"),
				NumEvents:    c.Int("events"),
				InvalidRatio: c.Float64("invalid"),
				Workers:      c.Int("workers"),
				Timeout:      c.Duration("timeout"),
				Reference:    time.Now(),
				OutputFile:   c.String("output"),
				Verbose:      c.Bool("verbose"),
			})
			return err
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
