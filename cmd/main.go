package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/weekplan/internal/adapters/http/api"
	"github.com/okian/weekplan/internal/adapters/http/swagger"
	"github.com/okian/weekplan/internal/adapters/repository"
	app "github.com/okian/weekplan/internal/app"
	"github.com/okian/weekplan/internal/config"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/pkg/logger"
	"github.com/okian/weekplan/pkg/metrics"
	"github.com/urfave/cli/v2"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 15 * time.Second
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		os.Stderr.WriteString("weekplan: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "weekplan",
		Usage:  "Weekly class and event planner.",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API.",
				Action: serve,
			},
			{
				Name:  "today",
				Usage: "Print today's dashboard as JSON (reads the configured store; memory starts empty).",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "Reference date (YYYY-MM-DD) instead of the clock."},
				},
				Action: today,
			},
			{
				Name:   "validate",
				Usage:  "Load and check the configuration, then exit.",
				Action: validate,
			},
		},
	}
}

// setup loads configuration and applies the logging settings.
func setup(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// openStore selects the record store backend.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		return repository.NewGormStore(ctx, cfg.DatabaseURL,
			repository.WithGormLogger(logger.Named("gorm")),
			repository.WithAutoMigrate(true),
		)
	default:
		return repository.NewMemoryStore(), nil
	}
}

// buildService wires the planner from configuration. Extra options are
// applied last so callers can override the clock.
func buildService(ctx context.Context, cfg *config.Config, extra ...app.Option) (*app.Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := []app.Option{
		app.WithLogger(logger.Named("service")),
		app.WithStore(store),
		app.WithLocation(loc),
		app.WithDisplayCap(cfg.TodayDisplayCap),
		app.WithQueueSize(cfg.SignalQueueSize),
		app.WithWorkerCount(cfg.DispatchWorkers),
		app.WithRolloverCron(cfg.RolloverCron),
	}
	if cfg.RedisAddr != "" {
		opts = append(opts, app.WithRedis(cfg.RedisAddr, cfg.RedisChannel))
	}
	return app.New(append(opts, extra...)...), nil
}

func serve(c *cli.Context) error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := setup(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.Get()

	svc, err := buildService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	if err := svc.Start(ctx); err != nil {
		svc.Stop()
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

func today(c *cli.Context) error {
	ctx := c.Context
	cfg, err := setup(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var extra []app.Option
	if d := c.String("date"); d != "" {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		ref, err := time.ParseInLocation(schedule.DateLayout, d, loc)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", d, err)
		}
		extra = append(extra, app.WithClock(func() time.Time { return ref }))
	}

	if cfg.Store == config.StoreMemory {
		_, _ = fmt.Fprintln(c.App.ErrWriter,
			"warning: store=memory holds nothing outside a running server; set WEEKPLAN_STORE=postgres to read saved data")
	}

	svc, err := buildService(ctx, cfg, extra...)
	if err != nil {
		return err
	}
	defer svc.Stop()

	dash, err := svc.Today(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(dash)
}

func validate(c *cli.Context) error {
	cfg, err := setup(c.Context)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "configuration ok: store=%s addr=%s timezone=%q rollover=%q\n",
		cfg.Store, cfg.Addr, cfg.Timezone, cfg.RolloverCron)
	return err
}

// startServiceMetricsUpdater refreshes gauges that are only known to the service.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics reads the service stats. GetStats counts both
// collections, which refreshes the record gauges for every backend.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if n, ok := stats["queueLength"].(int); ok {
		metrics.UpdateSignalQueueSize(n)
	}
	if n, ok := stats["dispatchers"].(int); ok && stats["started"] == true {
		metrics.UpdateDispatchWorkers(n)
	}
}
