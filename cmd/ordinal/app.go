package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/ordinal"
	"github.com/aretw0/ordinal/internal/config"
	"github.com/aretw0/ordinal/internal/logging"
	"github.com/aretw0/ordinal/internal/presentation/tui"
	"github.com/aretw0/ordinal/pkg/adapters/file"
	"github.com/aretw0/ordinal/pkg/adapters/memory"
	"github.com/aretw0/ordinal/pkg/adapters/redis"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/observability"
	"github.com/aretw0/ordinal/pkg/ports"
	"github.com/aretw0/ordinal/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app bundles everything a command needs, built once from config and flags.
type app struct {
	cfg      config.Config
	dir      string
	logger   *slog.Logger
	printer  *tui.Printer
	engine   *ordinal.Engine
	store    ports.DefaultsStore
	sessions *session.Manager
	registry *prometheus.Registry

	closers []func() error
}

func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed("output") {
		cfg.Output.Format, _ = flags.GetString("output")
	}
	if flags.Changed("color") {
		cfg.Output.Color, _ = flags.GetString("color")
	}
	if flags.Changed("store") {
		cfg.Store.Backend, _ = flags.GetString("store")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	a.dir, _ = flags.GetString("dir")

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	a.logger = logging.New(level)

	mode, err := tui.ParseMode(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	if a.printer, err = tui.NewPrinter(cmd.OutOrStdout(), mode, cfg.Output.Color); err != nil {
		return nil, err
	}

	a.registry = prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	a.engine = ordinal.New(
		ordinal.WithLogger(a.logger),
		ordinal.WithHooks(metrics.Hooks().Merge(observability.LogHooks(a.logger))),
	)

	var opts []session.Option
	switch cfg.Store.Backend {
	case config.BackendMemory:
		a.store = memory.NewStore()
	case config.BackendFile:
		path := cfg.Store.Path
		if path == "" {
			path = file.DefaultStorePath()
		}
		a.store = file.NewStore(path)
	case config.BackendRedis:
		rc := cfg.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		a.store = rs
		a.closers = append(a.closers, rs.Close)
		if rc.Lock {
			opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), rc.Prefix), 0))
		}
	}
	a.sessions = session.NewManager(a.store, append(opts, session.WithLogger(a.logger))...)
	return a, nil
}

// Close releases backend connections.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// key is the session key of the working directory.
func (a *app) key() string {
	return session.Key(a.dir)
}

// expression resolves the expression for the working directory: the explicit
// one, else the remembered one, else defaults.expression from the config.
func (a *app) expression(ctx context.Context, explicit string) (string, error) {
	expr, err := a.sessions.Resolve(ctx, a.key(), explicit)
	if errors.Is(err, domain.ErrDefaultsNotFound) && a.cfg.Defaults.Expression != "" {
		return a.cfg.Defaults.Expression, nil
	}
	return expr, err
}

// remember stores an explicit expression as the directory default. Failing
// to remember never fails the command.
func (a *app) remember(ctx context.Context, explicit string) {
	if explicit == "" {
		return
	}
	if err := a.sessions.Remember(ctx, a.key(), explicit); err != nil {
		a.logger.Warn("failed to remember expression", "dir", a.dir, "err", err)
	}
}

// openDir opens the working directory.
func (a *app) openDir(opts ...file.DirOption) (*file.Dir, error) {
	abs, err := filepath.Abs(a.dir)
	if err != nil {
		return nil, err
	}
	return file.OpenDir(abs, append(opts, file.WithDirLogger(a.logger))...)
}
