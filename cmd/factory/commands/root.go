// Package commands implements the factory command line.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/forgo/factory/internal/config"
	"github.com/forgo/factory/internal/seed"
	"github.com/forgo/factory/pkg/factory"
	"github.com/forgo/factory/pkg/format"
	"github.com/forgo/factory/pkg/loader"
	"github.com/forgo/factory/pkg/store/gormstore"
	"github.com/forgo/factory/pkg/store/memstore"
	"github.com/forgo/factory/pkg/store/surrealstore"
)

// flag names
const (
	flagFile     = "file"
	flagEnvFile  = "env-file"
	flagFormat   = "format"
	flagStore    = "store"
	flagLogLevel = "log-level"
	flagSet      = "set"
	flagCount    = "count"
)

// Option customizes the command tree.
type Option func(*app)

// WithStore makes store the target of make, seed and clear instead of the
// configured one.
func WithStore(store factory.Store) Option {
	return func(a *app) { a.store = store }
}

// app is the per-invocation state prepared before each command runs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	factory *factory.Factory

	store      factory.Store
	closeStore func() error
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "factory",
		Short: "Build and persist test fixtures from declarative definitions",
		Long: `factory builds fixtures from YAML definitions (or the built-in seed
definitions) and prints them as JSON, or pushes them into a store.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringSliceP(flagFile, "f", nil, "YAML definition file(s) (env: FACTORY_DEFINITIONS)")
	flags.String(flagEnvFile, "", "env file to load instead of .env")
	flags.String(flagFormat, "", "output format: raw or jsonapi (env: FACTORY_FORMAT)")
	flags.String(flagStore, "", "store: memory, surreal, sqlite or postgres (env: FACTORY_STORE)")
	flags.String(flagLogLevel, "", "log level (env: LOG_LEVEL)")

	root.AddCommand(
		newListCmd(a),
		newBuildCmd(a),
		newMakeCmd(a),
		newSeedCmd(a),
		newClearCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	var envFiles []string
	if envFile, _ := flags.GetString(flagEnvFile); envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if files, _ := flags.GetStringSlice(flagFile); len(files) > 0 {
		cfg.Factory.Definitions = files
	}
	if v, _ := flags.GetString(flagFormat); v != "" {
		cfg.Factory.Format = v
	}
	if v, _ := flags.GetString(flagStore); v != "" {
		cfg.Factory.Store = v
	}
	if v, _ := flags.GetString(flagLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Log)

	fopts := []factory.Option{factory.WithLogger(a.logger)}
	if cfg.Factory.AllowRedefine {
		fopts = append(fopts, factory.WithRedefine())
	}
	if cfg.Factory.Format == config.FormatJSONAPI {
		fopts = append(fopts, factory.WithConverter(format.NewJSONAPI()))
	}
	a.factory = factory.New(fopts...)

	if len(cfg.Factory.Definitions) == 0 {
		a.logger.Debug("registering seed definitions")
		return seed.Register(a.factory, seed.Options{Prefix: cfg.Factory.SeedPrefix})
	}
	for _, path := range cfg.Factory.Definitions {
		file, err := loader.LoadFile(path)
		if err != nil {
			return err
		}
		if err := file.Register(a.factory); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		a.logger.Debug("loaded definitions",
			slog.String("file", path),
			slog.Int("count", len(file.Definitions)),
		)
	}
	return nil
}

func (a *app) teardown() error {
	if a.closeStore == nil {
		return nil
	}
	err := a.closeStore()
	a.closeStore = nil
	return err
}

// useStore attaches the configured store to the factory, opening it on
// first use.
func (a *app) useStore(ctx context.Context) error {
	if a.store == nil {
		store, closeFn, err := openStore(ctx, a.cfg, a.logger)
		if err != nil {
			return err
		}
		a.store, a.closeStore = store, closeFn
		a.logger.Info("opened store", slog.String("store", a.cfg.Factory.Store))
	}
	a.factory.SetStore(a.store)
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (factory.Store, func() error, error) {
	switch cfg.Factory.Store {
	case config.StoreSurreal:
		s, err := surrealstore.Open(ctx, cfg.Database.Surreal(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return s, s.Close, nil
	case config.StoreSQLite, config.StorePostgres:
		s, err := gormstore.Open(cfg.Factory.Store, cfg.Factory.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return memstore.New(), nil, nil
	}
}

// withTimeout returns the command context bounded by the configured timeout.
func (a *app) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.cfg.Factory.Timeout)
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func printJSON(cmd *cobra.Command, v any) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return err
}
