package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/shoplist/internal/config"
	"github.com/jask/shoplist/internal/database"
	"github.com/jask/shoplist/internal/database/repository"
	"github.com/jask/shoplist/internal/logging"
	"github.com/jask/shoplist/internal/store"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// usageError marks bad input; main exits 2 for it instead of 1.
type usageError struct{ error }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("✖ "+err.Error()))
	var ue usageError
	if errors.As(err, &ue) {
		os.Exit(2)
	}
	os.Exit(1)
}

type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "shoplist",
		Short: "A shopping list for the terminal",
		Long: `shoplist keeps a single shopping list in a local sqlite database.

Run without arguments to open the list screen. The add, ls and rm
subcommands work on the same database for scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), flags, runScreen)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/shoplist/config.toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "ui",
			Short: "Open the list screen (same as no subcommand)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), flags, runScreen)
			},
		},
		newAddCmd(flags),
		newListCmd(flags),
		newRemoveCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

// app is everything a command needs, opened in dependency order.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	db    *sql.DB
	store *store.ItemStore
}

func openApp(flags *rootFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	logger, err := logging.New(logging.Config{Path: cfg.Log.Path, Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.OpenAndMigrate(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("database ready",
		zap.String("path", cfg.Database.Path),
		zap.String("driver", cfg.Database.Driver))

	return &app{
		cfg:   cfg,
		log:   logger,
		db:    db,
		store: store.New(repository.NewItemRepo(db), logger),
	}, nil
}

func (a *app) Close() {
	_ = a.store.Close()
	if err := a.db.Close(); err != nil {
		a.log.Warn("close db", zap.Error(err))
	}
	_ = a.log.Sync()
}

func withApp(ctx context.Context, flags *rootFlags, fn func(context.Context, *app) error) error {
	a, err := openApp(flags)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := fn(ctx, a); err != nil {
		var ue usageError
		if !errors.As(err, &ue) {
			a.log.Error("command failed", zap.Error(err))
		}
		return err
	}
	return nil
}
