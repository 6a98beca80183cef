package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/shoplist/internal/config"
	"github.com/jask/shoplist/internal/database/repository"
	"github.com/jask/shoplist/internal/service"
)

func newAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "add <name...>",
		Short:   "Add an item (words are joined with spaces, kept as typed)",
		Example: `  shoplist add Milk
  shoplist add "Peanut butter"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := service.ValidateName(strings.Join(args, " "))
			if err != nil {
				return usageError{fmt.Errorf("add: %w", err)}
			}
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				it, err := a.store.Insert(ctx, name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✔ added #%d %s", it.ID, it.Name)))
				return nil
			})
		},
	}
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Long: `init writes defaults merged with the current file and SHOPLIST_*
environment overrides to --config, SHOPLIST_CONFIG or
~/.config/shoplist/config.toml. An existing file is kept unless --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(flags.configPath)
			if _, err := os.Stat(path); err == nil && !force {
				return usageError{fmt.Errorf("config init: %s exists (use --force to overwrite)", path)}
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}

			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if flags.logLevel != "" {
				cfg.Log.Level = flags.logLevel
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✔ wrote "+path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print every item as id<TAB>name",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				items, err := a.store.List(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, it := range items {
					fmt.Fprintf(out, "%d\t%s\n", it.ID, it.Name)
				}
				return nil
			})
		},
	}
}

func newRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove items by id; unknown ids are ignored",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return usageError{fmt.Errorf("rm: not an id: %q", arg)}
				}
				ids = append(ids, id)
			}
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				for _, id := range ids {
					if err := a.store.Delete(ctx, repository.Item{ID: id}); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✔ removed"))
				return nil
			})
		},
	}
}
