package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/evanschultz/lasso/internal/adapters/server"
	"github.com/evanschultz/lasso/internal/adapters/server/common"
	"github.com/evanschultz/lasso/internal/app"
	"github.com/spf13/cobra"
)

// serveColumns fixes the headless grid width used by serve.
const serveColumns = 8

func addPaths(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.resolve(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.close(cmd.ErrOrStderr())
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", env.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", env.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", env.paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", env.paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", env.cfg.Database.Path)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addItems(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Manage the item catalog",
	}
	addItemsAdd(cmd, opts)
	addItemsList(cmd, opts)
	addItemsRename(cmd, opts)
	addItemsRemove(cmd, opts)
	topLevel.AddCommand(cmd)
}

// withCatalog runs fn against an open catalog.
func withCatalog(cmd *cobra.Command, opts *rootOptions, fn func(*app.Catalog) error) error {
	env, err := opts.resolve(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.close(cmd.ErrOrStderr())
	catalog, closeRepo, err := env.openCatalog()
	if err != nil {
		return err
	}
	defer closeRepo()
	if err := fn(catalog); err != nil {
		env.logger.Error("command flow failed", "command", cmd.CommandPath(), "err", err)
		return err
	}
	return nil
}

func addItemsAdd(parent *cobra.Command, opts *rootOptions) {
	var kind, notes string
	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Append an item to the catalog",
		Example: `
lasso items add quarterly report --kind doc
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a label")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, opts, func(catalog *app.Catalog) error {
				item, err := catalog.AddItem(cmd.Context(), app.AddItemInput{
					Label: strings.Join(args, " "),
					Kind:  kind,
					Notes: notes,
				})
				if err != nil {
					return fmt.Errorf("add item: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", item.ID, item.Label)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "item kind (defaults to item)")
	cmd.Flags().StringVar(&notes, "notes", "", "markdown notes shown in the details pane")
	parent.AddCommand(cmd)
}

func addItemsList(parent *cobra.Command, opts *rootOptions) {
	var query app.CatalogQuery
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog items in layout order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, opts, func(catalog *app.Catalog) error {
				items, err := catalog.ListItems(cmd.Context())
				if err != nil {
					return fmt.Errorf("list items: %w", err)
				}
				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("ID", "LABEL", "KIND", "POS")
				rows := 0
				for _, item := range items {
					if !query.Matches(item) {
						continue
					}
					t = t.Row(item.ID, item.Label, item.Kind, strconv.Itoa(item.Position))
					rows++
				}
				if rows == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no items")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), t.String())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&query.Kind, "kind", "", "only list items of this kind")
	cmd.Flags().StringVar(&query.LabelContains, "contains", "", "only list items whose label contains this text")
	parent.AddCommand(cmd)
}

func addItemsRename(parent *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "rename <id> <label>",
		Short: "Change an item label",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, opts, func(catalog *app.Catalog) error {
				item, err := catalog.RenameItem(cmd.Context(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return fmt.Errorf("rename item: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "renamed %s %s\n", item.ID, item.Label)
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}

func addItemsRemove(parent *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove items from the catalog",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, opts, func(catalog *app.Catalog) error {
				for _, id := range args {
					if err := catalog.RemoveItem(cmd.Context(), id); err != nil {
						return fmt.Errorf("remove item %q: %w", id, err)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
				}
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}

func addServe(topLevel *cobra.Command, opts *rootOptions) {
	var bind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the selection engine over HTTP and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.resolve(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.close(cmd.ErrOrStderr())
			catalog, closeRepo, err := env.openCatalog()
			if err != nil {
				return err
			}
			defer closeRepo()
			engineOpts, err := env.engineOptions()
			if err != nil {
				return err
			}

			cfgLayout := env.cfg.Layout
			columns := cfgLayout.Columns
			if columns <= 0 {
				columns = serveColumns
			}
			layout := &app.GridLayout{
				Columns:    columns,
				CellWidth:  cfgLayout.CellWidth,
				CellHeight: cfgLayout.CellHeight,
				GapX:       cfgLayout.GapX,
				GapY:       cfgLayout.GapY,
			}
			session := app.NewSession(app.NewEngine(layout, env.shortcutMapper(), engineOpts...))
			defer session.Close()
			adapter := common.NewSessionAdapter(session, catalog, layout)
			if err := adapter.Sync(cmd.Context()); err != nil {
				return fmt.Errorf("load catalog into engine: %w", err)
			}

			httpBind := env.cfg.Server.HTTPBind
			if strings.TrimSpace(bind) != "" {
				httpBind = bind
			}
			env.logger.Info("command flow start", "command", "serve", "mode", env.cfg.Selection.Mode)
			err = serveRunner(cmd.Context(), server.Config{
				HTTPBind:      httpBind,
				APIEndpoint:   env.cfg.Server.APIEndpoint,
				MCPEndpoint:   env.cfg.Server.MCPEndpoint,
				ServerName:    "lasso",
				ServerVersion: version,
			}, server.Dependencies{
				Selection: adapter,
				Catalog:   adapter,
			}, func(cfg server.Config) {
				env.logger.Info("serving", "bind", cfg.HTTPBind, "api", cfg.APIEndpoint, "mcp", cfg.MCPEndpoint)
			})
			if err != nil {
				env.logger.Error("serve terminated with error", "err", err)
				return fmt.Errorf("run server: %w", err)
			}
			env.logger.Info("command flow complete", "command", "serve")
			return nil
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "override server.http_bind")
	topLevel.AddCommand(cmd)
}

func addVersion(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the lasso version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lasso %s\n", version)
		},
	}
	topLevel.AddCommand(cmd)
}
