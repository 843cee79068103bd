// Package cli wires the cobra command surface: the interactive TUI by
// default, plus scriptable subcommands and the server.
package cli

import (
	"os"

	"github.com/Birdy2014/einkaufszettel/internal/api"
	"github.com/Birdy2014/einkaufszettel/internal/config"
	"github.com/Birdy2014/einkaufszettel/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Server     string
	ListID     int
	DebugLog   string

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "einkaufszettel",
		Short:        "Collaborative shopping list (TUI client + server)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			return tui.Run(app.client(), app.listID(), app.debugLog())
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return err
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("EINKAUFSZETTEL_CONFIG", ""), "Path to config file")
	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("EINKAUFSZETTEL_SERVER", ""), "Server base URL (overrides config)")
	cmd.PersistentFlags().IntVar(&app.ListID, "list", 0, "List id (skips the list selector)")
	cmd.PersistentFlags().StringVar(&app.DebugLog, "debug-log", "", "Write debug logs to this file")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newItemCmd(app))

	return cmd
}

func (a *App) client() *api.Client {
	base := a.Server
	if base == "" {
		base = a.cfg.Server
	}
	return api.NewClient(base)
}

func (a *App) listID() int {
	if a.ListID > 0 {
		return a.ListID
	}
	return a.cfg.DefaultList
}

func (a *App) debugLog() string {
	if a.DebugLog != "" {
		return a.DebugLog
	}
	return a.cfg.DebugLog
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
