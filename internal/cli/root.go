// Package cli implements the pmisctl maintenance commands.
package cli

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/pmis/internal/application"
	"github.com/JonMunkholm/pmis/internal/config"
	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Overridable in tests.
var (
	loadConfig = config.Load
	openApp    = application.Open
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// globals are the persistent flags shared by every command.
type globals struct {
	workbook string
	logLevel string
}

// RootCmd returns pmisctl with every subcommand attached.
func RootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "pmisctl",
		Short: "Maintenance commands for the project dashboard",
		Long: `pmisctl seeds, inspects and edits the dashboard's tables from the
command line, using the same storage configuration as the server
(.env and environment variables).`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.workbook, "workbook", "", "local workbook path (overrides WORKBOOK_PATH)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(seedCmd(g))
	root.AddCommand(statsCmd(g))
	root.AddCommand(configCmd(g))
	root.AddCommand(tablesCmd(g))
	root.AddCommand(importCmd(g))
	return root
}

// config loads settings the way the server does, then applies the flags.
func (g *globals) config() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if g.workbook != "" {
		cfg.Workbook.Path = g.workbook
	}
	level := cfg.Logging.Level
	if g.logLevel != "" {
		level = g.logLevel
	}
	// Keep command output readable; the server's format setting is ignored.
	logging.Setup(level, "text")
	return cfg, nil
}

// open assembles the service. Callers must Close the app.
func (g *globals) open(ctx context.Context) (*application.App, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	app, err := openApp(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return app, nil
}
