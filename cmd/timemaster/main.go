// Command timemaster is the cobra CLI front-end over the core facade
// (C12): one binary wiring bootstrap.New at startup and tearing the
// store down on exit, the way the teacher's cmd/claude-monitor/main.go
// wired its daemon-backed reporting services once and handed them to
// every subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chronotrace/timemaster/internal/bootstrap"
	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

var (
	Version   = "0.1.0"
	BuildTime = "development"
	GitCommit = "unknown"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
)

var (
	bundlePath   string
	commandsPath string
	databasePath string
	logLevel     string
	noColor      bool
)

// app is the fully wired runtime, built once in rootCmd's
// PersistentPreRunE and shared by every subcommand's RunE. A bare
// package-level var here plays the same role the teacher's unifiedDB /
// unifiedReportingSvc globals played in cmd/claude-monitor/main.go; the
// difference is that everything app wraps (internal/bootstrap.App) is
// itself a plain struct with no globals of its own.
var app *bootstrap.App

var rootCmd = &cobra.Command{
	Use:   "timemaster",
	Short: "Personal time-tracking pipeline: ingest daily logs, query reports",
	Long: `timemaster turns raw daily activity logs into a queryable SQLite
database and renders reports in markdown, LaTeX, or Typst.

PIPELINE:
  timemaster convert --input=logs/ --output=processed/
  timemaster ingest --input=logs/ --output=processed/
  timemaster import --input=processed/

REPORTS:
  timemaster query day --date=2026-07-29
  timemaster query month --year-month=2026-07
  timemaster export all-month --year=2026 --dir=out/

DATA:
  timemaster tree
  timemaster data years`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		}
		a, err := bootstrap.New(bootstrap.Config{
			BundlePath:          bundlePath,
			CommandDefaultsPath: commandsPath,
			DatabasePath:        databasePath,
			LogLevel:            logLevel,
		})
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

func main() {
	defaultDB, err := bootstrap.DefaultDatabasePath()
	if err != nil {
		defaultDB = "timemaster.db"
	}

	rootCmd.PersistentFlags().StringVar(&bundlePath, "bundle", "meta/bundle.toml", "path to bundle.toml")
	rootCmd.PersistentFlags().StringVar(&commandsPath, "commands", "meta/commands.toml", "path to commands.toml (optional per-command defaults)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "database", defaultDB, "path to the sqlite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(convertCmd, ingestCmd, importCmd, validateStructureCmd, validateLogicCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "%s error: %v\n", "timemaster", err)
		os.Exit(exitCodeForKind(string(xerrors.KindOf(err))))
	}
}

// versionCmd never needs the database, so it overrides the root's
// PersistentPreRunE rather than paying for a store open it doesn't use.
var versionCmd = &cobra.Command{
	Use:                "version",
	Short:              "Show version information",
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("timemaster %s (%s, %s)\n", Version, GitCommit, BuildTime)
		return nil
	},
}

// commandDefaults returns the commands.toml defaults declared for name,
// or the zero value if no commands.toml was loaded / name has no entry.
func commandDefaults(name string) bundle.CommandDefaults {
	if app.CommandDefaults == nil {
		return bundle.CommandDefaults{}
	}
	return app.CommandDefaults.For(name)
}
