// Package bootstrap wires every component into one running App: path
// resolution, store opening, and service construction, the way the
// teacher's cmd/claude-monitor/app_initializer.go built its repositories
// and reporting services once at process start and handed them to every
// subcommand. Unlike the teacher, nothing here lives in a package-level
// global — every dependency is a field on App, built once by New and
// torn down once by Close.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/calendar"
	"github.com/chronotrace/timemaster/internal/facade"
	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/format/latex"
	"github.com/chronotrace/timemaster/internal/format/markdown"
	"github.com/chronotrace/timemaster/internal/format/typst"
	"github.com/chronotrace/timemaster/internal/importsvc"
	"github.com/chronotrace/timemaster/internal/logging"
	"github.com/chronotrace/timemaster/internal/pipeline"
	"github.com/chronotrace/timemaster/internal/projectpath"
	"github.com/chronotrace/timemaster/internal/query"
	"github.com/chronotrace/timemaster/internal/store"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// Config names every file and directory the running process needs to
// find before it can build an App.
type Config struct {
	BundlePath          string // meta/bundle.toml
	CommandDefaultsPath string // meta/commands.toml, optional
	DatabasePath        string // sqlite file, created if missing
	LogLevel            string // "debug", "info", "warn", "error"; default "info"
}

// App is the fully wired process: every component from C1 through C12,
// plus the resources (open store, loaded bundle) that own their
// lifetime. The facade is the only field most callers need; the rest
// are exposed for front-ends that want a narrower surface than the
// facade offers (e.g. a REPL driving the query service directly).
type App struct {
	Bundle           *bundle.Bundle
	CommandDefaults  *bundle.CommandDefaultsFile
	IntervalConfig   *bundle.IntervalConfig
	Store            *store.DB
	Cache            *projectpath.Cache
	Query            *query.Service
	Importer         *importsvc.Service
	Pipeline         *pipeline.Pipeline
	Registry         *format.Registry
	Facade           *facade.Facade

	log zerolog.Logger
}

// New resolves cfg, opens the store, and constructs every service over
// it. The returned App owns the store handle; callers must call Close.
func New(cfg Config) (*App, error) {
	const op = "bootstrap.New"

	level := cfg.LogLevel
	if level == "" {
		level = "info"
	}
	log := logging.New("bootstrap", level)

	b, err := bundle.Load(cfg.BundlePath)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "load bundle", err)
	}

	var cmdDefaults *bundle.CommandDefaultsFile
	if cfg.CommandDefaultsPath != "" {
		if _, statErr := os.Stat(cfg.CommandDefaultsPath); statErr == nil {
			cmdDefaults, err = bundle.LoadCommandDefaults(cfg.CommandDefaultsPath)
			if err != nil {
				return nil, xerrors.Wrap(xerrors.KindConfig, op, "load command defaults", err)
			}
		}
	}

	intervalCfg, err := bundle.LoadIntervalConfig(b.IntervalConfigPath())
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "load interval config", err)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, xerrors.Wrap(xerrors.KindIO, op, "create database directory", err)
		}
	}

	db, err := store.Open(store.DefaultConfig(cfg.DatabasePath))
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "open store", err)
	}

	cache := projectpath.New(db)
	querySvc := query.New(db, cache, calendar.SystemClock{})
	importer := importsvc.New(db, cache)
	pl := pipeline.New(intervalCfg, importer, logging.New("pipeline", level))

	registry := format.NewRegistry(b, format.DefaultStyle(), map[format.Format]format.Formatter{
		format.Markdown: markdown.Formatter{},
		format.LaTeX:    latex.Formatter{},
		format.Typst:    typst.NewFormatter(),
	})

	f := facade.New(pl, querySvc, registry, cache, db, logging.New("facade", level))

	log.Info().Str("database", cfg.DatabasePath).Msg("application initialized")

	return &App{
		Bundle:          b,
		CommandDefaults: cmdDefaults,
		IntervalConfig:  intervalCfg,
		Store:           db,
		Cache:           cache,
		Query:           querySvc,
		Importer:        importer,
		Pipeline:        pl,
		Registry:        registry,
		Facade:          f,
		log:             log,
	}, nil
}

// Close releases the store handle. Safe to call once; a second call is
// a caller error the same way closing an already-closed file is.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("bootstrap: close store: %w", err)
	}
	a.log.Info().Msg("store closed")
	return nil
}

// DefaultDatabasePath mirrors the teacher's convention of a dotfile
// directory under the user's home, scoped to this project's name
// instead of the daemon's.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("bootstrap: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".timemaster", "timemaster.db"), nil
}
