package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/docmeta/internal/config"
	"github.com/ajitpratap0/docmeta/internal/generate"
	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/metafile"
	"github.com/ajitpratap0/docmeta/internal/parser"
	"github.com/ajitpratap0/docmeta/internal/query"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:     "docmeta",
		Short:   "docmeta: section metadata index for markdown documentation projects",
		Long:    "docmeta splits the chapters of a documentation project into a tree of sections, collects the metadata attached to each one and writes a queryable index keyed by unique section ids.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		generateCmd(),
		chaptersCmd(),
		getCmd(),
		sourceCmd(),
		exportCmd(),
		statsCmd(),
		serveCmd(),
		mcpCmd(),
		summarizeCmd(),
		graphCmd(),
		seedCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newGenerator(logger *slog.Logger) *generate.Generator {
	return generate.NewGenerator(afero.NewOsFs(), cfg.Project.SrcDir, generate.Options{
		Workers: cfg.Meta.Workers,
		Parser:  parser.Options{SkipCodeFences: cfg.Meta.SkipCodeFences},
	}, logger)
}

// loadIndex reads a persisted index, defaulting to the configured meta file.
func loadIndex(path string) (*meta.Meta, error) {
	if path == "" {
		path = cfg.Meta.Filename
	}
	m, err := metafile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading index %s: %w", path, err)
	}
	return m, nil
}

func newQuery(m *meta.Meta) *query.Service {
	return query.NewService(m, generate.NewFileSource(afero.NewOsFs()))
}

// addMetaFlag registers the --meta flag shared by commands that read an index.
func addMetaFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "meta", "m", "", "index file to read (default: meta.filename from config)")
}
