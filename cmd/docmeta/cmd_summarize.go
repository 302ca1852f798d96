package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/docmeta/internal/generate"
	"github.com/ajitpratap0/docmeta/internal/metafile"
	"github.com/ajitpratap0/docmeta/internal/summarize"
)

func summarizeCmd() *cobra.Command {
	var (
		metaPath string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Add Claude-written summaries to the data of indexed sections",
		Long: `Summarizes every section whose own text is long enough and which has no
"summary" key yet, then writes the index back. Sections that fail are logged
and left unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			if cfg.Claude.APIKey == "" {
				return errors.New("summarize: no Claude API key configured (set ANTHROPIC_API_KEY)")
			}

			path := metaPath
			if path == "" {
				path = cfg.Meta.Filename
			}
			m, err := loadIndex(path)
			if err != nil {
				return fmt.Errorf("summarize: %w", err)
			}

			claude := summarize.NewClaudeSummarizer(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Summary.MaxTokens)
			annotator := summarize.NewAnnotator(claude, generate.NewFileSource(afero.NewOsFs()), summarize.Options{
				MinWords:    cfg.Summary.MinWords,
				InputBudget: cfg.Summary.InputBudget,
			}, logger)

			added, err := annotator.Annotate(ctx, m)
			if err != nil {
				return fmt.Errorf("summarize: %w", err)
			}

			if added > 0 && !dryRun {
				if err := metafile.Save(path, m); err != nil {
					return fmt.Errorf("summarize: %w", err)
				}
			}
			fmt.Printf("Summarized %d sections\n", added)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "summarize without writing the index")
	addMetaFlag(cmd, &metaPath)
	return cmd
}
