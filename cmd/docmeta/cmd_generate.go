package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/docmeta/internal/metafile"
)

func generateCmd() *cobra.Command {
	var (
		project string
		srcDir  string
		output  string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the section index of a documentation project",
		Long: `Reads the chapter list from the project file, parses every chapter under
the source directory and writes the index to the meta file.

Chapters that cannot be read are skipped and reported. Malformed <meta> tags
are reported as warnings and treated as absent: a heading with one does not
become a section, so its subsections attach to the nearest indexed ancestor.
On the chapter header, the front matter data is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			if project == "" {
				project = cfg.Project.ConfigFile
			}
			if srcDir != "" {
				cfg.Project.SrcDir = srcDir
			}
			if output == "" {
				output = cfg.Meta.Filename
			}

			gen := newGenerator(logger)
			proj, err := gen.ReadProject(project)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			m, report, err := gen.Generate(ctx, proj.Chapters)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			if err := metafile.Save(output, m); err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Printf("Index written to %s\n", output)
			fmt.Printf("  Chapters: %d\n", report.Chapters)
			fmt.Printf("  Sections: %d\n", report.Sections)
			fmt.Printf("  Duration: %s\n", report.Duration)
			for _, s := range report.Skipped {
				fmt.Printf("  Skipped:  %s (%s)\n", s.Filename, s.Reason)
			}
			for _, w := range report.Warnings {
				fmt.Printf("  Warning:  %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project file (default: project.config_file from config)")
	cmd.Flags().StringVar(&srcDir, "src", "", "chapter source directory (default: project.src_dir from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "index file to write (default: meta.filename from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run report as JSON")
	return cmd
}
