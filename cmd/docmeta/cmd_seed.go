package main

import (
	"errors"
	"fmt"
	"maps"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/docmeta/internal/seed"
)

func seedCmd() *cobra.Command {
	var (
		project string
		outDir  string
		inPlace bool
		seeds   map[string]string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Strip section meta tags from chapters and plant seed templates",
		Long: `Copies every declared chapter to the output directory with its <meta>
tags removed. Front matter is kept. For each metadata key that has a seed
template, the template is planted after the metadata with {value} replaced
by the key's value.

Templates come from meta.seeds in the config file and from --seed flags;
flags win.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			switch {
			case inPlace && outDir != "":
				return errors.New("seed: --out and --in-place are mutually exclusive")
			case inPlace:
				outDir = cfg.Project.SrcDir
			case outDir == "":
				return errors.New("seed: set --out or --in-place")
			}
			if project == "" {
				project = cfg.Project.ConfigFile
			}

			proj, err := newGenerator(logger).ReadProject(project)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			templates := maps.Clone(cfg.Meta.Seeds)
			if templates == nil {
				templates = map[string]string{}
			}
			maps.Copy(templates, seeds)

			n, err := seed.NewSeeder(afero.NewOsFs(), templates, logger).
				Files(ctx, cfg.Project.SrcDir, outDir, proj.Chapters.Flat())
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d chapters into %s\n", n, outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project file (default: project.config_file from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write processed chapters to")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "rewrite chapters in the source directory")
	cmd.Flags().StringToStringVar(&seeds, "seed", nil, "seed template as key=template, repeatable")
	return cmd
}
