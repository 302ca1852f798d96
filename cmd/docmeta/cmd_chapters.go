package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func chaptersCmd() *cobra.Command {
	var (
		project   string
		fromIndex bool
		orphans   bool
		metaPath  string
	)

	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "List the chapters declared by the project or stored in the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromIndex {
				m, err := loadIndex(metaPath)
				if err != nil {
					return fmt.Errorf("chapters: %w", err)
				}
				for _, ch := range newQuery(m).Chapters() {
					fmt.Printf("%-30s  %-40s  %4d sections  root=%s\n", ch.Name, ch.Filename, ch.Sections, ch.Root)
				}
				return nil
			}

			if project == "" {
				project = cfg.Project.ConfigFile
			}
			gen := newGenerator(newLogger())
			proj, err := gen.ReadProject(project)
			if err != nil {
				return fmt.Errorf("chapters: %w", err)
			}

			if orphans {
				files, err := gen.Orphans(proj.Chapters)
				if err != nil {
					return fmt.Errorf("chapters: %w", err)
				}
				for _, f := range files {
					fmt.Println(f)
				}
				return nil
			}

			if proj.Title != "" {
				fmt.Printf("# %s\n", proj.Title)
			}
			for _, path := range proj.Chapters.Paths(cfg.Project.SrcDir) {
				fmt.Println(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project file (default: project.config_file from config)")
	cmd.Flags().BoolVar(&orphans, "orphans", false, "list markdown files in the source directory that no chapter declares")
	cmd.Flags().BoolVar(&fromIndex, "index", false, "list chapters from the index file instead of the project file")
	addMetaFlag(cmd, &metaPath)
	return cmd
}
