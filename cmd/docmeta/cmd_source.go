package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sourceCmd() *cobra.Command {
	var (
		keepMeta bool
		html     bool
		metaPath string
	)

	cmd := &cobra.Command{
		Use:   "source [section-id]",
		Short: "Print the markdown a section spans, subsections included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadIndex(metaPath)
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			q := newQuery(m)

			var out string
			if html {
				out, err = q.HTML(args[0])
			} else {
				out, err = q.Source(args[0], keepMeta)
			}
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepMeta, "keep-meta", false, "keep inline <meta> tags")
	cmd.Flags().BoolVar(&html, "html", false, "render the section as HTML")
	addMetaFlag(cmd, &metaPath)
	return cmd
}
