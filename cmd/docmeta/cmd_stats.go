package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var (
		outputJSON bool
		metaPath   string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadIndex(metaPath)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			st := newQuery(m).Stats()

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			fmt.Printf("Chapters: %d\n", st.Chapters)
			fmt.Printf("Sections: %d\n\n", st.Sections)

			fmt.Println("By level:")
			for _, level := range st.Levels() {
				fmt.Printf("  %-12d %d\n", level, st.ByLevel[level])
			}

			if len(st.DataKeys) > 0 {
				fmt.Println("\nMetadata keys:")
				for _, k := range slices.Sorted(maps.Keys(st.DataKeys)) {
					fmt.Printf("  %-12s %d\n", k, st.DataKeys[k])
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	addMetaFlag(cmd, &metaPath)
	return cmd
}
