package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func getCmd() *cobra.Command {
	var (
		outputJSON bool
		metaPath   string
	)

	cmd := &cobra.Command{
		Use:   "get [section-id]",
		Short: "Show the metadata of a single section by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadIndex(metaPath)
			if err != nil {
				return fmt.Errorf("get: %w", err)
			}

			v, err := newQuery(m).Section(args[0])
			if err != nil {
				return fmt.Errorf("get: %w", err)
			}

			if outputJSON {
				out, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return fmt.Errorf("get: marshaling JSON: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("ID:       %s\n", v.ID)
			fmt.Printf("Title:    %s\n", v.Title)
			fmt.Printf("Chapter:  %s\n", v.Chapter)
			fmt.Printf("Level:    %d\n", v.Level)
			fmt.Printf("Span:     %d-%d\n", v.Start, v.End)
			if v.Parent != "" {
				fmt.Printf("Parent:   %s\n", v.Parent)
			}
			if len(v.Children) > 0 {
				fmt.Printf("Children: %s\n", strings.Join(v.Children, ", "))
			}
			if len(v.Data) > 0 {
				fmt.Println("\nData:")
				for _, k := range slices.Sorted(maps.Keys(v.Data)) {
					fmt.Printf("  %-12s %v\n", k, v.Data[k])
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	addMetaFlag(cmd, &metaPath)
	return cmd
}
