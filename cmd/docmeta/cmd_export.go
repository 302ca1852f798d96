package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/metafile"
	"github.com/ajitpratap0/docmeta/internal/query"
)

func exportCmd() *cobra.Command {
	var (
		format   string
		output   string
		metaPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the index as YAML, nested JSON or a flat CSV table",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadIndex(metaPath)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			var w *os.File
			if output == "" || output == "-" {
				w = os.Stdout
			} else {
				w, err = os.Create(output)
				if err != nil {
					return fmt.Errorf("export: creating output file: %w", err)
				}
				defer func() { _ = w.Close() }()
			}

			switch format {
			case "yaml":
				err = metafile.Encode(w, m)
			case "json":
				err = metafile.EncodeJSON(w, m)
			case "csv":
				err = writeCSV(w, m)
			default:
				return fmt.Errorf("export: unsupported format %q (use yaml, json or csv)", format)
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if output != "" && output != "-" {
				fmt.Fprintf(os.Stderr, "Exported %d sections to %s\n", m.Count(), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: yaml, json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file path (- for stdout)")
	addMetaFlag(cmd, &metaPath)
	return cmd
}

// writeCSV writes one row per section in document order. Data is a JSON object.
func writeCSV(w io.Writer, m *meta.Meta) error {
	cw := csv.NewWriter(w)
	headers := []string{"id", "chapter", "parent", "level", "title", "start", "end", "data"}
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for s := range m.Sections() {
		v := query.View(s)
		data, err := json.Marshal(v.Data)
		if err != nil {
			return fmt.Errorf("encoding data of %s: %w", v.ID, err)
		}
		row := []string{
			v.ID,
			v.Chapter,
			v.Parent,
			strconv.Itoa(v.Level),
			v.Title,
			strconv.Itoa(v.Start),
			strconv.Itoa(v.End),
			string(data),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
