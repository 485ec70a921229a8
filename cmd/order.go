package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/lehigh-university-libraries/sitereport/internal/images"
	"github.com/lehigh-university-libraries/sitereport/internal/report"
	"github.com/spf13/cobra"
)

type orderEntry struct {
	Position int    `json:"position"`
	Page     int    `json:"page"`
	Filename string `json:"filename"`
	Key      string `json:"key"`
	Path     string `json:"path"`
}

func newOrderCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "order [images or directories...]",
		Short: "Show the order photographs will be placed in",
		Long: `Prints the processing order of the given photographs without decoding them:
the sort key taken from each filename and the plate page each one lands on.`,
		Example: `  sitereport order ./site-visit
  sitereport order ./site-visit --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := collectPaths(args)
			if err != nil {
				return err
			}
			return printOrder(cmd.OutOrStdout(), orderPaths(paths), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv)")

	return cmd
}

func orderPaths(paths []string) []orderEntry {
	sorted := append([]string{}, paths...)
	images.SortByFilename(sorted, filepath.Base)

	entries := make([]orderEntry, len(sorted))
	for i, path := range sorted {
		name := filepath.Base(path)
		entries[i] = orderEntry{
			Position: i + 1,
			Page:     i/report.PlatesPerPage + 1,
			Filename: name,
			Key:      images.KeyFor(name).String(),
			Path:     path,
		}
	}
	return entries
}

func printOrder(w io.Writer, entries []orderEntry, format string) error {
	switch format {
	case "text":
		for _, e := range entries {
			fmt.Fprintf(w, "%3d  page %-3d key %-8s %s\n", e.Position, e.Page, e.Key, e.Filename)
		}
		return nil
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "csv":
		writer := csv.NewWriter(w)
		if err := writer.Write([]string{"Position", "Page", "Filename", "Key", "Path"}); err != nil {
			return err
		}
		for _, e := range entries {
			row := []string{fmt.Sprint(e.Position), fmt.Sprint(e.Page), e.Filename, e.Key, e.Path}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
