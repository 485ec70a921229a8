package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/sitereport/internal/config"
	"github.com/lehigh-university-libraries/sitereport/internal/report"
	"github.com/lehigh-university-libraries/sitereport/internal/reporting"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var (
		weather            string
		subcontractors     []string
		subcontractorsFile string
		areas              []string
		areasFile          string
		maxDimension       int
		quality            int
		output             string
	)

	cmd := &cobra.Command{
		Use:   "render [images or directories...]",
		Short: "Build a report from photographs on disk",
		Long: `Builds a report from the given photographs without starting the web form.

Directories contribute their .jpg and .jpeg files. Photographs are placed in
the order of the first number in their filename; files without a number come last.
List files hold one entry per line, blank lines included.`,
		Example: `  # Render every photo in a folder
  sitereport render ./site-visit --weather 14 --subcontractor "Acme Co" --area "Level 2"

  # Read the lists from files and shrink photos harder
  sitereport render ./site-visit --subcontractors-file subs.txt --areas-file areas.txt --max-dimension 800 --quality 70`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-dimension") {
				maxDimension = cfg.MaxDimension
			}
			if !cmd.Flags().Changed("quality") {
				quality = cfg.Quality
			}
			if output == "" {
				output = cfg.ReportFilename
			}

			subs, err := listInput(subcontractors, subcontractorsFile)
			if err != nil {
				return err
			}
			workAreas, err := listInput(areas, areasFile)
			if err != nil {
				return err
			}

			paths, err := collectPaths(args)
			if err != nil {
				return err
			}
			staged, err := readImages(paths)
			if err != nil {
				return err
			}

			result, err := reporting.NewService(cfg).Generate(reporting.Request{
				Images:         staged,
				Weather:        weather,
				Subcontractors: subs,
				Areas:          workAreas,
				MaxDimension:   maxDimension,
				Quality:        quality,
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, result.Data, 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d photographs written to %s\n", result.Message, len(result.Order), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&weather, "weather", "", "Weather conditions (°C)")
	cmd.Flags().StringArrayVar(&subcontractors, "subcontractor", nil, "Subcontractor present (repeatable)")
	cmd.Flags().StringVar(&subcontractorsFile, "subcontractors-file", "", "File with one subcontractor per line")
	cmd.Flags().StringArrayVar(&areas, "area", nil, "Area of work/progress (repeatable)")
	cmd.Flags().StringVar(&areasFile, "areas-file", "", "File with one area of work per line")
	cmd.Flags().IntVar(&maxDimension, "max-dimension", 1300, "Max image dimension in pixels (500-5000)")
	cmd.Flags().IntVar(&quality, "quality", 95, "JPEG quality (1 = small file, 100 = high quality)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default $REPORT_FILENAME or Progress_Report.docx)")

	return cmd
}

// listInput merges repeated flag values with the lines of an optional file.
// With neither given the list holds one empty entry, as an empty form field does.
func listInput(values []string, path string) ([]string, error) {
	entries := append([]string{}, values...)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read list file: %w", err)
		}
		entries = append(entries, report.SplitLines(string(data))...)
	}
	if len(entries) == 0 {
		return report.SplitLines(""), nil
	}
	return entries, nil
}
