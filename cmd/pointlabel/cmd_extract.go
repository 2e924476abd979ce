package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/pointlabel/pkg/pointlabel/extract"
	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

var (
	extractInput  string
	extractOutput string
	extractSample bool
)

// extractCmd collects point labels from CSV exports
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract point labels from a directory of CSV exports",
	Long: `Scans every *.csv file in the input directory, detects the header row and
the point label column, and writes one JSON record per point.

Example:
  pointlabel extract --input data/buildings --output out/all_points.jsonl --sample`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractInput, "input", inputDir(), "Directory of CSV exports")
	extractCmd.Flags().StringVar(&extractOutput, "output", outputPath(pointsFile), "Output JSONL file")
	extractCmd.Flags().BoolVar(&extractSample, "sample", false, "Print one point label per building")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	records, err := extract.LoadDir(ctx, extractInput, logger)
	if err != nil {
		return err
	}

	if err := ensureParent(extractOutput); err != nil {
		return err
	}
	if err := ingest.WriteJSONLFile(extractOutput, records); err != nil {
		return fmt.Errorf("write %s: %w", extractOutput, err)
	}
	logger.Info("Points extracted",
		zap.String("input", extractInput),
		zap.String("output", extractOutput),
		zap.Int("records", len(records)))

	if extractSample {
		for _, rec := range extract.SamplePerBuilding(records) {
			fmt.Fprintln(cmd.OutOrStdout(), rec.PointLabel)
		}
	}
	return nil
}
