package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/pointlabel/pkg/pointlabel"
	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

var (
	labelInput  string
	labelVocab  string
	labelOutput string
)

// labelCmd weak-labels every point
var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Label point tokens with an induced vocabulary",
	Long: `Tokenizes every extracted point, assigns each token a category, and writes
the tokens, categories, BIO tags and structured summary per point.

With --db and an empty --vocab, the latest stored vocabulary snapshot is used
and the annotations are stored under its run id.

Example:
  pointlabel label --input out/all_points.jsonl --vocab out/bms_vocabs.json`,
	Args: cobra.NoArgs,
	RunE: runLabel,
}

func init() {
	labelCmd.Flags().StringVar(&labelInput, "input", outputPath(pointsFile), "Extracted points JSONL")
	labelCmd.Flags().StringVar(&labelVocab, "vocab", outputPath(vocabFile), "Vocabulary bundle JSON")
	labelCmd.Flags().StringVar(&labelOutput, "output", outputPath(labeledFile), "Labeled points JSONL")
}

func runLabel(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	engine, err := openEngine(ctx, pointlabel.Options{})
	if err != nil {
		return err
	}
	defer engine.Close()

	v, runID, err := engine.LoadVocabulary(ctx, labelVocab)
	if err != nil {
		return err
	}

	records, err := ingest.LoadRecords(labelInput, logger)
	if err != nil {
		return err
	}

	annotated, err := engine.Annotate(ctx, v, records)
	if err != nil {
		return err
	}

	if err := ensureParent(labelOutput); err != nil {
		return err
	}
	if err := ingest.WriteJSONLFile(labelOutput, annotated); err != nil {
		return fmt.Errorf("write %s: %w", labelOutput, err)
	}

	runID, err = engine.SaveAnnotations(ctx, runID, annotated)
	if err != nil {
		return err
	}
	logger.Info("Points labeled",
		zap.String("output", labelOutput),
		zap.Int("records", len(annotated)),
		zap.String("run_id", runID))
	return nil
}
