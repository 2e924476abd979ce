package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/pointlabel/pkg/pointlabel"
	"github.com/cognicore/pointlabel/pkg/pointlabel/config"
	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

var (
	vocabInput     string
	vocabOutput    string
	vocabConfig    string
	vocabBlacklist string
	vocabReview    int
)

// vocabCmd induces the token vocabularies
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Induce token vocabularies from extracted point labels",
	Long: `Collects corpus statistics over the extracted points and classifies every
token into the equipment, subcomponent, point function, IO type and vendor
vocabularies. The weakest kept equipment tokens are logged for blacklist review.

Example:
  pointlabel vocab --input out/all_points.jsonl --output out/bms_vocabs.json --blacklist blacklist.yaml`,
	Args: cobra.NoArgs,
	RunE: runVocab,
}

func init() {
	vocabCmd.Flags().StringVar(&vocabInput, "input", outputPath(pointsFile), "Extracted points JSONL")
	vocabCmd.Flags().StringVar(&vocabOutput, "output", outputPath(vocabFile), "Vocabulary bundle JSON")
	vocabCmd.Flags().StringVar(&vocabConfig, "config", "", "Classifier config YAML")
	vocabCmd.Flags().StringVar(&vocabBlacklist, "blacklist", "", "Equipment blacklist YAML (terms: [...])")
	vocabCmd.Flags().IntVar(&vocabReview, "review", 30, "Number of weakest equipment tokens to log")
}

func runVocab(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	loader := config.Loader{ClassifierPath: vocabConfig, BlacklistPath: vocabBlacklist}
	comp, err := loader.Load()
	if err != nil {
		return err
	}

	records, err := ingest.LoadRecords(vocabInput, logger)
	if err != nil {
		return err
	}

	engine, err := openEngine(ctx, pointlabel.Options{Config: &comp.Config})
	if err != nil {
		return err
	}
	defer engine.Close()

	ind, err := engine.BuildVocabulary(ctx, records)
	if err != nil {
		return err
	}

	if err := ensureParent(vocabOutput); err != nil {
		return err
	}
	if err := ind.Bundle.Save(vocabOutput); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	logger.Info("Vocabulary saved", zap.String("output", vocabOutput), zap.String("run_id", ind.RunID))

	for _, c := range ind.Report.Weakest(vocabReview) {
		logger.Info("Equipment candidate for review",
			zap.String("token", c.Token),
			zap.Int64("score", c.Score),
			zap.Int64("frequency", c.Frequency),
			zap.Int64("buildings", c.Buildings),
			zap.Int64("numeric_succession", c.NumericSuccession),
			zap.Bool("kept", c.Kept))
	}
	return nil
}
