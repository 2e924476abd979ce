package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/pointlabel/pkg/pointlabel/analytics"
	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

type statsReport struct {
	Records   int64           `json:"records"`
	Tokens    int             `json:"distinct_tokens"`
	Buildings []buildingEntry `json:"buildings"`
	TopTokens []tokenEntry    `json:"top_tokens"`
}

type buildingEntry struct {
	BuildingID     string `json:"building_id"`
	Occurrences    int64  `json:"occurrences"`
	DistinctTokens int    `json:"distinct_tokens"`
}

type tokenEntry struct {
	Token             string `json:"token"`
	Frequency         int64  `json:"frequency"`
	Buildings         int64  `json:"buildings"`
	NumericSuccession int64  `json:"numeric_succession"`
}

var (
	statsInput string
	statsTop   int
)

// statsCmd reports corpus token statistics
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus token statistics as JSON",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsInput, "input", outputPath(pointsFile), "Extracted points JSONL")
	statsCmd.Flags().IntVar(&statsTop, "top", 20, "Number of most frequent tokens to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	records, err := ingest.LoadRecords(statsInput, logger)
	if err != nil {
		return err
	}

	stats, err := analytics.CollectParallel(ctx, records, workers)
	if err != nil {
		return err
	}

	report := statsReport{Records: stats.Records, Tokens: stats.NumTokens()}
	for _, b := range stats.BuildingSummaries() {
		report.Buildings = append(report.Buildings, buildingEntry(b))
	}
	for _, ts := range stats.TopTokens(statsTop) {
		report.TopTokens = append(report.TopTokens, tokenEntry(ts))
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
