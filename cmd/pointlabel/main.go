package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/pointlabel/pkg/pointlabel"
	"github.com/cognicore/pointlabel/pkg/pointlabel/store/sqlite"
)

const (
	pointsFile  = "all_points.jsonl"
	vocabFile   = "bms_vocabs.json"
	labeledFile = "point_names_labeled.jsonl"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration
	dbPath  string
	workers int

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pointlabel",
	Short: "Weak labeling of BMS point names",
	Long: `pointlabel turns raw building-management point exports into a labeled corpus.

  extract  collect point labels from CSV exports into JSONL
  vocab    induce equipment, subcomponent, function, IO and vendor vocabularies
  label    tag every token, emit BIO tags and a structured summary
  stats    report corpus token statistics

Directories default to $BMS_INPUT_DIR and $PARSER_OUTPUT_DIR.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Optional SQLite database for vocabulary snapshots and annotations")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Parallel workers (default: GOMAXPROCS)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext derives the operation context from the command, bounded by
// the global timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// openEngine builds the pipeline engine, backed by SQLite when --db is set.
func openEngine(ctx context.Context, opts pointlabel.Options) (*pointlabel.Engine, error) {
	opts.Logger = logger
	opts.Workers = workers
	if dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		opts.Store = st
	}
	return pointlabel.New(opts), nil
}

func inputDir() string {
	if dir := os.Getenv("BMS_INPUT_DIR"); dir != "" {
		return dir
	}
	return filepath.Join("data", "bms-fierro", "buildings")
}

func outputPath(name string) string {
	dir := os.Getenv("PARSER_OUTPUT_DIR")
	if dir == "" {
		dir = filepath.Join("data", "output", "point-name-parser")
	}
	return filepath.Join(dir, name)
}

func ensureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
