// Package pointlabel induces token vocabularies from a corpus of BMS point
// names and weak-labels each point with token categories, BIO tags and a
// structured summary.
package pointlabel

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/pointlabel/pkg/pointlabel/analytics"
	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
	"github.com/cognicore/pointlabel/pkg/pointlabel/label"
	"github.com/cognicore/pointlabel/pkg/pointlabel/store"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

// Engine is the main pipeline facade
type Engine struct {
	store   store.Store
	cfg     vocab.Config
	logger  *zap.Logger
	workers int
}

// Options configures an Engine. Store may be nil; Config nil means
// vocab.DefaultConfig; Workers below one means GOMAXPROCS.
type Options struct {
	Store   store.Store
	Config  *vocab.Config
	Logger  *zap.Logger
	Workers int
}

// New creates an Engine with the given dependencies
func New(opts Options) *Engine {
	e := &Engine{
		store:   opts.Store,
		logger:  opts.Logger,
		workers: opts.Workers,
	}
	if opts.Config != nil {
		e.cfg = *opts.Config
	} else {
		e.cfg = vocab.DefaultConfig()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Close cleanly shuts down the engine and its store
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Induction is the outcome of one vocabulary build.
type Induction struct {
	Bundle vocab.Bundle
	Report vocab.Report
	Stats  analytics.Stats
	// RunID identifies the persisted snapshot; empty without a store.
	RunID string
}

// BuildVocabulary collects corpus statistics over records, classifies the
// tokens and, when a store is configured, persists the result as a snapshot.
func (e *Engine) BuildVocabulary(ctx context.Context, records []ingest.Record) (Induction, error) {
	if len(records) == 0 {
		return Induction{}, internalerr.ErrNoRecords
	}

	stats, err := analytics.CollectParallel(ctx, records, e.workers)
	if err != nil {
		return Induction{}, fmt.Errorf("collect stats: %w", err)
	}

	bundle, report := vocab.NewClassifier(e.cfg).Classify(stats)
	ind := Induction{Bundle: bundle, Report: report, Stats: stats}

	e.logger.Info("vocabulary induced",
		zap.Int64("records", stats.Records),
		zap.Int("tokens", bundle.Stats.NumTokens),
		zap.Int("buildings", bundle.Stats.NumBuildings),
		zap.Int("equip", len(bundle.EquipVocab)),
		zap.Int("subcomp", len(bundle.SubcompVocab)),
		zap.Int("point_func", len(bundle.PointFuncVocab)),
		zap.Int("io_type", len(bundle.IOTypeVocab)),
		zap.Int("vendor", len(bundle.VendorVocab)),
		zap.Int("unclassified", report.Unclassified))

	if e.store != nil {
		id, err := e.store.SaveSnapshot(ctx, store.NewSnapshot(bundle, stats))
		if err != nil {
			return Induction{}, fmt.Errorf("save snapshot: %w", err)
		}
		ind.RunID = id
		e.logger.Debug("snapshot saved", zap.String("run_id", id))
	}
	return ind, nil
}

// LoadVocabulary reads the bundle at path, or the latest stored snapshot when
// path is empty. It returns the bundle's lookup view and the run id it came
// from, if any.
func (e *Engine) LoadVocabulary(ctx context.Context, path string) (*vocab.Vocabulary, string, error) {
	var (
		bundle vocab.Bundle
		runID  string
		err    error
	)
	switch {
	case path != "":
		bundle, err = vocab.Load(path)
	case e.store != nil:
		var snap store.Snapshot
		snap, err = e.store.LatestSnapshot(ctx)
		if errors.Is(err, internalerr.ErrNotFound) {
			err = fmt.Errorf("%w: no stored snapshot", internalerr.ErrInvalidVocab)
		}
		bundle, runID = snap.Bundle, snap.ID
	default:
		err = fmt.Errorf("%w: no vocabulary source", internalerr.ErrInvalidVocab)
	}
	if err != nil {
		return nil, "", err
	}

	v, err := bundle.Vocabulary()
	if err != nil {
		return nil, "", err
	}
	return v, runID, nil
}

// Annotate labels every record with v. The output keeps input order.
func (e *Engine) Annotate(ctx context.Context, v *vocab.Vocabulary, records []ingest.Record) ([]label.Annotated, error) {
	l, err := label.New(v)
	if err != nil {
		return nil, err
	}

	out := make([]label.Annotated, len(records))
	shards := min(e.workers, len(records))
	if shards <= 1 {
		for i, rec := range records {
			out[i] = l.Annotate(rec)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return out, nil
	}

	size := (len(records) + shards - 1) / shards
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(records); lo += size {
		lo := lo
		hi := min(lo+size, len(records))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				out[i] = l.Annotate(records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveAnnotations persists annotations under runID. It is a no-op without a
// store; a missing run id gets a fresh one. The run id used is returned.
func (e *Engine) SaveAnnotations(ctx context.Context, runID string, recs []label.Annotated) (string, error) {
	if e.store == nil {
		return runID, nil
	}
	if runID == "" {
		runID = store.NewRunID()
	}
	if err := e.store.SaveAnnotations(ctx, runID, recs); err != nil {
		return "", fmt.Errorf("save annotations: %w", err)
	}
	e.logger.Debug("annotations saved", zap.String("run_id", runID), zap.Int("count", len(recs)))
	return runID, nil
}
