package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/pointlabel/pkg/pointlabel/analytics"
	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
	"github.com/cognicore/pointlabel/pkg/pointlabel/label"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

// Store persists vocabulary snapshots and the annotations produced with them.
type Store interface {
	Close() error

	// Snapshots
	SaveSnapshot(ctx context.Context, s Snapshot) (string, error)
	GetSnapshot(ctx context.Context, id string) (Snapshot, error)
	LatestSnapshot(ctx context.Context) (Snapshot, error)

	// Annotations
	SaveAnnotations(ctx context.Context, runID string, recs []label.Annotated) error
	AnnotationsByEquip(ctx context.Context, runID, equip string) ([]label.Annotated, error)
}

// Snapshot is one vocabulary induction run: the bundle plus the per-token
// statistics it was derived from.
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	Records   int64
	Bundle    vocab.Bundle
	Tokens    []TokenStat
}

// TokenStat is the persisted form of analytics.TokenStats.
type TokenStat struct {
	Token             string
	Frequency         int64
	Buildings         int64
	NumericSuccession int64
}

// NewSnapshot pairs a bundle with the statistics it was classified from.
func NewSnapshot(b vocab.Bundle, stats analytics.Stats) Snapshot {
	toks := stats.SortedTokens()
	out := make([]TokenStat, 0, len(toks))
	for _, tok := range toks {
		ts := stats.Token(tok)
		out = append(out, TokenStat{
			Token:             ts.Token,
			Frequency:         ts.Frequency,
			Buildings:         ts.Buildings,
			NumericSuccession: ts.NumericSuccession,
		})
	}
	return Snapshot{Records: stats.Records, Bundle: b, Tokens: out}
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a new lexically sortable run identifier.
func NewRunID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// EquipKey is the lookup key of an annotation's equipment field, empty when
// the annotation has none.
func EquipKey(a label.Annotated) string {
	if a.Structured.Equip == nil {
		return ""
	}
	return ingest.Fold(*a.Structured.Equip)
}
