package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
	"github.com/cognicore/pointlabel/pkg/pointlabel/label"
	"github.com/cognicore/pointlabel/pkg/pointlabel/store"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu          sync.RWMutex
	snapshots   map[string]store.Snapshot
	order       []string // snapshot ids in save order
	annotations map[string][]label.Annotated
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		snapshots:   make(map[string]store.Snapshot),
		annotations: make(map[string][]label.Annotated),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveSnapshot stores a copy of snap, assigning a run id when it has none.
func (s *Store) SaveSnapshot(ctx context.Context, snap store.Snapshot) (string, error) {
	if err := snap.Bundle.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.ID == "" {
		snap.ID = store.NewRunID()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	if _, ok := s.snapshots[snap.ID]; !ok {
		s.order = append(s.order, snap.ID)
	}
	s.snapshots[snap.ID] = copySnapshot(snap)
	return snap.ID, nil
}

// GetSnapshot returns a snapshot by id.
func (s *Store) GetSnapshot(ctx context.Context, id string) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[id]
	if !ok {
		return store.Snapshot{}, internalerr.ErrNotFound
	}
	return copySnapshot(snap), nil
}

// LatestSnapshot returns the most recently saved snapshot.
func (s *Store) LatestSnapshot(ctx context.Context) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return store.Snapshot{}, internalerr.ErrNotFound
	}
	return copySnapshot(s.snapshots[s.order[len(s.order)-1]]), nil
}

// SaveAnnotations replaces the annotations of a run.
func (s *Store) SaveAnnotations(ctx context.Context, runID string, recs []label.Annotated) error {
	if runID == "" {
		return fmt.Errorf("%w: empty run id", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]label.Annotated, len(recs))
	for i, rec := range recs {
		out[i] = copyAnnotated(rec)
	}
	s.annotations[runID] = out
	return nil
}

// AnnotationsByEquip returns the annotations of a run whose equipment field
// matches equip, case-insensitively.
func (s *Store) AnnotationsByEquip(ctx context.Context, runID, equip string) ([]label.Annotated, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := ingest.Fold(equip)
	var out []label.Annotated
	for _, rec := range s.annotations[runID] {
		if store.EquipKey(rec) == key {
			out = append(out, copyAnnotated(rec))
		}
	}
	return out, nil
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copySnapshot(s store.Snapshot) store.Snapshot {
	b := s.Bundle
	freq := make(map[string]int64, len(b.Frequency))
	for k, v := range b.Frequency {
		freq[k] = v
	}

	tokens := make([]store.TokenStat, len(s.Tokens))
	copy(tokens, s.Tokens)

	return store.Snapshot{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Records:   s.Records,
		Tokens:    tokens,
		Bundle: vocab.Bundle{
			EquipVocab:     copyStrings(b.EquipVocab),
			SubcompVocab:   copyStrings(b.SubcompVocab),
			PointFuncVocab: copyStrings(b.PointFuncVocab),
			IOTypeVocab:    copyStrings(b.IOTypeVocab),
			VendorVocab:    copyStrings(b.VendorVocab),
			Frequency:      freq,
			Stats:          b.Stats,
		},
	}
}

func copyAnnotated(a label.Annotated) label.Annotated {
	out := a
	out.Tokens = copyStrings(a.Tokens)
	out.BIOTags = copyStrings(a.BIOTags)
	if a.TokenLabels != nil {
		out.TokenLabels = make([]label.Category, len(a.TokenLabels))
		copy(out.TokenLabels, a.TokenLabels)
	}
	return out
}
