package store

import (
	"sort"
	"testing"

	"github.com/cognicore/pointlabel/pkg/pointlabel/analytics"
	"github.com/cognicore/pointlabel/pkg/pointlabel/label"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

func TestNewRunIDSorted(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = NewRunID()
	}
	if !sort.StringsAreSorted(ids) {
		t.Error("Run ids should be monotonically increasing")
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("Duplicate run id %s", id)
		}
		seen[id] = true
	}
}

func TestNewSnapshot(t *testing.T) {
	c := analytics.NewCollector()
	c.Process([]string{"AHU", "01"}, "B1")
	c.Process([]string{"ahu", "02"}, "B2")

	snap := NewSnapshot(vocab.Bundle{}, c.Snapshot())
	if snap.Records != 2 {
		t.Errorf("Expected 2 records, got %d", snap.Records)
	}
	if len(snap.Tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(snap.Tokens))
	}
	ahu := snap.Tokens[2]
	if ahu.Token != "AHU" || ahu.Frequency != 2 || ahu.Buildings != 2 || ahu.NumericSuccession != 2 {
		t.Errorf("Unexpected AHU stats: %+v", ahu)
	}
}

func TestEquipKey(t *testing.T) {
	equip := "ahu"
	if got := EquipKey(label.Annotated{Structured: label.Structured{Equip: &equip}}); got != "AHU" {
		t.Errorf("Expected AHU, got %q", got)
	}
	if got := EquipKey(label.Annotated{}); got != "" {
		t.Errorf("Expected empty key, got %q", got)
	}
}
