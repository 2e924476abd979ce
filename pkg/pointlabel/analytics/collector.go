package analytics

import (
	"sort"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

// Collector aggregates corpus-level token statistics over point labels.
// All maps are keyed by the folded token. A Collector is not safe for
// concurrent use; shard the corpus and Merge the snapshots instead.
type Collector struct {
	records           int64
	frequency         map[string]int64
	buildings         map[string]map[string]struct{}
	numericSuccession map[string]int64
	perBuilding       map[string]map[string]int64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		frequency:         make(map[string]int64),
		buildings:         make(map[string]map[string]struct{}),
		numericSuccession: make(map[string]int64),
		perBuilding:       make(map[string]map[string]int64),
	}
}

// ProcessRecord tokenizes a record's label and consumes it.
func (c *Collector) ProcessRecord(rec ingest.Record) {
	c.Process(ingest.Tokenize(rec.PointLabel), rec.Building())
}

// Process consumes one label's tokens (original case) for the given building.
// Labels without tokens are ignored.
func (c *Collector) Process(tokens []string, buildingID string) {
	if len(tokens) == 0 {
		return
	}
	if buildingID == "" {
		buildingID = ingest.UnknownBuilding
	}
	c.records++

	counts := c.perBuilding[buildingID]
	if counts == nil {
		counts = make(map[string]int64)
		c.perBuilding[buildingID] = counts
	}

	folded := make([]string, len(tokens))
	for i, tok := range tokens {
		f := ingest.Fold(tok)
		folded[i] = f
		c.frequency[f]++
		counts[f]++

		set := c.buildings[f]
		if set == nil {
			set = make(map[string]struct{})
			c.buildings[f] = set
		}
		set[buildingID] = struct{}{}
	}

	// Successor digits are tested on the original text, predecessor is folded.
	for i := 0; i < len(tokens)-1; i++ {
		if ingest.IsDigits(tokens[i+1]) {
			c.numericSuccession[folded[i]]++
		}
	}
}

// Snapshot returns a copy of the accumulated statistics.
func (c *Collector) Snapshot() Stats {
	s := newStats()
	s.Records = c.records
	for tok, n := range c.frequency {
		s.Frequency[tok] = n
	}
	for tok, set := range c.buildings {
		cp := make(map[string]struct{}, len(set))
		for b := range set {
			cp[b] = struct{}{}
		}
		s.Buildings[tok] = cp
	}
	for tok, n := range c.numericSuccession {
		s.NumericSuccession[tok] = n
	}
	for b, counts := range c.perBuilding {
		cp := make(map[string]int64, len(counts))
		for tok, n := range counts {
			cp[tok] = n
		}
		s.PerBuilding[b] = cp
	}
	return s
}

// Stats exposes the aggregated counts.
type Stats struct {
	Records           int64
	Frequency         map[string]int64               // occurrences per token
	Buildings         map[string]map[string]struct{} // building support per token
	NumericSuccession map[string]int64               // times followed by an all-digit token
	PerBuilding       map[string]map[string]int64    // building -> token -> occurrences
}

func newStats() Stats {
	return Stats{
		Frequency:         make(map[string]int64),
		Buildings:         make(map[string]map[string]struct{}),
		NumericSuccession: make(map[string]int64),
		PerBuilding:       make(map[string]map[string]int64),
	}
}

// TokenStats is the per-token view used by vocabulary classification.
type TokenStats struct {
	Token             string
	Frequency         int64
	Buildings         int64
	NumericSuccession int64
}

// Token returns the statistics of one folded token.
func (s Stats) Token(tok string) TokenStats {
	return TokenStats{
		Token:             tok,
		Frequency:         s.Frequency[tok],
		Buildings:         int64(len(s.Buildings[tok])),
		NumericSuccession: s.NumericSuccession[tok],
	}
}

// SortedTokens returns every distinct token in lexical order.
func (s Stats) SortedTokens() []string {
	out := make([]string, 0, len(s.Frequency))
	for tok := range s.Frequency {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// NumTokens is the number of distinct tokens.
func (s Stats) NumTokens() int {
	return len(s.Frequency)
}

// NumBuildings is the number of distinct buildings seen.
func (s Stats) NumBuildings() int {
	return len(s.PerBuilding)
}

// TopTokens returns the n most frequent tokens, ties broken lexically.
func (s Stats) TopTokens(n int) []TokenStats {
	toks := s.SortedTokens()
	out := make([]TokenStats, 0, len(toks))
	for _, tok := range toks {
		out = append(out, s.Token(tok))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Frequency > out[j].Frequency
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// BuildingSummary reports, per building, the number of occurrences and
// distinct tokens it contributed.
type BuildingSummary struct {
	BuildingID     string
	Occurrences    int64
	DistinctTokens int
}

// BuildingSummaries returns one summary per building in lexical order.
func (s Stats) BuildingSummaries() []BuildingSummary {
	out := make([]BuildingSummary, 0, len(s.PerBuilding))
	for b, counts := range s.PerBuilding {
		var total int64
		for _, n := range counts {
			total += n
		}
		out = append(out, BuildingSummary{BuildingID: b, Occurrences: total, DistinctTokens: len(counts)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BuildingID < out[j].BuildingID })
	return out
}

// Merge combines partial statistics: frequencies and numeric succession sum,
// building support sets union. The result does not depend on argument order.
func Merge(parts ...Stats) Stats {
	out := newStats()
	for _, p := range parts {
		out.Records += p.Records
		for tok, n := range p.Frequency {
			out.Frequency[tok] += n
		}
		for tok, set := range p.Buildings {
			dst := out.Buildings[tok]
			if dst == nil {
				dst = make(map[string]struct{}, len(set))
				out.Buildings[tok] = dst
			}
			for b := range set {
				dst[b] = struct{}{}
			}
		}
		for tok, n := range p.NumericSuccession {
			out.NumericSuccession[tok] += n
		}
		for b, counts := range p.PerBuilding {
			dst := out.PerBuilding[b]
			if dst == nil {
				dst = make(map[string]int64, len(counts))
				out.PerBuilding[b] = dst
			}
			for tok, n := range counts {
				dst[tok] += n
			}
		}
	}
	return out
}
