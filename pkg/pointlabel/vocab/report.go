package vocab

// Candidate is a scored vocabulary candidate.
type Candidate struct {
	Token             string
	Kind              Kind
	Frequency         int64
	Buildings         int64
	NumericSuccession int64
	Score             int64
	Seed              bool
	NumericEvidence   bool // followed by a numeric id often enough
	Kept              bool // survived trimming
}

// Report keeps the ranked candidates of a classification run for review.
// Each list is ordered by score descending, then token.
type Report struct {
	Thresholds   Thresholds
	Equip        []Candidate
	Subcomp      []Candidate
	PointFunc    []Candidate
	Unclassified int
}

// Weakest returns the n lowest-ranked equipment candidates, weakest last.
// These are the usual blacklist suspects.
func (r Report) Weakest(n int) []Candidate {
	if n <= 0 || len(r.Equip) == 0 {
		return nil
	}
	if n > len(r.Equip) {
		n = len(r.Equip)
	}
	out := make([]Candidate, n)
	copy(out, r.Equip[len(r.Equip)-n:])
	return out
}

// Dropped returns the candidates removed by trimming.
func (r Report) Dropped() []Candidate {
	var out []Candidate
	for _, list := range [][]Candidate{r.Equip, r.Subcomp, r.PointFunc} {
		for _, c := range list {
			if !c.Kept {
				out = append(out, c)
			}
		}
	}
	return out
}
