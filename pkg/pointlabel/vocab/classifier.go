package vocab

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/pointlabel/pkg/pointlabel/analytics"
	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

// Classifier turns corpus statistics into the five category vocabularies.
// It is built once from a Config and holds no per-run state.
type Classifier struct {
	th Thresholds

	seedEquip     map[string]struct{}
	seedSubcomp   map[string]struct{}
	seedPointFunc map[string]struct{}
	ioTypes       map[string]struct{}
	vendorHints   map[string]struct{}
	stopwords     map[string]struct{}
	blacklist     map[string]struct{}
	stateWords    map[string]struct{}

	functionStems       []string
	measurementKeywords []string
}

// NewClassifier creates a classifier from cfg. Zero thresholds fall back to
// the defaults.
func NewClassifier(cfg Config) *Classifier {
	th := cfg.Thresholds
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}
	return &Classifier{
		th:                  th,
		seedEquip:           toSet(cfg.SeedEquip),
		seedSubcomp:         toSet(cfg.SeedSubcomp),
		seedPointFunc:       toSet(cfg.SeedPointFunc),
		ioTypes:             toSet(cfg.IOTypes),
		vendorHints:         toSet(cfg.VendorHints),
		stopwords:           toSet(cfg.EquipStopwords),
		blacklist:           toSet(cfg.EquipBlacklist),
		stateWords:          toSet(cfg.StateWords),
		functionStems:       append([]string(nil), cfg.FunctionStems...),
		measurementKeywords: append([]string(nil), cfg.MeasurementKeywords...),
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[ingest.Fold(it)] = struct{}{}
	}
	return set
}

func has(set map[string]struct{}, tok string) bool {
	_, ok := set[tok]
	return ok
}

// Classify assigns every distinct token to at most one vocabulary, scores the
// candidates and trims them. Tokens are visited in lexical order, so the
// result is a pure function of the statistics.
func (c *Classifier) Classify(stats analytics.Stats) (Bundle, Report) {
	report := Report{Thresholds: c.th}
	var io, vendor []string

	for _, tok := range stats.SortedTokens() {
		ts := stats.Token(tok)
		kind, ok := c.Bucket(ts)
		if !ok {
			report.Unclassified++
			continue
		}
		switch kind {
		case IOType:
			io = append(io, tok)
		case Vendor:
			vendor = append(vendor, tok)
		case PointFunc:
			report.PointFunc = append(report.PointFunc, c.candidate(ts, PointFunc))
		case Subcomp:
			report.Subcomp = append(report.Subcomp, c.candidate(ts, Subcomp))
		case Equip:
			report.Equip = append(report.Equip, c.candidate(ts, Equip))
		}
	}

	rankCandidates(report.Equip)
	rankCandidates(report.Subcomp)
	rankCandidates(report.PointFunc)

	var equip, subcomp, pointFunc []string
	for i := range report.Equip {
		if i < c.th.MaxEquipSize {
			report.Equip[i].Kept = true
			equip = append(equip, report.Equip[i].Token)
		}
	}
	for i := range report.Subcomp {
		if report.Subcomp[i].Score >= c.th.MinSubcompScore {
			report.Subcomp[i].Kept = true
			subcomp = append(subcomp, report.Subcomp[i].Token)
		}
	}
	for i := range report.PointFunc {
		if report.PointFunc[i].Score >= c.th.MinPointFuncScore {
			report.PointFunc[i].Kept = true
			pointFunc = append(pointFunc, report.PointFunc[i].Token)
		}
	}

	freq := make(map[string]int64, len(stats.Frequency))
	for tok, n := range stats.Frequency {
		freq[tok] = n
	}

	bundle := Bundle{
		EquipVocab:     sortedCopy(equip),
		SubcompVocab:   sortedCopy(subcomp),
		PointFuncVocab: sortedCopy(pointFunc),
		IOTypeVocab:    sortedCopy(io),
		VendorVocab:    sortedCopy(vendor),
		Frequency:      freq,
		Stats: BundleStats{
			NumTokens:    stats.NumTokens(),
			NumBuildings: stats.NumBuildings(),
		},
	}
	return bundle, report
}

// Bucket evaluates the priority cascade for one token:
// IO_TYPE, VENDOR_TAG, POINT_FUNC, SUBCOMP, EQUIP. The first match wins.
func (c *Classifier) Bucket(ts analytics.TokenStats) (Kind, bool) {
	switch {
	case c.IsIOType(ts.Token):
		return IOType, true
	case c.IsVendor(ts.Token):
		return Vendor, true
	case c.LikelyPointFunc(ts):
		return PointFunc, true
	case c.LikelySubcomp(ts):
		return Subcomp, true
	case c.LikelyEquip(ts):
		return Equip, true
	}
	return "", false
}

// IsIOType reports membership in the closed I/O set.
func (c *Classifier) IsIOType(tok string) bool {
	return has(c.ioTypes, tok)
}

// IsVendor reports a vendor hint, or a short "...NET" token such as BACNET.
func (c *Classifier) IsVendor(tok string) bool {
	if has(c.vendorHints, tok) {
		return true
	}
	return strings.HasSuffix(tok, "NET") && utf8.RuneCountInString(tok) <= 8
}

// PassesThresholds checks the global frequency and building-support gates.
func (c *Classifier) PassesThresholds(ts analytics.TokenStats) bool {
	return ts.Frequency >= c.th.MinFrequency && ts.Buildings >= c.th.MinBuildings
}

// LikelyPointFunc accepts seeds that occurred, or thresholded tokens matching
// a function stem or a state word.
func (c *Classifier) LikelyPointFunc(ts analytics.TokenStats) bool {
	if has(c.seedPointFunc, ts.Token) && ts.Frequency > 0 {
		return true
	}
	if !c.PassesThresholds(ts) {
		return false
	}
	for _, stem := range c.functionStems {
		if strings.HasPrefix(ts.Token, stem) {
			return true
		}
	}
	return has(c.stateWords, ts.Token)
}

// LikelySubcomp accepts seeds that occurred, or thresholded measurement-like
// tokens: containing a measurement keyword, or short uppercase ending in T.
func (c *Classifier) LikelySubcomp(ts analytics.TokenStats) bool {
	if has(c.seedSubcomp, ts.Token) && ts.Frequency > 0 {
		return true
	}
	if !c.PassesThresholds(ts) {
		return false
	}
	for _, kw := range c.measurementKeywords {
		if strings.Contains(ts.Token, kw) {
			return true
		}
	}
	return isUpper(ts.Token) && utf8.RuneCountInString(ts.Token) <= 4 && strings.HasSuffix(ts.Token, "T")
}

// LikelyEquip rejects blacklisted tokens, accepts seeds that occurred, and
// otherwise requires the thresholds plus an equipment shape: alphabetic,
// uppercase, 2 to 6 characters, not a stopword.
func (c *Classifier) LikelyEquip(ts analytics.TokenStats) bool {
	tok := ts.Token
	if has(c.blacklist, tok) {
		return false
	}
	if has(c.seedEquip, tok) && ts.Frequency > 0 {
		return true
	}
	if !c.PassesThresholds(ts) {
		return false
	}
	n := utf8.RuneCountInString(tok)
	if !isAlpha(tok) || !isUpper(tok) || n < 2 || n > 6 {
		return false
	}
	// Numeric succession is supporting evidence only; shape and thresholds suffice.
	return !has(c.stopwords, tok)
}

func (c *Classifier) candidate(ts analytics.TokenStats, kind Kind) Candidate {
	cand := Candidate{
		Token:             ts.Token,
		Kind:              kind,
		Frequency:         ts.Frequency,
		Buildings:         ts.Buildings,
		NumericSuccession: ts.NumericSuccession,
	}
	switch kind {
	case Equip:
		cand.Score = EquipScore(ts)
		cand.Seed = has(c.seedEquip, ts.Token)
		cand.NumericEvidence = ts.NumericSuccession >= c.th.MinNumericSuccession
	case Subcomp:
		cand.Score = SubcompScore(ts)
		cand.Seed = has(c.seedSubcomp, ts.Token)
	case PointFunc:
		cand.Score = PointFuncScore(ts)
		cand.Seed = has(c.seedPointFunc, ts.Token)
	}
	return cand
}

// EquipScore is freq + 2*buildings + 3*numeric succession.
func EquipScore(ts analytics.TokenStats) int64 {
	return ts.Frequency + 2*ts.Buildings + 3*ts.NumericSuccession
}

// SubcompScore is freq + 2*buildings.
func SubcompScore(ts analytics.TokenStats) int64 {
	return ts.Frequency + 2*ts.Buildings
}

// PointFuncScore is freq + buildings.
func PointFuncScore(ts analytics.TokenStats) int64 {
	return ts.Frequency + ts.Buildings
}

// rankCandidates orders by score descending, then token ascending.
func rankCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Token < cands[j].Token
	})
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isUpper holds when s has at least one cased letter and no lowercase one.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func sortedCopy(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}
