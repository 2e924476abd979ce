package vocab

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/pointlabel/pkg/pointlabel/analytics"
	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

func ts(tok string, freq, buildings, numeric int64) analytics.TokenStats {
	return analytics.TokenStats{Token: tok, Frequency: freq, Buildings: buildings, NumericSuccession: numeric}
}

func collect(records []ingest.Record) analytics.Stats {
	c := analytics.NewCollector()
	for _, r := range records {
		c.ProcessRecord(r)
	}
	return c.Snapshot()
}

func TestIsIOType(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	assert.True(t, c.IsIOType("AI"))
	assert.True(t, c.IsIOType("DO"))
	assert.False(t, c.IsIOType("XYZ"))
}

func TestIsVendor(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	assert.True(t, c.IsVendor("SIEMENS"))
	assert.True(t, c.IsVendor("BACNET"))
	assert.True(t, c.IsVendor("MYNET"), "short NET suffix")
	assert.True(t, c.IsVendor("ABCDENET"), "eight characters is still short")
	assert.False(t, c.IsVendor("LONGNETNAME"))
	assert.False(t, c.IsVendor("ABCDEFNET"), "nine characters is too long")
	assert.False(t, c.IsVendor("NOTVENDOR"))
}

func TestPassesThresholds(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	assert.True(t, c.PassesThresholds(ts("AHU", 15, 2, 0)))
	assert.True(t, c.PassesThresholds(ts("AHU", 10, 2, 0)), "bounds are inclusive")
	assert.False(t, c.PassesThresholds(ts("AHU", 5, 2, 0)))
	assert.False(t, c.PassesThresholds(ts("AHU", 50, 1, 0)))
}

func TestScoresMonotonic(t *testing.T) {
	assert.Greater(t, EquipScore(ts("X", 10, 3, 2)), EquipScore(ts("X", 1, 1, 0)))
	assert.Greater(t, SubcompScore(ts("X", 5, 3, 0)), SubcompScore(ts("X", 1, 1, 0)))
	assert.Greater(t, PointFuncScore(ts("X", 3, 4, 0)), PointFuncScore(ts("X", 1, 1, 0)))

	assert.Equal(t, int64(10+6+6), EquipScore(ts("X", 10, 3, 2)))
	assert.Equal(t, int64(5+6), SubcompScore(ts("X", 5, 3, 9)))
	assert.Equal(t, int64(3+4), PointFuncScore(ts("X", 3, 4, 9)))
}

func TestLikelyEquip(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	assert.True(t, c.LikelyEquip(ts("AHU", 1, 1, 0)), "seeds accepted once observed")
	assert.False(t, c.LikelyEquip(ts("AHU", 0, 0, 0)), "unobserved seed")
	assert.False(t, c.LikelyEquip(ts("FLOW", 50, 3, 10)), "stopword")
	assert.False(t, c.LikelyEquip(ts("ahu", 20, 2, 10)), "lowercase")
	assert.False(t, c.LikelyEquip(ts("X", 20, 2, 10)), "too short")
	assert.False(t, c.LikelyEquip(ts("CHILLER", 20, 2, 10)), "too long")
	assert.False(t, c.LikelyEquip(ts("VLV1", 20, 2, 10)), "not alphabetic")
	assert.False(t, c.LikelyEquip(ts("VLV", 9, 2, 10)), "below thresholds")
	assert.True(t, c.LikelyEquip(ts("VLV", 20, 2, 0)), "numeric evidence not required")
	assert.True(t, c.LikelyEquip(ts("CHLR", 20, 3, 8)))
}

func TestLikelyEquipBlacklist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EquipBlacklist = []string{"ahu", "ZN"}
	c := NewClassifier(cfg)
	assert.False(t, c.LikelyEquip(ts("AHU", 100, 5, 50)), "blacklist beats seeds")
	assert.False(t, c.LikelyEquip(ts("ZN", 100, 5, 50)))
}

func TestLikelySubcomp(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	assert.True(t, c.LikelySubcomp(ts("TEMP", 20, 3, 0)))
	assert.True(t, c.LikelySubcomp(ts("SAT", 1, 1, 0)), "seed")
	assert.True(t, c.LikelySubcomp(ts("ZNTEMP", 20, 3, 0)), "contains keyword")
	assert.True(t, c.LikelySubcomp(ts("CWT", 20, 3, 0)), "short uppercase ending in T")
	assert.False(t, c.LikelySubcomp(ts("CWST", 9, 3, 0)), "below thresholds")
	assert.False(t, c.LikelySubcomp(ts("EFFECT", 20, 3, 0)), "too long for the T rule")
	assert.False(t, c.LikelySubcomp(ts("HUMX", 5, 1, 0)))
}

func TestLikelyPointFunc(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	assert.True(t, c.LikelyPointFunc(ts("CMD", 20, 2, 0)))
	assert.True(t, c.LikelyPointFunc(ts("STATUS", 20, 2, 0)))
	assert.True(t, c.LikelyPointFunc(ts("ALM", 1, 1, 0)), "seed")
	assert.True(t, c.LikelyPointFunc(ts("STATE", 20, 2, 0)), "stem prefix")
	assert.True(t, c.LikelyPointFunc(ts("ENBLD", 20, 2, 0)), "stem prefix")
	assert.False(t, c.LikelyPointFunc(ts("STATE", 5, 2, 0)), "below thresholds")
	assert.False(t, c.LikelyPointFunc(ts("RESTART", 20, 2, 0)), "stem must be a prefix")
}

func TestBucketPriority(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	// STAT is a function stem and contains no measurement keyword
	kind, ok := c.Bucket(ts("STATIC", 20, 2, 0))
	require.True(t, ok)
	assert.Equal(t, PointFunc, kind, "point function wins over subcomponent seed")

	kind, ok = c.Bucket(ts("BACNET", 20, 2, 10))
	require.True(t, ok)
	assert.Equal(t, Vendor, kind)

	kind, ok = c.Bucket(ts("AV", 20, 2, 10))
	require.True(t, ok)
	assert.Equal(t, IOType, kind)

	_, ok = c.Bucket(ts("01", 20, 2, 0))
	assert.False(t, ok)
}

func TestClassifySmallCorpus(t *testing.T) {
	var records []ingest.Record
	for i := 0; i < 12; i++ {
		b := "B1"
		if i >= 6 {
			b = "B2"
		}
		records = append(records, ingest.Record{PointLabel: "SIEMENS_AHU-01.SAT_AI_CMD", BuildingID: b})
	}

	bundle, report := NewClassifier(DefaultConfig()).Classify(collect(records))

	assert.Contains(t, bundle.IOTypeVocab, "AI")
	assert.Contains(t, bundle.VendorVocab, "SIEMENS")
	assert.Contains(t, bundle.EquipVocab, "AHU")
	assert.Contains(t, bundle.SubcompVocab, "SAT")
	assert.Contains(t, bundle.PointFuncVocab, "CMD")

	assert.Equal(t, BundleStats{NumTokens: 6, NumBuildings: 2}, bundle.Stats)
	assert.Equal(t, int64(12), bundle.Frequency["01"])
	assert.Equal(t, 1, report.Unclassified) // "01"
}

func TestClassifyTrimsLowScores(t *testing.T) {
	c := analytics.NewCollector()
	// seed tokens seen once in one building: scores 3 (subcomp) and 2 (point func)
	c.Process([]string{"SAT", "CMD"}, "B1")
	bundle, report := NewClassifier(DefaultConfig()).Classify(c.Snapshot())

	assert.Empty(t, bundle.SubcompVocab)
	assert.Empty(t, bundle.PointFuncVocab)
	assert.Len(t, report.Dropped(), 2)
	assert.NotNil(t, bundle.SubcompVocab, "empty lists still encode as []")
}

func TestClassifyEquipSizeBoundAndTieBreak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.MaxEquipSize = 3

	c := analytics.NewCollector()
	names := []string{"QQA", "QQB", "QQC", "QQD", "QQE"}
	for i := 0; i < 10; i++ {
		for _, n := range names {
			c.Process([]string{n}, fmt.Sprintf("B%d", i%2))
		}
	}
	// QQE gets numeric evidence and the top score
	c.Process([]string{"QQE", "1"}, "B0")

	bundle, report := NewClassifier(cfg).Classify(c.Snapshot())
	require.Len(t, bundle.EquipVocab, 3)
	assert.Equal(t, []string{"QQA", "QQB", "QQE"}, bundle.EquipVocab)

	require.Len(t, report.Equip, 5)
	assert.Equal(t, "QQE", report.Equip[0].Token)
	weakest := report.Weakest(2)
	require.Len(t, weakest, 2)
	assert.Equal(t, "QQC", weakest[0].Token)
	assert.Equal(t, "QQD", weakest[1].Token)
	assert.False(t, weakest[1].Kept)
}

func TestClassifyDeterministic(t *testing.T) {
	var records []ingest.Record
	for i := 0; i < 400; i++ {
		records = append(records, ingest.Record{
			PointLabel: fmt.Sprintf("BLDG%d_FL%02d_AHU%d_SAT_AI VAV-%d ZNT CHLR%d", i%3, i%7, i%4, i%11, i%5),
			BuildingID: fmt.Sprintf("B%d", i%6),
		})
	}
	stats := collect(records)
	cfg := DefaultConfig()
	cfg.Thresholds.MaxEquipSize = 2

	var first, second bytes.Buffer
	b1, _ := NewClassifier(cfg).Classify(stats)
	b2, _ := NewClassifier(cfg).Classify(stats)
	require.NoError(t, b1.Encode(&first))
	require.NoError(t, b2.Encode(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.LessOrEqual(t, len(b1.EquipVocab), 2)
}

func TestZeroThresholdsUseDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = Thresholds{}
	c := NewClassifier(cfg)
	assert.False(t, c.PassesThresholds(ts("VLV", 9, 2, 0)))
}
