package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCollectorCountsOccurrences(t *testing.T) {
	c := NewCollector()
	c.Process([]string{"AHU", "01", "ahu", "02"}, "B1")
	c.Process([]string{"AHU", "SAT"}, "B1")
	c.Process([]string{"VAV", "12"}, "B2")

	s := c.Snapshot()
	ahu := s.Token("AHU")
	assert.Equal(t, int64(3), ahu.Frequency, "every occurrence counts, across case")
	assert.Equal(t, int64(1), ahu.Buildings, "repeat occurrences in one building count once")
	assert.Equal(t, int64(2), ahu.NumericSuccession)

	assert.Equal(t, int64(1), s.Token("VAV").NumericSuccession)
	assert.Equal(t, int64(0), s.Token("SAT").NumericSuccession)
	assert.Equal(t, int64(3), s.Records)
	assert.Equal(t, 2, s.NumBuildings())
	assert.Equal(t, 6, s.NumTokens()) // AHU 01 02 SAT VAV 12
}

func TestCollectorBuildingSupport(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 5; i++ {
		c.Process([]string{"FCU", fmt.Sprint(i)}, "B1")
	}
	c.Process([]string{"FCU"}, "B2")
	c.Process([]string{"FCU"}, "")

	st := c.Snapshot().Token("FCU")
	assert.Equal(t, int64(7), st.Frequency)
	assert.Equal(t, int64(3), st.Buildings)
	assert.Equal(t, int64(5), st.NumericSuccession)
}

func TestCollectorIgnoresEmptyLabels(t *testing.T) {
	c := NewCollector()
	c.ProcessRecord(ingest.Record{PointLabel: "__..", BuildingID: "B1"})
	s := c.Snapshot()
	assert.Equal(t, int64(0), s.Records)
	assert.Equal(t, 0, s.NumBuildings())
}

func TestNumericSuccessionUsesNextTokenOnly(t *testing.T) {
	c := NewCollector()
	// "1E" is not all digits after tokenization it is two tokens, so feed raw
	c.Process([]string{"VLV", "1E", "RM", "3218"}, "B1")
	s := c.Snapshot()
	assert.Equal(t, int64(0), s.Token("VLV").NumericSuccession)
	assert.Equal(t, int64(1), s.Token("RM").NumericSuccession)
}

func TestSnapshotIsCopy(t *testing.T) {
	c := NewCollector()
	c.Process([]string{"AHU"}, "B1")
	s := c.Snapshot()
	c.Process([]string{"AHU"}, "B2")

	assert.Equal(t, int64(1), s.Token("AHU").Frequency)
	assert.Equal(t, int64(1), s.Token("AHU").Buildings)
}

func TestMergeSumsAndUnions(t *testing.T) {
	a := NewCollector()
	a.Process([]string{"AHU", "01"}, "B1")
	b := NewCollector()
	b.Process([]string{"AHU", "02"}, "B1")
	b.Process([]string{"AHU", "03"}, "B2")

	m1 := Merge(a.Snapshot(), b.Snapshot())
	m2 := Merge(b.Snapshot(), a.Snapshot())
	assert.Equal(t, m1, m2)

	st := m1.Token("AHU")
	assert.Equal(t, int64(3), st.Frequency)
	assert.Equal(t, int64(2), st.Buildings)
	assert.Equal(t, int64(3), st.NumericSuccession)
	assert.Equal(t, int64(2), m1.PerBuilding["B1"]["AHU"])
}

func TestCollectParallelMatchesSequential(t *testing.T) {
	var records []ingest.Record
	for i := 0; i < 257; i++ {
		records = append(records, ingest.Record{
			PointLabel: fmt.Sprintf("AHU-%02d.SAT_AI_CMD", i%17),
			BuildingID: fmt.Sprintf("B%d", i%5),
		})
	}

	seq := NewCollector()
	for _, r := range records {
		seq.ProcessRecord(r)
	}
	want := seq.Snapshot()

	for _, shards := range []int{0, 1, 3, 8, 300} {
		got, err := CollectParallel(context.Background(), records, shards)
		require.NoError(t, err)
		assert.Equal(t, want, got, "shards=%d", shards)
	}
}

func TestCollectParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]ingest.Record, 10)
	for i := range records {
		records[i] = ingest.Record{PointLabel: "VAV-1", BuildingID: "B1"}
	}
	_, err := CollectParallel(ctx, records, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTopTokensAndSummaries(t *testing.T) {
	c := NewCollector()
	c.Process([]string{"AHU", "AHU", "SAT"}, "B2")
	c.Process([]string{"VAV", "SAT"}, "B1")

	s := c.Snapshot()
	top := s.TopTokens(2)
	require.Len(t, top, 2)
	assert.Equal(t, "AHU", top[0].Token)
	assert.Equal(t, "SAT", top[1].Token)

	sums := s.BuildingSummaries()
	require.Len(t, sums, 2)
	assert.Equal(t, BuildingSummary{BuildingID: "B1", Occurrences: 2, DistinctTokens: 2}, sums[0])
	assert.Equal(t, BuildingSummary{BuildingID: "B2", Occurrences: 3, DistinctTokens: 2}, sums[1])
}
