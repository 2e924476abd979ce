package pointlabel

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
	"github.com/cognicore/pointlabel/pkg/pointlabel/label"
	"github.com/cognicore/pointlabel/pkg/pointlabel/store/memstore"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func corpus() []ingest.Record {
	var records []ingest.Record
	for i := 0; i < 12; i++ {
		records = append(records, ingest.Record{
			PointLabel: "SIEMENS_AHU-01.SAT_AI_CMD",
			BuildingID: fmt.Sprintf("B%d", i%2+1),
		})
	}
	return records
}

func TestBuildVocabularyPersistsSnapshot(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	e := New(Options{Store: st, Workers: 3})
	defer e.Close()

	ind, err := e.BuildVocabulary(ctx, corpus())
	require.NoError(t, err)

	assert.Equal(t, []string{"AHU"}, ind.Bundle.EquipVocab)
	assert.Equal(t, []string{"SAT"}, ind.Bundle.SubcompVocab)
	assert.Equal(t, []string{"CMD"}, ind.Bundle.PointFuncVocab)
	assert.Equal(t, []string{"AI"}, ind.Bundle.IOTypeVocab)
	assert.Equal(t, []string{"SIEMENS"}, ind.Bundle.VendorVocab)
	assert.Equal(t, int64(12), ind.Stats.Records)
	require.NotEmpty(t, ind.RunID)

	snap, err := st.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, ind.RunID, snap.ID)
	assert.Equal(t, ind.Bundle.EquipVocab, snap.Bundle.EquipVocab)
	assert.Len(t, snap.Tokens, 6)
}

func TestBuildVocabularyNoRecords(t *testing.T) {
	_, err := New(Options{}).BuildVocabulary(context.Background(), nil)
	assert.ErrorIs(t, err, internalerr.ErrNoRecords)
}

func TestBuildVocabularyCustomConfig(t *testing.T) {
	cfg := vocab.DefaultConfig()
	cfg.EquipBlacklist = []string{"AHU"}

	ind, err := New(Options{Config: &cfg}).BuildVocabulary(context.Background(), corpus())
	require.NoError(t, err)
	assert.Empty(t, ind.Bundle.EquipVocab)
	assert.Empty(t, ind.RunID)
}

func TestLoadVocabulary(t *testing.T) {
	ctx := context.Background()
	e := New(Options{Store: memstore.New()})

	_, _, err := e.LoadVocabulary(ctx, "")
	assert.ErrorIs(t, err, internalerr.ErrInvalidVocab, "empty store")

	ind, err := e.BuildVocabulary(ctx, corpus())
	require.NoError(t, err)

	v, runID, err := e.LoadVocabulary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, ind.RunID, runID)
	assert.True(t, v.Has(vocab.Equip, "AHU"))

	path := filepath.Join(t.TempDir(), "bms_vocabs.json")
	require.NoError(t, ind.Bundle.Save(path))
	v, runID, err = New(Options{}).LoadVocabulary(ctx, path)
	require.NoError(t, err)
	assert.Empty(t, runID)
	assert.True(t, v.Has(vocab.Vendor, "SIEMENS"))

	_, _, err = New(Options{}).LoadVocabulary(ctx, "")
	assert.ErrorIs(t, err, internalerr.ErrInvalidVocab)
}

func TestAnnotatePreservesOrder(t *testing.T) {
	v := vocab.NewVocabulary(map[vocab.Kind][]string{vocab.Equip: {"AHU", "VAV"}, vocab.IOType: {"AI"}})
	var records []ingest.Record
	for i := 0; i < 257; i++ {
		records = append(records, ingest.Record{
			PointLabel: fmt.Sprintf("BLDG%d.VAV-%d_AI", i%3, i),
			BuildingID: "B1",
		})
	}

	parallel, err := New(Options{Workers: 8}).Annotate(context.Background(), v, records)
	require.NoError(t, err)
	sequential, err := New(Options{Workers: 1}).Annotate(context.Background(), v, records)
	require.NoError(t, err)

	if diff := cmp.Diff(sequential, parallel); diff != "" {
		t.Errorf("parallel annotation differs (-seq +par):\n%s", diff)
	}
	for i, a := range parallel {
		assert.Equal(t, records[i].PointLabel, a.PointLabel)
	}
}

func TestAnnotateFullRecord(t *testing.T) {
	ctx := context.Background()
	e := New(Options{})
	ind, err := e.BuildVocabulary(ctx, corpus())
	require.NoError(t, err)
	v, err := ind.Bundle.Vocabulary()
	require.NoError(t, err)

	out, err := e.Annotate(ctx, v, corpus()[:1])
	require.NoError(t, err)
	require.Len(t, out, 1)

	want := []label.Category{label.VendorTag, label.Equip, label.EquipID, label.Subcomp, label.IOType, label.PointFunc}
	assert.Equal(t, want, out[0].TokenLabels)
	assert.Equal(t, map[string]string{
		"vendor":     "SIEMENS",
		"equip":      "AHU",
		"equip_id":   "01",
		"subcomp":    "SAT",
		"io_type":    "AI",
		"point_func": "CMD",
	}, out[0].Structured.Fields())
}

func TestAnnotateErrors(t *testing.T) {
	_, err := New(Options{}).Annotate(context.Background(), nil, corpus())
	assert.ErrorIs(t, err, internalerr.ErrInvalidVocab)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(Options{Workers: 4}).Annotate(ctx, vocab.NewVocabulary(nil), corpus())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveAnnotations(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	e := New(Options{Store: st})

	v := vocab.NewVocabulary(map[vocab.Kind][]string{vocab.Equip: {"AHU"}})
	out, err := e.Annotate(ctx, v, corpus())
	require.NoError(t, err)

	runID, err := e.SaveAnnotations(ctx, "", out)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	got, err := st.AnnotationsByEquip(ctx, runID, "ahu")
	require.NoError(t, err)
	assert.Len(t, got, 12)

	runID, err = New(Options{}).SaveAnnotations(ctx, "r1", out)
	require.NoError(t, err)
	assert.Equal(t, "r1", runID)
}
