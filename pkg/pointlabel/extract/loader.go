package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
)

// Table is one parsed export: a header (detected or synthetic) and data rows.
type Table struct {
	Header []string
	Rows   [][]string
	// Detected is false when the header was synthesized as col_0, col_1, ...
	Detected bool
}

// ReadTable parses CSV data and splits off the header row when one is
// detected.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("%w: empty file", internalerr.ErrInvalidInput)
	}
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	if DetectHeader(rows) {
		return Table{Header: rows[0], Rows: rows[1:], Detected: true}, nil
	}

	header := make([]string, width(rows))
	for i := range header {
		header[i] = fmt.Sprintf("col_%d", i)
	}
	return Table{Header: header, Rows: rows}, nil
}

// LoadFile reads one CSV export and returns a record per non-blank label.
func LoadFile(path string) ([]ingest.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tbl, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	col, ok := GuessPointColumn(tbl.Header, tbl.Rows)
	if !ok {
		return nil, fmt.Errorf("%w: no point label column in %s", internalerr.ErrInvalidInput, path)
	}
	colName := fmt.Sprintf("col_%d", col)
	if col < len(tbl.Header) {
		colName = tbl.Header[col]
	}

	name := filepath.Base(path)
	building := BuildingIDFromFilename(name)

	out := make([]ingest.Record, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		rec := ingest.Record{
			PointLabel:    cell(row, col),
			BuildingID:    building,
			SourceFile:    name,
			PointLabelCol: colName,
		}
		if rec.Validate() != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadDir loads every *.csv file in dir, in file name order. Files that
// cannot be read or have no label column are skipped with a warning.
func LoadDir(ctx context.Context, dir string, logger *zap.Logger) ([]ingest.Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	results := make([][]ingest.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := LoadFile(path)
			if err != nil {
				logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
				return nil
			}
			logger.Debug("loaded file",
				zap.String("path", path),
				zap.Int("records", len(recs)),
				zap.String("column", columnOf(recs)))
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []ingest.Record
	for _, recs := range results {
		out = append(out, recs...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no CSV file with point labels in %s", internalerr.ErrNoRecords, dir)
	}
	return out, nil
}

func columnOf(recs []ingest.Record) string {
	if len(recs) == 0 {
		return ""
	}
	return recs[0].PointLabelCol
}

// SamplePerBuilding returns the first record of each building, ordered by
// building id.
func SamplePerBuilding(records []ingest.Record) []ingest.Record {
	seen := make(map[string]struct{})
	var out []ingest.Record
	for _, rec := range records {
		b := rec.Building()
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Building() < out[j].Building() })
	return out
}
