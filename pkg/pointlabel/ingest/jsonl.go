package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
)

// maxLineBytes bounds a single JSONL line.
const maxLineBytes = 4 * 1024 * 1024

// LoadRecords loads point records from a JSONL file.
func LoadRecords(path string, logger *zap.Logger) ([]Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f, logger.With(zap.String("path", path)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// ReadRecords reads one Record per line. Blank lines are ignored; malformed
// lines and records without a point label are skipped with a warning.
func ReadRecords(r io.Reader, logger *zap.Logger) ([]Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			logger.Warn("skipping malformed record", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		if err := rec.Validate(); err != nil {
			logger.Warn("skipping record", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, internalerr.ErrNoRecords
	}
	return records, nil
}

// WriteJSONL writes one JSON document per line.
func WriteJSONL[T any](w io.Writer, items []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i := range items {
		if err := enc.Encode(items[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSONLFile creates path and writes items to it as JSONL.
func WriteJSONLFile[T any](path string, items []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSONL(f, items); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
