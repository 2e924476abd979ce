// Package extract pulls point labels out of heterogeneous BMS CSV exports.
// Exports differ per vendor, so the header row and the label column are
// detected from the shape of the values rather than a fixed schema.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// PreferredColumns are header names known to hold point labels, matched
// case-insensitively and checked in order.
var PreferredColumns = []string{"Label", "Johnson Controls Name", "bas_raw"}

const (
	// MinColumnScore is the share of point-like values a column needs
	// before it is picked as the label column.
	MinColumnScore = 0.2
	// ColumnSampleSize caps the values scored per column.
	ColumnSampleSize = 200

	mostlyUpperShare = 0.7
)

// IsPointLike reports whether s looks like a BMS point name such as
// "BLDG1_FL03_AHU2_SAT_AI" or "AHU-03.SAT", as opposed to a generic header
// like "bas_raw" or "name".
func IsPointLike(s string) bool {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < 3 {
		return false
	}

	var hasSep, hasDigit, hasUpper bool
	var letters, upper int
	for _, r := range s {
		switch {
		case r == '_' || r == '.' || r == '-':
			hasSep = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}

	if letters > 0 && float64(upper)/float64(letters) >= mostlyUpperShare {
		return true
	}
	if hasSep && (hasDigit || hasUpper) {
		return true
	}
	return hasDigit && hasUpper
}

// DetectHeader decides whether the first row is a header. With three or more
// rows, a column whose second and third cells look like points while the
// first does not marks a header. Otherwise the first row is a header when it
// has no point-like cell and the second row has at least one. A single row is
// never a header.
func DetectHeader(rows [][]string) bool {
	if len(rows) < 2 {
		return false
	}

	if len(rows) >= 3 {
		for col := 0; col < width(rows); col++ {
			if !IsPointLike(cell(rows[0], col)) && IsPointLike(cell(rows[1], col)) && IsPointLike(cell(rows[2], col)) {
				return true
			}
		}
	}

	return countPointLike(rows[0]) == 0 && countPointLike(rows[1]) > 0
}

// GuessPointColumn picks the label column: a preferred header name when
// present, else the column with the highest share of point-like values if
// that share exceeds MinColumnScore. Blank cells are not scored.
func GuessPointColumn(header []string, rows [][]string) (int, bool) {
	for _, pref := range PreferredColumns {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), pref) {
				return i, true
			}
		}
	}

	best, bestScore := -1, -1.0
	for col := 0; col < max(len(header), width(rows)); col++ {
		var values []string
		for _, row := range rows {
			if v := cell(row, col); strings.TrimSpace(v) != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		sample := sampleValues(values, ColumnSampleSize)
		hits := 0
		for _, v := range sample {
			if IsPointLike(v) {
				hits++
			}
		}
		if score := float64(hits) / float64(len(sample)); score > bestScore {
			best, bestScore = col, score
		}
	}

	if best < 0 || bestScore <= MinColumnScore {
		return -1, false
	}
	return best, true
}

// sampleValues takes n evenly spaced values so the choice is reproducible.
func sampleValues(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	out := make([]string, n)
	for i := range out {
		out[i] = values[i*len(values)/n]
	}
	return out
}

var leadingIndex = regexp.MustCompile(`^\p{Nd}+[_\-]*`)

// BuildingIDFromFilename derives a building id from an export file name by
// dropping the extension and any leading index, so "01_office_singapore.csv"
// becomes "office_singapore".
func BuildingIDFromFilename(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return leadingIndex.ReplaceAllString(stem, "")
}

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func width(rows [][]string) int {
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}
	return w
}

func countPointLike(row []string) int {
	n := 0
	for _, v := range row {
		if IsPointLike(v) {
			n++
		}
	}
	return n
}
