package ingest

import (
	"fmt"
	"strings"

	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
)

// UnknownBuilding stands in for records that carry no building id.
const UnknownBuilding = "unknown"

// Record is one point label with its provenance, as produced by extraction.
type Record struct {
	PointLabel    string `json:"point_label"`
	BuildingID    string `json:"building_id"`
	SourceFile    string `json:"source_file,omitempty"`
	PointLabelCol string `json:"point_label_col,omitempty"`
}

// Validate checks if the record has required fields
func (r *Record) Validate() error {
	if strings.TrimSpace(r.PointLabel) == "" {
		return fmt.Errorf("point_label is required: %w", internalerr.ErrInvalidInput)
	}
	return nil
}

// Building returns the building id, or UnknownBuilding when it is empty.
func (r *Record) Building() string {
	if r.BuildingID == "" {
		return UnknownBuilding
	}
	return r.BuildingID
}
