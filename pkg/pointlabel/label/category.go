// Package label assigns a semantic category to every token of a point label
// and derives BIO tags and a flattened structured view from the result.
//
// Labeling is a fixed, ordered cascade of rules (see DefaultRules): induced
// vocabularies first, then shape patterns for floors, zones, equipment ids and
// buildings, with MISC as the fallback. Every token gets exactly one category
// and the same token under the same vocabulary always gets the same one.
//
// A Labeler is read-only after construction and safe for concurrent use.
package label

import (
	"encoding/json"
	"fmt"
)

// Category is the semantic class of a token.
type Category int

const (
	Misc      Category = iota // Anything no rule claims
	Bldg                      // Building identifier (BLDG1)
	Floor                     // Floor indicator (FL03, F3, Floor)
	Zone                      // Room or zone (RM1203E, 2130, 2SE21)
	Equip                     // Equipment type (AHU, VAV)
	EquipID                   // Equipment index (03, A10)
	Subcomp                   // Subcomponent or measured quantity (SAT, TEMP)
	PointFunc                 // Control or status function (CMD, STATUS)
	IOType                    // Input/output type (AI, DO)
	VendorTag                 // Vendor-specific tag (SIEMENS, BACNET)
)

var categoryNames = [...]string{
	Misc:      "MISC",
	Bldg:      "BLDG",
	Floor:     "FLOOR",
	Zone:      "ZONE",
	Equip:     "EQUIP",
	EquipID:   "EQUIP_ID",
	Subcomp:   "SUBCOMP",
	PointFunc: "POINT_FUNC",
	IOType:    "IO_TYPE",
	VendorTag: "VENDOR_TAG",
}

var categoryFromName = map[string]Category{
	"MISC":       Misc,
	"BLDG":       Bldg,
	"FLOOR":      Floor,
	"ZONE":       Zone,
	"EQUIP":      Equip,
	"EQUIP_ID":   EquipID,
	"SUBCOMP":    Subcomp,
	"POINT_FUNC": PointFunc,
	"IO_TYPE":    IOType,
	"VENDOR_TAG": VendorTag,
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

// String returns the name of the category, e.g. "EQUIP_ID".
func (c Category) String() string {
	if c.Valid() {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a category name back to its value.
func ParseCategory(name string) (Category, error) {
	c, ok := categoryFromName[name]
	if !ok {
		return Misc, fmt.Errorf("unknown category: %q", name)
	}
	return c, nil
}

// MarshalJSON encodes the category as its name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category name.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
