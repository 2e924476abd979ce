package label

import (
	"regexp"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

// Rule claims a token for a category when Match returns true.
type Rule struct {
	Name     string
	Category Category
	Match    func(tok ingest.Token) bool
}

// Shape patterns run on the original text of a token.
var (
	FloorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^FL?\p{Nd}+$`), // F3, FL03, FL12
		regexp.MustCompile(`(?i)^Floor$`),
	}

	ZonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^RM\p{Nd}+[A-Z]?$`),            // RM148A, RM1202E
		regexp.MustCompile(`(?i)^\p{Nd}{3,4}[A-Z]?$`),          // 2130, 7019E
		regexp.MustCompile(`(?i)^\p{Nd}[A-Z]{1,3}\p{Nd}{1,3}$`), // 2SE21
	}

	// EquipIDPatterns are case-sensitive.
	EquipIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\p{Nd}+$`),                // 01, 2, 8
		regexp.MustCompile(`^[A-Z]?\p{Nd}{2,3}[A-Z]?$`), // A10, 12B
	}

	BldgPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^BLDG\p{Nd}+$`),
	}
)

// VocabRule matches tokens whose folded form is in the vocabulary of kind k.
func VocabRule(v *vocab.Vocabulary, k vocab.Kind, c Category) Rule {
	return Rule{
		Name:     "vocab:" + string(k),
		Category: c,
		Match: func(tok ingest.Token) bool {
			return v.Has(k, tok.Folded)
		},
	}
}

// PatternRule matches tokens whose original text matches any pattern.
func PatternRule(name string, c Category, patterns []*regexp.Regexp) Rule {
	return Rule{
		Name:     name,
		Category: c,
		Match: func(tok ingest.Token) bool {
			for _, p := range patterns {
				if p.MatchString(tok.Text) {
					return true
				}
			}
			return false
		},
	}
}

// DefaultRules returns the labeling cascade in evaluation order:
//
//	1 VENDOR_TAG vocabulary
//	2 IO_TYPE vocabulary
//	3 EQUIP vocabulary
//	4 SUBCOMP vocabulary
//	5 POINT_FUNC vocabulary
//	6 FLOOR pattern
//	7 ZONE pattern
//	8 EQUIP_ID pattern
//	9 BLDG pattern
//
// Tokens no rule claims are MISC. Since ZONE precedes EQUIP_ID, a bare 3-4
// digit number is a zone; only 1-2 or 5+ digit numbers reach the equipment id
// rule.
func DefaultRules(v *vocab.Vocabulary) []Rule {
	return []Rule{
		VocabRule(v, vocab.Vendor, VendorTag),
		VocabRule(v, vocab.IOType, IOType),
		VocabRule(v, vocab.Equip, Equip),
		VocabRule(v, vocab.Subcomp, Subcomp),
		VocabRule(v, vocab.PointFunc, PointFunc),
		PatternRule("floor", Floor, FloorPatterns),
		PatternRule("zone", Zone, ZonePatterns),
		PatternRule("equip_id", EquipID, EquipIDPatterns),
		PatternRule("bldg", Bldg, BldgPatterns),
	}
}
