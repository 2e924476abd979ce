package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
)

// Bundle is the persisted result of vocabulary induction. All lists are
// sorted so that identical statistics encode to identical bytes.
type Bundle struct {
	EquipVocab     []string         `json:"equip_vocab"`
	SubcompVocab   []string         `json:"subcomp_vocab"`
	PointFuncVocab []string         `json:"point_func_vocab"`
	IOTypeVocab    []string         `json:"io_type_vocab"`
	VendorVocab    []string         `json:"vendor_vocab"`
	Frequency      map[string]int64 `json:"frequency"`
	Stats          BundleStats      `json:"stats"`
}

// BundleStats summarizes the corpus a bundle was induced from.
type BundleStats struct {
	NumTokens    int `json:"num_tokens"`
	NumBuildings int `json:"num_buildings"`
}

// List returns the vocabulary list of one kind.
func (b Bundle) List(k Kind) []string {
	switch k {
	case Equip:
		return b.EquipVocab
	case Subcomp:
		return b.SubcompVocab
	case PointFunc:
		return b.PointFuncVocab
	case IOType:
		return b.IOTypeVocab
	case Vendor:
		return b.VendorVocab
	}
	return nil
}

// Validate checks that every vocabulary list is present and holds no empty
// entries.
func (b Bundle) Validate() error {
	for _, k := range Kinds {
		list := b.List(k)
		if list == nil {
			return fmt.Errorf("%w: missing %s vocabulary", internalerr.ErrInvalidVocab, k)
		}
		for _, tok := range list {
			if strings.TrimSpace(tok) == "" {
				return fmt.Errorf("%w: empty token in %s vocabulary", internalerr.ErrInvalidVocab, k)
			}
		}
	}
	return nil
}

// Encode writes the bundle as indented JSON.
func (b Bundle) Encode(w io.Writer) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Save writes the bundle to path.
func (b Bundle) Save(path string) error {
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Decode reads and validates a bundle.
func Decode(r io.Reader) (Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidVocab, err)
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// Load reads and validates the bundle stored at path.
func Load(path string) (Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidVocab, err)
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return Bundle{}, fmt.Errorf("load %s: %w", path, err)
	}
	return b, nil
}

// Vocabulary is the read-only lookup view of a bundle used while labeling.
// It is safe for concurrent use.
type Vocabulary struct {
	sets map[Kind]map[string]struct{}
}

// Vocabulary validates the bundle and builds its lookup view.
func (b Bundle) Vocabulary() (*Vocabulary, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return NewVocabulary(map[Kind][]string{
		Equip:     b.EquipVocab,
		Subcomp:   b.SubcompVocab,
		PointFunc: b.PointFuncVocab,
		IOType:    b.IOTypeVocab,
		Vendor:    b.VendorVocab,
	}), nil
}

// NewVocabulary builds a lookup view from token lists. Kinds absent from
// lists are empty. Tokens are folded to uppercase.
func NewVocabulary(lists map[Kind][]string) *Vocabulary {
	v := &Vocabulary{sets: make(map[Kind]map[string]struct{}, len(Kinds))}
	for _, k := range Kinds {
		v.sets[k] = toSet(lists[k])
	}
	return v
}

// Has reports whether the folded token belongs to the vocabulary of kind k.
func (v *Vocabulary) Has(k Kind, folded string) bool {
	_, ok := v.sets[k][folded]
	return ok
}

// Size returns the number of tokens in the vocabulary of kind k.
func (v *Vocabulary) Size(k Kind) int {
	return len(v.sets[k])
}
