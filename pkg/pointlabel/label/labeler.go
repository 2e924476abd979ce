package label

import (
	"fmt"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

// SourceRule marks annotations produced by the rule cascade.
const SourceRule = "rule"

// Labeler applies an ordered rule cascade to tokens.
type Labeler struct {
	rules []Rule
}

// New creates a labeler over the default cascade for v.
func New(v *vocab.Vocabulary) (*Labeler, error) {
	if v == nil {
		return nil, fmt.Errorf("labeler: %w: no vocabulary loaded", internalerr.ErrInvalidVocab)
	}
	return NewWithRules(DefaultRules(v)), nil
}

// NewWithRules creates a labeler over a custom cascade.
func NewWithRules(rules []Rule) *Labeler {
	return &Labeler{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the cascade in evaluation order.
func (l *Labeler) Rules() []Rule {
	return append([]Rule(nil), l.rules...)
}

// Label returns the category of the first rule that matches tok, or Misc.
func (l *Labeler) Label(tok ingest.Token) Category {
	for _, r := range l.rules {
		if r.Match(tok) {
			return r.Category
		}
	}
	return Misc
}

// LabelText labels a raw token string.
func (l *Labeler) LabelText(text string) Category {
	return l.Label(ingest.NewToken(text))
}

// LabelTokens labels every token in order.
func (l *Labeler) LabelTokens(toks []ingest.Token) []Category {
	out := make([]Category, len(toks))
	for i, tok := range toks {
		out[i] = l.Label(tok)
	}
	return out
}

// Annotated is the labeled form of one point record.
type Annotated struct {
	PointLabel    string     `json:"point_label"`
	Tokens        []string   `json:"tokens"`
	TokenLabels   []Category `json:"token_labels"`
	BIOTags       []string   `json:"bio_tags"`
	BuildingID    string     `json:"building_id"`
	SourceFile    string     `json:"source_file,omitempty"`
	PointLabelCol string     `json:"point_label_col,omitempty"`
	LabelSource   string     `json:"label_source"`
	Structured    Structured `json:"structured"`
}

// Annotate tokenizes and labels a record. Provenance is echoed unchanged.
func (l *Labeler) Annotate(rec ingest.Record) Annotated {
	toks := ingest.Tokens(rec.PointLabel)
	texts := make([]string, len(toks))
	for i, tok := range toks {
		texts[i] = tok.Text
	}
	cats := l.LabelTokens(toks)

	return Annotated{
		PointLabel:    rec.PointLabel,
		Tokens:        texts,
		TokenLabels:   cats,
		BIOTags:       EncodeBIO(cats),
		BuildingID:    rec.BuildingID,
		SourceFile:    rec.SourceFile,
		PointLabelCol: rec.PointLabelCol,
		LabelSource:   SourceRule,
		Structured:    BuildStructured(texts, cats),
	}
}
