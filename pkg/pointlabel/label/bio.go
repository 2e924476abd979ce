package label

// Outside is the BIO tag of tokens outside any labeled span.
const Outside = "O"

// EncodeBIO converts categories to BIO tags. Misc and invalid categories map
// to "O" and end the current run; any other category opens a run with "B-"
// unless the previous tag carried the same category, which gives "I-".
func EncodeBIO(cats []Category) []string {
	tags := make([]string, len(cats))
	prev := Misc
	for i, c := range cats {
		if c == Misc || !c.Valid() {
			tags[i] = Outside
			prev = Misc
			continue
		}
		if c == prev {
			tags[i] = "I-" + c.String()
		} else {
			tags[i] = "B-" + c.String()
		}
		prev = c
	}
	return tags
}
