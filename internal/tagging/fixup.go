package tagging

import "strings"

// FixEntitySpans trims tokens a tagger wrongly pulled into an entity: a
// leading "-" or unmatched leading quote, or else a trailing "'s", "-" or
// unmatched trailing quote. Tokens are modified in place and returned.
func FixEntitySpans(doc Doc) Doc {
	for _, e := range doc.Entities() {
		first, last := doc.Tokens[e.Start], doc.Tokens[e.End-1]
		switch {
		case first.Text == "-" || (first.Text == `"` && !strings.HasSuffix(e.Text, `"`)):
			clearEntity(&doc.Tokens[e.Start])
			if e.Start+1 < e.End {
				doc.Tokens[e.Start+1].IOB = Begin
			}
		case last.Text == "'s" || last.Text == "-" || (last.Text == `"` && !strings.HasPrefix(e.Text, `"`)):
			clearEntity(&doc.Tokens[e.End-1])
		}
	}
	return doc
}

func clearEntity(t *Token) {
	t.IOB = Outside
	t.Type = TypeNone
}
