package pipeline

import "critique/internal/tagging"

// Word is one persisted token of a final sentence.
type Word struct {
	Text   string `json:"word"`
	POS    string `json:"pos"`
	Clause int    `json:"clause"`
}

func isClauseBreak(text string) bool {
	return text == "," || text == ":" || text == ";"
}

// Words converts tagged tokens into words. Clause is the number of ",",
// ":" and ";" tokens seen so far in the sentence, the current one
// included.
func Words(tokens []tagging.Token) []Word {
	out := make([]Word, 0, len(tokens))
	clause := 0
	for _, t := range tokens {
		if t.Text == "" {
			continue
		}
		if isClauseBreak(t.Text) {
			clause++
		}
		out = append(out, Word{Text: t.Text, POS: t.POS, Clause: clause})
	}
	return out
}
