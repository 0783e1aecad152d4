package pipeline

import (
	"strings"

	"critique/internal/rewrite"
)

var (
	ratingSentence = rewrite.MustCompile(`^[\(\[]?((my )?(final )?(rating ?(: ?|- |is )?))?((\d[\d\.,]{0,2}\+?)|([\*]+))(/| out of )(5\*?|10\*?|100|([\*]+))[\)\]]? ?(stars|for me|from me)?[\.!]?$`, rewrite.IgnoreCase)
	ratingPrefix   = rewrite.MustCompile(`((my )?(final )?(rating ?(: ?|- |is )?))`, rewrite.IgnoreCase)
	ratingStars    = rewrite.MustCompile(`stars`, rewrite.IgnoreCase)
	spaceBeforeEnd = rewrite.MustCompile(` +([\.!])$`, 0)
)

// OverallPrefix marks a sentence that is nothing but a rating.
const OverallPrefix = "Overall: "

// TagRating turns a bare rating sentence ("8/10", "My rating: 7 out of 10
// stars.") into an overall aspect phrase. Other sentences are returned
// unchanged.
func TagRating(sentence string) string {
	if !ratingSentence.Match(sentence) {
		return sentence
	}
	rating := ratingPrefix.Replace(sentence, "")
	rating = ratingStars.Replace(rating, "")
	rating = spaceBeforeEnd.Replace(strings.TrimSpace(rating), "$1")
	return OverallPrefix + rating
}
