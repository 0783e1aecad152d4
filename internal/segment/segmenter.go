package segment

import (
	"strings"
	"unicode"

	"critique/internal/rewrite"
)

// DefaultMaxLength is the length above which a sentence is force-split.
const DefaultMaxLength = 1000

// noiseSentences are detector outputs that carry no content.
var noiseSentences = map[string]struct{}{
	".": {}, "/.": {}, " .": {}, "..": {}, "...": {}, "!": {}, "?": {}, "?!": {},
	"(!)": {}, "(?)": {}, "*": {}, "**": {}, "***": {}, "website": {}, "website.": {},
}

var (
	bareMarker    = rewrite.MustCompile(`^#?\d{1,2}[.)]+$`, 0)
	leadingMarker = rewrite.MustCompile(`^\d{1,2}[.)]+ `, 0)
	inlineDotList = rewrite.MustCompile(`(?<! is)(?<! the)(?<! of)(?<! Volume) \d\. `, 0)
	inlineParList = rewrite.MustCompile(` \d\) `, 0)
	parenList     = rewrite.MustCompile(`\(.* \d\) `, 0)
	continuation  = rewrite.MustCompile(`^['"]?[.,:;!?)]`, 0)
	runOnBreak    = rewrite.MustCompile(`[.;](?=[ a-dfh-zA-Z])`, 0)
	startsCapital = rewrite.MustCompile(`^[A-Z]`, 0)
)

// Segmenter corrects a detector's split. It holds no per-call state and is
// safe for concurrent use.
type Segmenter struct {
	detector  Detector
	maxLength int
}

// New returns a Segmenter. A nil detector selects RuleDetector and a
// non-positive maxLength selects DefaultMaxLength.
func New(detector Detector, maxLength int) *Segmenter {
	if detector == nil {
		detector = RuleDetector{}
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Segmenter{detector: detector, maxLength: maxLength}
}

// Segment splits text into sentences in original order.
func (s *Segmenter) Segment(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	base, err := s.detector.Split(text)
	if err != nil {
		return nil, err
	}
	c := &cascade{maxLength: s.maxLength}
	for _, sentence := range base {
		c.push(sentence)
	}
	return c.out, nil
}

type cascade struct {
	out       []string
	openParen bool
	maxLength int
}

func (c *cascade) push(sentence string) {
	if _, noise := noiseSentences[sentence]; noise || bareMarker.Match(sentence) {
		return
	}
	sentence = leadingMarker.Replace(sentence, "")

	switch {
	case inlineDotList.Match(sentence):
		c.appendList(inlineDotList.Split(sentence))
		c.openParen = false
	case !c.openParen && inlineParList.Match(sentence) && !parenList.Match(sentence):
		c.appendList(inlineParList.Split(sentence))
	case len(c.out) > 0 && (strings.HasPrefix(sentence, "'s ") || continuation.Match(sentence)):
		c.out[len(c.out)-1] += sentence
		c.openParen = false
	case !strings.Contains(sentence, " ") && hasLetter(sentence):
		if len(c.out) == 0 {
			c.out = append(c.out, sentence)
			c.openParen = true
			return
		}
		c.out[len(c.out)-1] += " " + sentence
		c.openParen = false
	case len([]rune(sentence)) > c.maxLength:
		for _, part := range runOnBreak.Split(sentence) {
			c.out = append(c.out, strings.TrimSpace(part)+".")
		}
		c.openParen = false
	case c.openParen && len(c.out) > 0:
		c.out[len(c.out)-1] += " " + sentence
		c.openParen = false
	default:
		c.out = append(c.out, sentence)
	}

	if strings.Contains(sentence, "(") && !strings.Contains(sentence, ")") {
		c.openParen = true
	}
}

// appendList adds inline list items: capitalized items start sentences,
// others continue the previous one.
func (c *cascade) appendList(items []string) {
	for _, item := range items {
		if item == "" {
			continue
		}
		if len(c.out) == 0 || startsCapital.Match(item) {
			c.out = append(c.out, item)
			continue
		}
		prev := c.out[len(c.out)-1]
		sep := ","
		if strings.ContainsRune(".,:;!?", lastRune(prev)) {
			sep = ""
		}
		c.out[len(c.out)-1] = prev + sep + " " + item
	}
}

func lastRune(s string) rune {
	r := []rune(s)
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
