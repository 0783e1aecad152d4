package reconstruct

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"critique/internal/rewrite"
	"critique/internal/tagging"
)

const flags = rewrite.IgnoreCase | rewrite.Bounded

// RepetitionRules merge repeated generic placeholders and collapse lists of
// them.
var RepetitionRules = []rewrite.Rule{
	{Pattern: `anotherperson`, Replacement: "another person", Flags: flags},
	{Pattern: `anotherfeature`, Replacement: "another feature", Flags: flags},
	{Pattern: `another another`, Replacement: "another", Flags: flags},
	{Pattern: `another feature-?another feature`, Replacement: "another feature", Flags: flags},
	{Pattern: `another person('s |-)?another person`, Replacement: "another person", Flags: flags},
	{Pattern: `(Captain|Doctor|Dr|Mister|Mr|Lady|Ms) another (feature|person)`, Replacement: "another $2", Flags: flags},
	{Pattern: `['"]another (feature|person)['"]`, Replacement: "another feature", Flags: flags},
	{Pattern: `another person('s)? (another feature|movie|film)`, Replacement: "another feature", Flags: flags},
	{Pattern: `(director )?another person the director`, Replacement: "the director", Flags: flags},
	{Pattern: `(writer )?another person the writer`, Replacement: "the writer", Flags: flags},
	{Pattern: `the director's? direction`, Replacement: "the direction", Flags: flags},
	{Pattern: `the writer's? writing`, Replacement: "the writing", Flags: flags},
	{Pattern: `the (actor|actress)'s? acting`, Replacement: "the acting", Flags: flags},
	{Pattern: `another person ((the )?(character|actress|actor))`, Replacement: "$1", Flags: flags},
	{Pattern: `character another person`, Replacement: "character", Flags: flags},
	{Pattern: `another person character`, Replacement: "character", Flags: flags},
	{Pattern: `(?<!was )(?<!is )(?<!calls )(?<!called )(?<!calling )this movie another feature`, Replacement: "another feature", Flags: flags},
	{Pattern: `\((from )?another feature ?\)`, Replacement: "", Flags: flags},
	{Pattern: `\((by)? ?another person ?\)`, Replacement: "", Flags: flags},
	{Pattern: `10 (another person|website)`, Replacement: "10", Flags: flags},
	{Pattern: `(another person)((, |, and | and )(another person))+`, Replacement: "other persons", Flags: flags},
	{Pattern: `(the actor|the actress|another person|other persons)((, |, and | and )(the actor|the actress|another person|other persons)){2,}`, Replacement: "the actors", Flags: flags},
	{Pattern: `(the character|another person|other persons)((, |, and | and )(the character|another person|other persons))+`, Replacement: "the characters", Flags: flags},
	{Pattern: `("?another feature"?)((, |, and | and )("?another feature"?))+`, Replacement: "other features", Flags: flags},
	{Pattern: `(another feature|other features) (films|movies|features)`, Replacement: "other features", Flags: flags},
	{Pattern: `the the`, Replacement: "the", Flags: flags},
	{Pattern: `(the|a|an) another`, Replacement: "another", Flags: flags},
}

var (
	repetitions = rewrite.MustTable(RepetitionRules)
	multiSpace  = rewrite.MustCompile(`  +`, 0)
	upper       = cases.Upper(language.English)
)

// trivial sentences are dropped after cleanup.
var trivial = map[string]struct{}{"": {}, ".": {}, "(": {}, "another person": {}}

func collapse(s string) string { return multiSpace.Replace(s, " ") }

// Join concatenates token text and trailing whitespace, skipping tokens
// whose text was replaced by "".
func Join(tokens []tagging.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Text == "" {
			continue
		}
		b.WriteString(t.Text)
		b.WriteString(t.Whitespace)
	}
	return b.String()
}

// Clean applies the repetition table to a joined sentence.
func Clean(sentence string) string {
	return strings.TrimSpace(repetitions.ApplyEach(collapse(sentence), collapse))
}

// TokensToSentence rebuilds a sentence. ok is false when the sentence
// reduces to nothing worth keeping.
func TokensToSentence(tokens []tagging.Token) (sentence string, ok bool) {
	sentence = Clean(Join(tokens))
	if _, drop := trivial[sentence]; drop {
		return "", false
	}
	return SentenceCase(sentence), true
}

// SentenceCase upper-cases the first character.
func SentenceCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return upper.String(string(r[0])) + string(r[1:])
}
