package anonymize

import "critique/internal/rewrite"

const repetitionFlags = rewrite.IgnoreCase | rewrite.Bounded

// RepetitionRules collapse duplicate placeholders left by overlapping
// replacements. Matching is case-insensitive and bounded.
var RepetitionRules = []rewrite.Rule{
	{Pattern: `director('s)? this movie`, Replacement: "this movie", Flags: repetitionFlags},
	{Pattern: `(the|a|this) movie (the |this )?movie`, Replacement: "this movie", Flags: repetitionFlags},
	{Pattern: `director (the )?director`, Replacement: "the director", Flags: repetitionFlags},
	{Pattern: `composer (the )?composer`, Replacement: "composer", Flags: repetitionFlags},
	{Pattern: `editor (the )?editor`, Replacement: "editor", Flags: repetitionFlags},
	{Pattern: `character (the )?character`, Replacement: "character", Flags: repetitionFlags},
	{Pattern: `actress (the )?actress`, Replacement: "actress", Flags: repetitionFlags},
	{Pattern: `writer (the )?writer`, Replacement: "writer", Flags: repetitionFlags},
	{Pattern: `actor (the )?actor`, Replacement: "actor", Flags: repetitionFlags},
	{Pattern: `\(played by the actress\)`, Replacement: "", Flags: repetitionFlags},
	{Pattern: `\(played by the actor\)`, Replacement: "", Flags: repetitionFlags},
	{Pattern: `(Captain|Doctor|Dr|Mister|Mr|Lady|Ms) the (director|editor|writer|composer|character|actor|actress)`, Replacement: "the $2", Flags: repetitionFlags},
	{Pattern: `this this`, Replacement: "this", Flags: repetitionFlags},
	{Pattern: `this the`, Replacement: "this", Flags: repetitionFlags},
	{Pattern: `the this`, Replacement: "this", Flags: repetitionFlags},
	{Pattern: `the the`, Replacement: "the", Flags: repetitionFlags},
}

var (
	repetitions = rewrite.MustTable(RepetitionRules)
	multiSpace  = rewrite.MustCompile(`  +`, 0)
)

// CleanRepetitions applies the repetition table, collapsing runs of spaces
// after every rule.
func CleanRepetitions(text string) string {
	return repetitions.ApplyEach(collapseSpaces(text), collapseSpaces)
}

func collapseSpaces(text string) string {
	return multiSpace.Replace(text, " ")
}
