package textnorm

import "critique/internal/rewrite"

// emojiClass covers pictograph, dingbat and technical-symbol blocks.
const emojiClass = "[" +
	"\U0001F1E0-\U0001F1FF" + // flags
	"\U0001F300-\U0001F5FF" + // symbols & pictographs
	"\U0001F600-\U0001F64F" + // emoticons
	"\U0001F680-\U0001F6FF" + // transport & map
	"\U0001F700-\U0001F77F" + // alchemical
	"\U0001F780-\U0001F7FF" + // geometric shapes extended
	"\U0001F800-\U0001F8FF" + // supplemental arrows-c
	"\U0001F900-\U0001F9FF" + // supplemental symbols
	"\U0001FA00-\U0001FA6F" + // chess
	"\U0001FA70-\U0001FAFF" + // symbols extended-a
	"\u2700-\u27BF" + // dingbats
	"\u2300-\u23FF" + // technical
	"]+"

var spacedInitials = rewrite.MustCompile(`([A-Z]\. )([A-Z]\. )+([A-Z]\.)`, 0)

// censorRules map obfuscated profanity to one spelling. They run ahead of
// address canonicalization since "sh@t" would otherwise read as an address.
var censorRules = []rewrite.Rule{
	{Pattern: `[Ff][*#@Uu-][*#@Cc-][*#@Kk]`, Replacement: "f*ck"},
	{Pattern: `[Cc][Rr]@[Pp]`, Replacement: "cr*p"},
	{Pattern: `[Bb]@[Ll][Ll][Ss]`, Replacement: "balls"},
	{Pattern: `[Ss][Hh]@[Tt]`, Replacement: "sh*t"},
}

var canonicalRules = concatRules(
	[]rewrite.Rule{
		{Pattern: `(https?://|www\.).*?(?=$|[\s)'"])`, Replacement: "website"},
		{Pattern: `([\s('"])[^\s('"]+\.(com|net|html?)(?=$|[\s)'"])`, Replacement: "${1}website"},
		{Pattern: `(^|[\s(])[#@][^\d'" ].*?(?=$|[\s)])`, Replacement: "$1"},
	},
	censorRules,
	[]rewrite.Rule{
		{Pattern: `(^|[\s('"])[a-zA-Z][a-zA-Z0-9]*@[a-zA-Z0-9]*(?=$|[\s)'"])`, Replacement: "${1}website"},
		{Pattern: `\n\(?website\)?$`, Replacement: ""},
		{Pattern: emojiClass, Replacement: ". "},
		{Pattern: ` ?[:;] ?[)|]+`, Replacement: ". "},
		{Pattern: ` ?:\(+(?=$|[\s.])`, Replacement: ". "},
		{Pattern: ` \^[-_]?\^ ?`, Replacement: ". "},
		{Pattern: `:?=\)`, Replacement: ""},
		{Pattern: `(<\)|<3)`, Replacement: ""},
		{Pattern: `\*(sigh|cough|yawn|rolls eyes)\*`, Replacement: " "},
	},
)

var lineBreakRules = []rewrite.Rule{
	{Pattern: `([^.,:;!?]) ?\n ?([A-Z])`, Replacement: "$1. $2"},
	{Pattern: `([^.,:;!?]) ?\n ?[>-]+`, Replacement: "$1. "},
	{Pattern: `([.,:;!?]) ?\n ?[>-]+`, Replacement: "$1 "},
	{Pattern: `([^.,:;!?]) ?\n ?\d{1,2}[.)]+(?!\d)`, Replacement: "$1. "},
	{Pattern: `([.,:;!?]) ?\n ?\d{1,2}[.)]+(?!\d)`, Replacement: "$1 "},
}

var punctuationRules = []rewrite.Rule{
	{Pattern: `^\.\.\.`, Replacement: ""},
	{Pattern: `==+`, Replacement: " "},
	{Pattern: `-{4,}`, Replacement: " "},
	{Pattern: `\+{4,}`, Replacement: " "},
	{Pattern: `\*{6,}`, Replacement: " "},
	{Pattern: `\?[?.]+`, Replacement: "?"},
	{Pattern: `![!.]+`, Replacement: "!"},
	{Pattern: `,,+`, Replacement: ","},
	{Pattern: ` ?\.( ?\. ?)+\.`, Replacement: "..."},
}

var glyphRules = []rewrite.Rule{
	{Pattern: `\\`, Replacement: "/"},
	{Pattern: `[”¨“„]`, Replacement: `"`},
	{Pattern: "(’|´|''|`|‘)", Replacement: "'"},
	{Pattern: `[★☆⭐]`, Replacement: "*"},
	{Pattern: `…`, Replacement: "..."},
	{Pattern: ` ?— ?`, Replacement: " -- "},
	{Pattern: `–`, Replacement: "-"},
	{Pattern: ` @ `, Replacement: " at "},
	{Pattern: `\(=`, Replacement: "("},
	{Pattern: `(^|\s)[*']([^\s*]+?)[*']($|[.,:;\s!?])`, Replacement: "$1$2$3"},
}

var invisibleRules = []rewrite.Rule{
	{Pattern: "[\u200B-\u200D\u2060]", Replacement: ""},
	{Pattern: "[_¡~{}><°♥\uFEFF\uFFFC]", Replacement: " "},
	{Pattern: `[\r\n\t\f\v]`, Replacement: " "},
}

var annotationRules = []rewrite.Rule{
	{Pattern: `\( ?\d{4}[!? ]?\)`, Replacement: ""},
	{Pattern: `\(R\.I\.P\.\)`, Replacement: ""},
	{Pattern: `[Tt][Ll];?[Dd][Rr](:| - )?`, Replacement: "In summary, "},
	{Pattern: `([a-zA-Z])\(([a-zA-Z])\)`, Replacement: "$1$2"},
	{Pattern: `\(([d-zD-Z])\)([a-zA-Z])`, Replacement: "$1$2"},
	{Pattern: `\(([a-zA-Z]{2})\)([a-zA-Z])`, Replacement: "$1$2"},
}

var spacingRules = []rewrite.Rule{
	{Pattern: `website website`, Replacement: "website"},
	{Pattern: `,([a-zA-Z])`, Replacement: ", $1"},
	{Pattern: `([a-z])\.([A-Z])`, Replacement: "$1. $2"},
	{Pattern: `\.\.\.([^ )'"])`, Replacement: "... $1"},
	{Pattern: `;([^ ])`, Replacement: "; $1"},
	{Pattern: `([!?])([^!?)'" ])`, Replacement: "$1 $2"},
	{Pattern: `([^ ])(\()`, Replacement: "$1 $2"},
	{Pattern: `(\)[,:;.]?)([^ ,:;.])`, Replacement: "$1 $2"},
	{Pattern: `(\D:)([^ ])`, Replacement: "$1 $2"},
	{Pattern: `([eE]\.g\.|[iI]\.e\.)[ :]`, Replacement: "$1, "},
	{Pattern: `(etc\.) ([a-z])`, Replacement: "$1, $2"},
	{Pattern: ` ?--+ ?`, Replacement: ", "},
}

// MisspellingRules fix common informal spellings.
var MisspellingRules = []rewrite.Rule{
	{Pattern: ` Im `, Replacement: " I'm "},
	{Pattern: ` isnt `, Replacement: " isn't "},
	{Pattern: ` arnt `, Replacement: " are not "},
	{Pattern: ` didnt `, Replacement: " didn't "},
	{Pattern: ` back ground `, Replacement: " background "},
	{Pattern: `[Mm]ake-[Uu]p`, Replacement: "makeup"},
	{Pattern: `[Ss]low-[Mm]o(tion)?`, Replacement: "slow motion"},
	{Pattern: `[Ss](cript|creen)( -)?[Ww]riter`, Replacement: "writer"},
	{Pattern: `master piece`, Replacement: "masterpiece"},
	{Pattern: ` alround `, Replacement: " all-round "},
}

// AbbreviationRules expand honorifics and shorthand into full words.
var AbbreviationRules = []rewrite.Rule{
	{Pattern: `[Cc]a?pt\.`, Replacement: "Captain"},
	{Pattern: `Dr\.`, Replacement: "Doctor"},
	{Pattern: `Mr\.`, Replacement: "Mister"},
	{Pattern: `Mr?s\.`, Replacement: "Lady"},
	{Pattern: `[Cc]\.[Gg]\.[Ii]\.?`, Replacement: "CGI"},
	{Pattern: `([ ('":])[Vv]ol\. ?`, Replacement: "${1}Volume "},
	{Pattern: `R\.I\.P\.(?!D\.)`, Replacement: "farewell,"},
	{Pattern: `[., ]+b/c `, Replacement: ", because "},
	{Pattern: `( |\()w/ `, Replacement: "${1}with "},
	{Pattern: `( |\()w/o `, Replacement: "${1}without "},
	{Pattern: ` [Vv]/?[Ss]\.? `, Replacement: " versus "},
	{Pattern: `[Cc]ontd\.`, Replacement: "continued"},
	{Pattern: ` [Nn][or]\. (?=\d)`, Replacement: " number "},
	{Pattern: `appr\.`, Replacement: "approximately"},
	{Pattern: `( |\()pp\.`, Replacement: "${1}pages"},
}

var dashRules = []rewrite.Rule{
	{Pattern: ` -(?=[^ \d])`, Replacement: " "},
	{Pattern: `(?<=[^ A-F])-( |$)`, Replacement: " "},
	{Pattern: `\.?\.\. +([A-Z])`, Replacement: ". $1"},
	{Pattern: `\. (\. )+`, Replacement: ". "},
	{Pattern: ` , `, Replacement: ", "},
	{Pattern: `  +`, Replacement: " "},
}

func concatRules(groups ...[]rewrite.Rule) []rewrite.Rule {
	var out []rewrite.Rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
