package rulebook

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// "adver-\nsité" -> "adversité"
	hyphenBreakRegex = regexp.MustCompile(`(\p{L})-[ \t]*[\r\n]+[ \t]*(\p{L})`)
	lineBreakRegex   = regexp.MustCompile(`[\r\n]+`)
	whitespaceRegex  = regexp.MustCompile(`[\s\p{Zs}]+`)
	punctuationRegex = regexp.MustCompile(`[\s\p{Zs}]*([;,.:!?])[\s\p{Zs}]*`)
	doubleSpaceRegex = regexp.MustCompile(` {2,}`)
	apostropheRegex  = regexp.MustCompile("[’‘ʼ´`]")
	slugRegex        = regexp.MustCompile(`[^a-z0-9]+`)

	materialLabelRegex   = regexp.MustCompile(`(?i)(^|\s)Mat[ée]riel\s+recommand[ée]\s*:\s*`)
	exampleLabelRegex    = regexp.MustCompile(`(?i)(^|\s)Exemple\s*:\s*`)
	effectLabelRegex     = regexp.MustCompile(`(?i)(^|\s)Effet\s*:\s*`)
	difficultyLabelRegex = regexp.MustCompile(`(?i)(^|\s)Degr[ée]\s*de\s*Difficult[ée]\s*:\s*`)
)

// NormalizeParagraph turns accumulated body lines into one clean prose paragraph.
//
// Hyphenated line breaks are joined, remaining breaks become spaces, whitespace
// is collapsed and trimmed, then every punctuation mark is surrounded by a
// single space, French style. Runs of marks ("?!", "...") share one space.
// The result is stable under re-application.
func NormalizeParagraph(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	t := hyphenBreakRegex.ReplaceAllString(body, "$1$2")
	t = lineBreakRegex.ReplaceAllString(t, " ")
	t = whitespaceRegex.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)
	t = punctuationRegex.ReplaceAllString(t, " $1 ")
	t = doubleSpaceRegex.ReplaceAllString(t, " ")

	return t
}

// CleanInline collapses whitespace within a single line
func CleanInline(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// StripAccents removes combining diacritics, "Épée" -> "Epee"
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName produces the key used to cross-match item names: case-folded,
// accent-stripped, apostrophes unified and whitespace collapsed.
func NormalizeName(s string) string {
	t := StripAccents(s)
	t = strings.ToLower(t)
	t = apostropheRegex.ReplaceAllString(t, "'")
	return CleanInline(t)
}

// Slugify derives a store-safe identifier from a category heading
func Slugify(s string) string {
	t := NormalizeName(s)
	t = slugRegex.ReplaceAllString(t, "-")
	return strings.Trim(t, "-")
}

// EscapeHTML escapes the characters that would break the rendered description
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// splitOnLabel cuts body at the first occurrence of label. The label itself
// is dropped; when absent everything is returned as before.
func splitOnLabel(body string, label *regexp.Regexp) (before, after string) {
	loc := label.FindStringIndex(body)
	if loc == nil {
		return body, ""
	}
	return body[:loc[0]], body[loc[1]:]
}

// bodyParts is a body split into its labelled segments
type bodyParts struct {
	description string
	effect      string
	difficulty  string
	example     string
	material    string
}

// splitBody applies the label splitters innermost first so that a label
// appearing inside an earlier segment is still found.
func splitBody(body string) bodyParts {
	beforeMaterial, material := splitOnLabel(body, materialLabelRegex)
	beforeExample, example := splitOnLabel(beforeMaterial, exampleLabelRegex)
	beforeEffect, effect := splitOnLabel(beforeExample, effectLabelRegex)
	beforeDifficulty, difficulty := splitOnLabel(beforeEffect, difficultyLabelRegex)

	return bodyParts{
		description: NormalizeParagraph(beforeDifficulty),
		effect:      NormalizeParagraph(effect),
		difficulty:  NormalizeParagraph(difficulty),
		example:     NormalizeParagraph(example),
		material:    NormalizeParagraph(material),
	}
}
