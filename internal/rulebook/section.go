package rulebook

import (
	"regexp"
)

// Section is a top-level rulebook chapter bounded by two heading lines
type Section struct {
	Name  string
	Start *regexp.Regexp
	End   *regexp.Regexp
}

// Headings are matched case-insensitively at line start and must fill the line.
var (
	TraitsSection = Section{
		Name:  "traits",
		Start: regexp.MustCompile(`(?im)^VI\.\s*Traits[ \t]*\r?$`),
		End:   regexp.MustCompile(`(?im)^VII\.\s*Capacit[ée]s[ \t]*\r?$`),
	}
	SkillsSection = Section{
		Name:  "skills",
		Start: regexp.MustCompile(`(?im)^VII\.\s*Capacit[ée]s[ \t]*\r?$`),
		End:   regexp.MustCompile(`(?im)^VIII\.\s*Magie[ \t]*\r?$`),
	}
	SpellsSection = Section{
		Name:  "spells",
		Start: regexp.MustCompile(`(?im)^VIII\.\s*Magie[ \t]*\r?$`),
		End:   regexp.MustCompile(`(?im)^IX\.\s*Combat[ \t]*\r?$`),
	}
	WeaponsSection = Section{
		Name:  "weapons",
		Start: regexp.MustCompile(`(?im)^Armes[ \t]*\r?$`),
		End:   regexp.MustCompile(`(?im)^Armures[ \t]*\r?$`),
	}
	ArmorSection = Section{
		Name:  "armor",
		Start: regexp.MustCompile(`(?im)^Armures[ \t]*\r?$`),
		End:   regexp.MustCompile(`(?im)^Arcanotech[ \t]*\r?$`),
	}
)

// ExtractSection returns the text between the first start heading and the
// first end heading that follows it. The end heading is optional; a missing
// start heading reports false.
func ExtractSection(text string, start, end *regexp.Regexp) (string, bool) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]

	if end != nil {
		if endLoc := end.FindStringIndex(rest); endLoc != nil {
			return rest[:endLoc[0]], true
		}
	}
	return rest, true
}

// Extract returns the section's substring of text
func (s Section) Extract(text string) (string, bool) {
	return ExtractSection(text, s.Start, s.End)
}
