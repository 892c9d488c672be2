package rulebook

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	pageNumberRegex = regexp.MustCompile(`^\d+$`)
	lineSplitRegex  = regexp.MustCompile(`\r?\n`)
)

// SplitLines splits a section into trimmed lines and drops the page numbers
// the PDF extraction leaves between pages.
func SplitLines(section string) []string {
	raw := lineSplitRegex.Split(section, -1)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if pageNumberRegex.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// isTitleCased reports whether the line starts with an upper-case letter
func isTitleCased(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// lineAt returns lines[i] or "" when out of range
func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}

// statLine pairs a labelled pattern with the field it fills
type statLine struct {
	pattern *regexp.Regexp
	apply   func(c *Candidate, m []string)
}

// statLines are evaluated top to bottom, first match wins
var statLines = []statLine{
	{
		pattern: regexp.MustCompile(`(?i)^Co[uû]t\s*:\s*(\d+)`),
		apply:   func(c *Candidate, m []string) { c.Cost = m[1] },
	},
	{
		pattern: regexp.MustCompile(`(?i)^Co[uû]t\s+en\s+PM\s*:\s*(\d+)`),
		apply:   func(c *Candidate, m []string) { c.ResourceCost = m[1] },
	},
	{
		pattern: regexp.MustCompile(`(?i)^Co[uû]t\s+en\s+PM\s+total\s*:\s*(\d+)`),
		apply:   func(c *Candidate, m []string) { c.CostTotal = m[1] },
	},
	{
		pattern: regexp.MustCompile(`(?i)^Co[uû]t\s+en\s+PM\s+par\s+participant\s*:\s*(\d+)`),
		apply:   func(c *Candidate, m []string) { c.CostPerParticipant = m[1] },
	},
	{
		pattern: regexp.MustCompile(`(?i)^Nombre\s+recommand[ée]\s+de\s+participants\s*:\s*(\d+)`),
		apply:   func(c *Candidate, m []string) { c.Participants = m[1] },
	},
	{
		pattern: regexp.MustCompile(`(?i)^D[ée]g[aâ]ts?\s*:\s*(.+)$`),
		apply:   func(c *Candidate, m []string) { c.Damage = CleanInline(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)^Cibles?\s*:\s*(.+)$`),
		apply:   func(c *Candidate, m []string) { c.Target = CleanInline(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)^Port[ée]e\s*:\s*(.+)$`),
		apply:   func(c *Candidate, m []string) { c.Range = CleanInline(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)^Dur[ée]e\s*:\s*(.+)$`),
		apply:   func(c *Candidate, m []string) { c.Duration = CleanInline(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)^Degr[ée]\s+de\s+difficult[ée]\s*:\s*(.+)$`),
		apply:   func(c *Candidate, m []string) { c.Difficulty = CleanInline(m[1]) },
	},
	{
		pattern: bulletFieldRegex,
		apply: func(c *Candidate, m []string) {
			c.Extras = append(c.Extras, Field{Label: CleanInline(m[1]), Value: CleanInline(m[2])})
		},
	},
}

// "• Portée : 10 mètres"
var bulletFieldRegex = regexp.MustCompile(`^•\s*([^:]+?)\s*:\s*(.+)$`)

// applyStatLine fills the first matching typed field and reports whether one matched
func applyStatLine(c *Candidate, line string) bool {
	for _, sl := range statLines {
		if m := sl.pattern.FindStringSubmatch(line); m != nil {
			sl.apply(c, m)
			return true
		}
	}
	return false
}
