package rulebook

import (
	"context"
	"regexp"
	"strings"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
)

var (
	// "Capacités liées au Corps"
	skillCategoryRegex = regexp.MustCompile(`(?i)^Capacit[ée]s\s+li[ée]es\s+(?:au|à\s+la)\s+(.+)$`)
	// "Escalade (P)"
	skillBoundaryRegex = regexp.MustCompile(`(?i)^(.+?)\s+\((A|P)\)$`)
)

// ExtractSkills scans the "VII. Capacités" section. Skills are grouped by
// their "Capacités liées au ..." heading, one collection per heading.
func (e *Extractor) ExtractSkills(ctx context.Context, text string, sink Sink) (*Result, error) {
	section, ok := SkillsSection.Extract(text)
	if !ok {
		return missing(content.RecordTypeSkill), nil
	}

	acc := e.newAccumulator(content.RecordTypeSkill, sink)
	acc.collection = SkillsCollection("")
	category := ""

	for _, line := range SplitLines(section) {
		if m := skillCategoryRegex.FindStringSubmatch(line); m != nil {
			if err := acc.switchCategory(ctx, SkillsCollection(m[1])); err != nil {
				return acc.result, err
			}
			category = line
			continue
		}

		if m := skillBoundaryRegex.FindStringSubmatch(line); m != nil {
			c := NewCandidate(strings.TrimSpace(m[1]), category)
			c.Active = strings.EqualFold(m[2], "A")
			acc.open(c)
			continue
		}

		if acc.current != nil {
			acc.current.consume(line)
		}
	}

	if err := acc.flush(ctx); err != nil {
		return acc.result, err
	}
	return acc.result, nil
}
