package rulebook

import (
	"context"
	"regexp"
	"strings"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
)

// "Sortilèges de Magie Rituelle"
var spellCategoryRegex = regexp.MustCompile(`(?i)^Sortil[èe]ges\s+de\s+Magie\s+(.+)$`)

// ExtractSpells scans the "VIII. Magie" section, one collection per school
// of magic.
func (e *Extractor) ExtractSpells(ctx context.Context, text string, sink Sink) (*Result, error) {
	section, ok := SpellsSection.Extract(text)
	if !ok {
		return missing(content.RecordTypeSpell), nil
	}

	acc := e.newAccumulator(content.RecordTypeSpell, sink)
	acc.collection = SpellsCollection("")
	category := ""

	lines := SplitLines(section)
	for i, line := range lines {
		if m := spellCategoryRegex.FindStringSubmatch(line); m != nil {
			if err := acc.switchCategory(ctx, SpellsCollection(m[1])); err != nil {
				return acc.result, err
			}
			category = line
			continue
		}

		if isSpellBoundary(lines, i) {
			acc.open(NewCandidate(line, category))
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

// isSpellBoundary reports a title-cased line followed by a point cost or a
// participant count
func isSpellBoundary(lines []string, i int) bool {
	if !isTitleCased(lines[i]) {
		return false
	}
	next := lineAt(lines, i+1)
	return strings.Contains(next, "Coût en PM : ") ||
		strings.Contains(next, "Nombre recommandé de participants : ")
}
