package rulebook

import (
	"context"
	"strings"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
)

// ExtractTraits scans the "VI. Traits" section. A trait starts on a
// title-cased line whose next line carries its cost.
func (e *Extractor) ExtractTraits(ctx context.Context, text string, sink Sink) (*Result, error) {
	section, ok := TraitsSection.Extract(text)
	if !ok {
		return missing(content.RecordTypeTrait), nil
	}

	acc := e.newAccumulator(content.RecordTypeTrait, sink)
	acc.collection = TraitsCollection()

	lines := SplitLines(section)
	for i, line := range lines {
		if isTraitBoundary(lines, i) {
			acc.open(NewCandidate(line, ""))
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

func isTraitBoundary(lines []string, i int) bool {
	return isTitleCased(lines[i]) && strings.Contains(lineAt(lines, i+1), "Coût")
}
