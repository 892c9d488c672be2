package rulebook_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/lorelegacy/internal/rulebook"
)

type SectionTestSuite struct {
	suite.Suite
}

func TestSectionSuite(t *testing.T) {
	suite.Run(t, new(SectionTestSuite))
}

func (s *SectionTestSuite) TestExtractSection() {
	testCases := []struct {
		name     string
		text     string
		section  rulebook.Section
		expected string
		found    bool
	}{
		{
			name:     "between headings",
			text:     "Intro\nVI. Traits\nDon de Sang\nVII. Capacités\nEscalade (P)",
			section:  rulebook.TraitsSection,
			expected: "\nDon de Sang\n",
			found:    true,
		},
		{
			name:     "missing end runs to end of text",
			text:     "VIII. Magie\nCercle\nfin",
			section:  rulebook.SpellsSection,
			expected: "\nCercle\nfin",
			found:    true,
		},
		{
			name:    "missing start",
			text:    "Intro\nVII. Capacités\n",
			section: rulebook.TraitsSection,
			found:   false,
		},
		{
			name:     "case insensitive",
			text:     "vi. traits\nA\nvii. capacites\n",
			section:  rulebook.TraitsSection,
			expected: "\nA\n",
			found:    true,
		},
		{
			name:     "windows line endings",
			text:     "Armes\r\n• Dague\r\nArmures\r\n",
			section:  rulebook.WeaponsSection,
			expected: "\n• Dague\r\n",
			found:    true,
		},
		{
			name:     "heading must fill the line",
			text:     "Armes de jet\nArmes\n• Dague\nArmures\n",
			section:  rulebook.WeaponsSection,
			expected: "\n• Dague\n",
			found:    true,
		},
		{
			name:     "end searched after start only",
			text:     "Armures\nArmes\n• Dague\nArmures\n• Cuir",
			section:  rulebook.WeaponsSection,
			expected: "\n• Dague\n",
			found:    true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, ok := tc.section.Extract(tc.text)
			s.Equal(tc.found, ok)
			s.Equal(tc.expected, got)
		})
	}
}

func (s *SectionTestSuite) TestExtractSectionWithoutEndPattern() {
	got, ok := rulebook.ExtractSection("a\nSTART\nb\nc", regexp.MustCompile(`(?m)^START$`), nil)

	s.True(ok)
	s.Equal("\nb\nc", got)
}

func (s *SectionTestSuite) TestSplitLinesDropsPageNumbers() {
	lines := rulebook.SplitLines("  Don de Sang \r\n12\nCoût : 3\n\n 7 \nfin")

	s.Equal([]string{"Don de Sang", "Coût : 3", "", "fin"}, lines)
}
