package rulebook_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/lorelegacy/internal/rulebook"
)

var weaponHeaders = []string{
	rulebook.ColumnEncumbrance,
	rulebook.ColumnDamageCode,
	rulebook.ColumnDurability,
	rulebook.ColumnRangeAvg,
	rulebook.ColumnRangeMax,
	rulebook.ColumnAmmunition,
	rulebook.ColumnCost,
}

var armorHeaders = []string{
	rulebook.ColumnEncumbrance,
	rulebook.ColumnDamageCode,
	rulebook.ColumnDurability,
	rulebook.ColumnSpeedMod,
	rulebook.ColumnCost,
}

type TableTestSuite struct {
	suite.Suite
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableTestSuite))
}

func (s *TableTestSuite) TestHeaderDetection() {
	s.True(rulebook.IsHeaderEnd("Nom Enc. Code de dégâts Dur. Mun. Coût"))
	s.True(rulebook.IsHeaderEnd("rap. coût"))
	s.False(rulebook.IsHeaderEnd("Le coût est élevé."))

	s.True(rulebook.IsHeaderAnchor("Nom Enc. Code de"))
	s.False(rulebook.IsHeaderAnchor("Encombrement : 2"))
}

func (s *TableTestSuite) TestParseHeader() {
	testCases := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "weapons",
			line:     "Nom Enc. Code de dégâts Dur. P. moy. P. max. Mun. Coût",
			expected: weaponHeaders,
		},
		{
			name:     "armor",
			line:     "Nom Enc. Code de protection Dur. Mod. rap. Coût",
			expected: armorHeaders,
		},
		{
			name:     "prefixes before enc dropped",
			line:     "Armes de mêlée Enc. Code de dégâts Dur. Coût",
			expected: []string{"enc", "cd", "dur", "cout"},
		},
		{
			name:     "ammunition prefix",
			line:     "Nom Enc. CD Dur. Munitions Coût",
			expected: []string{"enc", "cd", "dur", "mun", "cout"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, rulebook.ParseHeader(tc.line))
		})
	}
}

func (s *TableTestSuite) TestRegroupRows() {
	testCases := []struct {
		name     string
		lines    []string
		expected int
		rows     []string
	}{
		{
			name:     "wrapped name merges into one row",
			lines:    []string{"Hache", "de guerre 2 1d8 10 -- 12", "Dague 1 1d4 8 -- 5"},
			expected: 5,
			rows:     []string{"Hache de guerre 2 1d8 10 -- 12", "Dague 1 1d4 8 -- 5"},
		},
		{
			name:     "values wrapped onto the next line",
			lines:    []string{"Épée bâtarde 3 1d10 +", "2 12 -- -- -- 30"},
			expected: 7,
			rows:     []string{"Épée bâtarde 3 1d10 + 2 12 -- -- -- 30"},
		},
		{
			name:     "hyphenated word glued",
			lines:    []string{"Arba-", "lète 3 1d10 10 -- 30"},
			expected: 5,
			rows:     []string{"Arbalète 3 1d10 10 -- 30"},
		},
		{
			name:     "incomplete leftover kept",
			lines:    []string{"Dague 1 1d4 8 -- 5", "Lance 2 1d6"},
			expected: 5,
			rows:     []string{"Dague 1 1d4 8 -- 5", "Lance 2 1d6"},
		},
		{
			name:     "blank lines ignored",
			lines:    []string{"", "Dague 1 1d4 8 -- 5", "  "},
			expected: 5,
			rows:     []string{"Dague 1 1d4 8 -- 5"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.rows, rulebook.RegroupRows(tc.lines, tc.expected))
		})
	}
}

func (s *TableTestSuite) TestParseRow() {
	testCases := []struct {
		name     string
		line     string
		headers  []string
		rowName  string
		expected map[string]string
	}{
		{
			name:    "placeholders",
			line:    "Épée longue 2 1d8 10 -- -- -- 15",
			headers: weaponHeaders,
			rowName: "Épée longue",
			expected: map[string]string{
				"enc": "2", "cd": "1d8", "dur": "10",
				"pmoy": "0", "pmax": "0", "mun": "0", "cout": "15",
			},
		},
		{
			name:    "damage bonus",
			line:    "Hache lourde 4 1d10 + 2 12 -- -- -- 40",
			headers: weaponHeaders,
			rowName: "Hache lourde",
			expected: map[string]string{
				"enc": "4", "cd": "1d10 + 2", "dur": "12",
				"pmoy": "0", "pmax": "0", "mun": "0", "cout": "40",
			},
		},
		{
			name:    "dice spacing",
			line:    "Masse 3 1 d6 + 1 15 -- -- -- 10",
			headers: weaponHeaders,
			rowName: "Masse",
			expected: map[string]string{
				"enc": "3", "cd": "1d6 + 1", "dur": "15",
				"pmoy": "0", "pmax": "0", "mun": "0", "cout": "10",
			},
		},
		{
			name:    "ammunition pattern",
			line:    "Arc long 1 1d8 8 30 60 6(2)/12 25",
			headers: weaponHeaders,
			rowName: "Arc long",
			expected: map[string]string{
				"enc": "1", "cd": "1d8", "dur": "8",
				"pmoy": "30", "pmax": "60", "mun": "6(2)/12", "cout": "25",
			},
		},
		{
			name:    "multiplier ranges",
			line:    "Fronde 0,5 1d4 5 10 x 2 20 x 2 -- 2",
			headers: weaponHeaders,
			rowName: "Fronde",
			expected: map[string]string{
				"enc": "0,5", "cd": "1d4", "dur": "5",
				"pmoy": "10 x 2", "pmax": "20 x 2", "mun": "0", "cout": "2",
			},
		},
		{
			name:    "signed speed modifier",
			line:    "Rondache 2 1 10 - 1 15",
			headers: armorHeaders,
			rowName: "Rondache",
			expected: map[string]string{
				"enc": "2", "cd": "1", "dur": "10", "modrap": "-1", "cout": "15",
			},
		},
		{
			name:    "fragment merged",
			line:    "L ance 2 1d6 10 -- -- -- 8",
			headers: weaponHeaders,
			rowName: "Lance",
			expected: map[string]string{
				"enc": "2", "cd": "1d6", "dur": "10",
				"pmoy": "0", "pmax": "0", "mun": "0", "cout": "8",
			},
		},
		{
			name:    "elided article restored",
			line:    "Hache d armes 3 1d10 12 -- -- -- 25",
			headers: weaponHeaders,
			rowName: "Hache d'armes",
			expected: map[string]string{
				"enc": "3", "cd": "1d10", "dur": "12",
				"pmoy": "0", "pmax": "0", "mun": "0", "cout": "25",
			},
		},
		{
			name:    "long word after stray letter kept apart",
			line:    "Hache B lourde 4 1d10 12 -- -- -- 40",
			headers: weaponHeaders,
			rowName: "Hache B lourde",
			expected: map[string]string{
				"enc": "4", "cd": "1d10", "dur": "12",
				"pmoy": "0", "pmax": "0", "mun": "0", "cout": "40",
			},
		},
		{
			name:    "resistance abbreviation",
			line:    "Armure R és. feu 3 4 20 0 100",
			headers: armorHeaders,
			rowName: "Armure Rés.feu",
			expected: map[string]string{
				"enc": "3", "cd": "4", "dur": "20", "modrap": "0", "cout": "100",
			},
		},
		{
			name:    "missing trailing fields stay empty",
			line:    "Lance 2 1d6",
			headers: weaponHeaders,
			rowName: "Lance",
			expected: map[string]string{
				"enc": "2", "cd": "1d6", "dur": "",
				"pmoy": "", "pmax": "", "mun": "", "cout": "",
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			row := rulebook.ParseRow(tc.line, tc.headers)
			s.Require().NotNil(row)
			s.Equal(tc.rowName, row.Name)
			s.Equal(rulebook.NormalizeName(tc.rowName), row.NormalizedName)
			s.Equal(tc.expected, row.Values)
		})
	}
}

func (s *TableTestSuite) TestMatchRows() {
	longsword := rulebook.NewCandidate("Épée longue", "Épées")
	longsword.Cost = "99"
	dagger := rulebook.NewCandidate("Dague", "Dagues")
	unmatched := rulebook.NewCandidate("Rapière", "Épées")

	rows := []*rulebook.TableRow{
		{
			Name:           "EPEE LONGUE",
			NormalizedName: "epee longue",
			Values: map[string]string{
				"enc": "2", "cd": "1d8", "dur": "10", "pmoy": "", "pmax": "", "mun": "", "cout": "15",
			},
		},
		{
			Name:           "Dague",
			NormalizedName: "dague",
			Values:         map[string]string{"enc": "1", "cd": "1d4", "cout": "5"},
		},
		{
			Name:           "Dague",
			NormalizedName: "dague",
			Values:         map[string]string{"enc": "9"},
		},
		{
			Name:           "Hallebarde",
			NormalizedName: "hallebarde",
			Values:         map[string]string{"enc": "5"},
		},
	}

	matched := rulebook.MatchRows([]*rulebook.Candidate{longsword, dagger, unmatched}, rows)

	s.Equal(2, matched)
	s.Equal("2", longsword.Encumbrance)
	s.Equal("1d8", longsword.DamageCode)
	s.Equal("10", longsword.Durability)
	s.Equal("15", longsword.Cost)
	s.Empty(longsword.RangeAvg)
	s.Equal("1", dagger.Encumbrance, "first row of a duplicated name wins")
	s.Empty(unmatched.Encumbrance)
}

func (s *TableTestSuite) TestMatchRowsWithElidedArticle() {
	axe := rulebook.NewCandidate("Hache d’armes", "Haches")
	row := rulebook.ParseRow("Hache d armes 3 1d10 12 -- -- -- 25", weaponHeaders)

	s.Equal(1, rulebook.MatchRows([]*rulebook.Candidate{axe}, []*rulebook.TableRow{row}))
	s.Equal("25", axe.Cost)
	s.Equal("1d10", axe.DamageCode)
}

func (s *TableTestSuite) TestRowGetOnNil() {
	var row *rulebook.TableRow
	s.Empty(row.Get(rulebook.ColumnCost))
}
