package rulebook

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type NormalizeTestSuite struct {
	suite.Suite
}

func TestNormalizeSuite(t *testing.T) {
	suite.Run(t, new(NormalizeTestSuite))
}

func (s *NormalizeTestSuite) TestNormalizeParagraph() {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"blank lines only", "\n \n", ""},
		{"hyphen break", "adver-\nsité", "adversité"},
		{"hyphen break with windows newline", "adver- \r\nsité", "adversité"},
		{"line breaks become spaces", "le héros\nfrappe", "le héros frappe"},
		{"whitespace collapsed", "  le   héros \t frappe  ", "le héros frappe"},
		{"trailing period", "inflige un dégât.", "inflige un dégât . "},
		{"french punctuation", "frappe;fort , puis  part", "frappe ; fort , puis part"},
		{"question mark", "Pourquoi?", "Pourquoi ? "},
		{"non breaking space", "Attention\u00a0: danger", "Attention : danger"},
		{"adjacent marks", "Quoi?! Vraiment...", "Quoi ? ! Vraiment . . . "},
		{"double period mid sentence", "etc.. fin", "etc . . fin"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, NormalizeParagraph(tc.input))
		})
	}
}

func (s *NormalizeTestSuite) TestNormalizeParagraphIsIdempotent() {
	inputs := []string{
		"adver-\nsité",
		"Le chevalier\nfrappe ; fort, puis  part.",
		"Exemple : un cas.\n\nAutre ligne !",
		"inflige un dégât.",
		"  « Oui ? » dit-il.  ",
		"1,5 mètre.",
		"Quoi?! Vraiment...",
	}

	for _, in := range inputs {
		once := NormalizeParagraph(in)
		s.Equal(once, NormalizeParagraph(once), "input %q", in)
	}
}

func (s *NormalizeTestSuite) TestNormalizeNameEquivalence() {
	a := NormalizeName("Épée Longue")
	b := NormalizeName("epee longue")
	c := NormalizeName("ÉPÉE   LONGUE")

	s.Equal("epee longue", a)
	s.Equal(a, b)
	s.Equal(b, c)
}

func (s *NormalizeTestSuite) TestNormalizeNameApostrophes() {
	s.Equal("armes d'hast", NormalizeName("Armes d’hast"))
	s.Equal("armes d'hast", NormalizeName("Armes d‘hast"))
	s.Equal("armes d'hast", NormalizeName(" Armes  d'hast "))
}

func (s *NormalizeTestSuite) TestSlugify() {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Armes d'hast", "armes-d-hast"},
		{"Armes à feu", "armes-a-feu"},
		{"Rituelle", "rituelle"},
		{"  Armures légères ", "armures-legeres"},
		{"", ""},
	}

	for _, tc := range testCases {
		s.Run(tc.input, func() {
			s.Equal(tc.expected, Slugify(tc.input))
		})
	}
}

func (s *NormalizeTestSuite) TestEscapeHTML() {
	s.Equal("a &lt;b&gt; &amp; c", EscapeHTML("a <b> & c"))
	s.Equal("&amp;lt;", EscapeHTML("&lt;"))
}

func (s *NormalizeTestSuite) TestSplitBody() {
	body := "Intro.\nEffet : frappe.\nExemple : un cas.\nMatériel recommandé : une corde.\n"

	parts := splitBody(body)

	s.Equal("Intro . ", parts.description)
	s.Equal("frappe . ", parts.effect)
	s.Equal("un cas . ", parts.example)
	s.Equal("une corde . ", parts.material)
	s.Empty(parts.difficulty)
}

func (s *NormalizeTestSuite) TestSplitBodyDifficultyBeforeEffect() {
	body := "Grimper.\nDegré de Difficulté : 12\nEffet : monte.\n"

	parts := splitBody(body)

	s.Equal("Grimper . ", parts.description)
	s.Equal("12", parts.difficulty)
	s.Equal("monte . ", parts.effect)
}

func (s *NormalizeTestSuite) TestSplitBodyLabelIsCaseInsensitive() {
	parts := splitBody("Texte\nEXEMPLE : ceci\n")

	s.Equal("Texte", parts.description)
	s.Equal("ceci", parts.example)
}

func (s *NormalizeTestSuite) TestStripAccents() {
	s.Equal("Epee batarde", StripAccents("Épée bâtarde"))
	s.Equal("Arbaletes", StripAccents("Arbalètes"))
}
