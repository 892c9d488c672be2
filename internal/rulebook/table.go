package rulebook

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical statistics table column identifiers
const (
	ColumnEncumbrance = "enc"
	ColumnDamageCode  = "cd"
	ColumnDurability  = "dur"
	ColumnRangeAvg    = "pmoy"
	ColumnRangeMax    = "pmax"
	ColumnAmmunition  = "mun"
	ColumnCost        = "cout"
	ColumnSpeedMod    = "modrap"
)

var (
	numericTokenRegex = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	diceTokenRegex    = regexp.MustCompile(`(?i)^\d*d\d+$`)
	signedTokenRegex  = regexp.MustCompile(`^[+-]\d+$`)
	ammunitionRegex   = regexp.MustCompile(`^\d+(?:\(\d+\))?/\d+$`)
	multiplierRegex   = regexp.MustCompile(`(?i)^[x×]\d*$`)
	costSuffixRegex   = regexp.MustCompile(`(?i)\bco[uû]t\.?$`)
	wordHyphenRegex   = regexp.MustCompile(`(\p{L})-$`)

	// "R és. feu", "Rés . feu" -> "Rés.feu"
	resistanceRegex = regexp.MustCompile(`(?i)\bR\s*[ée]s\s*\.\s*(\p{L}+)`)
	// "1 d8", "1d 8" -> "1d8"
	diceSpacingRegex     = regexp.MustCompile(`(?i)(\d+)\s*d\s+(\d+)`)
	diceLeadSpacingRegex = regexp.MustCompile(`(?i)(\d+)\s+d(\d+)`)
)

// placeholders printed in empty table cells
var emptyCellTokens = map[string]bool{"--": true, "—": true, "–": true}

// single letters that are real French words and must not be glued to the next token
var standaloneLetters = map[string]bool{"à": true, "a": true, "y": true, "o": true, "ô": true, "x": true}

// elided articles whose apostrophe was lost in extraction: "d armes" -> "d'armes"
var elidedLetters = map[string]bool{"d": true, "l": true}

// longest fragment a stray letter is glued to
const maxFragmentLen = 4

// TableRow is one logical row of an equipment statistics table
type TableRow struct {
	Name           string
	NormalizedName string
	Values         map[string]string
}

// Get returns the value of a column, "" when absent
func (r *TableRow) Get(column string) string {
	if r == nil {
		return ""
	}
	return r.Values[column]
}

// IsHeaderEnd reports whether the line closes a table header ("... Coût")
func IsHeaderEnd(line string) bool {
	return costSuffixRegex.MatchString(strings.TrimSpace(line))
}

// IsHeaderAnchor reports whether the line carries the encumbrance column marker
func IsHeaderAnchor(line string) bool {
	return strings.Contains(" "+CleanInline(line)+" ", " Enc. ")
}

// foldToken lower-cases, strips accents and surrounding punctuation
func foldToken(t string) string {
	t = NormalizeName(t)
	return strings.Trim(t, ".:;,()…")
}

// ParseHeader derives the ordered column identifiers from a header line.
// Everything before the encumbrance column is dropped.
func ParseHeader(line string) []string {
	tokens := strings.Fields(line)

	start := -1
	for i, t := range tokens {
		if foldToken(t) == ColumnEncumbrance {
			start = i
			break
		}
	}
	if start < 0 {
		start = 0
		for start < len(tokens) && foldToken(tokens[start]) == "nom" {
			start++
		}
	}

	var headers []string
	for i := start; i < len(tokens); {
		t0 := foldToken(tokens[i])
		t1, t2 := "", ""
		if i+1 < len(tokens) {
			t1 = foldToken(tokens[i+1])
		}
		if i+2 < len(tokens) {
			t2 = foldToken(tokens[i+2])
		}

		switch {
		case t0 == "code" && t1 == "de" && (strings.HasPrefix(t2, "degat") || strings.HasPrefix(t2, "protection")):
			headers = append(headers, ColumnDamageCode)
			i += 3
		case t0 == "p" && strings.HasPrefix(t1, "moy"):
			headers = append(headers, ColumnRangeAvg)
			i += 2
		case t0 == "p" && strings.HasPrefix(t1, "max"):
			headers = append(headers, ColumnRangeMax)
			i += 2
		case t0 == "mod" && strings.HasPrefix(t1, "rap"):
			headers = append(headers, ColumnSpeedMod)
			i += 2
		case strings.HasPrefix(t0, "p.moy") || t0 == "pmoy":
			headers = append(headers, ColumnRangeAvg)
			i++
		case strings.HasPrefix(t0, "p.max") || t0 == "pmax":
			headers = append(headers, ColumnRangeMax)
			i++
		case t0 == "":
			i++
		default:
			headers = append(headers, canonicalColumn(t0))
			i++
		}
	}
	return headers
}

func canonicalColumn(t string) string {
	switch {
	case strings.HasPrefix(t, ColumnAmmunition):
		return ColumnAmmunition
	case strings.HasPrefix(t, ColumnCost):
		return ColumnCost
	default:
		return t
	}
}

func isNumeric(t string) bool {
	return numericTokenRegex.MatchString(t)
}

// countFromFirstNumeric counts the tokens from the first purely numeric one
// onward. An empty-cell placeholder counts as a numeric cell.
func countFromFirstNumeric(tokens []string) int {
	for i, t := range tokens {
		if isNumeric(t) || emptyCellTokens[t] {
			return len(tokens) - i
		}
	}
	return 0
}

// RegroupRows joins physical lines into logical rows. A buffer is sealed once
// its tokens, counted from the first numeric token, reach expected. Whatever
// is left at the end of the table is sealed as a best-effort row.
func RegroupRows(lines []string, expected int) []string {
	var rows []string
	buf := ""
	glue := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		hyphenated := wordHyphenRegex.MatchString(line)
		if hyphenated {
			line = strings.TrimSuffix(line, "-")
		}

		switch {
		case buf == "":
			buf = line
		case glue:
			buf += line
		default:
			buf += " " + line
		}
		glue = hyphenated

		if !hyphenated && countFromFirstNumeric(strings.Fields(buf)) >= expected {
			rows = append(rows, buf)
			buf = ""
		}
	}

	if strings.TrimSpace(buf) != "" {
		rows = append(rows, buf)
	}
	return rows
}

// cleanupRow fixes the spacing artifacts left by the PDF text extraction
func cleanupRow(line string) []string {
	line = resistanceRegex.ReplaceAllString(line, "Rés.$1")
	line = diceSpacingRegex.ReplaceAllString(line, "${1}d$2")
	line = diceLeadSpacingRegex.ReplaceAllString(line, "${1}d$2")

	raw := strings.Fields(line)
	tokens := make([]string, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		t := raw[i]
		if emptyCellTokens[t] {
			tokens = append(tokens, "0")
			continue
		}
		// "- 1" -> "-1", except for the sign of a dice expression "1d8 + 2"
		if (t == "+" || t == "-") && i+1 < len(raw) && isNumeric(raw[i+1]) {
			prevDice := len(tokens) > 0 && diceTokenRegex.MatchString(tokens[len(tokens)-1])
			if !prevDice {
				tokens = append(tokens, t+raw[i+1])
				i++
				continue
			}
		}
		tokens = append(tokens, t)
	}
	return mergeFragments(tokens)
}

// mergeFragments glues a stray single letter to the short word fragment that
// follows it ("L ance" -> "Lance") and restores the apostrophe of a lowercase
// elided article ("d armes" -> "d'armes").
func mergeFragments(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if i+1 < len(tokens) {
			next := tokens[i+1]
			switch {
			case elidedLetters[t] && startsVowel(next):
				out = append(out, t+"'"+next)
				i++
				continue
			case isStrayLetter(t) && !elidedLetters[t] && startsLower(next) &&
				utf8.RuneCountInString(next) <= maxFragmentLen:
				out = append(out, t+next)
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func startsVowel(t string) bool {
	r, _ := utf8.DecodeRuneInString(StripAccents(t))
	return strings.ContainsRune("aeiouyh", r)
}

func isStrayLetter(t string) bool {
	if utf8.RuneCountInString(t) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t)
	return unicode.IsLetter(r) && !standaloneLetters[strings.ToLower(t)]
}

func startsLower(t string) bool {
	r, _ := utf8.DecodeRuneInString(t)
	if !unicode.IsLower(r) {
		return false
	}
	for _, c := range t {
		if !unicode.IsLetter(c) {
			return false
		}
	}
	return true
}

// ParseRow splits a logical row into its name and column values using the
// header order. The layout is a best-effort heuristic:
//   - name: every token before the first numeric token
//   - enc, cd (one token or "<dice> + <n>"), dur in that order
//   - the last remaining token is the cost
//   - the one before it is ammunition when it looks like "6(2)/12", or when
//     the header has an ammunition column and at least three tokens remain
//   - what is left fills the middle columns (ranges, speed modifier)
func ParseRow(line string, headers []string) *TableRow {
	tokens := cleanupRow(line)

	first := len(tokens)
	for i, t := range tokens {
		if isNumeric(t) {
			first = i
			break
		}
	}

	name := strings.Join(tokens[:first], " ")
	row := &TableRow{
		Name:           name,
		NormalizedName: NormalizeName(name),
		Values:         make(map[string]string, len(headers)),
	}
	for _, h := range headers {
		row.Values[h] = ""
	}

	rest := tokens[first:]
	col := 0

	// leading fixed columns
fixed:
	for col < len(headers) && len(rest) > 0 {
		switch headers[col] {
		case ColumnEncumbrance, ColumnDurability:
			row.Values[headers[col]] = rest[0]
			rest = rest[1:]
		case ColumnDamageCode:
			var code string
			code, rest = takeDamageCode(rest)
			row.Values[ColumnDamageCode] = code
		default:
			break fixed
		}
		col++
	}

	tailCols := headers[col:]
	if len(rest) == 0 || len(tailCols) == 0 {
		return row
	}

	hasCost := containsColumn(tailCols, ColumnCost)
	hasAmmo := containsColumn(tailCols, ColumnAmmunition)

	if hasCost {
		row.Values[ColumnCost] = rest[len(rest)-1]
		if (hasAmmo && len(rest) >= 3) || (len(rest) >= 2 && ammunitionRegex.MatchString(rest[len(rest)-2])) {
			row.Values[ColumnAmmunition] = rest[len(rest)-2]
			rest = rest[:len(rest)-2]
		} else {
			rest = rest[:len(rest)-1]
		}
	} else if hasAmmo && len(rest) >= 1 && ammunitionRegex.MatchString(rest[len(rest)-1]) {
		row.Values[ColumnAmmunition] = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}

	var middle []string
	for _, c := range tailCols {
		if c != ColumnCost && c != ColumnAmmunition {
			middle = append(middle, c)
		}
	}
	assignMiddle(row, middle, rest)

	return row
}

// takeDamageCode consumes either a single token or "<dice> + <n>"
func takeDamageCode(tokens []string) (string, []string) {
	if len(tokens) == 0 {
		return "", tokens
	}
	if diceTokenRegex.MatchString(tokens[0]) {
		if len(tokens) >= 3 && (tokens[1] == "+" || tokens[1] == "-") && isNumeric(tokens[2]) {
			return tokens[0] + " " + tokens[1] + " " + tokens[2], tokens[3:]
		}
		if len(tokens) >= 2 && signedTokenRegex.MatchString(tokens[1]) {
			return tokens[0] + " " + tokens[1][:1] + " " + tokens[1][1:], tokens[2:]
		}
	}
	return tokens[0], tokens[1:]
}

func containsColumn(cols []string, col string) bool {
	for _, c := range cols {
		if c == col {
			return true
		}
	}
	return false
}

// assignMiddle distributes the leftover tokens over the middle columns
func assignMiddle(row *TableRow, cols, tokens []string) {
	switch {
	case len(cols) == 0 || len(tokens) == 0:
		return
	case len(cols) == 1:
		row.Values[cols[0]] = strings.Join(tokens, " ")
	case len(cols) == 2:
		a, b := splitRanges(tokens)
		row.Values[cols[0]] = a
		row.Values[cols[1]] = b
	default:
		for i, c := range cols {
			if i >= len(tokens) {
				break
			}
			if i == len(cols)-1 {
				row.Values[c] = strings.Join(tokens[i:], " ")
				break
			}
			row.Values[c] = tokens[i]
		}
	}
}

// splitRanges splits range tokens into average and maximum range
func splitRanges(tokens []string) (string, string) {
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	case 2:
		return tokens[0], tokens[1]
	}

	groups := groupMultipliers(tokens)
	switch len(groups) {
	case 1:
		return groups[0], ""
	case 2:
		return groups[0], groups[1]
	}

	mid := (len(groups) + 1) / 2
	return strings.Join(groups[:mid], " "), strings.Join(groups[mid:], " ")
}

// groupMultipliers keeps "30 x 2" or "30 x2" together as one value
func groupMultipliers(tokens []string) []string {
	var groups []string
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if multiplierRegex.MatchString(t) && len(groups) > 0 {
			g := groups[len(groups)-1] + " " + t
			if strings.EqualFold(t, "x") || t == "×" {
				if i+1 < len(tokens) {
					g += " " + tokens[i+1]
					i++
				}
			}
			groups[len(groups)-1] = g
			continue
		}
		groups = append(groups, t)
	}
	return groups
}

// MatchRows pairs each candidate with at most one row of equal normalized
// name. Unmatched rows are dropped; unmatched candidates are left untouched.
func MatchRows(candidates []*Candidate, rows []*TableRow) int {
	index := make(map[string]*TableRow, len(rows))
	for _, r := range rows {
		if r.NormalizedName == "" {
			continue
		}
		if _, exists := index[r.NormalizedName]; !exists {
			index[r.NormalizedName] = r
		}
	}

	matched := 0
	for _, c := range candidates {
		if row, ok := index[NormalizeName(c.Name)]; ok {
			c.Merge(row)
			matched++
		}
	}
	return matched
}
