package rulebook

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
)

var (
	// "• Épée longue (2M)"
	bulletRegex = regexp.MustCompile(`^•\s*(.+)$`)
	// "(1M)" / "(2M)" handedness marker
	handsRegex = regexp.MustCompile(`(?i)\s*\(\s*([12])\s*M\s*\)\s*`)
)

// scanState is the position of the equipment scanner within a category
type scanState int

const (
	stateBody scanState = iota
	stateHeader
	stateTable
)

// equipmentKind carries what differs between the weapon and armor scanners
type equipmentKind struct {
	recordType content.RecordType
	section    Section
	categories allowList
	collection func(category string) content.Collection
	// weapons name lines may carry a handedness marker
	hands bool
	// weapon headers may be a single line ending in "coût"
	singleLineHeader bool
}

var (
	weaponKind = equipmentKind{
		recordType:       content.RecordTypeWeapon,
		section:          WeaponsSection,
		categories:       weaponAllowList,
		collection:       WeaponsCollection,
		hands:            true,
		singleLineHeader: true,
	}
	armorKind = equipmentKind{
		recordType: content.RecordTypeArmor,
		section:    ArmorSection,
		categories: armorAllowList,
		collection: ArmorCollection,
	}
)

// ExtractWeapons scans the "Armes" section and its statistics tables
func (e *Extractor) ExtractWeapons(ctx context.Context, text string, sink Sink) (*Result, error) {
	return e.extractEquipment(ctx, weaponKind, text, sink)
}

// ExtractArmor scans the "Armures" section and its statistics tables
func (e *Extractor) ExtractArmor(ctx context.Context, text string, sink Sink) (*Result, error) {
	return e.extractEquipment(ctx, armorKind, text, sink)
}

// equipmentScanner walks one equipment section. Items are bullet lines
// followed by narrative text; each category ends with a statistics table
// whose rows are cross-matched with the items before the category is flushed.
type equipmentScanner struct {
	kind  equipmentKind
	acc   *accumulator
	state scanState

	category   string
	headerBuf  []string
	headers    []string
	tableLines []string
}

func (e *Extractor) extractEquipment(ctx context.Context, kind equipmentKind, text string, sink Sink) (*Result, error) {
	section, ok := kind.section.Extract(text)
	if !ok {
		return missing(kind.recordType), nil
	}

	s := &equipmentScanner{
		kind: kind,
		acc:  e.newAccumulator(kind.recordType, sink),
	}
	s.acc.collection = kind.collection("")

	lines := SplitLines(section)
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if name, ok := kind.categories.match(line); ok {
			if err := s.closeCategory(ctx); err != nil {
				return s.acc.result, err
			}
			s.category = name
			s.acc.collection = kind.collection(name)
			continue
		}

		switch s.state {
		case stateHeader:
			s.headerBuf = append(s.headerBuf, line)
			if IsHeaderEnd(line) {
				s.endHeader()
			}

		case stateTable:
			if isItemLine(line) {
				s.state = stateBody
				i = s.openItem(lines, i)
				continue
			}
			if line != "" {
				s.tableLines = append(s.tableLines, line)
			}

		default:
			switch {
			case isItemLine(line):
				i = s.openItem(lines, i)
			case s.isHeaderStart(line):
				s.headerBuf = []string{line}
				s.state = stateHeader
				if IsHeaderEnd(line) {
					s.endHeader()
				}
			case s.acc.current != nil:
				s.acc.current.consume(line)
			}
		}
	}

	if err := s.closeCategory(ctx); err != nil {
		return s.acc.result, err
	}
	return s.acc.result, nil
}

// isItemLine reports a bullet that names an item, as opposed to a
// "• Label : value" spec line
func isItemLine(line string) bool {
	return bulletRegex.MatchString(line) && !bulletFieldRegex.MatchString(line)
}

func (s *equipmentScanner) isHeaderStart(line string) bool {
	if IsHeaderAnchor(line) {
		return true
	}
	return s.kind.singleLineHeader && IsHeaderEnd(line)
}

func (s *equipmentScanner) endHeader() {
	s.headers = ParseHeader(strings.Join(s.headerBuf, " "))
	s.headerBuf = nil
	s.state = stateTable
}

// openItem starts a candidate from the bullet at lines[i] and returns the
// index of the last line it consumed
func (s *equipmentScanner) openItem(lines []string, i int) int {
	name := CleanInline(bulletRegex.FindStringSubmatch(lines[i])[1])
	c := NewCandidate(name, s.category)

	if s.kind.hands {
		hands, rest, marked := splitHands(name)
		next := lineAt(lines, i+1)
		if !marked && next != "" && !isItemLine(next) && handsRegex.MatchString(next) {
			// wrapped name, the marker sits on the following line
			hands, rest, marked = splitHands(name + " " + next)
			i++
		}
		if marked {
			c.Name = rest.name
			c.Hands = hands
			if rest.tail != "" {
				c.consume(rest.tail)
			}
		}
	}

	s.acc.open(c)
	return i
}

type namedTail struct {
	name string
	tail string
}

// splitHands cuts a name line at its handedness marker
func splitHands(line string) (int, namedTail, bool) {
	loc := handsRegex.FindStringSubmatchIndex(line)
	if loc == nil {
		return 0, namedTail{name: line}, false
	}
	hands, err := strconv.Atoi(line[loc[2]:loc[3]])
	if err != nil {
		return 0, namedTail{name: line}, false
	}
	return hands, namedTail{
		name: CleanInline(line[:loc[0]]),
		tail: CleanInline(line[loc[1]:]),
	}, true
}

// closeCategory parses the category's table, merges the matching rows into
// its items and flushes them
func (s *equipmentScanner) closeCategory(ctx context.Context) error {
	s.acc.seal()

	if len(s.headerBuf) > 0 {
		// header never closed, keep what was read
		s.endHeader()
	}
	if len(s.tableLines) > 0 && len(s.headers) > 0 {
		var rows []*TableRow
		for _, line := range RegroupRows(s.tableLines, len(s.headers)) {
			rows = append(rows, ParseRow(line, s.headers))
		}
		s.acc.result.Matched += MatchRows(s.acc.sealed, rows)
	}
	s.tableLines = nil
	s.state = stateBody

	return s.acc.flush(ctx)
}
