package rulebook

import (
	"strings"
)

// Field is a free-form "Label : value" pair captured from a bullet line
type Field struct {
	Label string
	Value string
}

// Candidate is an in-progress content item accumulated while scanning lines.
// It is created on a boundary line, mutated by the lines that follow and
// sealed when the next boundary or the end of the section is reached.
type Candidate struct {
	Name     string
	Category string

	// Skills only
	Active bool

	// Weapons only, 0 when the name carried no handedness marker
	Hands int

	body []string

	// Stat-line fields
	Cost               string
	ResourceCost       string
	CostTotal          string
	CostPerParticipant string
	Participants       string
	Damage             string
	Target             string
	Range              string
	Duration           string
	Difficulty         string
	Extras             []Field

	// Statistics table fields
	Encumbrance string
	DamageCode  string
	Durability  string
	RangeAvg    string
	RangeMax    string
	Ammunition  string
	SpeedMod    string
}

// NewCandidate opens a candidate for the given name and category heading
func NewCandidate(name, category string) *Candidate {
	return &Candidate{
		Name:     name,
		Category: category,
	}
}

// AppendBody adds a raw line to the free-form body. The line separator is
// kept so hyphenated breaks can be repaired later.
func (c *Candidate) AppendBody(line string) {
	c.body = append(c.body, line+"\n")
}

// Body returns the accumulated free-form text
func (c *Candidate) Body() string {
	return strings.Join(c.body, "")
}

// consume routes a non-boundary line either to a typed field or to the body
func (c *Candidate) consume(line string) {
	if applyStatLine(c, line) {
		return
	}
	c.AppendBody(line)
}

// Merge copies the non-empty values of a statistics table row into the candidate
func (c *Candidate) Merge(row *TableRow) {
	if row == nil {
		return
	}
	for col, value := range row.Values {
		if value == "" {
			continue
		}
		if set, ok := columnSetters[col]; ok {
			set(c, value)
		}
	}
}

var columnSetters = map[string]func(c *Candidate, v string){
	ColumnEncumbrance: func(c *Candidate, v string) { c.Encumbrance = v },
	ColumnDamageCode:  func(c *Candidate, v string) { c.DamageCode = v },
	ColumnDurability:  func(c *Candidate, v string) { c.Durability = v },
	ColumnRangeAvg:    func(c *Candidate, v string) { c.RangeAvg = v },
	ColumnRangeMax:    func(c *Candidate, v string) { c.RangeMax = v },
	ColumnAmmunition:  func(c *Candidate, v string) { c.Ammunition = v },
	ColumnCost:        func(c *Candidate, v string) { c.Cost = v },
	ColumnSpeedMod:    func(c *Candidate, v string) { c.SpeedMod = v },
}
