package rulebook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
)

// "1d8 + 3" -> power level 3
var powerLevelRegex = regexp.MustCompile(`(?i)\d+\s*d\s*\d+\s*\+\s*(\d+)`)

// Images holds the image reference attached to each record type
type Images struct {
	Trait  string
	Skill  string
	Spell  string
	Weapon string
	Armor  string
}

// DefaultImages returns the image references shipped with the game system
func DefaultImages() Images {
	return Images{
		Trait:  "icons/svg/aura.svg",
		Skill:  "systems/fvtt-lore-legacy/assets/skills.png",
		Spell:  "systems/fvtt-lore-legacy/assets/open-book.png",
		Weapon: "icons/svg/sword.svg",
		Armor:  "icons/svg/shield.svg",
	}
}

// For returns the image reference of a record type
func (i Images) For(t content.RecordType) string {
	switch t {
	case content.RecordTypeTrait:
		return i.Trait
	case content.RecordTypeSkill:
		return i.Skill
	case content.RecordTypeSpell:
		return i.Spell
	case content.RecordTypeWeapon:
		return i.Weapon
	case content.RecordTypeArmor:
		return i.Armor
	default:
		return ""
	}
}

// Formatter turns sealed candidates into content records
type Formatter struct {
	images Images
}

// NewFormatter creates a formatter. Empty image references fall back to the defaults.
func NewFormatter(images Images) *Formatter {
	def := DefaultImages()
	if images.Trait == "" {
		images.Trait = def.Trait
	}
	if images.Skill == "" {
		images.Skill = def.Skill
	}
	if images.Spell == "" {
		images.Spell = def.Spell
	}
	if images.Weapon == "" {
		images.Weapon = def.Weapon
	}
	if images.Armor == "" {
		images.Armor = def.Armor
	}
	return &Formatter{images: images}
}

// Format builds the final record of the given type
func (f *Formatter) Format(c *Candidate, t content.RecordType) *content.Record {
	parts := splitBody(c.Body())
	if c.Difficulty != "" {
		parts.difficulty = c.Difficulty
	}

	rec := &content.Record{
		Name: c.Name,
		Type: t,
		Img:  f.images.For(t),
		System: content.System{
			Description: renderDescription(c, t, parts),
		},
	}

	switch t {
	case content.RecordTypeSkill:
		rec.System.Triangle = content.NewTriangle()
		rec.System.SkillLevel = 1
		rec.System.Formula = "@skillLevel"
	case content.RecordTypeSpell:
		rec.System.Triangle = content.NewTriangle()
		rec.System.SpellLevel = 1
		rec.System.Formula = "@spellLevel"
	case content.RecordTypeWeapon:
		rec.System.DamageCode = c.DamageCode
		rec.System.PowerLevel = PowerLevel(c.DamageCode)
		rec.System.Weight = Weight(c.Encumbrance)
		rec.System.Hands = c.Hands
	case content.RecordTypeArmor:
		rec.System.ProtectionCode = c.DamageCode
		rec.System.Weight = Weight(c.Encumbrance)
	}

	return rec
}

// PowerLevel extracts N from a "1d8 + N" damage expression, 0 when absent
func PowerLevel(damage string) int {
	m := powerLevelRegex.FindStringSubmatch(damage)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Weight parses an encumbrance cell, 0 when it is not a number
func Weight(encumbrance string) float64 {
	w, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(encumbrance), ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return w
}

// description accumulates the <p> blocks of a rendered description
type description struct {
	parts []string
}

// bold emits a bold-only line, used for headings without a label
func (d *description) bold(value string) {
	if value == "" {
		return
	}
	d.parts = append(d.parts, "<p><strong>"+EscapeHTML(value)+"</strong></p>")
}

func (d *description) field(label, value string) {
	if value == "" {
		return
	}
	d.parts = append(d.parts, fmt.Sprintf("<p><strong>%s :</strong> %s</p>", EscapeHTML(label), EscapeHTML(value)))
}

func (d *description) text(value string) {
	if value == "" {
		return
	}
	d.parts = append(d.parts, "<p>"+EscapeHTML(value)+"</p>")
}

func (d *description) html() string {
	return "<section>" + strings.Join(d.parts, "") + "</section>"
}

func renderDescription(c *Candidate, t content.RecordType, p bodyParts) string {
	d := &description{}

	d.bold(c.Category)
	switch t {
	case content.RecordTypeSkill:
		if c.Active {
			d.bold("Active")
		} else {
			d.bold("Passive")
		}
	case content.RecordTypeWeapon:
		switch c.Hands {
		case 1:
			d.bold("Une main")
		case 2:
			d.bold("Deux mains")
		}
	}

	d.field("Coût", c.Cost)
	d.field("Coût en PM", c.ResourceCost)
	d.field("Coût total en PM", c.CostTotal)
	d.field("Coût pour chaque participant en PM", c.CostPerParticipant)
	d.field("Nombre recommandé de participants", c.Participants)
	d.field("Dégâts", c.Damage)
	d.field("Cible", c.Target)
	d.field("Portée", c.Range)
	d.field("Durée", c.Duration)

	d.field("Encombrement", c.Encumbrance)
	if t == content.RecordTypeArmor {
		d.field("Code de protection", c.DamageCode)
	} else {
		d.field("Code de dégâts", c.DamageCode)
	}
	d.field("Durabilité", c.Durability)
	d.field("Portée moyenne", c.RangeAvg)
	d.field("Portée maximale", c.RangeMax)
	d.field("Munitions", c.Ammunition)
	d.field("Modificateur de rapidité", c.SpeedMod)

	d.text(p.description)
	d.field("Effet", p.effect)
	d.field("Degré de difficulté", p.difficulty)
	d.field("Exemple", p.example)
	d.field("Matériel recommandé", p.material)

	for _, extra := range c.Extras {
		d.field(extra.Label, extra.Value)
	}

	return d.html()
}
