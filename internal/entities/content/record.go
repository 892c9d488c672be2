// Package content defines the records produced by the rulebook importer and
// persisted by the content store.
package content

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// RecordType identifies the kind of game content a record holds
type RecordType string

// Record types
const (
	RecordTypeTrait  RecordType = "trait"
	RecordTypeSkill  RecordType = "skill"
	RecordTypeSpell  RecordType = "spell"
	RecordTypeWeapon RecordType = "weapon"
	RecordTypeArmor  RecordType = "armor"
)

// RecordTypes lists every record type in import order
var RecordTypes = []RecordType{
	RecordTypeTrait,
	RecordTypeSkill,
	RecordTypeSpell,
	RecordTypeWeapon,
	RecordTypeArmor,
}

// String returns the string representation of the record type
func (t RecordType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known record types
func (t RecordType) Valid() bool {
	for _, known := range RecordTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Record is a fully formatted content item ready for the store.
// Records are immutable once formatted.
type Record struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Type      RecordType `json:"type"`
	Img       string     `json:"img"`
	System    System     `json:"system"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
}

// System carries the type-specific payload of a record
type System struct {
	// Description is the rendered rich-text HTML block
	Description string `json:"description"`

	// Skill and spell fields
	*Triangle
	SkillLevel int    `json:"skillLevel,omitempty"`
	SpellLevel int    `json:"spellLevel,omitempty"`
	Formula    string `json:"formula,omitempty"`

	// Weapon and armor fields
	PowerLevel     int     `json:"powerLevel,omitempty"`
	Weight         float64 `json:"weight,omitempty"`
	Hands          int     `json:"hands,omitempty"`
	DamageCode     string  `json:"damageCode,omitempty"`
	ProtectionCode string  `json:"protectionCode,omitempty"`
}

// Triangle is the fortune/adversity toggle consumed by the host dice roller
type Triangle struct {
	BFortune   bool   `json:"bfortune"`
	NFortune   int    `json:"nfortune"`
	CFortune   string `json:"cfortune"`
	BAdversite bool   `json:"badversite"`
	NAdversite int    `json:"nadversite"`
	CAdversite string `json:"cadversite"`
}

// Triangle display values
const (
	TriangleChecked   = "checked"
	TriangleUnchecked = "unchecked"
)

// NewTriangle returns the unset fortune/adversity triangle
func NewTriangle() *Triangle {
	return &Triangle{
		CFortune:   TriangleUnchecked,
		CAdversite: TriangleUnchecked,
	}
}

// GetID returns the record's store ID
func (r *Record) GetID() string {
	return r.ID
}

// GetType returns the entity type for rpg-toolkit
func (r *Record) GetType() string {
	return string(r.Type)
}

// Compile-time check that Record implements core.Entity
var _ core.Entity = (*Record)(nil)

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.System.Triangle != nil {
		tri := *r.System.Triangle
		out.System.Triangle = &tri
	}
	return &out
}

// Collection identifies a destination sub-collection in the store
type Collection struct {
	// Key is the store identifier, e.g. "capacites-combat"
	Key string `json:"key"`
	// Label is the human readable name, e.g. "Capacités-combat"
	Label string `json:"label"`
	// Folder groups related collections, e.g. "L&L - Capacités"
	Folder string `json:"folder"`
}
