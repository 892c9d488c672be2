package dice

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
)

// Roll is the outcome of one damage roll
type Roll struct {
	RollID      string
	Notation    string
	Description string
	Dice        []int32
	DiceTotal   int32
	Modifier    int32
	Total       int32
	// Source is the entity whose damage code was rolled, nil for a free-form notation
	Source core.Entity
}

// SourceRef returns the id and type of the rolled entity, empty for a free-form roll
func (r *Roll) SourceRef() (id, entityType string) {
	if r == nil || r.Source == nil {
		return "", ""
	}
	return r.Source.GetID(), r.Source.GetType()
}

// RollInput defines the request for rolling a damage code
type RollInput struct {
	Notation string
}

// RollOutput defines the response for rolling a damage code
type RollOutput struct {
	Roll *Roll
}

// RollDamageInput defines the request for rolling a stored weapon's damage
type RollDamageInput struct {
	CollectionKey string
	Name          string
}

// RollDamageOutput defines the response for rolling a weapon's damage
type RollDamageOutput struct {
	Roll   *Roll
	Weapon *content.Record
}
