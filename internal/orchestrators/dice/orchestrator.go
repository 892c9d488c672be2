// Package dice rolls the damage codes of stored weapons
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/KirkDiggler/lorelegacy/internal/orchestrators/dice Service

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/idgen"
	contentrepo "github.com/KirkDiggler/lorelegacy/internal/repositories/content"
)

var (
	// Damage codes as printed in the weapon tables: "1d8", "1d10 + 2", "2d6-1"
	notationRegex = regexp.MustCompile(`(?i)^(\d+)\s*d\s*(\d+)(?:\s*([+-])\s*(\d+))?$`)
)

// Service defines the interface for dice operations
type Service interface {
	// Roll rolls a free-form damage code
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)

	// RollDamage rolls the damage code of a stored weapon
	RollDamage(ctx context.Context, input *RollDamageInput) (*RollDamageOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	Repository  contentrepo.Repository
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	repo  contentrepo.Repository
	idGen idgen.Generator
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		repo:  cfg.Repository,
		idGen: cfg.IDGenerator,
	}, nil
}

// Notation is a parsed damage code
type Notation struct {
	Count    int
	Size     int
	Modifier int
}

// ParseNotation parses a damage code like "1d10 + 2"
func ParseNotation(code string) (Notation, error) {
	matches := notationRegex.FindStringSubmatch(strings.TrimSpace(code))
	if matches == nil {
		return Notation{}, errors.InvalidArgumentf("invalid damage code: %q (expected format: XdY + Z)", code)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return Notation{}, errors.InvalidArgumentf("invalid dice count in damage code: %q", code)
	}
	size, err := strconv.Atoi(matches[2])
	if err != nil {
		return Notation{}, errors.InvalidArgumentf("invalid die size in damage code: %q", code)
	}
	if count <= 0 || size <= 0 {
		return Notation{}, errors.InvalidArgumentf("dice count and size must be positive: %q", code)
	}

	n := Notation{Count: count, Size: size}
	if matches[4] != "" {
		n.Modifier, err = strconv.Atoi(matches[4])
		if err != nil {
			return Notation{}, errors.InvalidArgumentf("invalid modifier in damage code: %q", code)
		}
		if matches[3] == "-" {
			n.Modifier = -n.Modifier
		}
	}

	return n, nil
}

// rollWithToolkit rolls count dice of the given size and returns each die and the sum
func rollWithToolkit(count, size int) ([]int32, int32, error) {
	roll, err := dice.NewRoll(count, size)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to create dice roll")
	}

	total := roll.GetValue()

	// Description format: "+2d6[3,4]=7"; the toolkit does not expose the dice
	var individual []int32
	description := roll.GetDescription()
	start := strings.Index(description, "[")
	end := strings.Index(description, "]")
	if start >= 0 && end > start {
		for _, ds := range strings.Split(description[start+1:end], ",") {
			if d, err := strconv.Atoi(strings.TrimSpace(ds)); err == nil {
				individual = append(individual, int32(d))
			}
		}
	}

	return individual, int32(total), nil
}

func (o *orchestrator) roll(notation string) (*Roll, error) {
	n, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}

	individual, diceTotal, err := rollWithToolkit(n.Count, n.Size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll dice")
	}

	return &Roll{
		RollID:    o.idGen.Generate(),
		Notation:  notation,
		Dice:      individual,
		DiceTotal: diceTotal,
		Modifier:  int32(n.Modifier),
		Total:     diceTotal + int32(n.Modifier),
	}, nil
}

// Roll rolls a free-form damage code
func (o *orchestrator) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil || input.Notation == "" {
		return nil, errors.InvalidArgument("damage code is required")
	}

	roll, err := o.roll(input.Notation)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Dice rolled",
		"notation", roll.Notation,
		"total", roll.Total,
		"roll_id", roll.RollID,
	)

	return &RollOutput{Roll: roll}, nil
}

// RollDamage loads a weapon and rolls its damage code
func (o *orchestrator) RollDamage(ctx context.Context, input *RollDamageInput) (*RollDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CollectionKey == "" {
		return nil, errors.InvalidArgument("collection key is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("weapon name is required")
	}

	out, err := o.repo.Get(ctx, &contentrepo.GetInput{
		CollectionKey: input.CollectionKey,
		Name:          input.Name,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get weapon")
	}

	weapon := out.Record
	if weapon.Type != content.RecordTypeWeapon {
		return nil, errors.InvalidArgumentf("%s is a %s, not a weapon", weapon.Name, weapon.Type)
	}
	if weapon.System.DamageCode == "" {
		return nil, errors.FailedPreconditionf("weapon %s has no damage code", weapon.Name)
	}

	roll, err := o.roll(weapon.System.DamageCode)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll damage of %s", weapon.Name)
	}
	roll.Description = weapon.Name
	roll.Source = weapon

	sourceID, sourceType := roll.SourceRef()
	slog.InfoContext(ctx, "Weapon damage rolled",
		"collection", input.CollectionKey,
		"weapon", weapon.Name,
		"entity_id", sourceID,
		"entity_type", sourceType,
		"notation", roll.Notation,
		"total", roll.Total,
	)

	return &RollDamageOutput{
		Roll:   roll,
		Weapon: weapon,
	}, nil
}
