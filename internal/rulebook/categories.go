package rulebook

import (
	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
)

// Compendium folders the collections are grouped under
const (
	FolderMisc    = "L&L - Divers"
	FolderSkills  = "L&L - Capacités"
	FolderSpells  = "L&L - Sortilèges"
	FolderWeapons = "L&L - Armes"
	FolderArmor   = "L&L - Armures"
)

// WeaponCategories are the weapon family headings recognized in the Armes section.
// Any other heading-looking line is item text.
var WeaponCategories = []string{
	"Dagues",
	"Épées",
	"Haches",
	"Masses",
	"Lances",
	"Armes d'hast",
	"Arcs",
	"Arbalètes",
	"Armes de jet",
	"Armes à feu",
	"Armes improvisées",
	"Bâtons",
}

// ArmorCategories are the armor headings recognized in the Armures section
var ArmorCategories = []string{
	"Armures légères",
	"Armures intermédiaires",
	"Armures lourdes",
	"Boucliers",
	"Casques",
}

// allowList matches a line against a closed set of headings by normalized name
type allowList map[string]string

func newAllowList(names []string) allowList {
	l := make(allowList, len(names))
	for _, n := range names {
		l[NormalizeName(n)] = n
	}
	return l
}

// match returns the canonical heading for line
func (l allowList) match(line string) (string, bool) {
	name, ok := l[NormalizeName(line)]
	return name, ok
}

var (
	weaponAllowList = newAllowList(WeaponCategories)
	armorAllowList  = newAllowList(ArmorCategories)
)

// TraitsCollection is the single collection holding every trait
func TraitsCollection() content.Collection {
	return content.Collection{
		Key:    "traits",
		Label:  "Traits",
		Folder: FolderMisc,
	}
}

// SkillsCollection is the collection of one "Capacités liées au ..." category
func SkillsCollection(category string) content.Collection {
	return content.Collection{
		Key:    collectionKey("capacites", category),
		Label:  "Capacités-" + CleanInline(category),
		Folder: FolderSkills,
	}
}

// SpellsCollection is the collection of one school of magic
func SpellsCollection(school string) content.Collection {
	return content.Collection{
		Key:    collectionKey("sorts", school),
		Label:  "Sortilèges-" + CleanInline(school),
		Folder: FolderSpells,
	}
}

// WeaponsCollection is the collection of one weapon family
func WeaponsCollection(category string) content.Collection {
	return content.Collection{
		Key:    collectionKey("armes", category),
		Label:  "Armes-" + CleanInline(category),
		Folder: FolderWeapons,
	}
}

// ArmorCollection is the collection of one armor heading
func ArmorCollection(category string) content.Collection {
	return content.Collection{
		Key:    collectionKey("armures", category),
		Label:  "Armures-" + CleanInline(category),
		Folder: FolderArmor,
	}
}

// collectionKey joins prefix and the category slug, prefix alone when the
// category is unknown
func collectionKey(prefix, category string) string {
	slug := Slugify(category)
	if slug == "" {
		return prefix
	}
	return prefix + "-" + slug
}
