package testutils

// RulebookText is a condensed paste of the rulebook covering every section
// the importer reads, page numbers included.
const RulebookText = `Lore & Legacy
Livre de règles
VI. Traits
Don de Sang
Coût : 3
Le sang du héros
est puissant.
Effet : inflige un dégât.
Peau de Pierre
Coût : 2
La peau durcit.
42
VII. Capacités
Capacités liées au Corps
Escalade (P)
Grimper aux murs.
Course (A)
Coût : 1
Courir vite.
Capacités liées à la Magie
Concentration (P)
Méditer.
VIII. Magie
Sortilèges de Magie Rituelle
Cercle de Protection
Nombre recommandé de participants : 3
Coût en PM par participant : 2
Un cercle protège.
43
IX. Combat
Armes
Épées
• Épée longue (2M)
Une lame longue.
• Épée bâtarde
Lourde.
Nom Enc. Code de dégâts Dur. P. moy. P. max. Mun. Coût
Épée longue 2 1d8 10 -- -- -- 15
Épée bâtarde 3 1d10 +
2 12 -- -- -- 30
Armures
Boucliers
• Rondache
Un petit bouclier.
Nom Enc. Code de protection Dur. Mod. rap. Coût
Rondache 2 1 10 - 1 15
Arcanotech
`

// Expected counts for RulebookText
const (
	RulebookTraits  = 2
	RulebookSkills  = 3
	RulebookSpells  = 1
	RulebookWeapons = 2
	RulebookArmor   = 1
)
