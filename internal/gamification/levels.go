package gamification

// XPPerLevel is the flat XP threshold between levels.
const XPPerLevel = 500

var levelTitles = []string{
	"Novato",
	"Aprendiz",
	"Estudante",
	"Estudante Dedicado",
	"Conhecedor",
	"Especialista",
	"Veterano",
	"Mestre",
	"Grão-Mestre",
	"Lenda do Edital",
}

// CalculateLevel maps cumulative XP to a level. Levels have no upper bound.
func CalculateLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// LevelTitle returns the display title for a level. Levels beyond the title
// list keep the last title.
func LevelTitle(level int) string {
	idx := level - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(levelTitles) {
		idx = len(levelTitles) - 1
	}
	return levelTitles[idx]
}
