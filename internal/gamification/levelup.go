package gamification

import "github.com/estudai/backend/internal/models"

// CheckLevelUp compares the level before and after an operation and returns
// the level-up event, or nil. Callers batch the comparison around the whole
// operation so multiple grants in one activity fire at most one event.
func CheckLevelUp(oldXP, newXP int) *models.LevelUp {
	before := CalculateLevel(oldXP)
	after := CalculateLevel(newXP)
	if after <= before {
		return nil
	}
	return &models.LevelUp{NewLevel: after, Title: LevelTitle(after)}
}
