package gamification

import "time"

// SRSIntervals is the review interval ladder in days, indexed by stage.
var SRSIntervals = []int{1, 3, 7, 14, 30, 60, 120, 180, 365}

// SRSPolicy selects how a wrong answer moves an item down the ladder. Both
// policies promote one stage on success.
type SRSPolicy int

const (
	// FlashcardPolicy steps down one stage on a bad outcome.
	FlashcardPolicy SRSPolicy = iota
	// ReviewPolicy halves the stage toward zero on a wrong answer — a harsher
	// reset used by review sessions.
	ReviewPolicy
)

// AdvanceStage returns the next stage for an item after an attempt.
func AdvanceStage(stage int, wasCorrect bool, policy SRSPolicy) int {
	stage = clampStage(stage)
	if wasCorrect {
		return clampStage(stage + 1)
	}
	switch policy {
	case ReviewPolicy:
		return clampStage(stage / 2)
	default:
		return clampStage(stage - 1)
	}
}

// NextReviewDate returns the ISO day the item becomes due again: now plus the
// stage's interval, in the reference timezone.
func NextReviewDate(stage int, now time.Time) string {
	days := SRSIntervals[clampStage(stage)]
	return DayKey(now.In(ReferenceZone).AddDate(0, 0, days))
}

func clampStage(stage int) int {
	if stage < 0 {
		return 0
	}
	if stage >= len(SRSIntervals) {
		return len(SRSIntervals) - 1
	}
	return stage
}
