package gamification

import (
	"fmt"
	"testing"
	"time"

	"github.com/estudai/backend/internal/models"
)

func testNow() time.Time {
	return time.Date(2026, 8, 31, 12, 0, 0, 0, ReferenceZone)
}

func makeAttempts(correct, incorrect int) []models.QuestionAttempt {
	var out []models.QuestionAttempt
	for i := 0; i < correct; i++ {
		out = append(out, models.QuestionAttempt{QuestionID: fmt.Sprintf("q%d", len(out)+1), IsCorrect: true})
	}
	for i := 0; i < incorrect; i++ {
		out = append(out, models.QuestionAttempt{QuestionID: fmt.Sprintf("q%d", len(out)+1), IsCorrect: false})
	}
	return out
}

func makeItems(n int) []models.Question {
	items := make([]models.Question, n)
	for i := range items {
		items[i] = models.Question{ID: fmt.Sprintf("i%d", i+1), Text: "?", Options: []string{"a", "b"}, Answer: "a"}
	}
	return items
}

func xpRecorder() (XPSink, *int) {
	total := new(int)
	return func(amount int, _ string) { *total += amount }, total
}

// ── Quiz Completion ─────────────────────────────────────

func TestProcessQuizCompletion_EndToEnd(t *testing.T) {
	p := &models.StudentProgress{}
	sink, total := xpRecorder()

	next := ProcessQuizCompletion(p, "matematica", "fracoes", makeAttempts(9, 1), testNow(), sink)

	if *total != 140 {
		t.Errorf("XP granted = %d, want 140 (90 correct + 50 completion bonus)", *total)
	}
	tp := next.TopicProgressFor("matematica", "fracoes")
	if !tp.Completed {
		t.Error("topic not marked completed")
	}
	if tp.Score != 0.9 {
		t.Errorf("score = %f, want 0.9", tp.Score)
	}
	medals := next.EarnedTopicBadges["fracoes"]
	if len(medals) != 2 || medals[0] != TierBronze || medals[1] != TierSilver {
		t.Errorf("medals = %v, want [bronze silver]", medals)
	}
	if got := next.DailyActivity["2026-08-31"].QuestionsAnswered; got != 10 {
		t.Errorf("daily activity = %d, want 10", got)
	}
	if p.XP != 0 || next.XP != 0 {
		t.Error("mutator must not touch the XP total")
	}
}

func TestProcessQuizCompletion_BonusOnlyOnImprovement(t *testing.T) {
	p := &models.StudentProgress{}
	sink, total := xpRecorder()

	p2 := ProcessQuizCompletion(p, "s1", "t1", makeAttempts(9, 1), testNow(), sink)
	if *total != 140 {
		t.Fatalf("first completion XP = %d, want 140", *total)
	}

	// Same score again: per-question XP only, no bonus.
	*total = 0
	p3 := ProcessQuizCompletion(p2, "s1", "t1", makeAttempts(9, 1), testNow(), sink)
	if *total != 90 {
		t.Errorf("equal-score retake XP = %d, want 90", *total)
	}

	// Lower score: no bonus, and the score is overwritten downward.
	*total = 0
	p4 := ProcessQuizCompletion(p3, "s1", "t1", makeAttempts(5, 5), testNow(), sink)
	if *total != 50 {
		t.Errorf("lower-score retake XP = %d, want 50", *total)
	}
	if got := p4.TopicProgressFor("s1", "t1").Score; got != 0.5 {
		t.Errorf("stored score = %f, want 0.5 (overwritten)", got)
	}
}

func TestProcessQuizCompletion_PerfectScoreMedals(t *testing.T) {
	p := &models.StudentProgress{}
	sink, _ := xpRecorder()

	next := ProcessQuizCompletion(p, "s1", "t1-tec", makeAttempts(10, 0), testNow(), sink)

	medals := next.EarnedTopicBadges["t1-tec"]
	if len(medals) != 3 {
		t.Fatalf("medals = %v, want all three tiers", medals)
	}

	// Retake keeps the set deduplicated.
	next = ProcessQuizCompletion(next, "s1", "t1-tec", makeAttempts(10, 0), testNow(), sink)
	if got := len(next.EarnedTopicBadges["t1-tec"]); got != 3 {
		t.Errorf("medals after retake = %d entries, want 3", got)
	}
}

func TestProcessQuizCompletion_EmptyAttempts(t *testing.T) {
	p := &models.StudentProgress{}
	sink, total := xpRecorder()

	next := ProcessQuizCompletion(p, "s1", "t1", nil, testNow(), sink)
	if next != p {
		t.Error("empty attempts should return the input record unchanged")
	}
	if *total != 0 {
		t.Errorf("empty attempts granted %d XP", *total)
	}
}

func TestProcessQuizCompletion_DoesNotAliasOldRecord(t *testing.T) {
	p := &models.StudentProgress{}
	sink, _ := xpRecorder()
	next := ProcessQuizCompletion(p, "s1", "t1", makeAttempts(3, 0), testNow(), sink)

	if len(p.ProgressBySubject) != 0 {
		t.Error("old snapshot gained topic progress")
	}
	if len(p.DailyActivity) != 0 {
		t.Error("old snapshot gained daily activity")
	}
	if next == p {
		t.Error("expected a new record")
	}
}

// ── Review Completion ───────────────────────────────────

func TestProcessReviewCompletion_SRS(t *testing.T) {
	p := &models.StudentProgress{
		ReviewSessions: []models.ReviewSession{{ID: "r1", Type: "srs"}},
		SRSData:        map[string]models.SRSEntry{"q2": {Stage: 4}},
	}
	attempts := []models.QuestionAttempt{
		{QuestionID: "q1", IsCorrect: true},
		{QuestionID: "q2", IsCorrect: false},
	}
	sink, total := xpRecorder()

	next := ProcessReviewCompletion(p, "r1", attempts, testNow(), sink)

	if *total != 90 {
		t.Errorf("XP = %d, want 90 (75 session + 15 correct)", *total)
	}
	if !next.ReviewSessions[0].IsCompleted {
		t.Error("session not marked completed")
	}
	if len(next.ReviewSessions[0].Attempts) != 1 {
		t.Errorf("attempt sets = %d, want 1", len(next.ReviewSessions[0].Attempts))
	}

	// q1 promoted from the default stage 0.
	if e := next.SRSData["q1"]; e.Stage != 1 || e.NextReviewDate != "2026-09-03" {
		t.Errorf("q1 entry = %+v, want stage 1 due 2026-09-03", e)
	}
	// q2 halved from 4 to 2 under the review policy.
	if e := next.SRSData["q2"]; e.Stage != 2 || e.NextReviewDate != "2026-09-07" {
		t.Errorf("q2 entry = %+v, want stage 2 due 2026-09-07", e)
	}
	// Old snapshot untouched.
	if p.SRSData["q2"].Stage != 4 {
		t.Error("old snapshot SRS data mutated")
	}
}

func TestProcessReviewCompletion_NonSRS(t *testing.T) {
	p := &models.StudentProgress{
		ReviewSessions: []models.ReviewSession{{ID: "r1", Type: "topic"}},
	}
	sink, total := xpRecorder()

	next := ProcessReviewCompletion(p, "r1", makeAttempts(3, 2), testNow(), sink)

	if *total != 120 {
		t.Errorf("XP = %d, want 120 (75 + 3*15)", *total)
	}
	if len(next.SRSData) != 0 {
		t.Error("non-SRS review must not touch srsData")
	}
}

func TestProcessReviewCompletion_NotFound(t *testing.T) {
	p := &models.StudentProgress{}
	sink, total := xpRecorder()

	next := ProcessReviewCompletion(p, "missing", makeAttempts(1, 0), testNow(), sink)
	if next != p {
		t.Error("unknown review id should be a no-op")
	}
	if *total != 0 {
		t.Errorf("no-op granted %d XP", *total)
	}
}

// ── Flashcards ──────────────────────────────────────────

func TestProcessFlashcardReview(t *testing.T) {
	p := &models.StudentProgress{
		SRSFlashcardData: map[string]models.SRSEntry{"f1": {Stage: 3}},
	}

	next := ProcessFlashcardReview(p, "f1", false, testNow())
	if got := next.SRSFlashcardData["f1"].Stage; got != 2 {
		t.Errorf("bad outcome stage = %d, want 2 (step down, not halved)", got)
	}

	next = ProcessFlashcardReview(next, "f2", true, testNow())
	if got := next.SRSFlashcardData["f2"].Stage; got != 1 {
		t.Errorf("new card good outcome stage = %d, want 1", got)
	}
	if len(next.SRSData) != 0 {
		t.Error("flashcard review must not touch the question SRS namespace")
	}
}

// ── Game Completion ─────────────────────────────────────

func TestProcessGameCompletion(t *testing.T) {
	p := &models.StudentProgress{}
	sink, total := xpRecorder()

	next := ProcessGameCompletion(p, "fracoes", "memoria", sink)
	if *total != 25 {
		t.Errorf("XP = %d, want 25", *total)
	}
	if next.GamesCompletedCount != 1 {
		t.Errorf("games count = %d, want 1", next.GamesCompletedCount)
	}
	if got := next.EarnedGameBadges["fracoes"]; len(got) != 1 || got[0] != "memoria" {
		t.Errorf("game badges = %v, want [memoria]", got)
	}

	// Same game again: counter still increments, set stays deduplicated.
	next = ProcessGameCompletion(next, "fracoes", "memoria", sink)
	if next.GamesCompletedCount != 2 {
		t.Errorf("games count = %d, want 2", next.GamesCompletedCount)
	}
	if got := len(next.EarnedGameBadges["fracoes"]); got != 1 {
		t.Errorf("game badge set grew to %d entries", got)
	}
}

func TestProcessGameCompletion_CustomTopicExempt(t *testing.T) {
	p := &models.StudentProgress{}
	sink, _ := xpRecorder()

	next := ProcessGameCompletion(p, CustomGameTopic, "forca", sink)
	if len(next.EarnedGameBadges) != 0 {
		t.Error("custom-topic games must not record per-topic badges")
	}
	if next.GamesCompletedCount != 1 {
		t.Errorf("games count = %d, want 1 (custom still counts)", next.GamesCompletedCount)
	}
}

// ── Custom Quiz / Simulado ──────────────────────────────

func TestProcessCustomQuizCompletion(t *testing.T) {
	p := &models.StudentProgress{
		CustomQuizzes: []models.CustomQuiz{{ID: "cq1", Name: "Meu quiz"}},
	}
	sink, total := xpRecorder()

	next := ProcessCustomQuizCompletion(p, "cq1", makeAttempts(4, 1), testNow(), sink)

	if *total != 40 {
		t.Errorf("XP = %d, want 40", *total)
	}
	if !next.CustomQuizzes[0].IsCompleted {
		t.Error("quiz not marked completed")
	}
	if got := next.DailyActivity["2026-08-31"].QuestionsAnswered; got != 5 {
		t.Errorf("daily activity = %d, want 5", got)
	}

	if ProcessCustomQuizCompletion(p, "nope", makeAttempts(1, 0), testNow(), sink) != p {
		t.Error("unknown quiz id should be a no-op")
	}
}

func TestProcessSimuladoCompletion(t *testing.T) {
	p := &models.StudentProgress{
		Simulados: []models.Simulado{{ID: "sim1", Name: "Simulado 1"}},
	}
	sink, total := xpRecorder()

	next := ProcessSimuladoCompletion(p, "sim1", makeAttempts(7, 3), testNow(), sink)

	if *total != 70 {
		t.Errorf("XP = %d, want 70", *total)
	}
	if !next.Simulados[0].IsCompleted {
		t.Error("simulado not marked completed")
	}
	if len(next.Simulados[0].Attempts) != 1 {
		t.Errorf("attempt sets = %d, want 1", len(next.Simulados[0].Attempts))
	}
	if got := next.DailyActivity["2026-08-31"].QuestionsAnswered; got != 10 {
		t.Errorf("daily activity = %d, want 10", got)
	}

	if ProcessSimuladoCompletion(p, "nope", nil, testNow(), sink) != p {
		t.Error("unknown simulado id should be a no-op")
	}
}

// ── Daily Challenges ────────────────────────────────────

func challengeProgress(streak models.ChallengeStreak) *models.StudentProgress {
	return &models.StudentProgress{
		ReviewChallenge:      &models.DailyChallenge{Date: "2026-08-31", Items: makeItems(5)},
		DailyChallengeStreak: streak,
	}
}

func TestProcessChallengeCompletion_StreakContinues(t *testing.T) {
	p := challengeProgress(models.ChallengeStreak{Current: 2, Longest: 2, LastCompletedDate: "2026-08-30"})
	sink, total := xpRecorder()

	next := ProcessChallengeCompletion(p, ChallengeReview, makeAttempts(4, 1), false, testNow(), sink)

	if *total != 100 {
		t.Errorf("XP = %d, want 100 (50 completion + 50 streak-3 bonus)", *total)
	}
	streak := next.DailyChallengeStreak
	if streak.Current != 3 || streak.Longest != 3 || streak.LastCompletedDate != "2026-08-31" {
		t.Errorf("streak = %+v, want current 3, longest 3, last 2026-08-31", streak)
	}
	if !next.DailyChallengeCompletions["2026-08-31"][ChallengeReview] {
		t.Error("completion ledger not written")
	}
	if !next.ReviewChallenge.IsCompleted || next.ReviewChallenge.AttemptsMade != 1 {
		t.Error("challenge not marked completed")
	}
}

func TestProcessChallengeCompletion_GapResets(t *testing.T) {
	p := challengeProgress(models.ChallengeStreak{Current: 5, Longest: 5, LastCompletedDate: "2026-08-29"})
	sink, total := xpRecorder()

	next := ProcessChallengeCompletion(p, ChallengeReview, makeAttempts(4, 1), false, testNow(), sink)

	if *total != 50 {
		t.Errorf("XP = %d, want 50 (no streak bonus after reset)", *total)
	}
	streak := next.DailyChallengeStreak
	if streak.Current != 1 || streak.Longest != 5 {
		t.Errorf("streak = %+v, want current 1, longest 5", streak)
	}
}

func TestProcessChallengeCompletion_SameDayUnchanged(t *testing.T) {
	p := challengeProgress(models.ChallengeStreak{Current: 2, Longest: 4, LastCompletedDate: "2026-08-31"})
	sink, _ := xpRecorder()

	next := ProcessChallengeCompletion(p, ChallengeReview, makeAttempts(5, 0), false, testNow(), sink)

	if got := next.DailyChallengeStreak.Current; got != 2 {
		t.Errorf("current = %d, want 2 (already counted today)", got)
	}
}

func TestProcessChallengeCompletion_CatchUp(t *testing.T) {
	p := challengeProgress(models.ChallengeStreak{Current: 2, Longest: 2, LastCompletedDate: "2026-08-28"})
	sink, total := xpRecorder()

	next := ProcessChallengeCompletion(p, ChallengeReview, makeAttempts(4, 1), true, testNow(), sink)

	if *total != 25 {
		t.Errorf("catch-up XP = %d, want 25", *total)
	}
	if next.DailyChallengeStreak != p.DailyChallengeStreak {
		t.Errorf("catch-up changed the streak: %+v", next.DailyChallengeStreak)
	}
	if !next.DailyChallengeCompletions["2026-08-31"][ChallengeReview] {
		t.Error("catch-up completion not recorded in the ledger")
	}
}

func TestProcessChallengeCompletion_FailedStillConsumed(t *testing.T) {
	p := challengeProgress(models.ChallengeStreak{Current: 2, Longest: 2, LastCompletedDate: "2026-08-30"})
	sink, total := xpRecorder()

	next := ProcessChallengeCompletion(p, ChallengeReview, makeAttempts(2, 3), false, testNow(), sink)

	if *total != 0 {
		t.Errorf("failed challenge granted %d XP", *total)
	}
	if !next.ReviewChallenge.IsCompleted {
		t.Error("failed challenge must still consume the day")
	}
	if len(next.ReviewChallenge.SessionAttempts) != 5 {
		t.Error("failed challenge must store the attempts")
	}
	if next.DailyChallengeStreak != p.DailyChallengeStreak {
		t.Error("failed challenge must not touch the streak")
	}
	if len(next.DailyChallengeCompletions) != 0 {
		t.Error("failed challenge must not write the ledger")
	}
}

func TestProcessChallengeCompletion_EmptyItems(t *testing.T) {
	p := &models.StudentProgress{
		GlossaryChallenge: &models.DailyChallenge{Date: "2026-08-31"},
	}
	sink, total := xpRecorder()

	next := ProcessChallengeCompletion(p, ChallengeGlossary, nil, false, testNow(), sink)

	// Zero items scores 0, not NaN: the failed-challenge path.
	if *total != 0 {
		t.Errorf("empty challenge granted %d XP", *total)
	}
	if !next.GlossaryChallenge.IsCompleted {
		t.Error("challenge should still be marked completed")
	}
}

func TestProcessChallengeCompletion_MissingChallenge(t *testing.T) {
	p := &models.StudentProgress{}
	sink, _ := xpRecorder()

	if ProcessChallengeCompletion(p, ChallengePortuguese, makeAttempts(5, 0), false, testNow(), sink) != p {
		t.Error("missing challenge should be a no-op")
	}
	if ProcessChallengeCompletion(p, "unknown", makeAttempts(5, 0), false, testNow(), sink) != p {
		t.Error("unknown challenge type should be a no-op")
	}
}

// ── Level-Up Notifier ───────────────────────────────────

func TestCheckLevelUp(t *testing.T) {
	lu := CheckLevelUp(480, 620)
	if lu == nil || lu.NewLevel != 2 {
		t.Fatalf("CheckLevelUp(480, 620) = %+v, want level 2", lu)
	}
	if lu.Title != LevelTitle(2) {
		t.Errorf("title = %q, want %q", lu.Title, LevelTitle(2))
	}

	if CheckLevelUp(480, 499) != nil {
		t.Error("no level-up expected within the same level")
	}
	if CheckLevelUp(620, 480) != nil {
		t.Error("XP penalty must not produce a level-up event")
	}

	// Two levels in one operation still fires a single event, with the
	// final level.
	lu = CheckLevelUp(400, 1400)
	if lu == nil || lu.NewLevel != 3 {
		t.Errorf("CheckLevelUp(400, 1400) = %+v, want level 3", lu)
	}
}
