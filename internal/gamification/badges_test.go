package gamification

import (
	"strings"
	"testing"

	"github.com/estudai/backend/internal/models"
)

func badgeIDs(badges []models.EarnedBadge) map[string]bool {
	ids := make(map[string]bool, len(badges))
	for _, b := range badges {
		ids[b.ID] = true
	}
	return ids
}

func findBadge(badges []models.EarnedBadge, id string) *models.EarnedBadge {
	for i := range badges {
		if badges[i].ID == id {
			return &badges[i]
		}
	}
	return nil
}

func completedTopic(score float64) models.TopicProgress {
	return models.TopicProgress{Completed: true, Score: score}
}

func TestCheckAndAwardBadges_AppendOnly(t *testing.T) {
	p := &models.StudentProgress{
		ProgressBySubject: map[string]map[string]models.TopicProgress{
			"s1": {"t1": completedTopic(0.8)},
		},
	}
	ctx := BadgeContext{Progress: p, Today: "2026-08-31"}

	first := CheckAndAwardBadges(ctx)
	if !badgeIDs(first)["first-topic"] {
		t.Fatal("first-topic not awarded on first evaluation")
	}

	// Caller merges the id; re-evaluation must never return it again even
	// though the predicate stays true.
	p.EarnedBadgeIDs = append(p.EarnedBadgeIDs, "first-topic")
	second := CheckAndAwardBadges(ctx)
	if badgeIDs(second)["first-topic"] {
		t.Error("earned badge returned a second time")
	}
}

func TestMarathonerBadge(t *testing.T) {
	p := &models.StudentProgress{
		DailyActivity: map[string]models.DayActivity{"2026-08-30": {QuestionsAnswered: 49}},
	}
	ctx := BadgeContext{Progress: p, Today: "2026-08-31"}

	if badgeIDs(CheckAndAwardBadges(ctx))["marathoner-50"] {
		t.Error("marathoner-50 awarded at 49 questions")
	}

	p.DailyActivity["2026-08-30"] = models.DayActivity{QuestionsAnswered: 50}
	if !badgeIDs(CheckAndAwardBadges(ctx))["marathoner-50"] {
		t.Error("marathoner-50 not awarded at 50 questions")
	}
}

func TestStreakerBadges(t *testing.T) {
	p := &models.StudentProgress{
		DailyActivity: map[string]models.DayActivity{
			"2026-08-31": {QuestionsAnswered: 3},
			"2026-08-30": {QuestionsAnswered: 1},
			"2026-08-29": {QuestionsAnswered: 7},
		},
	}
	ids := badgeIDs(CheckAndAwardBadges(BadgeContext{Progress: p, Today: "2026-08-31"}))
	if !ids["streaker-3"] {
		t.Error("streaker-3 not awarded for 3 consecutive active days")
	}
	if ids["streaker-7"] {
		t.Error("streaker-7 awarded with only 3 active days")
	}

	// A gap of any size breaks the count — no partial credit.
	delete(p.DailyActivity, "2026-08-30")
	ids = badgeIDs(CheckAndAwardBadges(BadgeContext{Progress: p, Today: "2026-08-31"}))
	if ids["streaker-3"] {
		t.Error("streaker-3 awarded across a gap")
	}
}

func TestChallengeStreakBadges(t *testing.T) {
	p := &models.StudentProgress{
		DailyChallengeStreak: models.ChallengeStreak{Current: 7},
	}
	ids := badgeIDs(CheckAndAwardBadges(BadgeContext{Progress: p, Today: "2026-08-31"}))

	if !ids["streak-3-day-challenge"] || !ids["streak-7-day-challenge"] {
		t.Error("both 3- and 7-day challenge badges should qualify at streak 7")
	}
	if ids["streak-15-day-challenge"] {
		t.Error("15-day badge awarded at streak 7")
	}
}

func TestSubjectCompleterBadge(t *testing.T) {
	subjects := []models.Subject{
		{ID: "mat", Name: "Matemática", Topics: []models.Topic{
			{ID: "t1", SubTopics: []models.Topic{{ID: "t1a"}}},
			{ID: "t2"},
		}},
		{ID: "port", Name: "Português", Topics: []models.Topic{{ID: "p1"}}},
	}

	// Subtopic incomplete → subject incomplete.
	p := &models.StudentProgress{
		ProgressBySubject: map[string]map[string]models.TopicProgress{
			"mat": {"t1": completedTopic(0.8), "t2": completedTopic(0.9)},
		},
	}
	ctx := BadgeContext{Progress: p, Subjects: subjects, Today: "2026-08-31"}
	if b := findBadge(CheckAndAwardBadges(ctx), "subject-completer"); b != nil {
		t.Fatalf("subject-completer awarded with an incomplete subtopic: %+v", b)
	}

	p.ProgressBySubject["mat"]["t1a"] = completedTopic(0.7)
	b := findBadge(CheckAndAwardBadges(ctx), "subject-completer")
	if b == nil {
		t.Fatal("subject-completer not awarded for a fully completed subject")
	}
	if b.Name != "Finalizador de Matemática" {
		t.Errorf("dynamic name = %q, want %q", b.Name, "Finalizador de Matemática")
	}
}

func TestSubjectCompleterBadge_FirstSubjectOnly(t *testing.T) {
	subjects := []models.Subject{
		{ID: "a", Name: "A", Topics: []models.Topic{{ID: "a1"}}},
		{ID: "b", Name: "B", Topics: []models.Topic{{ID: "b1"}}},
	}
	// Both subjects complete in the same cycle: only the first in catalog
	// order is ever surfaced.
	p := &models.StudentProgress{
		ProgressBySubject: map[string]map[string]models.TopicProgress{
			"a": {"a1": completedTopic(1)},
			"b": {"b1": completedTopic(1)},
		},
	}
	b := findBadge(CheckAndAwardBadges(BadgeContext{Progress: p, Subjects: subjects, Today: "2026-08-31"}), "subject-completer")
	if b == nil || !strings.HasSuffix(b.Name, "A") {
		t.Errorf("badge = %+v, want the first catalog subject (A)", b)
	}
}

func TestSubjectCompleterBadge_SkipsEmptySubjects(t *testing.T) {
	subjects := []models.Subject{{ID: "vazio", Name: "Vazio"}}
	p := &models.StudentProgress{}
	if b := findBadge(CheckAndAwardBadges(BadgeContext{Progress: p, Subjects: subjects, Today: "2026-08-31"}), "subject-completer"); b != nil {
		t.Error("a subject with zero topics must never be trivially complete")
	}
}

func TestGameMasterBadge(t *testing.T) {
	p := &models.StudentProgress{GamesCompletedCount: 9}
	ctx := BadgeContext{Progress: p, Today: "2026-08-31"}
	if badgeIDs(CheckAndAwardBadges(ctx))["game-master-10"] {
		t.Error("game-master-10 awarded at 9 games")
	}
	p.GamesCompletedCount = 10
	if !badgeIDs(CheckAndAwardBadges(ctx))["game-master-10"] {
		t.Error("game-master-10 not awarded at 10 games")
	}
}

func TestPerfectQuizBadge(t *testing.T) {
	subjects := []models.Subject{
		{ID: "s1", Name: "S1", Topics: []models.Topic{
			{ID: "small", Questions: makeItems(5)},
			{ID: "big", Questions: makeItems(10), TecQuestions: makeItems(12)},
		}},
	}

	// Perfect score on a 5-question topic is not enough.
	p := &models.StudentProgress{
		ProgressBySubject: map[string]map[string]models.TopicProgress{
			"s1": {"small": completedTopic(1)},
		},
	}
	ctx := BadgeContext{Progress: p, Subjects: subjects, Today: "2026-08-31"}
	if badgeIDs(CheckAndAwardBadges(ctx))["perfect-quiz-10"] {
		t.Error("perfect-quiz-10 awarded for a 5-question topic")
	}

	// A 0.95 on the big topic is not a perfect score.
	p.ProgressBySubject["s1"]["big"] = completedTopic(0.95)
	if badgeIDs(CheckAndAwardBadges(ctx))["perfect-quiz-10"] {
		t.Error("perfect-quiz-10 awarded for score below 1")
	}

	// The tec variant counts against its own question set.
	p.ProgressBySubject["s1"]["big-tec"] = completedTopic(1)
	if !badgeIDs(CheckAndAwardBadges(ctx))["perfect-quiz-10"] {
		t.Error("perfect-quiz-10 not awarded for a perfect 12-question tec variant")
	}
}

func TestLeaderboardFirstBadge(t *testing.T) {
	me := &models.StudentProgress{XP: 9000}

	// Alone in the cohort: never fires, even with maximal XP.
	ctx := BadgeContext{
		Progress:  me,
		Cohort:    map[string]*models.StudentProgress{"1": me},
		StudentID: "1",
		Today:     "2026-08-31",
	}
	if badgeIDs(CheckAndAwardBadges(ctx))["leaderboard-first"] {
		t.Error("leaderboard-first awarded without competition")
	}

	// A tied rival is not beaten — the lead must be strict.
	ctx.Cohort["2"] = &models.StudentProgress{XP: 9000}
	if badgeIDs(CheckAndAwardBadges(ctx))["leaderboard-first"] {
		t.Error("leaderboard-first awarded on a tie")
	}

	ctx.Cohort["2"] = &models.StudentProgress{XP: 8999}
	if !badgeIDs(CheckAndAwardBadges(ctx))["leaderboard-first"] {
		t.Error("leaderboard-first not awarded with a strict lead")
	}
}

func TestMasteryBadge(t *testing.T) {
	subjects := []models.Subject{
		{ID: "vazio", Name: "Vazio"},
		{ID: "mat", Name: "Matemática", Topics: []models.Topic{{ID: "t1"}, {ID: "t2"}}},
	}
	p := &models.StudentProgress{
		ProgressBySubject: map[string]map[string]models.TopicProgress{
			"mat": {"t1": completedTopic(1), "t2": completedTopic(0.9)},
		},
	}
	ctx := BadgeContext{Progress: p, Subjects: subjects, Today: "2026-08-31"}
	if findBadge(CheckAndAwardBadges(ctx), "mastery") != nil {
		t.Fatal("mastery awarded with a non-perfect topic")
	}

	p.ProgressBySubject["mat"]["t2"] = completedTopic(1)
	b := findBadge(CheckAndAwardBadges(ctx), "mastery")
	if b == nil {
		t.Fatal("mastery not awarded with all topics perfect")
	}
	if b.Name != "Mestre de Matemática" {
		t.Errorf("dynamic name = %q, want %q", b.Name, "Mestre de Matemática")
	}
}
