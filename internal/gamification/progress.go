package gamification

import (
	"time"

	"github.com/estudai/backend/internal/models"
)

// XPSink receives each XP grant a mutator emits. Mutators never write the
// cumulative XP field themselves — the caller sums the sink's amounts and
// applies the delta to Progress.XP exactly once per operation.
type XPSink func(amount int, reason string)

// Challenge types.
const (
	ChallengeReview     = "review"
	ChallengeGlossary   = "glossary"
	ChallengePortuguese = "portuguese"
)

// streakBonusXP maps daily-challenge streak lengths to one-time bonus XP.
var streakBonusXP = map[int]int{3: 50, 7: 100, 15: 250, 30: 500}

// CustomGameTopic marks ad-hoc games that are exempt from per-topic badge
// bookkeeping.
const CustomGameTopic = "custom"

// ── Progress Mutators ─────────────────────────────────────
//
// Every mutator takes an immutable snapshot and returns a new record
// (copy-on-write). Missing references are defensive no-ops: the input record
// is returned unchanged. None of them touch Progress.XP.

// ProcessQuizCompletion records a finished topic quiz: score overwrite,
// per-question XP, first-improvement bonus, medal tiers, daily activity.
func ProcessQuizCompletion(p *models.StudentProgress, subjectID, topicID string, attempts []models.QuestionAttempt, now time.Time, addXP XPSink) *models.StudentProgress {
	if len(attempts) == 0 {
		return p
	}

	correct := countCorrect(attempts)
	score := float64(correct) / float64(len(attempts))
	prev := p.TopicProgressFor(subjectID, topicID)

	next := p.Clone()

	addXP(10*correct, "Acertos no quiz")

	if next.ProgressBySubject == nil {
		next.ProgressBySubject = make(map[string]map[string]models.TopicProgress)
	}
	if next.ProgressBySubject[subjectID] == nil {
		next.ProgressBySubject[subjectID] = make(map[string]models.TopicProgress)
	}
	// Full replace: the last attempt set wins, the score is not accumulated.
	next.ProgressBySubject[subjectID][topicID] = models.TopicProgress{
		Completed:   true,
		Score:       score,
		LastAttempt: append([]models.QuestionAttempt(nil), attempts...),
	}

	// Topic-complete bonus only when the score strictly improves, so
	// retaking with an equal or lower result cannot farm XP.
	if score > prev.Score {
		addXP(50, "Tópico concluído")
	}

	awardTopicMedals(next, topicID, score)
	bumpDailyActivity(next, DayKey(now), len(attempts))

	return next
}

// ProcessReviewCompletion finishes a review session. SRS-typed sessions walk
// every attempt through the review-policy ladder.
func ProcessReviewCompletion(p *models.StudentProgress, reviewID string, attempts []models.QuestionAttempt, now time.Time, addXP XPSink) *models.StudentProgress {
	idx := -1
	for i := range p.ReviewSessions {
		if p.ReviewSessions[i].ID == reviewID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p
	}

	next := p.Clone()
	sess := &next.ReviewSessions[idx]
	sess.IsCompleted = true
	sess.Attempts = append(sess.Attempts, append([]models.QuestionAttempt(nil), attempts...))

	addXP(75, "Sessão de revisão concluída")

	if sess.Type == "srs" {
		if next.SRSData == nil {
			next.SRSData = make(map[string]models.SRSEntry)
		}
		for _, a := range attempts {
			entry := next.SRSData[a.QuestionID]
			stage := AdvanceStage(entry.Stage, a.IsCorrect, ReviewPolicy)
			next.SRSData[a.QuestionID] = models.SRSEntry{
				Stage:          stage,
				NextReviewDate: NextReviewDate(stage, now),
			}
			if a.IsCorrect {
				addXP(15, "Revisão correta")
			}
		}
	} else if correct := countCorrect(attempts); correct > 0 {
		addXP(15*correct, "Acertos na revisão")
	}

	return next
}

// ProcessFlashcardReview records one flashcard rating on the gentler
// flashcard ladder. No XP is attached to individual card flips.
func ProcessFlashcardReview(p *models.StudentProgress, flashcardID string, wasGood bool, now time.Time) *models.StudentProgress {
	next := p.Clone()
	if next.SRSFlashcardData == nil {
		next.SRSFlashcardData = make(map[string]models.SRSEntry)
	}
	entry := next.SRSFlashcardData[flashcardID]
	stage := AdvanceStage(entry.Stage, wasGood, FlashcardPolicy)
	next.SRSFlashcardData[flashcardID] = models.SRSEntry{
		Stage:          stage,
		NextReviewDate: NextReviewDate(stage, now),
	}
	return next
}

// ProcessGameCompletion records a finished mini-game.
func ProcessGameCompletion(p *models.StudentProgress, topicID, gameID string, addXP XPSink) *models.StudentProgress {
	next := p.Clone()

	addXP(25, "Mini-jogo concluído")

	if topicID != CustomGameTopic {
		if next.EarnedGameBadges == nil {
			next.EarnedGameBadges = make(map[string][]string)
		}
		next.EarnedGameBadges[topicID] = addToSet(next.EarnedGameBadges[topicID], gameID)
	}
	next.GamesCompletedCount++

	return next
}

// ProcessCustomQuizCompletion finishes a student-built quiz.
func ProcessCustomQuizCompletion(p *models.StudentProgress, quizID string, attempts []models.QuestionAttempt, now time.Time, addXP XPSink) *models.StudentProgress {
	idx := -1
	for i := range p.CustomQuizzes {
		if p.CustomQuizzes[i].ID == quizID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p
	}

	next := p.Clone()
	quiz := &next.CustomQuizzes[idx]
	quiz.IsCompleted = true
	quiz.Attempts = append(quiz.Attempts, append([]models.QuestionAttempt(nil), attempts...))

	if correct := countCorrect(attempts); correct > 0 {
		addXP(10*correct, "Acertos no quiz personalizado")
	}
	bumpDailyActivity(next, DayKey(now), len(attempts))

	return next
}

// ProcessSimuladoCompletion finishes a mock exam. Same shape as custom
// quizzes, different backing collection.
func ProcessSimuladoCompletion(p *models.StudentProgress, simuladoID string, attempts []models.QuestionAttempt, now time.Time, addXP XPSink) *models.StudentProgress {
	idx := -1
	for i := range p.Simulados {
		if p.Simulados[i].ID == simuladoID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p
	}

	next := p.Clone()
	sim := &next.Simulados[idx]
	sim.IsCompleted = true
	sim.Attempts = append(sim.Attempts, append([]models.QuestionAttempt(nil), attempts...))

	if correct := countCorrect(attempts); correct > 0 {
		addXP(10*correct, "Acertos no simulado")
	}
	bumpDailyActivity(next, DayKey(now), len(attempts))

	return next
}

// ProcessChallengeCompletion finishes a daily challenge. A failed attempt
// (score < 0.6) still consumes the day's challenge: it is marked completed
// with the attempts stored, but earns nothing and leaves the streak alone.
func ProcessChallengeCompletion(p *models.StudentProgress, challengeType string, finalAttempts []models.QuestionAttempt, isCatchUp bool, now time.Time, addXP XPSink) *models.StudentProgress {
	if challengeFor(p, challengeType) == nil {
		return p
	}

	next := p.Clone()
	c := challengeFor(next, challengeType)
	c.IsCompleted = true
	c.AttemptsMade++
	c.SessionAttempts = append([]models.QuestionAttempt(nil), finalAttempts...)

	score := 0.0
	if len(c.Items) > 0 {
		score = float64(countCorrect(finalAttempts)) / float64(len(c.Items))
	}
	if score < 0.6 {
		return next
	}

	today := DayKey(now)

	if isCatchUp {
		// Recovered challenge: smaller reward, streak untouched.
		addXP(25, "Desafio recuperado")
	} else {
		addXP(50, "Desafio diário concluído")
		advanceChallengeStreak(next, today, addXP)
	}

	if next.DailyChallengeCompletions == nil {
		next.DailyChallengeCompletions = make(map[string]map[string]bool)
	}
	if next.DailyChallengeCompletions[today] == nil {
		next.DailyChallengeCompletions[today] = make(map[string]bool)
	}
	next.DailyChallengeCompletions[today][challengeType] = true

	return next
}

func advanceChallengeStreak(p *models.StudentProgress, today string, addXP XPSink) {
	streak := &p.DailyChallengeStreak
	switch streak.LastCompletedDate {
	case ShiftDay(today, -1):
		streak.Current++
	case today:
		// Already counted today.
	default:
		streak.Current = 1
	}
	streak.LastCompletedDate = today
	if streak.Current > streak.Longest {
		streak.Longest = streak.Current
	}
	if bonus, ok := streakBonusXP[streak.Current]; ok {
		addXP(bonus, "Bônus de sequência de desafios")
	}
}

func challengeFor(p *models.StudentProgress, challengeType string) *models.DailyChallenge {
	switch challengeType {
	case ChallengeReview:
		return p.ReviewChallenge
	case ChallengeGlossary:
		return p.GlossaryChallenge
	case ChallengePortuguese:
		return p.PortugueseChallenge
	}
	return nil
}

// awardTopicMedals grants every tier the score reaches; tiers accumulate and
// never repeat. The topicID may carry the -tec suffix for the extracted
// question variant.
func awardTopicMedals(p *models.StudentProgress, topicID string, score float64) {
	var tiers []string
	if score >= 0.7 {
		tiers = append(tiers, TierBronze)
	}
	if score >= 0.9 {
		tiers = append(tiers, TierSilver)
	}
	if score == 1 {
		tiers = append(tiers, TierGold)
	}
	if len(tiers) == 0 {
		return
	}
	if p.EarnedTopicBadges == nil {
		p.EarnedTopicBadges = make(map[string][]string)
	}
	for _, tier := range tiers {
		p.EarnedTopicBadges[topicID] = addToSet(p.EarnedTopicBadges[topicID], tier)
	}
}

func bumpDailyActivity(p *models.StudentProgress, day string, answered int) {
	if p.DailyActivity == nil {
		p.DailyActivity = make(map[string]models.DayActivity)
	}
	bucket := p.DailyActivity[day]
	bucket.QuestionsAnswered += answered
	p.DailyActivity[day] = bucket
}

func countCorrect(attempts []models.QuestionAttempt) int {
	n := 0
	for _, a := range attempts {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

func addToSet(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}
