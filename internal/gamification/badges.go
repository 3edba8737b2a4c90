package gamification

import (
	"fmt"

	"github.com/estudai/backend/internal/models"
)

// ── Badge Registry ────────────────────────────────────────

// BadgeText overrides a badge's display text when the trigger decides the
// name (e.g. which subject was completed).
type BadgeText struct {
	Name        string
	Description string
}

// BadgeContext is everything a badge condition may inspect. Cohort maps
// student ids (including this student's own, under StudentID) to their
// progress; it is only populated when a cohort-wide badge can fire.
type BadgeContext struct {
	Progress  *models.StudentProgress
	Subjects  []models.Subject
	Cohort    map[string]*models.StudentProgress
	StudentID string
	Today     string
}

// Badge is a badge definition. Condition is pure; it reports whether the
// badge is earned and, for dynamically named badges, the display text to use.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Condition   func(ctx BadgeContext) (bool, *BadgeText)
}

const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// Badges is the full badge catalog, evaluated in order.
var Badges = []Badge{
	{
		ID:          "first-topic",
		Name:        "Primeiro Passo",
		Description: "Conclua seu primeiro tópico",
		Icon:        "🎯",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			for _, topics := range ctx.Progress.ProgressBySubject {
				for _, tp := range topics {
					if tp.Completed {
						return true, nil
					}
				}
			}
			return false, nil
		},
	},
	{
		ID:          "marathoner-50",
		Name:        "Maratonista",
		Description: "Responda 50 questões em um único dia",
		Icon:        "🏃",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			for _, day := range ctx.Progress.DailyActivity {
				if day.QuestionsAnswered >= 50 {
					return true, nil
				}
			}
			return false, nil
		},
	},
	{
		ID:          "streaker-3",
		Name:        "Em Ritmo",
		Description: "Estude 3 dias seguidos",
		Icon:        "🔥",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			return hasActivityStreak(ctx.Progress, ctx.Today, 3), nil
		},
	},
	{
		ID:          "streaker-7",
		Name:        "Semana Cheia",
		Description: "Estude 7 dias seguidos",
		Icon:        "📅",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			return hasActivityStreak(ctx.Progress, ctx.Today, 7), nil
		},
	},
	challengeStreakBadge("streak-3-day-challenge", "Desafiante", 3),
	challengeStreakBadge("streak-7-day-challenge", "Desafiante Semanal", 7),
	challengeStreakBadge("streak-15-day-challenge", "Desafiante Quinzenal", 15),
	challengeStreakBadge("streak-30-day-challenge", "Desafiante Mensal", 30),
	{
		ID:          "subject-completer",
		Name:        "Finalizador",
		Description: "Conclua todos os tópicos de uma matéria",
		Icon:        "🏆",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			// Only the first qualifying subject is ever reported; once the id
			// is earned the evaluator skips this badge for good.
			for _, s := range ctx.Subjects {
				if len(s.Topics) == 0 {
					continue
				}
				if subjectFullyCompleted(ctx.Progress, s) {
					return true, &BadgeText{
						Name:        "Finalizador de " + s.Name,
						Description: fmt.Sprintf("Concluiu todos os tópicos de %s", s.Name),
					}
				}
			}
			return false, nil
		},
	},
	{
		ID:          "game-master-10",
		Name:        "Mestre dos Jogos",
		Description: "Complete 10 mini-jogos",
		Icon:        "🎮",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			return ctx.Progress.GamesCompletedCount >= 10, nil
		},
	},
	{
		ID:          "perfect-quiz-10",
		Name:        "Gabaritou",
		Description: "Acerte 100% de um quiz com 10 ou mais questões",
		Icon:        "💯",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			for _, s := range ctx.Subjects {
				if hasPerfectBigQuiz(ctx.Progress, s.ID, s.Topics) {
					return true, nil
				}
			}
			return false, nil
		},
	},
	{
		ID:          "leaderboard-first",
		Name:        "Topo do Ranking",
		Description: "Tenha mais XP que todos os outros estudantes",
		Icon:        "👑",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			if len(ctx.Cohort) < 2 {
				return false, nil
			}
			best := -1
			for id, other := range ctx.Cohort {
				if id == ctx.StudentID {
					continue
				}
				if other.XP > best {
					best = other.XP
				}
			}
			return ctx.Progress.XP > best, nil
		},
	},
	{
		ID:          "mastery",
		Name:        "Maestria",
		Description: "Alcance nota máxima em todos os tópicos de uma matéria",
		Icon:        "⭐",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			for _, s := range ctx.Subjects {
				if len(s.Topics) == 0 {
					continue
				}
				if subjectAllPerfect(ctx.Progress, s) {
					return true, &BadgeText{
						Name:        "Mestre de " + s.Name,
						Description: fmt.Sprintf("Nota máxima em todos os tópicos de %s", s.Name),
					}
				}
			}
			return false, nil
		},
	},
}

func challengeStreakBadge(id, name string, days int) Badge {
	return Badge{
		ID:          id,
		Name:        name,
		Description: fmt.Sprintf("Complete o desafio diário por %d dias seguidos", days),
		Icon:        "⚡",
		Condition: func(ctx BadgeContext) (bool, *BadgeText) {
			return ctx.Progress.DailyChallengeStreak.Current >= days, nil
		},
	}
}

// CheckAndAwardBadges evaluates every unearned badge and returns the newly
// qualifying ones, dynamic text merged in. It never mutates the progress
// record: the caller merges the returned ids into EarnedBadgeIDs so badge UI
// reveal can be sequenced independently of the state commit.
func CheckAndAwardBadges(ctx BadgeContext) []models.EarnedBadge {
	var earned []models.EarnedBadge
	for _, b := range Badges {
		if ctx.Progress.HasBadge(b.ID) {
			continue
		}
		ok, text := b.Condition(ctx)
		if !ok {
			continue
		}
		eb := models.EarnedBadge{ID: b.ID, Name: b.Name, Description: b.Description, Icon: b.Icon}
		if text != nil {
			eb.Name = text.Name
			eb.Description = text.Description
		}
		earned = append(earned, eb)
	}
	return earned
}

// hasActivityStreak reports activity with at least one answered question on
// each of the last n days counting back from today. Any gap breaks it.
func hasActivityStreak(p *models.StudentProgress, today string, n int) bool {
	if today == "" {
		return false
	}
	for i := 0; i < n; i++ {
		day := ShiftDay(today, -i)
		if p.DailyActivity[day].QuestionsAnswered <= 0 {
			return false
		}
	}
	return true
}

// subjectFullyCompleted requires every topic and subtopic of the subject to
// be marked completed.
func subjectFullyCompleted(p *models.StudentProgress, s models.Subject) bool {
	for _, t := range s.Topics {
		if !p.TopicProgressFor(s.ID, t.ID).Completed {
			return false
		}
		for _, sub := range t.SubTopics {
			if !p.TopicProgressFor(s.ID, sub.ID).Completed {
				return false
			}
		}
	}
	return true
}

// subjectAllPerfect requires every topic of the subject to hold a stored
// score of exactly 1.
func subjectAllPerfect(p *models.StudentProgress, s models.Subject) bool {
	for _, t := range s.Topics {
		if p.TopicProgressFor(s.ID, t.ID).Score != 1 {
			return false
		}
	}
	return true
}

// hasPerfectBigQuiz walks topics (and subtopics) looking for a stored perfect
// score on a variant whose matching question set has at least 10 items.
func hasPerfectBigQuiz(p *models.StudentProgress, subjectID string, topics []models.Topic) bool {
	for _, t := range topics {
		if len(t.Questions) >= 10 && p.TopicProgressFor(subjectID, t.ID).Score == 1 {
			return true
		}
		if len(t.TecQuestions) >= 10 && p.TopicProgressFor(subjectID, models.TecTopicKey(t.ID)).Score == 1 {
			return true
		}
		if hasPerfectBigQuiz(p, subjectID, t.SubTopics) {
			return true
		}
	}
	return false
}
