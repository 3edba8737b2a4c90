package gamification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/estudai/backend/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when an activity references a session, quiz or
// simulado id the student's progress does not contain.
var ErrNotFound = errors.New("not found")

// SubjectSource supplies the ordered course catalog for badge evaluation.
type SubjectSource interface {
	GetSubjects() ([]models.Subject, error)
}

// ContentGenerator produces AI-generated item sets for daily challenges and
// topic quizzes.
type ContentGenerator interface {
	GenerateChallenge(ctx context.Context, challengeType string, count int) ([]models.Question, error)
	GenerateTopicQuiz(ctx context.Context, subjectName, topicName string, count int) ([]models.Question, error)
}

type Service struct {
	store   *Store
	catalog SubjectSource
	gen     ContentGenerator
	now     func() time.Time
}

func NewService(store *Store, catalog SubjectSource, gen ContentGenerator) *Service {
	return &Service{store: store, catalog: catalog, gen: gen, now: time.Now}
}

// ── Activity Completion ─────────────────────────────────
//
// Every completion runs the same cycle: load snapshot → mutate with an XP
// sink → apply the summed delta to the XP total exactly once (clamped at
// zero) → evaluate badges against the new record → level-up comparison
// batched around the whole operation → persist → log events.

type mutateFunc func(p *models.StudentProgress, now time.Time, addXP XPSink) *models.StudentProgress

func (s *Service) runActivity(userID int64, eventType string, mutate mutateFunc) (*models.ActivityResponse, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	now := s.now()
	var awards []models.XPAward
	sink := func(amount int, reason string) {
		awards = append(awards, models.XPAward{Amount: amount, Reason: reason})
	}

	next := mutate(p, now, sink)
	if next == p {
		return nil, ErrNotFound
	}

	delta := 0
	for _, a := range awards {
		delta += a.Amount
	}
	newXP := p.XP + delta
	if newXP < 0 {
		newXP = 0
	}
	next.XP = newXP

	levelUp := CheckLevelUp(p.XP, next.XP)

	subjects, err := s.catalog.GetSubjects()
	if err != nil {
		log.Printf("[gamification] failed to load subjects for badge check: %v", err)
	}
	cohort, err := s.store.GetAllProgress()
	if err != nil {
		log.Printf("[gamification] failed to load cohort for badge check: %v", err)
		cohort = nil
	}
	selfID := strconv.FormatInt(userID, 10)
	if cohort != nil {
		cohort[selfID] = next
	}

	newBadges := CheckAndAwardBadges(BadgeContext{
		Progress:  next,
		Subjects:  subjects,
		Cohort:    cohort,
		StudentID: selfID,
		Today:     DayKey(now),
	})
	for _, b := range newBadges {
		next.EarnedBadgeIDs = addToSet(next.EarnedBadgeIDs, b.ID)
	}

	if err := s.store.SaveProgress(userID, next); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	for _, a := range awards {
		s.store.LogXPEvent(userID, eventType, a.Amount, map[string]interface{}{
			"reason": a.Reason,
		})
	}

	if newBadges == nil {
		newBadges = []models.EarnedBadge{}
	}
	level := CalculateLevel(next.XP)
	return &models.ActivityResponse{
		XP:        next.XP,
		Level:     level,
		Title:     LevelTitle(level),
		XPAwards:  awards,
		LevelUp:   levelUp,
		NewBadges: newBadges,
		Progress:  next,
	}, nil
}

func (s *Service) CompleteQuiz(userID int64, req models.CompleteQuizRequest) (*models.ActivityResponse, error) {
	return s.runActivity(userID, "quiz_complete", func(p *models.StudentProgress, now time.Time, addXP XPSink) *models.StudentProgress {
		return ProcessQuizCompletion(p, req.SubjectID, req.TopicID, req.Attempts, now, addXP)
	})
}

func (s *Service) CompleteReview(userID int64, req models.CompleteReviewRequest) (*models.ActivityResponse, error) {
	return s.runActivity(userID, "review_complete", func(p *models.StudentProgress, now time.Time, addXP XPSink) *models.StudentProgress {
		return ProcessReviewCompletion(p, req.ReviewID, req.Attempts, now, addXP)
	})
}

func (s *Service) CompleteGame(userID int64, req models.CompleteGameRequest) (*models.ActivityResponse, error) {
	return s.runActivity(userID, "game_complete", func(p *models.StudentProgress, _ time.Time, addXP XPSink) *models.StudentProgress {
		return ProcessGameCompletion(p, req.TopicID, req.GameID, addXP)
	})
}

func (s *Service) CompleteCustomQuiz(userID int64, req models.CompleteCustomQuizRequest) (*models.ActivityResponse, error) {
	return s.runActivity(userID, "custom_quiz_complete", func(p *models.StudentProgress, now time.Time, addXP XPSink) *models.StudentProgress {
		return ProcessCustomQuizCompletion(p, req.QuizID, req.Attempts, now, addXP)
	})
}

func (s *Service) CompleteSimulado(userID int64, req models.CompleteSimuladoRequest) (*models.ActivityResponse, error) {
	return s.runActivity(userID, "simulado_complete", func(p *models.StudentProgress, now time.Time, addXP XPSink) *models.StudentProgress {
		return ProcessSimuladoCompletion(p, req.SimuladoID, req.Attempts, now, addXP)
	})
}

func (s *Service) CompleteChallenge(userID int64, req models.CompleteChallengeRequest) (*models.ActivityResponse, error) {
	return s.runActivity(userID, "challenge_complete", func(p *models.StudentProgress, now time.Time, addXP XPSink) *models.StudentProgress {
		return ProcessChallengeCompletion(p, req.ChallengeType, req.Attempts, req.IsCatchUp, now, addXP)
	})
}

// RateFlashcard records one flashcard rating. No XP, no badges — just the
// spaced-repetition ladder.
func (s *Service) RateFlashcard(userID int64, flashcardID string, wasGood bool) (*models.StudentProgress, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	next := ProcessFlashcardReview(p, flashcardID, wasGood, s.now())
	if err := s.store.SaveProgress(userID, next); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return next, nil
}

// ── State ───────────────────────────────────────────────

func (s *Service) GetProgress(userID int64) (*models.ProgressResponse, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	level := CalculateLevel(p.XP)
	return &models.ProgressResponse{Level: level, Title: LevelTitle(level), Progress: p}, nil
}

// GetBadges re-evaluates the full catalog so dynamically named badges keep
// their trigger-specific display text even after being earned.
func (s *Service) GetBadges(userID int64) ([]models.EarnedBadge, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.catalog.GetSubjects()
	if err != nil {
		return nil, err
	}
	ctx := BadgeContext{Progress: p, Subjects: subjects, StudentID: strconv.FormatInt(userID, 10), Today: DayKey(s.now())}

	earned := []models.EarnedBadge{}
	for _, b := range Badges {
		if !p.HasBadge(b.ID) {
			continue
		}
		eb := models.EarnedBadge{ID: b.ID, Name: b.Name, Description: b.Description, Icon: b.Icon}
		if _, text := b.Condition(ctx); text != nil {
			eb.Name = text.Name
			eb.Description = text.Description
		}
		earned = append(earned, eb)
	}
	return earned, nil
}

// XPHistory lists the student's most recent XP events, newest first.
func (s *Service) XPHistory(userID int64, limit int) ([]models.XPEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	events, err := s.store.RecentXPEvents(userID, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.XPEvent{}
	}
	return events, nil
}

// ── Session / Quiz / Simulado Creation ──────────────────

func (s *Service) CreateReviewSession(userID int64, req models.CreateReviewSessionRequest) (*models.ReviewSession, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	sess := models.ReviewSession{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Name:        req.Name,
		Items:       req.Items,
		CreatedDate: DayKey(s.now()),
	}
	next := p.Clone()
	next.ReviewSessions = append(next.ReviewSessions, sess)
	if err := s.store.SaveProgress(userID, next); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Service) CreateCustomQuiz(userID int64, req models.CreateCustomQuizRequest) (*models.CustomQuiz, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	quiz := models.CustomQuiz{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Items:       req.Items,
		CreatedDate: DayKey(s.now()),
	}
	next := p.Clone()
	next.CustomQuizzes = append(next.CustomQuizzes, quiz)
	if err := s.store.SaveProgress(userID, next); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *Service) CreateSimulado(userID int64, req models.CreateSimuladoRequest) (*models.Simulado, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	sim := models.Simulado{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Items:       req.Items,
		CreatedDate: DayKey(s.now()),
	}
	next := p.Clone()
	next.Simulados = append(next.Simulados, sim)
	if err := s.store.SaveProgress(userID, next); err != nil {
		return nil, err
	}
	return &sim, nil
}

// GenerateCustomQuiz builds a custom quiz with AI-generated questions for one
// catalog topic and stores it on the student's progress.
func (s *Service) GenerateCustomQuiz(ctx context.Context, userID int64, req models.GenerateCustomQuizRequest) (*models.CustomQuiz, error) {
	subjects, err := s.catalog.GetSubjects()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	subjectName, topicName := findTopicNames(subjects, req.SubjectID, req.TopicID)
	if topicName == "" {
		return nil, ErrNotFound
	}

	count := req.Count
	if count <= 0 || count > 20 {
		count = 10
	}
	items, err := s.gen.GenerateTopicQuiz(ctx, subjectName, topicName, count)
	if err != nil {
		return nil, fmt.Errorf("generate quiz for %s: %w", topicName, err)
	}

	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	quiz := models.CustomQuiz{
		ID:          uuid.NewString(),
		Name:        topicName,
		Items:       items,
		CreatedDate: DayKey(s.now()),
	}
	next := p.Clone()
	next.CustomQuizzes = append(next.CustomQuizzes, quiz)
	if err := s.store.SaveProgress(userID, next); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func findTopicNames(subjects []models.Subject, subjectID, topicID string) (string, string) {
	for _, s := range subjects {
		if s.ID != subjectID {
			continue
		}
		if name := topicNameIn(s.Topics, topicID); name != "" {
			return s.Name, name
		}
	}
	return "", ""
}

func topicNameIn(topics []models.Topic, topicID string) string {
	for _, t := range topics {
		if t.ID == topicID {
			return t.Name
		}
		if name := topicNameIn(t.SubTopics, topicID); name != "" {
			return name
		}
	}
	return ""
}

// ── Daily Challenge Generation ──────────────────────────

const challengeItemCount = 5

// GenerateChallenge returns today's challenge of the given type, generating
// a fresh item set only when the stored one is stale or missing.
func (s *Service) GenerateChallenge(ctx context.Context, userID int64, challengeType string) (*models.DailyChallenge, error) {
	switch challengeType {
	case ChallengeReview, ChallengeGlossary, ChallengePortuguese:
	default:
		return nil, fmt.Errorf("unknown challenge type %q", challengeType)
	}

	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	today := DayKey(s.now())
	if existing := challengeFor(p, challengeType); existing != nil && existing.Date == today {
		return existing, nil
	}

	items, err := s.gen.GenerateChallenge(ctx, challengeType, challengeItemCount)
	if err != nil {
		return nil, fmt.Errorf("generate %s challenge: %w", challengeType, err)
	}

	challenge := &models.DailyChallenge{Date: today, Items: items}
	next := p.Clone()
	switch challengeType {
	case ChallengeReview:
		next.ReviewChallenge = challenge
	case ChallengeGlossary:
		next.GlossaryChallenge = challenge
	case ChallengePortuguese:
		next.PortugueseChallenge = challenge
	}
	if err := s.store.SaveProgress(userID, next); err != nil {
		return nil, err
	}
	return challenge, nil
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Service) GetLeaderboard(userID int64, limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.store.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].UserID == userID {
			entries[i].IsCurrentUser = true
		}
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return &models.LeaderboardResponse{Entries: entries}, nil
}
