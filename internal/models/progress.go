package models

// ── Student Progress Aggregate ────────────────────────────
//
// One StudentProgress document per student. It is only ever transformed by
// the gamification mutators (copy-on-write via Clone); the store persists it
// whole as JSONB.

type StudentProgress struct {
	XP                        int                                 `json:"xp"`
	EarnedBadgeIDs            []string                            `json:"earnedBadgeIds"`
	EarnedTopicBadges         map[string][]string                 `json:"earnedTopicBadgeIds"`
	EarnedGameBadges          map[string][]string                 `json:"earnedGameBadgeIds"`
	GamesCompletedCount       int                                 `json:"gamesCompletedCount"`
	ProgressBySubject         map[string]map[string]TopicProgress `json:"progressByTopic"`
	DailyActivity             map[string]DayActivity              `json:"dailyActivity"`
	DailyChallengeStreak      ChallengeStreak                     `json:"dailyChallengeStreak"`
	DailyChallengeCompletions map[string]map[string]bool          `json:"dailyChallengeCompletions"`
	SRSData                   map[string]SRSEntry                 `json:"srsData"`
	SRSFlashcardData          map[string]SRSEntry                 `json:"srsFlashcardData"`
	ReviewSessions            []ReviewSession                     `json:"reviewSessions"`
	CustomQuizzes             []CustomQuiz                        `json:"customQuizzes"`
	Simulados                 []Simulado                          `json:"simulados"`
	ReviewChallenge           *DailyChallenge                     `json:"reviewChallenge,omitempty"`
	GlossaryChallenge         *DailyChallenge                     `json:"glossaryChallenge,omitempty"`
	PortugueseChallenge       *DailyChallenge                     `json:"portugueseChallenge,omitempty"`
}

// TopicProgress is the stored result of the most recent quiz for a topic.
// Score is overwritten on every completion, not accumulated.
type TopicProgress struct {
	Completed   bool              `json:"completed"`
	Score       float64           `json:"score"`
	LastAttempt []QuestionAttempt `json:"lastAttempt"`
}

type DayActivity struct {
	QuestionsAnswered int `json:"questionsAnswered"`
}

type ChallengeStreak struct {
	Current           int    `json:"current"`
	Longest           int    `json:"longest"`
	LastCompletedDate string `json:"lastCompletedDate"`
}

// SRSEntry tracks one question or flashcard on the spaced-repetition ladder.
type SRSEntry struct {
	Stage          int    `json:"stage"`
	NextReviewDate string `json:"nextReviewDate"`
}

// QuestionAttempt is one graded answer inside any activity. Fields beyond
// QuestionID/IsCorrect are carried through for the UI and opaque to the engine.
type QuestionAttempt struct {
	QuestionID     string `json:"questionId"`
	IsCorrect      bool   `json:"isCorrect"`
	SelectedAnswer string `json:"selectedAnswer,omitempty"`
}

type ReviewSession struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"` // "srs" or "topic"
	Name        string              `json:"name,omitempty"`
	Items       []Question          `json:"items,omitempty"`
	IsCompleted bool                `json:"isCompleted"`
	Attempts    [][]QuestionAttempt `json:"attempts,omitempty"`
	CreatedDate string              `json:"createdDate,omitempty"`
}

type CustomQuiz struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Items       []Question          `json:"items,omitempty"`
	IsCompleted bool                `json:"isCompleted"`
	Attempts    [][]QuestionAttempt `json:"attempts,omitempty"`
	CreatedDate string              `json:"createdDate,omitempty"`
}

type Simulado struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Items       []Question          `json:"items,omitempty"`
	IsCompleted bool                `json:"isCompleted"`
	Attempts    [][]QuestionAttempt `json:"attempts,omitempty"`
	CreatedDate string              `json:"createdDate,omitempty"`
}

// DailyChallenge is a once-per-day scored activity. Date is the ISO day (in
// the reference timezone) the challenge was issued for.
type DailyChallenge struct {
	Date            string            `json:"date"`
	Items           []Question        `json:"items"`
	IsCompleted     bool              `json:"isCompleted"`
	AttemptsMade    int               `json:"attemptsMade"`
	SessionAttempts []QuestionAttempt `json:"sessionAttempts,omitempty"`
}

// HasBadge reports whether a badge id has already been awarded.
func (p *StudentProgress) HasBadge(id string) bool {
	for _, b := range p.EarnedBadgeIDs {
		if b == id {
			return true
		}
	}
	return false
}

// TopicProgressFor returns the stored progress for a topic key, or a zero
// value when the student has never attempted it.
func (p *StudentProgress) TopicProgressFor(subjectID, topicKey string) TopicProgress {
	if topics, ok := p.ProgressBySubject[subjectID]; ok {
		if tp, ok := topics[topicKey]; ok {
			return tp
		}
	}
	return TopicProgress{}
}

// Clone returns a structural deep copy. Mutators operate on the clone so the
// caller's snapshot stays valid for before/after level comparison.
func (p *StudentProgress) Clone() *StudentProgress {
	c := *p

	c.EarnedBadgeIDs = append([]string(nil), p.EarnedBadgeIDs...)
	c.EarnedTopicBadges = cloneStringSetMap(p.EarnedTopicBadges)
	c.EarnedGameBadges = cloneStringSetMap(p.EarnedGameBadges)

	if p.ProgressBySubject != nil {
		c.ProgressBySubject = make(map[string]map[string]TopicProgress, len(p.ProgressBySubject))
		for sid, topics := range p.ProgressBySubject {
			inner := make(map[string]TopicProgress, len(topics))
			for tid, tp := range topics {
				tp.LastAttempt = append([]QuestionAttempt(nil), tp.LastAttempt...)
				inner[tid] = tp
			}
			c.ProgressBySubject[sid] = inner
		}
	}

	if p.DailyActivity != nil {
		c.DailyActivity = make(map[string]DayActivity, len(p.DailyActivity))
		for day, a := range p.DailyActivity {
			c.DailyActivity[day] = a
		}
	}

	if p.DailyChallengeCompletions != nil {
		c.DailyChallengeCompletions = make(map[string]map[string]bool, len(p.DailyChallengeCompletions))
		for day, types := range p.DailyChallengeCompletions {
			inner := make(map[string]bool, len(types))
			for t, done := range types {
				inner[t] = done
			}
			c.DailyChallengeCompletions[day] = inner
		}
	}

	c.SRSData = cloneSRSMap(p.SRSData)
	c.SRSFlashcardData = cloneSRSMap(p.SRSFlashcardData)

	c.ReviewSessions = make([]ReviewSession, len(p.ReviewSessions))
	for i, rs := range p.ReviewSessions {
		rs.Items = append([]Question(nil), rs.Items...)
		rs.Attempts = cloneAttemptSets(rs.Attempts)
		c.ReviewSessions[i] = rs
	}
	c.CustomQuizzes = make([]CustomQuiz, len(p.CustomQuizzes))
	for i, q := range p.CustomQuizzes {
		q.Items = append([]Question(nil), q.Items...)
		q.Attempts = cloneAttemptSets(q.Attempts)
		c.CustomQuizzes[i] = q
	}
	c.Simulados = make([]Simulado, len(p.Simulados))
	for i, s := range p.Simulados {
		s.Items = append([]Question(nil), s.Items...)
		s.Attempts = cloneAttemptSets(s.Attempts)
		c.Simulados[i] = s
	}

	c.ReviewChallenge = cloneChallenge(p.ReviewChallenge)
	c.GlossaryChallenge = cloneChallenge(p.GlossaryChallenge)
	c.PortugueseChallenge = cloneChallenge(p.PortugueseChallenge)

	return &c
}

func cloneStringSetMap(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func cloneSRSMap(m map[string]SRSEntry) map[string]SRSEntry {
	if m == nil {
		return nil
	}
	out := make(map[string]SRSEntry, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneAttemptSets(sets [][]QuestionAttempt) [][]QuestionAttempt {
	if sets == nil {
		return nil
	}
	out := make([][]QuestionAttempt, len(sets))
	for i, s := range sets {
		out[i] = append([]QuestionAttempt(nil), s...)
	}
	return out
}

func cloneChallenge(c *DailyChallenge) *DailyChallenge {
	if c == nil {
		return nil
	}
	cc := *c
	cc.Items = append([]Question(nil), c.Items...)
	cc.SessionAttempts = append([]QuestionAttempt(nil), c.SessionAttempts...)
	return &cc
}
