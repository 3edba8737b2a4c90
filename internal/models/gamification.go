package models

import "time"

// ── Events ────────────────────────────────────────────────

// XPAward is one XP grant emitted by a mutator, surfaced to the UI as a toast.
type XPAward struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

type LevelUp struct {
	NewLevel int    `json:"new_level"`
	Title    string `json:"title"`
}

// EarnedBadge is a badge definition merged with any dynamic name/description
// computed at award time.
type EarnedBadge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type XPEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventType string    `json:"event_type"`
	XPAmount  int       `json:"xp_amount"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────────

type CompleteQuizRequest struct {
	SubjectID string            `json:"subject_id"`
	TopicID   string            `json:"topic_id"`
	Attempts  []QuestionAttempt `json:"attempts"`
}

type CompleteReviewRequest struct {
	ReviewID string            `json:"review_id"`
	Attempts []QuestionAttempt `json:"attempts"`
}

type CompleteGameRequest struct {
	TopicID string `json:"topic_id"`
	GameID  string `json:"game_id"`
}

type CompleteCustomQuizRequest struct {
	QuizID   string            `json:"quiz_id"`
	Attempts []QuestionAttempt `json:"attempts"`
}

type CompleteSimuladoRequest struct {
	SimuladoID string            `json:"simulado_id"`
	Attempts   []QuestionAttempt `json:"attempts"`
}

type CompleteChallengeRequest struct {
	ChallengeType string            `json:"challenge_type"` // review, glossary, portuguese
	Attempts      []QuestionAttempt `json:"attempts"`
	IsCatchUp     bool              `json:"is_catch_up"`
}

type CreateReviewSessionRequest struct {
	Type  string     `json:"type"` // "srs" or "topic"
	Name  string     `json:"name,omitempty"`
	Items []Question `json:"items,omitempty"`
}

type CreateCustomQuizRequest struct {
	Name  string     `json:"name"`
	Items []Question `json:"items"`
}

type CreateSimuladoRequest struct {
	Name  string     `json:"name"`
	Items []Question `json:"items"`
}

type GenerateCustomQuizRequest struct {
	SubjectID string `json:"subject_id"`
	TopicID   string `json:"topic_id"`
	Count     int    `json:"count,omitempty"`
}

// ── Response Types ────────────────────────────────────────

// ActivityResponse is returned by every completion endpoint: the committed
// progress plus everything the UI needs to sequence toasts, badge reveals and
// the level-up modal.
type ActivityResponse struct {
	XP        int              `json:"xp"`
	Level     int              `json:"level"`
	Title     string           `json:"title"`
	XPAwards  []XPAward        `json:"xp_awards"`
	LevelUp   *LevelUp         `json:"level_up,omitempty"`
	NewBadges []EarnedBadge    `json:"new_badges"`
	Progress  *StudentProgress `json:"progress"`
}

type ProgressResponse struct {
	Level    int              `json:"level"`
	Title    string           `json:"title"`
	Progress *StudentProgress `json:"progress"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"user_id"`
	DisplayName   string `json:"display_name"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
