package gamification

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/estudai/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Progress CRUD ───────────────────────────────────────

// GetOrCreateProgress loads the student's progress document, creating an
// empty one on first touch.
func (s *Store) GetOrCreateProgress(userID int64) (*models.StudentProgress, error) {
	_, err := s.db.Exec(
		`INSERT INTO student_progress (user_id, data) VALUES ($1, '{}'::jsonb)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	var raw []byte
	err = s.db.QueryRow(
		`SELECT data FROM student_progress WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	var p models.StudentProgress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return &p, nil
}

func (s *Store) SaveProgress(userID int64, p *models.StudentProgress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO student_progress (user_id, data, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET data = $2, updated_at = NOW()`,
		userID, raw,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// GetAllProgress returns the whole cohort keyed by user id, for badges that
// compare students against each other.
func (s *Store) GetAllProgress() (map[string]*models.StudentProgress, error) {
	rows, err := s.db.Query(`SELECT user_id, data FROM student_progress`)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	cohort := make(map[string]*models.StudentProgress)
	for rows.Next() {
		var userID int64
		var raw []byte
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		var p models.StudentProgress
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode progress for user %d: %w", userID, err)
		}
		cohort[strconv.FormatInt(userID, 10)] = &p
	}
	return cohort, rows.Err()
}

// ── XP Event Log ────────────────────────────────────────

func (s *Store) LogXPEvent(userID int64, eventType string, amount int, metadata map[string]interface{}) {
	var metaJSON []byte
	if metadata != nil {
		metaJSON, _ = json.Marshal(metadata)
	}
	s.db.Exec(
		`INSERT INTO xp_events (user_id, event_type, xp_amount, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, eventType, amount, metaJSON,
	)
}

func (s *Store) RecentXPEvents(userID int64, limit int) ([]models.XPEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, event_type, xp_amount, COALESCE(metadata::text, ''), created_at
		 FROM xp_events WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list xp events: %w", err)
	}
	defer rows.Close()

	var events []models.XPEvent
	for rows.Next() {
		var e models.XPEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.EventType, &e.XPAmount, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan xp event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Store) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, COALESCE((sp.data->>'xp')::bigint, 0) AS xp
		 FROM users u
		 JOIN student_progress sp ON sp.user_id = u.id
		 ORDER BY xp DESC, u.id ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var id int64
		var name string
		var xp int
		if err := rows.Scan(&id, &name, &xp); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		rank++
		entries = append(entries, models.LeaderboardEntry{
			Rank:        rank,
			UserID:      id,
			DisplayName: models.User{Name: name}.DisplayName(),
			XP:          xp,
			Level:       CalculateLevel(xp),
		})
	}
	return entries, rows.Err()
}
