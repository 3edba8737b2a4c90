package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/estudai/backend/internal/models"
)

// Store reads the course catalog. Each subject row carries its full
// topic/question tree as JSONB; position fixes catalog order, which badge
// evaluation depends on.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetSubjects() ([]models.Subject, error) {
	rows, err := s.db.Query(
		`SELECT id, name, data FROM subjects ORDER BY position ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var id, name string
		var raw []byte
		if err := rows.Scan(&id, &name, &raw); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subject := models.Subject{ID: id, Name: name}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &subject); err != nil {
				return nil, fmt.Errorf("decode subject %s: %w", id, err)
			}
		}
		subject.ID = id
		subject.Name = name
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

func (s *Store) GetSubject(id string) (*models.Subject, error) {
	var name string
	var raw []byte
	err := s.db.QueryRow(
		`SELECT name, data FROM subjects WHERE id = $1`,
		id,
	).Scan(&name, &raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}

	subject := models.Subject{ID: id, Name: name}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &subject); err != nil {
			return nil, fmt.Errorf("decode subject %s: %w", id, err)
		}
	}
	subject.ID = id
	subject.Name = name
	return &subject, nil
}

// UpsertSubject writes a subject's full tree, used by content seeding.
func (s *Store) UpsertSubject(subject models.Subject, position int) error {
	raw, err := json.Marshal(subject)
	if err != nil {
		return fmt.Errorf("encode subject: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO subjects (id, name, position, data)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = $2, position = $3, data = $4`,
		subject.ID, subject.Name, position, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert subject: %w", err)
	}
	return nil
}
