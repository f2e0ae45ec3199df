package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/ruleta/internal/ruleta"
)

// questionDoc is the document body stored as JSONB. Anonymous owners are
// recorded under sessionId, authenticated ones under userId.
type questionDoc struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

func (d questionDoc) owner() ruleta.Owner {
	if d.UserID != "" {
		return ruleta.UserOwner(d.UserID)
	}
	return ruleta.SessionOwner(d.SessionID)
}

func (d questionDoc) toQuestion() ruleta.CustomQuestion {
	return ruleta.CustomQuestion{
		ID:        d.ID,
		Question:  d.Question,
		Category:  d.Category,
		CreatedAt: parseTime(d.CreatedAt),
		Owner:     d.owner(),
	}
}

// DocStore implements Store as a document collection: one JSONB body per
// question plus an owner column for the collection query.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(ctx context.Context, db *sql.DB) (*DocStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS question_docs (
			id         TEXT PRIMARY KEY,
			owner      TEXT NOT NULL,
			created_at TEXT NOT NULL,
			data       JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS question_docs_owner_idx ON question_docs (owner, created_at)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}

	return &DocStore{db: db}, nil
}

func (s *DocStore) get(ctx context.Context, id string) (questionDoc, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM question_docs WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return questionDoc{}, ruleta.ErrNotFound
	}
	if err != nil {
		return questionDoc{}, err
	}
	var d questionDoc
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return questionDoc{}, err
	}
	return d, nil
}

func (s *DocStore) put(ctx context.Context, d questionDoc) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO question_docs (id, owner, created_at, data) VALUES (?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET owner = excluded.owner, created_at = excluded.created_at, data = excluded.data`,
		d.ID, d.owner().Key(), d.CreatedAt, string(data),
	)
	return err
}

func (s *DocStore) List(ctx context.Context, owner ruleta.Owner) ([]ruleta.CustomQuestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM question_docs WHERE owner = ? ORDER BY created_at DESC, rowid DESC`,
		owner.Key(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []ruleta.CustomQuestion
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var d questionDoc
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, err
		}
		questions = append(questions, d.toQuestion())
	}
	return questions, rows.Err()
}

func (s *DocStore) Add(ctx context.Context, owner ruleta.Owner, question, category string) (ruleta.CustomQuestion, error) {
	if !owner.Valid() {
		return ruleta.CustomQuestion{}, fmt.Errorf("%w: invalid owner", ruleta.ErrInvalidInput)
	}
	d := questionDoc{
		ID:        newID(),
		Question:  question,
		Category:  category,
		CreatedAt: nowUTC(),
	}
	if owner.Kind == ruleta.OwnerUser {
		d.UserID = owner.ID
	} else {
		d.SessionID = owner.ID
	}

	if err := s.put(ctx, d); err != nil {
		return ruleta.CustomQuestion{}, err
	}
	return d.toQuestion(), nil
}

func (s *DocStore) Remove(ctx context.Context, owner ruleta.Owner, id string) error {
	d, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if d.owner() != owner {
		return ruleta.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM question_docs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ruleta.ErrNotFound
	}
	return nil
}
