package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/playperu/ruleta/internal/ruleta"
)

// SQLiteStore keeps custom questions in the relational custom_questions
// table. Every statement is filtered on the owner column, so one owner can
// never read or delete another's rows.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func ownerColumn(owner ruleta.Owner) (string, error) {
	switch owner.Kind {
	case ruleta.OwnerUser:
		return "user_id", nil
	case ruleta.OwnerSession:
		return "session_id", nil
	default:
		return "", fmt.Errorf("%w: unknown owner kind %q", ruleta.ErrInvalidInput, owner.Kind)
	}
}

func (s *SQLiteStore) List(ctx context.Context, owner ruleta.Owner) ([]ruleta.CustomQuestion, error) {
	col, err := ownerColumn(owner)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, question, category, created_at
		FROM custom_questions
		WHERE %s = ?
		ORDER BY created_at DESC, rowid DESC
	`, col), owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []ruleta.CustomQuestion
	for rows.Next() {
		var q ruleta.CustomQuestion
		var createdAt string
		if err := rows.Scan(&q.ID, &q.Question, &q.Category, &createdAt); err != nil {
			return nil, err
		}
		q.CreatedAt = parseTime(createdAt)
		q.Owner = owner
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) Add(ctx context.Context, owner ruleta.Owner, question, category string) (ruleta.CustomQuestion, error) {
	col, err := ownerColumn(owner)
	if err != nil {
		return ruleta.CustomQuestion{}, err
	}

	q := ruleta.CustomQuestion{
		ID:       newID(),
		Question: question,
		Category: category,
		Owner:    owner,
	}
	var createdAt string
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO custom_questions (id, question, category, %s)
		VALUES (?, ?, ?, ?)
		RETURNING created_at
	`, col), q.ID, question, category, owner.ID).Scan(&createdAt)
	if err != nil {
		return ruleta.CustomQuestion{}, err
	}
	q.CreatedAt = parseTime(createdAt)
	return q, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, owner ruleta.Owner, id string) error {
	col, err := ownerColumn(owner)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM custom_questions WHERE id = ? AND %s = ?
	`, col), id, owner.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ruleta.ErrNotFound
	}
	return nil
}
