package server

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/ruleta/internal/ruleta"
)

var (
	errEmailTaken         = errors.New("email already registered")
	errInvalidCredentials = errors.New("invalid credentials")
)

type userSession struct {
	UserID string
	Email  string
}

// AccountStore holds registered players and their login sessions.
type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) CreateUser(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	id := newID()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)
	`, id, email, string(hash))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", errEmailTaken
		}
		return "", err
	}
	return id, nil
}

// Authenticate returns the user id for matching credentials.
func (s *AccountStore) Authenticate(ctx context.Context, email, password string) (string, error) {
	var userID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM users WHERE email = ?
	`, email).Scan(&userID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return "", errInvalidCredentials
	}
	return userID, nil
}

func (s *AccountStore) CreateSession(ctx context.Context, userID string) (string, error) {
	sessionID := newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_sessions (id, user_id) VALUES (?, ?)
	`, sessionID, userID)
	return sessionID, err
}

func (s *AccountStore) UserFromSession(ctx context.Context, sessionID string) (userSession, error) {
	var sess userSession
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.UserID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return userSession{}, ruleta.ErrNotFound
	}
	return sess, err
}

func (s *AccountStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = ?`, sessionID)
	return err
}
