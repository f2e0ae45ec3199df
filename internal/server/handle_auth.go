package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/playperu/ruleta/internal/game"
	"github.com/playperu/ruleta/internal/ruleta"
)

const minPasswordLen = 8

// CredentialsRequest is the request body for register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MeResponse describes the logged-in player.
type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (req *CredentialsRequest) normalize() error {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

func handleRegister(logger *slog.Logger, accounts *AccountStore, games *game.Registry, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.normalize(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !strings.Contains(req.Email, "@") {
			writeError(w, http.StatusBadRequest, "invalid email")
			return
		}
		if len(req.Password) < minPasswordLen {
			writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}

		userID, err := accounts.CreateUser(r.Context(), req.Email, req.Password)
		if errors.Is(err, errEmailTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			logger.Error("creating user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if !startUserSession(w, r, logger, accounts, games, userID, secure) {
			return
		}
		writeJSON(w, http.StatusCreated, MeResponse{ID: userID, Email: req.Email})
	}
}

func handleLogin(logger *slog.Logger, accounts *AccountStore, games *game.Registry, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.normalize(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		userID, err := accounts.Authenticate(r.Context(), req.Email, req.Password)
		if errors.Is(err, errInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if err != nil {
			logger.Error("authenticating user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if !startUserSession(w, r, logger, accounts, games, userID, secure) {
			return
		}
		writeJSON(w, http.StatusOK, MeResponse{ID: userID, Email: req.Email})
	}
}

// startUserSession sets the user cookie. The anonymous game the request was
// playing is ended since later requests belong to the user.
func startUserSession(w http.ResponseWriter, r *http.Request, logger *slog.Logger, accounts *AccountStore, games *game.Registry, userID string, secure bool) bool {
	sessionID, err := accounts.CreateSession(r.Context(), userID)
	if err != nil {
		logger.Error("creating user session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	setCookie(w, userCookieName, sessionID, userCookieMaxAge, secure)

	if prev := ownerFrom(r.Context()); prev.Kind == ruleta.OwnerSession {
		games.End(prev)
	}
	return true
}

func handleLogout(accounts *AccountStore, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(userCookieName); err == nil && c.Value != "" {
			accounts.DeleteSession(r.Context(), c.Value)
		}
		clearCookie(w, userCookieName, secure)

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, MeResponse{ID: user.UserID, Email: user.Email})
	}
}
