package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/ruleta/internal/ruleta"
)

const (
	// sessionCookieName holds the anonymous identity, created once per browser.
	sessionCookieName = "conversation_game_session"
	userCookieName    = "ruleta_user"

	sessionCookieMaxAge = 365 * 24 * time.Hour
	userCookieMaxAge    = 7 * 24 * time.Hour
)

// newSessionIdentity is swapped in tests to simulate a failing source.
var newSessionIdentity = func() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// resolveOwner picks the owner for a request: the logged-in user when the
// user cookie resolves, otherwise the anonymous session identity, minting
// one when the browser has none yet.
func resolveOwner(w http.ResponseWriter, r *http.Request, accounts *AccountStore, secure bool) (ruleta.Owner, *userSession, error) {
	if c, err := r.Cookie(userCookieName); err == nil && c.Value != "" && accounts != nil {
		sess, err := accounts.UserFromSession(r.Context(), c.Value)
		if err == nil {
			return ruleta.UserOwner(sess.UserID), &sess, nil
		}
	}

	if c, err := r.Cookie(sessionCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return ruleta.SessionOwner(id.String()), nil, nil
		}
	}

	id, err := newSessionIdentity()
	if err != nil {
		return ruleta.Owner{}, nil, fmt.Errorf("%w: %w", ruleta.ErrAuthInit, err)
	}
	setCookie(w, sessionCookieName, id, sessionCookieMaxAge, secure)
	return ruleta.SessionOwner(id), nil, nil
}

func setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ownerFrom(ctx context.Context) ruleta.Owner {
	return ctx.Value(ctxKeyOwner).(ruleta.Owner)
}

func userFrom(ctx context.Context) (userSession, bool) {
	sess, ok := ctx.Value(ctxKeyUser).(*userSession)
	if !ok || sess == nil {
		return userSession{}, false
	}
	return *sess, true
}
