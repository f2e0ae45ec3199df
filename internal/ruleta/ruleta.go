// Package ruleta defines the core domain types of the conversation wheel:
// categories, custom questions and the identity that owns them.
// It has no dependencies beyond yaml.v3 for the catalog document.
package ruleta

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidInput covers malformed intents and spinning an empty wheel.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCategory is returned when the landing category has no questions.
	ErrEmptyCategory = errors.New("category has no questions")
	// ErrStoreUnavailable wraps every failure reported by a custom question store.
	ErrStoreUnavailable = errors.New("question store unavailable")
	// ErrAuthInit means no identity could be established for the caller.
	ErrAuthInit = errors.New("identity bootstrap failed")

	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
)

type Category struct {
	Name      string   `json:"name" yaml:"name"`
	Emoji     string   `json:"emoji" yaml:"emoji"`
	Color     string   `json:"color" yaml:"color"`
	Questions []string `json:"questions" yaml:"questions"`
}

type OwnerKind string

const (
	OwnerUser    OwnerKind = "user"
	OwnerSession OwnerKind = "session"
)

// Owner scopes custom questions. An authenticated user takes precedence over
// the anonymous session identity, so only one of them is ever in play.
type Owner struct {
	Kind OwnerKind
	ID   string
}

func UserOwner(id string) Owner    { return Owner{Kind: OwnerUser, ID: id} }
func SessionOwner(id string) Owner { return Owner{Kind: OwnerSession, ID: id} }

// Key is a stable map key for the owner, e.g. "session:6f1c...".
func (o Owner) Key() string { return string(o.Kind) + ":" + o.ID }

func (o Owner) Valid() bool {
	return o.ID != "" && (o.Kind == OwnerUser || o.Kind == OwnerSession)
}

type CustomQuestion struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	Owner     Owner     `json:"-"`
}

// QuestionStore persists custom questions per owner. List returns the
// newest question first. Remove only deletes questions the owner holds.
type QuestionStore interface {
	List(ctx context.Context, owner Owner) ([]CustomQuestion, error)
	Add(ctx context.Context, owner Owner, question, category string) (CustomQuestion, error)
	Remove(ctx context.Context, owner Owner, id string) error
}
