package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/playperu/ruleta/internal/ruleta"
	"github.com/playperu/ruleta/internal/wheel"
)

var ErrSessionEnded = errors.New("game session ended")

// Snapshot is what the players see.
type Snapshot struct {
	Phase         Phase          `json:"phase"`
	CurrentPlayer int            `json:"currentPlayer"`
	IsSpinning    bool           `json:"isSpinning"`
	Rotation      int            `json:"rotation"`
	Selection     *SelectionView `json:"selection"`
	Loading       bool           `json:"loading"`
	Error         string         `json:"error,omitempty"`
}

type SelectionView struct {
	Category string `json:"category"`
	Emoji    string `json:"emoji"`
	Color    string `json:"color"`
	Question string `json:"question"`
}

type Options struct {
	Catalog   []ruleta.Category
	Store     ruleta.QuestionStore
	RNG       wheel.RandomSource
	Scheduler Scheduler
	// Delay before a spin resolves; defaults to wheel.ResolveDelay.
	Delay    time.Duration
	Logger   *slog.Logger
	OnChange func(owner ruleta.Owner, snap Snapshot)
}

// Session is the game of one owner: the turn state, the wheel, and the last
// custom question list the store delivered. All mutations are serialized.
type Session struct {
	owner ruleta.Owner
	opts  Options

	mu      sync.Mutex
	state   State
	wheel   *wheel.Wheel
	custom  []ruleta.CustomQuestion
	loading bool
	errMsg  string
	spinSeq uint64
	pending Timer
	ended   bool
}

func NewSession(owner ruleta.Owner, opts Options) *Session {
	if opts.Catalog == nil {
		opts.Catalog = ruleta.DefaultCatalog()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler()
	}
	if opts.Delay <= 0 {
		opts.Delay = wheel.ResolveDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{
		owner: owner,
		opts:  opts,
		state: NewState(),
		wheel: wheel.New(opts.RNG),
	}
}

func (s *Session) Owner() ruleta.Owner { return s.owner }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Categories returns the wheel input: the catalog merged with the current
// custom question snapshot.
func (s *Session) Categories() []ruleta.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ruleta.Merge(s.opts.Catalog, s.custom)
}

func (s *Session) CustomQuestions() []ruleta.CustomQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.custom)
}

func (s *Session) Catalog() []ruleta.Category { return s.opts.Catalog }

// RequestSpin starts the wheel. It reports false, and schedules nothing, when
// a spin is already running.
func (s *Session) RequestSpin() (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return s.snapshotLocked(), false, ErrSessionEnded
	}

	next, ok := s.state.RequestSpin()
	if !ok {
		return s.snapshotLocked(), false, nil
	}
	s.state = next
	s.errMsg = ""

	categories := ruleta.Merge(s.opts.Catalog, s.custom)
	rotation := s.wheel.Spin()
	s.spinSeq++
	seq := s.spinSeq
	s.pending = s.opts.Scheduler.AfterFunc(s.opts.Delay, func() {
		s.resolve(seq, categories, rotation)
	})

	return s.changedLocked(), true, nil
}

func (s *Session) resolve(seq uint64, categories []ruleta.Category, rotation int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended || seq != s.spinSeq || !s.state.IsSpinning {
		return
	}
	s.pending = nil

	res, err := s.wheel.Resolve(categories, rotation)
	if err != nil {
		s.opts.Logger.Warn("spin failed", "owner", s.owner.Key(), "error", err)
		s.state = s.state.Fail()
		s.errMsg = err.Error()
		s.changedLocked()
		return
	}

	next, err := s.state.Resolve(Selection{Category: res.Category, Question: res.Question})
	if err != nil {
		s.opts.Logger.Error("resolving spin", "owner", s.owner.Key(), "error", err)
		return
	}
	s.state = next
	s.opts.Logger.Debug("spin resolved",
		"owner", s.owner.Key(),
		"category", res.Category.Name,
		"landing_index", res.LandingIndex,
		"rotation", rotation,
	)
	s.changedLocked()
}

func (s *Session) FinishTurn() (Snapshot, error) {
	return s.transition(func(st State) (State, error) { return st.FinishTurn() })
}

func (s *Session) CloseResult() (Snapshot, error) {
	return s.transition(func(st State) (State, error) { return st.Close() })
}

func (s *Session) SetCurrentPlayer(n int) (Snapshot, error) {
	return s.transition(func(st State) (State, error) { return st.SetPlayer(n) })
}

func (s *Session) transition(fn func(State) (State, error)) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return s.snapshotLocked(), ErrSessionEnded
	}
	next, err := fn(s.state)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.state = next
	return s.changedLocked(), nil
}

// Refresh replaces the custom question snapshot with the store's list.
// On failure the previous snapshot is kept.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.changedLocked()
	s.mu.Unlock()

	list, err := s.opts.Store.List(ctx, s.owner)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return s.storeFailedLocked("listing questions", err)
	}
	s.custom = list
	s.changedLocked()
	return nil
}

func (s *Session) AddCustomQuestion(ctx context.Context, text, category string) (ruleta.CustomQuestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ruleta.CustomQuestion{}, fmt.Errorf("%w: question is required", ruleta.ErrInvalidInput)
	}
	if !ruleta.HasCategory(s.opts.Catalog, category) {
		return ruleta.CustomQuestion{}, fmt.Errorf("%w: unknown category %q", ruleta.ErrInvalidInput, category)
	}

	s.clearError()
	q, err := s.opts.Store.Add(ctx, s.owner, text, category)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return ruleta.CustomQuestion{}, s.storeFailedLocked("adding question", err)
	}
	s.custom = append([]ruleta.CustomQuestion{q}, s.custom...)
	s.changedLocked()
	return q, nil
}

func (s *Session) DeleteCustomQuestion(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ruleta.ErrInvalidInput)
	}

	s.clearError()
	err := s.opts.Store.Remove(ctx, s.owner, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.storeFailedLocked("deleting question", err)
	}
	s.custom = slices.DeleteFunc(s.custom, func(q ruleta.CustomQuestion) bool { return q.ID == id })
	s.changedLocked()
	return nil
}

// End cancels a pending spin resolution. The session rejects intents afterwards.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) clearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errMsg != "" {
		s.errMsg = ""
		s.changedLocked()
	}
}

func (s *Session) storeFailedLocked(op string, err error) error {
	if !errors.Is(err, ruleta.ErrNotFound) && !errors.Is(err, ruleta.ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %w", ruleta.ErrStoreUnavailable, err)
	}
	s.opts.Logger.Error("question store failed", "op", op, "owner", s.owner.Key(), "error", err)
	s.errMsg = op + ": " + err.Error()
	s.changedLocked()
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Session) changedLocked() Snapshot {
	snap := s.snapshotLocked()
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.owner, snap)
	}
	return snap
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:         s.state.Phase(),
		CurrentPlayer: s.state.CurrentPlayer,
		IsSpinning:    s.state.IsSpinning,
		Rotation:      s.wheel.Rotation(),
		Loading:       s.loading,
		Error:         s.errMsg,
	}
	if a := s.state.Active; a != nil {
		snap.Selection = &SelectionView{
			Category: a.Category.Name,
			Emoji:    a.Category.Emoji,
			Color:    a.Category.Color,
			Question: a.Question,
		}
	}
	return snap
}
