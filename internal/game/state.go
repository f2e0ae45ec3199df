// Package game holds the turn state machine and the per-owner session
// controller that drives it.
package game

import (
	"fmt"

	"github.com/playperu/ruleta/internal/ruleta"
)

// Phase is derived from State, never stored.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseSpinning      Phase = "spinning"
	PhaseShowingResult Phase = "showing_result"
)

const (
	PlayerOne = 1
	PlayerTwo = 2
)

// Selection is the category and question shown to the players.
type Selection struct {
	Category ruleta.Category
	Question string
}

// State is the turn state. It is a value: every transition returns the next
// state and leaves the receiver untouched.
type State struct {
	CurrentPlayer int
	IsSpinning    bool
	Active        *Selection
}

func NewState() State {
	return State{CurrentPlayer: PlayerOne}
}

func (s State) Phase() Phase {
	switch {
	case s.IsSpinning:
		return PhaseSpinning
	case s.Active != nil:
		return PhaseShowingResult
	default:
		return PhaseIdle
	}
}

// RequestSpin starts a spin and clears any result still on screen. While a
// spin is already running it returns the state unchanged and false.
func (s State) RequestSpin() (State, bool) {
	if s.IsSpinning {
		return s, false
	}
	s.IsSpinning = true
	s.Active = nil
	return s, true
}

// Resolve shows the result of the running spin.
func (s State) Resolve(sel Selection) (State, error) {
	if !s.IsSpinning {
		return s, fmt.Errorf("%w: resolve from %s", ruleta.ErrInvalidTransition, s.Phase())
	}
	s.IsSpinning = false
	s.Active = &sel
	return s, nil
}

// Fail ends a spin that produced no result.
func (s State) Fail() State {
	s.IsSpinning = false
	s.Active = nil
	return s
}

// FinishTurn dismisses the result and hands the wheel to the other player.
func (s State) FinishTurn() (State, error) {
	if s.Phase() != PhaseShowingResult {
		return s, fmt.Errorf("%w: finish turn from %s", ruleta.ErrInvalidTransition, s.Phase())
	}
	s.Active = nil
	s.CurrentPlayer = otherPlayer(s.CurrentPlayer)
	return s, nil
}

// Close dismisses the result without passing the turn.
func (s State) Close() (State, error) {
	if s.Phase() != PhaseShowingResult {
		return s, fmt.Errorf("%w: close from %s", ruleta.ErrInvalidTransition, s.Phase())
	}
	s.Active = nil
	s.IsSpinning = false
	return s, nil
}

// SetPlayer picks the current player directly. Only allowed between turns.
func (s State) SetPlayer(n int) (State, error) {
	if n != PlayerOne && n != PlayerTwo {
		return s, fmt.Errorf("%w: player must be 1 or 2, got %d", ruleta.ErrInvalidInput, n)
	}
	if s.Phase() != PhaseIdle {
		return s, fmt.Errorf("%w: set player from %s", ruleta.ErrInvalidTransition, s.Phase())
	}
	s.CurrentPlayer = n
	return s, nil
}

func otherPlayer(n int) int {
	if n == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}
