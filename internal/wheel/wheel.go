// Package wheel decides where the conversation wheel stops and which
// question the landing category yields.
//
// A spin happens in two steps. Spin draws the number of turns and the final
// offset and advances the accumulated rotation; the caller then waits
// ResolveDelay (the length of the wheel animation) and calls Resolve with the
// rotation it got back to learn the landing category and draw a question.
package wheel

import (
	"fmt"
	"math"
	"time"

	"github.com/playperu/ruleta/internal/ruleta"
)

// ResolveDelay is how long the wheel turns before its result is read.
const ResolveDelay = 3000 * time.Millisecond

const (
	minTurns   = 5
	turnChoice = 5 // 5..9 full turns
)

type Result struct {
	LandingIndex int
	Category     ruleta.Category
	Question     string
	Rotation     int
}

// Wheel is not safe for concurrent use; its owner serializes access.
type Wheel struct {
	rng      RandomSource
	rotation int
}

func New(rng RandomSource) *Wheel {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Wheel{rng: rng}
}

// Rotation is the accumulated clockwise rotation in degrees.
func (w *Wheel) Rotation() int { return w.rotation }

// Spin advances the wheel by 5 to 9 full turns plus an offset in [0, 360)
// and returns the new accumulated rotation. The wheel only ever turns forward.
func (w *Wheel) Spin() int {
	turns := minTurns + pick(w.rng, turnChoice)
	offset := pick(w.rng, 360)
	w.rotation += turns*360 + offset
	return w.rotation
}

// Resolve reads the landing category for rotation and draws one of its
// questions.
func (w *Wheel) Resolve(categories []ruleta.Category, rotation int) (Result, error) {
	idx, err := LandingIndex(rotation, len(categories))
	if err != nil {
		return Result{}, err
	}

	c := categories[idx]
	if len(c.Questions) == 0 {
		return Result{}, fmt.Errorf("%w: %q", ruleta.ErrEmptyCategory, c.Name)
	}
	q := c.Questions[pick(w.rng, len(c.Questions))]

	return Result{
		LandingIndex: idx,
		Category:     c,
		Question:     q,
		Rotation:     rotation,
	}, nil
}

// LandingIndex returns the index of the segment under the pointer when the
// wheel has turned rotation degrees clockwise. The pointer sits at 0 degrees
// and segment labels are centred in their span, hence the half segment.
func LandingIndex(rotation, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: wheel has no categories", ruleta.ErrInvalidInput)
	}
	normalized := float64(((rotation % 360) + 360) % 360)
	segment := 360 / float64(n)
	idx := int(math.Floor((360-normalized+segment/2)/segment)) % n
	return idx, nil
}

func pick(rng RandomSource, n int) int {
	i := int(math.Floor(rng.Float64() * float64(n)))
	// Guard against sources that return exactly 1.
	if i >= n {
		i = n - 1
	}
	return i
}
