package wheel_test

import (
	"errors"
	"testing"

	"github.com/playperu/ruleta/internal/ruleta"
	"github.com/playperu/ruleta/internal/wheel"
)

// fixedRNG replays values and then repeats the last one.
type fixedRNG struct {
	vals []float64
	i    int
}

func (f *fixedRNG) Float64() float64 {
	v := f.vals[min(f.i, len(f.vals)-1)]
	f.i++
	return v
}

func TestLandingIndex(t *testing.T) {
	tests := []struct {
		name     string
		rotation int
		n        int
		want     int
	}{
		{"pointer on first label", 0, 5, 0},
		{"one segment clockwise", 72, 5, 4},
		{"full turns ignored", 5 * 360, 5, 0},
		{"half segment boundary", 36, 5, 0},
		{"just past half segment", 37, 5, 4},
		{"two segments", 144, 5, 3},
		{"accumulated rotation", 7*360 + 72, 5, 4},
		{"single category", 123, 1, 0},
		{"three categories", 180, 3, 2},
		{"negative rotation normalizes", -72, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wheel.LandingIndex(tt.rotation, tt.n)
			if err != nil {
				t.Fatalf("LandingIndex: %v", err)
			}
			if got != tt.want {
				t.Errorf("LandingIndex(%d, %d) = %d, want %d", tt.rotation, tt.n, got, tt.want)
			}
		})
	}
}

func TestLandingIndexAlwaysInRange(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for rot := 0; rot < 3*360; rot++ {
			got, err := wheel.LandingIndex(rot, n)
			if err != nil {
				t.Fatalf("n=%d rot=%d: %v", n, rot, err)
			}
			if got < 0 || got >= n {
				t.Fatalf("n=%d rot=%d: index %d out of range", n, rot, got)
			}
		}
	}
}

func TestLandingIndexEmpty(t *testing.T) {
	if _, err := wheel.LandingIndex(90, 0); !errors.Is(err, ruleta.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSpinAccumulates(t *testing.T) {
	rng := &fixedRNG{vals: []float64{0, 0, 0.99, 0.5}}
	w := wheel.New(rng)

	if got := w.Spin(); got != 5*360 {
		t.Fatalf("first spin = %d, want %d", got, 5*360)
	}
	if got := w.Spin(); got != 5*360+9*360+180 {
		t.Fatalf("second spin = %d, want %d", got, 5*360+9*360+180)
	}
	if w.Rotation() != 5*360+9*360+180 {
		t.Fatalf("rotation = %d", w.Rotation())
	}
}

func TestSpinMonotonic(t *testing.T) {
	w := wheel.New(wheel.NewSeededRNG(42))
	prev := w.Rotation()
	for i := 0; i < 200; i++ {
		rot := w.Spin()
		delta := rot - prev
		if delta < 5*360 || delta >= 10*360 {
			t.Fatalf("spin %d advanced %d degrees, want [1800, 3600)", i, delta)
		}
		prev = rot
	}
}

func TestResolve(t *testing.T) {
	categories := ruleta.DefaultCatalog()
	rng := &fixedRNG{vals: []float64{0.55}}
	w := wheel.New(rng)

	res, err := w.Resolve(categories, 72)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.LandingIndex != 4 {
		t.Fatalf("landing index = %d, want 4", res.LandingIndex)
	}
	if res.Category.Name != "Misiones Especiales" {
		t.Errorf("category = %q", res.Category.Name)
	}
	if res.Question != categories[4].Questions[5] {
		t.Errorf("question = %q, want %q", res.Question, categories[4].Questions[5])
	}
	if res.Rotation != 72 {
		t.Errorf("rotation = %d", res.Rotation)
	}
}

func TestResolveErrors(t *testing.T) {
	w := wheel.New(&fixedRNG{vals: []float64{0}})

	if _, err := w.Resolve(nil, 0); !errors.Is(err, ruleta.ErrInvalidInput) {
		t.Errorf("empty wheel: err = %v, want ErrInvalidInput", err)
	}

	empty := []ruleta.Category{{Name: "Vacía"}}
	if _, err := w.Resolve(empty, 0); !errors.Is(err, ruleta.ErrEmptyCategory) {
		t.Errorf("empty category: err = %v, want ErrEmptyCategory", err)
	}
}

func TestResolveRNGAtOne(t *testing.T) {
	w := wheel.New(&fixedRNG{vals: []float64{1}})
	res, err := w.Resolve([]ruleta.Category{{Name: "A", Questions: []string{"a", "b"}}}, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Question != "b" {
		t.Errorf("question = %q, want b", res.Question)
	}
}

func TestSeededRNGReproducible(t *testing.T) {
	a, b := wheel.New(wheel.NewSeededRNG(7)), wheel.New(wheel.NewSeededRNG(7))
	for i := 0; i < 20; i++ {
		if ra, rb := a.Spin(), b.Spin(); ra != rb {
			t.Fatalf("spin %d diverged: %d != %d", i, ra, rb)
		}
	}
}

func TestDefaultRNGRange(t *testing.T) {
	rng := wheel.DefaultRNG()
	for i := 0; i < 1000; i++ {
		if v := rng.Float64(); v < 0 || v >= 1 {
			t.Fatalf("value %v out of [0, 1)", v)
		}
	}
}
