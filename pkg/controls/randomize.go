package controls

import (
	"math"
	"math/rand/v2"
)

// RandomizeAction writes one random percentage into an input and a progress
type RandomizeAction struct {
	input    *InputControl[float64]
	progress *ProgressControl
	area     Area
	rand     func() float64
}

// RandomizeOption customizes a RandomizeAction
type RandomizeOption func(*RandomizeAction)

// WithRandSource replaces the [0, 1) source used to pick percentages
func WithRandSource(fn func() float64) RandomizeOption {
	return func(a *RandomizeAction) {
		if fn != nil {
			a.rand = fn
		}
	}
}

// NewRandomize creates a randomize action bound to input and progress
func NewRandomize(input *InputControl[float64], progress *ProgressControl, area Area, opts ...RandomizeOption) *RandomizeAction {
	a := &RandomizeAction{
		input:    input,
		progress: progress,
		area:     area,
		rand:     rand.Float64,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Percent draws the next percentage as round(rand*100). The endpoints 0 and
// 100 each get half the sampling width of the interior values.
func (a *RandomizeAction) Percent() float64 {
	return math.Round(a.rand() * 100)
}

// Execute picks a percentage and writes it to the input, then the progress,
// requesting a redraw after each write. The input's change hook is not
// invoked.
func (a *RandomizeAction) Execute() {
	percent := a.Percent()

	a.input.Store(percent)
	a.area.Update(TargetControl, a.input.ID())

	a.progress.Percent = percent
	a.area.Update(TargetControl, a.progress.ID())
}
