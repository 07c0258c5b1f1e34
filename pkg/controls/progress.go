package controls

// ProgressControl displays a percentage. Percent is written directly by its
// owners and is not clamped; values outside [0, 100] are rendered as given.
type ProgressControl struct {
	base
	Percent float64
}

// NewProgressControl creates a progress control starting at percent
func NewProgressControl(percent float64) *ProgressControl {
	return &ProgressControl{base: newBase(), Percent: percent}
}

// Kind returns KindProgress
func (c *ProgressControl) Kind() Kind { return KindProgress }

// SyncProgress returns a change hook that mirrors an input value into
// progress and asks area to redraw the progress. The input itself is not
// redrawn; its view already shows what the user typed.
func SyncProgress(progress *ProgressControl, area Area) func(float64) {
	return func(v float64) {
		progress.Percent = v
		area.Update(TargetControl, progress.ID())
	}
}
