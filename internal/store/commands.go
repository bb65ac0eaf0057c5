package store

// Command is the enumerated set of view/controller operations. UI
// layers build commands and dispatch them through GridStore.Apply, the
// single command-handling entry point; there is no per-widget callback
// wiring to the state.
type Command interface {
	isCommand()
}

// Rotate adds deltas to the current elevation and azimuth.
type Rotate struct {
	DElev float64
	DAzim float64
}

// SetView absolutely positions one or both axes; nil leaves an axis
// unchanged.
type SetView struct {
	Elevation *float64
	Azimuth   *float64
}

// ResetView restores the compile-time default view.
type ResetView struct{}

// SetColormap selects a colormap from the closed set.
type SetColormap struct {
	Name string
}

// ToggleAutoRotate flips the timed azimuth rotation mode.
type ToggleAutoRotate struct{}

func (Rotate) isCommand()           {}
func (SetView) isCommand()          {}
func (ResetView) isCommand()        {}
func (SetColormap) isCommand()      {}
func (ToggleAutoRotate) isCommand() {}
