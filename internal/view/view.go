// Package view holds the camera state for the external surface
// renderer: elevation, azimuth and colormap, plus the auto-rotate
// driver.
package view

import (
	"errors"
	"fmt"
)

// Compile-time view defaults, restorable exactly via Reset.
const (
	DefaultElevation = 30.0
	DefaultAzimuth   = -60.0
	DefaultColormap  = "viridis"
)

// Colormaps is the closed set of recognized colormap identifiers.
var Colormaps = []string{"viridis", "plasma", "inferno", "cividis", "coolwarm"}

// ErrInvalidColormap reports a colormap name outside the closed set.
// The prior colormap is retained when this is returned.
var ErrInvalidColormap = errors.New("invalid colormap")

// ValidColormap checks membership in the closed colormap set.
func ValidColormap(name string) bool {
	for _, c := range Colormaps {
		if name == c {
			return true
		}
	}
	return false
}

// State is the renderer's camera state. Angles are degrees and
// deliberately unclamped: accumulated rotation can exceed any range,
// and the renderer owns periodic wrapping for display.
type State struct {
	Elevation float64 `json:"elevation"`
	Azimuth   float64 `json:"azimuth"`
	Colormap  string  `json:"colormap"`
}

// DefaultState returns the compile-time default view.
func DefaultState() State {
	return State{
		Elevation: DefaultElevation,
		Azimuth:   DefaultAzimuth,
		Colormap:  DefaultColormap,
	}
}

// Rotate adds deltas to the current elevation and azimuth.
func (s *State) Rotate(dElev, dAzim float64) {
	s.Elevation += dElev
	s.Azimuth += dAzim
}

// Set overrides one or both axes absolutely; a nil argument leaves
// that axis unchanged.
func (s *State) Set(elev, azim *float64) {
	if elev != nil {
		s.Elevation = *elev
	}
	if azim != nil {
		s.Azimuth = *azim
	}
}

// Reset restores both axes to the defaults unconditionally, regardless
// of accumulated rotation. The colormap is not touched.
func (s *State) Reset() {
	s.Elevation = DefaultElevation
	s.Azimuth = DefaultAzimuth
}

// SetColormap replaces the colormap identifier. Out-of-set names are
// rejected and the prior value kept.
func (s *State) SetColormap(name string) error {
	if !ValidColormap(name) {
		return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidColormap, name, Colormaps)
	}
	s.Colormap = name
	return nil
}
