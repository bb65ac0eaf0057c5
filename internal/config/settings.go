// Package config loads runtime settings for the road-surface monitor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/surface.report/internal/units"
	"github.com/banshee-data/surface.report/internal/view"
)

// Compiled-in defaults, used when a field is absent from the JSON.
const (
	defaultPollInterval       = "400ms"
	defaultAutoRotateStepDeg  = 1.0
	defaultAutoRotateInterval = "125ms"
	defaultUnitScale          = 1.0
	defaultUnits              = units.MM
	defaultListen             = ":8080"
)

// Settings represents the monitor's runtime configuration. Fields are
// pointers so a partial JSON file only overrides what it names; the
// Get* methods provide fallback defaults for everything else.
type Settings struct {
	// SourceFile is the measurement CSV to watch. Usually set by the
	// -csv flag; a config value is a fallback for service deployments.
	SourceFile *string `json:"source_file,omitempty"`

	// PollInterval is a duration string like "400ms".
	PollInterval *string `json:"poll_interval,omitempty"`

	// Auto-rotate params
	AutoRotateStepDeg  *float64 `json:"auto_rotate_step_deg,omitempty"`
	AutoRotateInterval *string  `json:"auto_rotate_interval,omitempty"` // duration string like "125ms"

	// UnitScale multiplies raw millimetre cell values in reported
	// statistics (0.1 reports centimetres).
	UnitScale *float64 `json:"unit_scale,omitempty"`

	// Units is the display unit label for the stats API.
	Units *string `json:"units,omitempty"`

	// Colormap is the initial colormap identifier.
	Colormap *string `json:"colormap,omitempty"`

	// Listen is the HTTP monitor address.
	Listen *string `json:"listen,omitempty"`
}

// EmptySettings returns Settings with all fields unset.
func EmptySettings() *Settings {
	return &Settings{}
}

// LoadSettings loads Settings from a JSON file. Fields omitted from
// the file retain their defaults, so partial configs are safe.
func LoadSettings(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySettings()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Settings) Validate() error {
	if c.PollInterval != nil && *c.PollInterval != "" {
		if d, err := time.ParseDuration(*c.PollInterval); err != nil {
			return fmt.Errorf("invalid poll_interval %q: %w", *c.PollInterval, err)
		} else if d <= 0 {
			return fmt.Errorf("poll_interval must be positive, got %s", d)
		}
	}

	if c.AutoRotateInterval != nil && *c.AutoRotateInterval != "" {
		if d, err := time.ParseDuration(*c.AutoRotateInterval); err != nil {
			return fmt.Errorf("invalid auto_rotate_interval %q: %w", *c.AutoRotateInterval, err)
		} else if d <= 0 {
			return fmt.Errorf("auto_rotate_interval must be positive, got %s", d)
		}
	}

	if c.UnitScale != nil && *c.UnitScale <= 0 {
		return fmt.Errorf("unit_scale must be positive, got %f", *c.UnitScale)
	}

	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("invalid units %q (valid: %s)", *c.Units, units.GetValidUnitsString())
	}

	if c.Colormap != nil && !view.ValidColormap(*c.Colormap) {
		return fmt.Errorf("invalid colormap %q (valid: %v)", *c.Colormap, view.Colormaps)
	}

	return nil
}

// GetSourceFile returns the configured source file or "".
func (c *Settings) GetSourceFile() string {
	if c.SourceFile != nil {
		return *c.SourceFile
	}
	return ""
}

// GetPollInterval returns the polling cadence.
func (c *Settings) GetPollInterval() time.Duration {
	return c.duration(c.PollInterval, defaultPollInterval)
}

// GetAutoRotateStepDeg returns the azimuth step per auto-rotate tick.
func (c *Settings) GetAutoRotateStepDeg() float64 {
	if c.AutoRotateStepDeg != nil {
		return *c.AutoRotateStepDeg
	}
	return defaultAutoRotateStepDeg
}

// GetAutoRotateInterval returns the auto-rotate cadence.
func (c *Settings) GetAutoRotateInterval() time.Duration {
	return c.duration(c.AutoRotateInterval, defaultAutoRotateInterval)
}

// GetUnitScale returns the unit conversion factor for statistics.
func (c *Settings) GetUnitScale() float64 {
	if c.UnitScale != nil {
		return *c.UnitScale
	}
	return defaultUnitScale
}

// GetUnits returns the display unit label.
func (c *Settings) GetUnits() string {
	if c.Units != nil {
		return *c.Units
	}
	return defaultUnits
}

// GetColormap returns the initial colormap.
func (c *Settings) GetColormap() string {
	if c.Colormap != nil {
		return *c.Colormap
	}
	return view.DefaultColormap
}

// GetListen returns the HTTP listen address.
func (c *Settings) GetListen() string {
	if c.Listen != nil {
		return *c.Listen
	}
	return defaultListen
}

// duration parses a pointer duration field with a known-good default.
func (c *Settings) duration(field *string, fallback string) time.Duration {
	s := fallback
	if field != nil && *field != "" {
		s = *field
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}
