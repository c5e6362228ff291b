// Package config defines service configuration and its loading.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/pitch"
	"github.com/okian/cricscore/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the record store: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// RosterPath is an optional TOML roster. Empty uses the built-in roster.
	RosterPath string `koanf:"roster_path"`

	// QueueSize bounds the analytics queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analytics workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the commit guard.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxDeliveriesLimit caps GET .../deliveries?limit.
	MaxDeliveriesLimit int `koanf:"max_deliveries_limit"`

	// Pitch map widget and trapezoid, in widget pixels.
	PitchWidth      float64 `koanf:"pitch_width"`
	PitchHeight     float64 `koanf:"pitch_height"`
	PitchNearY      float64 `koanf:"pitch_near_y"`
	PitchFarY       float64 `koanf:"pitch_far_y"`
	PitchNearLeftX  float64 `koanf:"pitch_near_left_x"`
	PitchNearRightX float64 `koanf:"pitch_near_right_x"`
	PitchFarLeftX   float64 `koanf:"pitch_far_left_x"`
	PitchFarRightX  float64 `koanf:"pitch_far_right_x"`

	// Wagon wheel widget and circle, in widget pixels.
	FieldSize        float64 `koanf:"field_size"`
	FieldCenterX     float64 `koanf:"field_center_x"`
	FieldCenterY     float64 `koanf:"field_center_y"`
	FieldRadius      float64 `koanf:"field_radius"`
	FieldInnerRadius float64 `koanf:"field_inner_radius"`
}

// New returns a Config with defaults.
func New() *Config {
	t := pitch.DefaultTrapezoid()
	c := field.DefaultCircle()
	return &Config{
		LogLevel:           "info",
		LogFormat:          logger.FormatText,
		Addr:               ":9080",
		StoreDriver:        repository.DriverMemory,
		SQLitePath:         "data/cricscore.db",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU(),
		DedupeSize:         50_000,
		MaxDeliveriesLimit: 1000,

		PitchWidth:      pitch.DefaultWidth,
		PitchHeight:     pitch.DefaultHeight,
		PitchNearY:      t.NearLeft.Y,
		PitchFarY:       t.FarLeft.Y,
		PitchNearLeftX:  t.NearLeft.X,
		PitchNearRightX: t.NearRight.X,
		PitchFarLeftX:   t.FarLeft.X,
		PitchFarRightX:  t.FarRight.X,

		FieldSize:        field.DefaultSize,
		FieldCenterX:     c.Center.X,
		FieldCenterY:     c.Center.Y,
		FieldRadius:      c.Radius,
		FieldInnerRadius: c.InnerRadius,
	}
}

// PitchTrapezoid returns the configured pitch drawing.
func (c *Config) PitchTrapezoid() pitch.Trapezoid {
	return pitch.Trapezoid{
		NearLeft:  geometry.Pt(c.PitchNearLeftX, c.PitchNearY),
		NearRight: geometry.Pt(c.PitchNearRightX, c.PitchNearY),
		FarRight:  geometry.Pt(c.PitchFarRightX, c.PitchFarY),
		FarLeft:   geometry.Pt(c.PitchFarLeftX, c.PitchFarY),
	}
}

// PitchSize returns the logical size of the pitch map widget.
func (c *Config) PitchSize() geometry.Size {
	return geometry.Size{Width: c.PitchWidth, Height: c.PitchHeight}
}

// FieldCircle returns the configured wagon wheel.
func (c *Config) FieldCircle() field.Circle {
	return field.Circle{
		Center:      geometry.Pt(c.FieldCenterX, c.FieldCenterY),
		Radius:      c.FieldRadius,
		InnerRadius: c.FieldInnerRadius,
	}
}

// FieldWidgetSize returns the logical size of the wagon wheel widget.
func (c *Config) FieldWidgetSize() geometry.Size {
	return geometry.Size{Width: c.FieldSize, Height: c.FieldSize}
}

// Validate checks the values Load cannot coerce. Geometry is checked by the
// mappers themselves.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.StoreDriver != repository.DriverMemory && c.StoreDriver != repository.DriverSQLite:
		return invalid("store_driver %q must be %s or %s", c.StoreDriver, repository.DriverMemory, repository.DriverSQLite)
	case c.StoreDriver == repository.DriverSQLite && c.SQLitePath == "":
		return invalid("sqlite_path is required for the sqlite driver")
	case c.LogFormat != logger.FormatText && c.LogFormat != logger.FormatJSON:
		return invalid("log_format %q must be %s or %s", c.LogFormat, logger.FormatText, logger.FormatJSON)
	case c.QueueSize < 1:
		return invalid("queue_size %d must be positive", c.QueueSize)
	case c.WorkerCount < 1:
		return invalid("worker_count %d must be positive", c.WorkerCount)
	case c.MaxDeliveriesLimit < 1:
		return invalid("max_deliveries_limit %d must be positive", c.MaxDeliveriesLimit)
	case c.PitchWidth <= 0 || c.PitchHeight <= 0:
		return invalid("pitch widget size %vx%v must be positive", c.PitchWidth, c.PitchHeight)
	case c.FieldSize <= 0:
		return invalid("field_size %v must be positive", c.FieldSize)
	}
	return nil
}
