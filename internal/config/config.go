// Package config loads the airsketch settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ayusman/airsketch/internal/gesture"
)

// Config is the process configuration.
type Config struct {
	Addr      string     `env:"AIRSKETCH_ADDR"       envDefault:":8080"`
	DataDir   string     `env:"AIRSKETCH_DATA_DIR"`
	StaticDir string     `env:"AIRSKETCH_STATIC_DIR"`
	LogLevel  slog.Level `env:"AIRSKETCH_LOG_LEVEL"  envDefault:"INFO"`

	CameraID int    `env:"AIRSKETCH_CAMERA_ID" envDefault:"0"`
	Mirror   bool   `env:"AIRSKETCH_MIRROR"    envDefault:"true"`
	Script   string `env:"AIRSKETCH_INFERENCE_SCRIPT"`
	Python   string `env:"AIRSKETCH_PYTHON"`

	CanvasWidth  int     `env:"AIRSKETCH_CANVAS_WIDTH"  envDefault:"640"`
	CanvasHeight int     `env:"AIRSKETCH_CANVAS_HEIGHT" envDefault:"480"`
	StrokeWidth  float64 `env:"AIRSKETCH_STROKE_WIDTH"  envDefault:"10"`

	HandPresentThreshold float64 `env:"AIRSKETCH_HAND_PRESENT_THRESHOLD" envDefault:"0.5"`
	FistThreshold        float64 `env:"AIRSKETCH_FIST_THRESHOLD"         envDefault:"0.5"`
	PinchDistance        float64 `env:"AIRSKETCH_PINCH_DISTANCE"         envDefault:"0.03"`

	Replay         string        `env:"AIRSKETCH_REPLAY"`
	ReplayInterval time.Duration `env:"AIRSKETCH_REPLAY_INTERVAL" envDefault:"33ms"`
	ReplayLoop     bool          `env:"AIRSKETCH_REPLAY_LOOP"     envDefault:"false"`

	Tray bool `env:"AIRSKETCH_TRAY" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment, fills derived defaults and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".airsketch")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d must be positive", c.CanvasWidth, c.CanvasHeight))
	}
	if c.StrokeWidth <= 0 {
		errs = append(errs, fmt.Errorf("stroke width %v must be positive", c.StrokeWidth))
	}
	for _, th := range []struct {
		name  string
		value float64
	}{
		{"hand present threshold", c.HandPresentThreshold},
		{"fist threshold", c.FistThreshold},
	} {
		if th.value < 0 || th.value > 1 {
			errs = append(errs, fmt.Errorf("%s %v must be within [0, 1]", th.name, th.value))
		}
	}
	if c.PinchDistance <= 0 {
		errs = append(errs, fmt.Errorf("pinch distance %v must be positive", c.PinchDistance))
	}
	if c.ReplayInterval < 0 {
		errs = append(errs, fmt.Errorf("replay interval %v must not be negative", c.ReplayInterval))
	}
	return errors.Join(errs...)
}

// Thresholds returns the classifier thresholds.
func (c Config) Thresholds() gesture.Thresholds {
	return gesture.Thresholds{
		HandPresent:   c.HandPresentThreshold,
		Fist:          c.FistThreshold,
		PinchDistance: c.PinchDistance,
	}
}

// DBPath returns the journal database path inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "airsketch.db")
}
