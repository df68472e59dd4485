// Package detector turns camera frames into hand landmark frames.
package detector

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/landmark"
)

// Detector defines the interface for hand tracking implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the tracked hand.
	// A frame without a hand yields a Frame with a low presence probability,
	// not an error.
	Detect(frame *gocv.Mat) (*landmark.Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for the inference service.
type Config struct {
	// Python is the interpreter used to run Script. Empty means a venv
	// interpreter when one is found, otherwise python3.
	Python string

	// Script is the path of the inference service. Empty means search the
	// usual install locations.
	Script string

	// IdleTimeout shuts the service down after this long without a frame.
	// Zero disables the idle shutdown.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		IdleTimeout: 30 * time.Second,
	}
}
