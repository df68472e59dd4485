// Package tracking delivers landmark frames to a single subscriber, either
// from a live camera or from a recorded sequence.
package tracking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/landmark"
)

var (
	// ErrSourceClosed is returned by Subscribe once the source has been closed.
	ErrSourceClosed = errors.New("tracking source closed")
	// ErrAlreadySubscribed is returned when a second subscriber attaches.
	ErrAlreadySubscribed = errors.New("tracking source already has a subscriber")
)

// Source produces landmark frames at its own cadence.
type Source interface {
	// Subscribe calls onFrame for each frame, one at a time, until ctx is
	// cancelled or the source ends. The frame is only valid during the call.
	Subscribe(ctx context.Context, onFrame func(*landmark.Frame)) error
}

// CameraSource reads frames from a camera and runs them through a detector.
type CameraSource struct {
	camera   capture.Camera
	detector detector.Detector
	logger   *slog.Logger

	mu     sync.Mutex
	busy   bool
	closed bool
}

// NewCameraSource creates a source polling camera at its frame rate.
func NewCameraSource(camera capture.Camera, det detector.Detector, logger *slog.Logger) *CameraSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CameraSource{camera: camera, detector: det, logger: logger}
}

// Subscribe opens the camera and delivers frames until ctx is done. Read and
// detection failures are logged and the frame is skipped. An exhausted
// camera ends the subscription with ErrSourceClosed.
func (s *CameraSource) Subscribe(ctx context.Context, onFrame func(*landmark.Frame)) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	if !s.camera.IsOpen() {
		if err := s.camera.Open(); err != nil {
			return err
		}
	}

	fps := s.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	s.logger.Info("camera tracking started", "fps", fps)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			frame, err := s.camera.ReadFrame()
			if errors.Is(err, capture.ErrNoMoreFrames) || errors.Is(err, capture.ErrCameraNotOpen) {
				return ErrSourceClosed
			}
			if err != nil {
				s.logger.Warn("reading frame", "err", err)
				continue
			}

			result, err := s.detector.Detect(frame)
			frame.Close()
			if err != nil {
				s.logger.Warn("detecting hand", "err", err)
				continue
			}

			onFrame(result)
		}
	}
}

// Close releases the camera and the detector. A running Subscribe ends on
// its next tick.
func (s *CameraSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return errors.Join(s.camera.Close(), s.detector.Close())
}

func (s *CameraSource) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}
	if s.busy {
		return ErrAlreadySubscribed
	}
	s.busy = true
	return nil
}

func (s *CameraSource) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}
