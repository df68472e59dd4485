// Package capture reads video frames from a camera using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEmptyFrame is returned when the device delivers no image.
	ErrEmptyFrame = errors.New("captured frame is empty")
)

// Config holds camera settings.
type Config struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
	// Mirror flips frames horizontally so the image behaves like a mirror
	// and moving the hand right moves the cursor right.
	Mirror bool
}

// DefaultConfig returns the settings for the default webcam, mirrored.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Mirror:   true,
	}
}

// Camera is a source of video frames.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller must Close it.
	ReadFrame() (*gocv.Mat, error)
	FPS() int
	IsOpen() bool
}

// Device is a Camera backed by an OpenCV video capture device.
type Device struct {
	config  Config
	capture *gocv.VideoCapture
	mu      sync.Mutex
}

// NewDevice creates a Device. The device is opened by Open.
func NewDevice(config Config) *Device {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	return &Device{config: config}
}

// Open opens the capture device and applies the configured resolution and rate.
func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture != nil {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(d.config.DeviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", d.config.DeviceID, err)
	}

	if d.config.Width > 0 && d.config.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(d.config.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(d.config.Height))
	}
	capture.Set(gocv.VideoCaptureFPS, float64(d.config.FPS))

	d.capture = capture
	return nil
}

// Close releases the capture device. Closing a closed device is a no-op.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil
	}
	err := d.capture.Close()
	d.capture = nil
	return err
}

// ReadFrame grabs one frame, mirrored when configured.
func (d *Device) ReadFrame() (*gocv.Mat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := d.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrEmptyFrame
	}

	if !d.config.Mirror {
		return &mat, nil
	}
	return mirror(&mat)
}

// FPS returns the configured frame rate.
func (d *Device) FPS() int {
	return d.config.FPS
}

// IsOpen reports whether the device is open.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.capture != nil
}

// mirror flips src around the vertical axis, closing src.
func mirror(src *gocv.Mat) (*gocv.Mat, error) {
	defer src.Close()

	flipped := gocv.NewMat()
	gocv.Flip(*src, &flipped, 1)
	if flipped.Empty() {
		flipped.Close()
		return nil, fmt.Errorf("mirror frame: %w", ErrEmptyFrame)
	}
	return &flipped, nil
}
