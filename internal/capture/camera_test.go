package capture

import (
	"errors"
	"testing"
)

func TestNewDevice(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantFPS int
	}{
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantFPS: DefaultFPS,
		},
		{
			name:    "zero fps falls back to default",
			config:  Config{DeviceID: 1},
			wantFPS: DefaultFPS,
		},
		{
			name:    "custom fps",
			config:  Config{DeviceID: 2, FPS: 15},
			wantFPS: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDevice(tt.config)

			if got := d.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if d.IsOpen() {
				t.Error("device should not be open initially")
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Mirror {
		t.Error("default config should mirror frames")
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("resolution = %dx%d, want %dx%d", cfg.Width, cfg.Height, DefaultWidth, DefaultHeight)
	}
}

func TestDevice_ReadFrameWhenClosed(t *testing.T) {
	d := NewDevice(DefaultConfig())

	if _, err := d.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestDevice_CloseWhenClosed(t *testing.T) {
	d := NewDevice(DefaultConfig())

	if err := d.Close(); err != nil {
		t.Errorf("Close() on a closed device error = %v", err)
	}
}

func TestCameraInterface(t *testing.T) {
	var _ Camera = (*Device)(nil)
	var _ Camera = (*MockCamera)(nil)
}
