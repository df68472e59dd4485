package testdata

import (
	"errors"
	"testing"

	"github.com/ayusman/airsketch/internal/landmark"
)

func TestLoadSequence(t *testing.T) {
	tests := []struct {
		name    string
		frames  int
		invalid int
	}{
		{name: PinchStroke, frames: 16, invalid: 1},
		{name: FistClear, frames: 7},
		{name: LostHand, frames: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames, err := LoadSequence(tt.name)
			if err != nil {
				t.Fatalf("LoadSequence() error = %v", err)
			}
			if len(frames) != tt.frames {
				t.Errorf("got %d frames, want %d", len(frames), tt.frames)
			}

			invalid := 0
			for i := range frames {
				if err := frames[i].Validate(); err != nil {
					if !errors.Is(err, landmark.ErrInvalidFrame) {
						t.Errorf("frame %d: unexpected error %v", i, err)
					}
					invalid++
				}
			}
			if invalid != tt.invalid {
				t.Errorf("got %d invalid frames, want %d", invalid, tt.invalid)
			}
		})
	}
}

func TestLoadSequence_Missing(t *testing.T) {
	if _, err := LoadSequence("missing.json"); err == nil {
		t.Error("expected error for a missing sequence")
	}
}

func TestNames(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	if len(names) != 3 {
		t.Errorf("Names() = %v, want 3 sequences", names)
	}
}
