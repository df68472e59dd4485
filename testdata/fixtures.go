// Package testdata embeds recorded landmark sequences for tests.
package testdata

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/ayusman/airsketch/internal/landmark"
)

//go:embed frames/*.json
var framesFS embed.FS

// Recorded sequences.
const (
	// PinchStroke is one pinch stroke of nine segments with a malformed
	// frame in the middle, ended by opening the hand.
	PinchStroke = "pinch_stroke.json"
	// FistClear is a four segment stroke wiped by a fist.
	FistClear = "fist_clear.json"
	// LostHand is a stroke interrupted by the hand leaving the frame, then
	// a second stroke.
	LostHand = "lost_hand.json"
)

// LoadSequence loads a recorded frame sequence by name.
func LoadSequence(name string) ([]landmark.Frame, error) {
	data, err := framesFS.ReadFile("frames/" + name)
	if err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}

	frames, err := landmark.DecodeSequence(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}
	return frames, nil
}

// Names lists the embedded sequences.
func Names() ([]string, error) {
	entries, err := framesFS.ReadDir("frames")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
