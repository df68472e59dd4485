// Package landmark defines the hand landmark frame delivered by the tracking source.
package landmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// Joint indices of the 21-point hand skeleton. Each digit is an open chain
// of four joints running from its base to its tip; the wrist is the hub
// joint connected to the base of every digit.
const (
	ThumbCMC       = 0
	ThumbMCP       = 1
	ThumbIP        = 2
	ThumbTip       = 3
	IndexMCP       = 4
	IndexPIP       = 5
	IndexDIP       = 6
	IndexTip       = 7
	MiddleMCP      = 8
	MiddlePIP      = 9
	MiddleDIP      = 10
	MiddleTip      = 11
	RingMCP        = 12
	RingPIP        = 13
	RingDIP        = 14
	RingTip        = 15
	PinkyMCP       = 16
	PinkyPIP       = 17
	PinkyDIP       = 18
	PinkyTip       = 19
	Wrist          = 20
	NumJoints      = 21
	JointsPerDigit = 4
)

// ErrInvalidFrame is returned by Validate when a frame cannot be interpreted.
var ErrInvalidFrame = errors.New("invalid landmark frame")

// Pose names a hand pose scored by the tracking model.
type Pose string

const (
	// PoseFist is a closed hand.
	PoseFist Pose = "fist"
	// PosePinch is the model's own pinch score. The classifier measures
	// pinches geometrically and does not rely on it.
	PosePinch Pose = "pinch"
)

// Point is a 2D point. Landmark coordinates are normalized to [0,1] with
// the origin at the top-left corner.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as a two element array, the shape produced
// by the inference service.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON accepts a two element array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("point has %d components, want 2", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Frame is one tracking result. A frame is borrowed by the consumer for the
// duration of a single dispatch and must not be retained or mutated.
type Frame struct {
	Points          []Point          `json:"coordinates"`
	HandPresentProb float64          `json:"isHandPresentProb"`
	Poses           map[Pose]float64 `json:"poses"`
}

// Joint returns the coordinates of joint i.
func (f *Frame) Joint(i int) Point {
	return f.Points[i]
}

// PoseProb returns the probability of pose p, or 0 when the model did not score it.
func (f *Frame) PoseProb(p Pose) float64 {
	return f.Poses[p]
}

// Validate reports whether the frame carries everything the interpreter reads:
// a full skeleton of finite coordinates, a hand presence probability and a
// fist score, both within [0,1].
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if len(f.Points) != NumJoints {
		return fmt.Errorf("%w: %d joints, want %d", ErrInvalidFrame, len(f.Points), NumJoints)
	}
	for i, p := range f.Points {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("%w: joint %d is not finite", ErrInvalidFrame, i)
		}
	}
	if !probability(f.HandPresentProb) {
		return fmt.Errorf("%w: hand presence probability %v", ErrInvalidFrame, f.HandPresentProb)
	}
	fist, ok := f.Poses[PoseFist]
	if !ok {
		return fmt.Errorf("%w: missing %s score", ErrInvalidFrame, PoseFist)
	}
	if !probability(fist) {
		return fmt.Errorf("%w: %s probability %v", ErrInvalidFrame, PoseFist, fist)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func probability(v float64) bool {
	return finite(v) && v >= 0 && v <= 1
}

// DecodeSequence reads a JSON array of frames, the format used for recorded
// tracking sessions.
func DecodeSequence(r io.Reader) ([]Frame, error) {
	var frames []Frame
	if err := json.NewDecoder(r).Decode(&frames); err != nil {
		return nil, fmt.Errorf("decode frame sequence: %w", err)
	}
	return frames, nil
}
