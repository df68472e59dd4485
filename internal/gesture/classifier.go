// Package gesture turns a landmark frame into a discrete drawing gesture
// and a screen position.
package gesture

import "github.com/ayusman/airsketch/internal/landmark"

// Label is the gesture recognized in a single frame.
type Label int

const (
	// None means the hand is present but neither drawing nor clearing.
	None Label = iota
	// Pinch means the thumb and index tips touch; the pen is down.
	Pinch
	// Fist means the hand is closed; the canvas is cleared.
	Fist
)

// String returns the lower-case name of the label.
func (l Label) String() string {
	switch l {
	case Pinch:
		return "pinch"
	case Fist:
		return "fist"
	default:
		return "none"
	}
}

// Thresholds holds the decision boundaries used by the interpreter.
// The probability thresholds are the tracking model's recommended values;
// they are configuration, not properties of the classifier.
type Thresholds struct {
	// HandPresent is the minimum hand presence probability for a frame to be interpreted.
	HandPresent float64
	// Fist is the fist probability above which a frame is a Fist.
	Fist float64
	// PinchDistance is the normalized thumb-to-index tip distance below which a frame is a Pinch.
	PinchDistance float64
}

// DefaultThresholds returns the thresholds recommended by the tracking model.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HandPresent:   0.5,
		Fist:          0.5,
		PinchDistance: 0.03,
	}
}

// Classifier assigns a Label to a frame. It holds no state between frames.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier using the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Thresholds returns the thresholds the classifier was built with.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify returns the gesture for a frame in which a hand is known to be
// present. Fist is checked first and wins over Pinch when both trigger.
func (c *Classifier) Classify(f *landmark.Frame) Label {
	if f.PoseProb(landmark.PoseFist) > c.thresholds.Fist {
		return Fist
	}
	if PinchDistance(f) < c.thresholds.PinchDistance {
		return Pinch
	}
	return None
}

// PinchDistance returns the normalized distance between the thumb tip and
// the index fingertip.
func PinchDistance(f *landmark.Frame) float64 {
	return landmark.Distance(f.Joint(landmark.ThumbTip), f.Joint(landmark.IndexTip))
}
