// Package skeleton draws the tracked hand onto an overlay surface.
package skeleton

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/landmark"
)

// ErrNoSurface is returned when the renderer has nothing to draw on.
var ErrNoSurface = errors.New("overlay surface unavailable")

// Topology lists, for every joint, the joints it is connected to. Digits
// are chains from base to tip and the wrist links to the base of each digit.
var Topology = [landmark.NumJoints][]int{
	landmark.ThumbCMC:  {landmark.ThumbMCP},
	landmark.ThumbMCP:  {landmark.ThumbIP},
	landmark.ThumbIP:   {landmark.ThumbTip},
	landmark.ThumbTip:  nil,
	landmark.IndexMCP:  {landmark.IndexPIP},
	landmark.IndexPIP:  {landmark.IndexDIP},
	landmark.IndexDIP:  {landmark.IndexTip},
	landmark.IndexTip:  nil,
	landmark.MiddleMCP: {landmark.MiddlePIP},
	landmark.MiddlePIP: {landmark.MiddleDIP},
	landmark.MiddleDIP: {landmark.MiddleTip},
	landmark.MiddleTip: nil,
	landmark.RingMCP:   {landmark.RingPIP},
	landmark.RingPIP:   {landmark.RingDIP},
	landmark.RingDIP:   {landmark.RingTip},
	landmark.RingTip:   nil,
	landmark.PinkyMCP:  {landmark.PinkyPIP},
	landmark.PinkyPIP:  {landmark.PinkyDIP},
	landmark.PinkyDIP:  {landmark.PinkyTip},
	landmark.PinkyTip:  nil,
	landmark.Wrist:     {landmark.ThumbCMC, landmark.IndexMCP, landmark.MiddleMCP, landmark.RingMCP, landmark.PinkyMCP},
}

// Default overlay appearance.
const (
	BoneWidth   = 2
	JointRadius = 3
)

var (
	boneStyle = canvas.Style{
		Color: color.NRGBA{R: 255, A: 255},
		Width: BoneWidth,
		Cap:   gg.LineCapButt,
		Join:  gg.LineJoinMiter,
	}
	jointStyle = canvas.Style{
		Color: color.NRGBA{R: 255, A: 204},
	}
)

// Renderer redraws the hand skeleton on every call. It keeps no state
// between frames.
type Renderer struct {
	surface canvas.Surface
}

// NewRenderer creates a Renderer drawing onto surface. A nil surface is
// allowed; Render then reports ErrNoSurface.
func NewRenderer(surface canvas.Surface) *Renderer {
	return &Renderer{surface: surface}
}

// Render clears the overlay and draws every bone followed by its joint.
// Coordinates are scaled from normalized space to width x height pixels.
func (r *Renderer) Render(f *landmark.Frame, width, height float64) error {
	if r == nil || r.surface == nil {
		return ErrNoSurface
	}
	if f == nil {
		return fmt.Errorf("%w: nil frame", landmark.ErrInvalidFrame)
	}
	if len(f.Points) != landmark.NumJoints {
		return fmt.Errorf("%w: %d joints, want %d", landmark.ErrInvalidFrame, len(f.Points), landmark.NumJoints)
	}

	r.surface.Clear()

	var errs []error
	for i, p := range f.Points {
		x, y := p.X*width, p.Y*height

		for _, j := range Topology[i] {
			next := f.Points[j]
			r.surface.SetStyle(boneStyle)
			r.surface.MoveTo(x, y)
			r.surface.LineTo(next.X*width, next.Y*height)
			if err := r.surface.Stroke(); err != nil {
				errs = append(errs, fmt.Errorf("bone %d-%d: %w", i, j, err))
			}
		}

		r.surface.SetStyle(jointStyle)
		r.surface.DrawCircle(x, y, JointRadius)
		if err := r.surface.Fill(); err != nil {
			errs = append(errs, fmt.Errorf("joint %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}
