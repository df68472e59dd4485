package gesture

import "github.com/ayusman/airsketch/internal/landmark"

// MapToScreen converts a frame into a viewport position in pixels. The
// anchor is the midpoint of the thumb and index tips, the same pair the
// pinch test measures, so the cursor sits where the pen touches down.
func MapToScreen(f *landmark.Frame, width, height float64) (x, y float64) {
	mid := landmark.Midpoint(f.Joint(landmark.ThumbTip), f.Joint(landmark.IndexTip))
	return mid.X * width, mid.Y * height
}
