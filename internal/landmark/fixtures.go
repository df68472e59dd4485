package landmark

// Preset frames for tests and demos. Every preset is a right hand with the
// thumb and index tips placed around an anchor point; the remaining joints
// follow from the anchor so the skeleton looks plausible when rendered.

// PinchFrame returns a confident frame with the thumb and index tips 0.01
// apart, centred on (x, y).
func PinchFrame(x, y float64) Frame {
	return handFrame(Point{X: x - 0.005, Y: y}, Point{X: x + 0.005, Y: y}, 0.9, 0.1)
}

// OpenHandFrame returns a confident frame with the thumb and index tips 0.1
// apart, centred on (x, y).
func OpenHandFrame(x, y float64) Frame {
	return handFrame(Point{X: x - 0.05, Y: y}, Point{X: x + 0.05, Y: y}, 0.9, 0.1)
}

// FistFrame returns a confident open-tip frame whose fist score is 0.9.
func FistFrame(x, y float64) Frame {
	return handFrame(Point{X: x - 0.05, Y: y}, Point{X: x + 0.05, Y: y}, 0.9, 0.9)
}

// AbsentFrame returns a frame in which the model reports no hand.
func AbsentFrame() Frame {
	return handFrame(Point{X: 0.45, Y: 0.5}, Point{X: 0.55, Y: 0.5}, 0, 0)
}

func handFrame(thumbTip, indexTip Point, present, fist float64) Frame {
	anchor := Midpoint(thumbTip, indexTip)
	wrist := Point{X: anchor.X, Y: anchor.Y + 0.3}

	points := make([]Point, NumJoints)
	points[Wrist] = wrist

	chain(points, ThumbCMC, Point{X: wrist.X + 0.06, Y: wrist.Y - 0.05}, thumbTip)
	chain(points, IndexMCP, Point{X: anchor.X + 0.03, Y: anchor.Y + 0.15}, indexTip)

	bases := []struct {
		first int
		base  Point
	}{
		{MiddleMCP, Point{X: anchor.X, Y: anchor.Y + 0.14}},
		{RingMCP, Point{X: anchor.X - 0.03, Y: anchor.Y + 0.15}},
		{PinkyMCP, Point{X: anchor.X - 0.06, Y: anchor.Y + 0.17}},
	}
	for _, b := range bases {
		chain(points, b.first, b.base, Point{X: b.base.X, Y: b.base.Y - 0.15})
	}

	return Frame{
		Points:          points,
		HandPresentProb: present,
		Poses: map[Pose]float64{
			PoseFist:  fist,
			PosePinch: 0,
		},
	}
}

// chain spreads the four joints of one digit evenly from base to tip.
func chain(points []Point, first int, base, tip Point) {
	for k := 0; k < JointsPerDigit; k++ {
		t := float64(k) / float64(JointsPerDigit-1)
		points[first+k] = Point{
			X: base.X + (tip.X-base.X)*t,
			Y: base.Y + (tip.Y-base.Y)*t,
		}
	}
	points[first+JointsPerDigit-1] = tip
}
