// Package canvas owns the persistent drawing raster and the stroke engine
// that accumulates smoothed pen strokes into it.
package canvas

import (
	"image/color"

	"github.com/gogpu/gg"
)

// Surface is the rasterization capability the stroke engine and the
// skeleton overlay draw through. Path calls build the current path;
// Stroke and Fill paint it and start a new one.
type Surface interface {
	SetStyle(s Style)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	DrawCircle(x, y, r float64)
	ClosePath()
	Stroke() error
	Fill() error
	// Clear erases every pixel and discards the current path.
	Clear()
	Size() (width, height int)
}

// Style is the paint applied to subsequent Stroke and Fill calls.
type Style struct {
	Color color.Color
	Width float64
	Cap   gg.LineCap
	Join  gg.LineJoin
}

// PenStyle returns the style used for pen strokes: a 10px black line with
// round caps and joins.
func PenStyle() Style {
	return Style{
		Color: color.Black,
		Width: 10,
		Cap:   gg.LineCapRound,
		Join:  gg.LineJoinRound,
	}
}

// Point is a position on the raster in pixels.
type Point struct {
	X float64
	Y float64
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
