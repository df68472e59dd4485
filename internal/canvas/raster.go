package canvas

import (
	"image"
	"image/draw"
	"io"

	"github.com/gogpu/gg"
)

// Raster is a Surface backed by a gg software context. Its pixels persist
// across calls until Clear.
type Raster struct {
	dc *gg.Context
}

var _ Surface = (*Raster)(nil)

// NewRaster creates a transparent raster of the given size in pixels.
func NewRaster(width, height int) *Raster {
	return &Raster{dc: gg.NewContext(width, height)}
}

// SetStyle applies color, width, cap and join to subsequent paint calls.
func (r *Raster) SetStyle(s Style) {
	if s.Color != nil {
		r.dc.SetColor(s.Color)
	}
	if s.Width > 0 {
		r.dc.SetLineWidth(s.Width)
	}
	r.dc.SetLineCap(s.Cap)
	r.dc.SetLineJoin(s.Join)
}

func (r *Raster) MoveTo(x, y float64) { r.dc.MoveTo(x, y) }

func (r *Raster) LineTo(x, y float64) { r.dc.LineTo(x, y) }

func (r *Raster) QuadraticTo(cx, cy, x, y float64) { r.dc.QuadraticTo(cx, cy, x, y) }

func (r *Raster) DrawCircle(x, y, radius float64) { r.dc.DrawCircle(x, y, radius) }

// ClosePath closes the current path and discards it. Segments are painted
// as they are added, so nothing is left to stroke.
func (r *Raster) ClosePath() {
	if _, _, ok := r.dc.GetCurrentPoint(); !ok {
		return
	}
	r.dc.ClosePath()
	r.dc.ClearPath()
}

func (r *Raster) Stroke() error { return r.dc.Stroke() }

func (r *Raster) Fill() error { return r.dc.Fill() }

// Clear makes every pixel transparent and discards the current path.
func (r *Raster) Clear() {
	r.dc.ClearPath()
	r.dc.Clear()
}

// Size returns the raster dimensions in pixels.
func (r *Raster) Size() (width, height int) {
	return r.dc.Width(), r.dc.Height()
}

// Snapshot returns a copy of the current pixels. The copy is not affected
// by later drawing.
func (r *Raster) Snapshot() *image.RGBA {
	img := r.dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

// EncodePNG writes the current pixels as a PNG image.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// Close releases the underlying context.
func (r *Raster) Close() error {
	return r.dc.Close()
}
