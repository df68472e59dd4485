package canvas

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestRaster_StrokePersists(t *testing.T) {
	r := NewRaster(100, 100)
	defer r.Close()

	e := NewEngine(r, Config{})
	e.Start(Point{X: 10, Y: 50})
	e.Extend(Point{X: 90, Y: 50})

	snap := r.Snapshot()
	if alphaAt(snap, 50, 50) == 0 {
		t.Error("expected the stroke to cover (50, 50)")
	}
	if alphaAt(snap, 50, 10) != 0 {
		t.Error("expected (50, 10) to stay transparent")
	}

	// Stopping does not erase what was drawn.
	e.Stop()
	if alphaAt(r.Snapshot(), 50, 50) == 0 {
		t.Error("stroke should persist after Stop")
	}
}

func TestRaster_ClearAndSnapshotCopy(t *testing.T) {
	r := NewRaster(64, 64)
	defer r.Close()

	e := NewEngine(r, Config{})
	e.Start(Point{X: 4, Y: 32})
	e.Extend(Point{X: 60, Y: 32})

	before := r.Snapshot()
	e.Clear()
	after := r.Snapshot()

	if alphaAt(before, 32, 32) == 0 {
		t.Fatal("expected stroke before clear")
	}
	for i := 3; i < len(after.Pix); i += 4 {
		if after.Pix[i] != 0 {
			t.Fatalf("expected an empty raster after Clear, pixel byte %d has alpha %d", i, after.Pix[i])
		}
	}
}

func TestRaster_Size(t *testing.T) {
	r := NewRaster(320, 240)
	defer r.Close()

	w, h := r.Size()
	if w != 320 || h != 240 {
		t.Errorf("Size() = %dx%d, want 320x240", w, h)
	}
	if b := r.Snapshot().Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("Snapshot bounds = %v, want 320x240", b)
	}
}

func TestRaster_EncodePNG(t *testing.T) {
	r := NewRaster(16, 8)
	defer r.Close()

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("decoded bounds = %v, want 16x8", b)
	}
}

func TestRaster_ClosePathWithoutPath(t *testing.T) {
	r := NewRaster(8, 8)
	defer r.Close()

	// Must not panic or leave a dangling path behind.
	r.ClosePath()
	r.MoveTo(1, 1)
	r.ClosePath()
	_ = r.Stroke()
}
