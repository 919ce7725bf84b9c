package surface

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func hasInk(t *testing.T, s *Surface) bool {
	t.Helper()
	img := s.Image()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return true
		}
	}
	return false
}

// pureRed fails unless every pixel is premultiplied pure red or empty, and
// reports how much ink there is.
func pureRed(t *testing.T, img *image.RGBA) int {
	t.Helper()
	var alpha int
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
		if r != a || g != 0 || b != 0 {
			t.Fatalf("pixel %d = %d,%d,%d,%d, want pure red", i/4, r, g, b, a)
		}
		alpha += int(a)
	}
	return alpha
}

func TestNewRejectsInvalidSize(t *testing.T) {
	for _, dims := range [][3]float64{{0, 10, 1}, {10, -1, 1}, {10, 10, 0}} {
		if _, err := New(dims[0], dims[1], dims[2]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%v) err = %v, want ErrInvalidSize", dims, err)
		}
	}
}

func TestBackingStoreUsesPixelRatio(t *testing.T) {
	s, err := New(100, 50, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b := s.Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("backing = %v, want 200x100", b)
	}
	gen := s.Generation()
	if err := s.Resize(80, 40, 1.5); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if s.Generation() == gen {
		t.Error("generation did not advance on resize")
	}
	if b := s.Bounds(); b.Dx() != 120 || b.Dy() != 60 {
		t.Errorf("backing = %v, want 120x60", b)
	}
}

func TestDrawThenErase(t *testing.T) {
	s, err := New(64, 64, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetInk(Ink{Color: "#e53935", Width: 4})
	if err := s.Segment(8, 32, 56, 32); err != nil {
		t.Fatalf("draw segment: %v", err)
	}
	if !hasInk(t, s) {
		t.Fatal("draw segment left no ink")
	}

	s.SetInk(Ink{Width: 30, Erase: true})
	if err := s.Segment(0, 32, 64, 32); err != nil {
		t.Fatalf("erase segment: %v", err)
	}
	if hasInk(t, s) {
		t.Error("erase segment left ink behind")
	}
}

func TestSnapshotRoundTripIsExact(t *testing.T) {
	s, err := New(40, 30, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetInk(Ink{Color: "#1e88e5", Width: 3})
	_ = s.Segment(2, 2, 38, 28)
	before := s.Image()

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	s.Clear()
	img, err := snap.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s.Restore(img)
	if !bytes.Equal(before.Pix, s.Image().Pix) {
		t.Error("restored pixels differ from the snapshot source")
	}
}

func TestRestoreScalesOtherSizes(t *testing.T) {
	s, err := New(20, 20, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetInk(Ink{Color: "#000000", Width: 20})
	_ = s.Segment(0, 10, 20, 10)
	snap, _ := s.Snapshot()

	if err := s.Resize(40, 40, 1); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if hasInk(t, s) {
		t.Fatal("resize should start from an empty backing store")
	}
	img, err := snap.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s.Restore(img)
	if !hasInk(t, s) {
		t.Error("scaled restore drew nothing")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, err := (Snapshot{}).Decode(); err == nil {
		t.Error("empty snapshot decoded")
	}
	bad := Snapshot{data: []byte("not a png"), width: 1, height: 1}
	if _, err := bad.Decode(); err == nil {
		t.Error("malformed snapshot decoded")
	}

	s, _ := New(10, 10, 1)
	snap, _ := s.Snapshot()
	lying := Snapshot{data: snap.data, width: 11, height: 10}
	if _, err := lying.Decode(); !errors.Is(err, ErrSnapshotSize) {
		t.Errorf("err = %v, want ErrSnapshotSize", err)
	}
}

func TestScaledRestoreKeepsColour(t *testing.T) {
	s, err := New(40, 40, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetInk(Ink{Color: "#ff0000", Width: 3})
	_ = s.Segment(4, 4, 36, 30)
	if pureRed(t, s.Image()) == 0 {
		t.Fatal("segment left no ink")
	}

	for _, ratio := range []float64{2, 1, 2, 1} {
		snap, err := s.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if err := s.Resize(40, 40, ratio); err != nil {
			t.Fatalf("Resize: %v", err)
		}
		img, err := snap.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		s.Restore(img)
		if pureRed(t, s.Image()) == 0 {
			t.Fatalf("ink lost after rescale to ratio %v", ratio)
		}
	}
}

func TestPNGIsStraightAlpha(t *testing.T) {
	s, err := New(32, 32, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetInk(Ink{Color: "#ff0000", Width: 5})
	_ = s.Segment(3, 5, 29, 27)

	data, err := s.PNG()
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	n, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded %T, want *image.NRGBA", img)
	}
	var edges int
	for i := 0; i < len(n.Pix); i += 4 {
		r, g, b, a := n.Pix[i], n.Pix[i+1], n.Pix[i+2], n.Pix[i+3]
		if a == 0 {
			continue
		}
		if a < 255 {
			edges++
		}
		if r != 255 || g != 0 || b != 0 {
			t.Fatalf("pixel %d = %d,%d,%d,%d, want red at any opacity", i/4, r, g, b, a)
		}
	}
	if edges == 0 {
		t.Error("no anti-aliased pixels to check")
	}
}

func TestEraseKeepsPixelsPremultiplied(t *testing.T) {
	tests := []struct {
		name  string
		color string
	}{
		{"red", "#ff0000"},
		{"blue", "#1e88e5"},
		{"white", "#ffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(64, 64, 1)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			s.SetInk(Ink{Color: tt.color, Width: 12})
			_ = s.Segment(4, 32, 60, 32)
			s.SetInk(Ink{Width: 7, Erase: true})
			_ = s.Segment(32, 0, 33, 64)

			pix := s.Image().Pix
			var partial int
			for i := 0; i < len(pix); i += 4 {
				a := pix[i+3]
				if pix[i] > a || pix[i+1] > a || pix[i+2] > a {
					t.Fatalf("pixel %d = %v, colour exceeds alpha", i/4, pix[i:i+4])
				}
				if a > 0 && a < 255 {
					partial++
				}
			}
			if partial == 0 {
				t.Error("no partially covered pixels to check")
			}
		})
	}
}
