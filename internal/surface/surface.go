// Package surface is the raster drawing surface shared by a deck session.
// It is backed by a gogpu/gg context and sized in CSS pixels scaled by the
// device pixel ratio.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// ErrInvalidSize is returned for non-positive dimensions or pixel ratios.
var ErrInvalidSize = errors.New("surface: invalid size")

// Ink describes how strokes are painted.
type Ink struct {
	Color string  // hex colour used when painting
	Width float64 // stroke width in CSS pixels
	Erase bool    // remove existing ink instead of adding colour
}

// Surface is a raster buffer with the current ink settings.
// It is not safe for concurrent use.
type Surface struct {
	dc      *gg.Context
	pix     *gg.Pixmap
	scratch *gg.Context
	mask    *gg.Pixmap

	cssW, cssH float64
	ratio      float64
	gen        uint64
	ink        Ink
}

// New allocates a surface of the given CSS size and device pixel ratio.
func New(cssW, cssH, ratio float64) (*Surface, error) {
	s := &Surface{ink: Ink{Color: "#000000", Width: 1}}
	if err := s.Resize(cssW, cssH, ratio); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize reallocates the backing store, discarding its content, resets the
// drawing transform to the new pixel ratio and reapplies the current ink.
// The generation counter advances on every reallocation.
func (s *Surface) Resize(cssW, cssH, ratio float64) error {
	if cssW <= 0 || cssH <= 0 || ratio <= 0 || math.IsNaN(cssW+cssH+ratio) {
		return fmt.Errorf("%w: %gx%g@%g", ErrInvalidSize, cssW, cssH, ratio)
	}
	w, h := backing(cssW, ratio), backing(cssH, ratio)

	s.close()
	s.pix = gg.NewPixmap(w, h)
	s.dc = gg.NewContext(w, h, gg.WithPixmap(s.pix))
	s.mask = gg.NewPixmap(w, h)
	s.scratch = gg.NewContext(w, h, gg.WithPixmap(s.mask))
	s.cssW, s.cssH, s.ratio = cssW, cssH, ratio
	s.gen++

	s.dc.SetTransform(gg.Scale(ratio, ratio))
	s.scratch.SetTransform(gg.Scale(ratio, ratio))
	s.SetInk(s.ink)
	return nil
}

// SetInk applies stroke settings used by subsequent segments.
func (s *Surface) SetInk(ink Ink) {
	s.ink = ink
	for _, dc := range []*gg.Context{s.dc, s.scratch} {
		dc.SetLineWidth(ink.Width)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
	}
	if ink.Color != "" {
		s.dc.SetHexColor(ink.Color)
	}
	s.scratch.SetRGBA(1, 1, 1, 1)
}

// Ink returns the active ink.
func (s *Surface) Ink() Ink { return s.ink }

// Segment paints a line segment with the active ink. Coordinates are CSS
// pixels relative to the surface.
func (s *Surface) Segment(x0, y0, x1, y1 float64) error {
	if !s.ink.Erase {
		s.dc.MoveTo(x0, y0)
		s.dc.LineTo(x1, y1)
		return s.dc.Stroke()
	}

	s.mask.Clear(gg.Transparent)
	s.scratch.MoveTo(x0, y0)
	s.scratch.LineTo(x1, y1)
	if err := s.scratch.Stroke(); err != nil {
		return err
	}
	s.destinationOut(s.segmentBounds(x0, y0, x1, y1))
	return nil
}

// destinationOut scales the destination by the inverse mask coverage inside
// r. Pixels are premultiplied, so colour and alpha scale together.
func (s *Surface) destinationOut(r image.Rectangle) {
	dst, m := s.pix.Data(), s.mask.Data()
	stride := s.pix.Width() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := y*stride + x*4
			cover := uint32(m[i+3])
			if cover == 0 {
				continue
			}
			keep := 255 - cover
			for c := i; c < i+4; c++ {
				dst[c] = uint8(uint32(dst[c]) * keep / 255)
			}
		}
	}
}

func (s *Surface) segmentBounds(x0, y0, x1, y1 float64) image.Rectangle {
	pad := s.ink.Width/2 + 2
	r := image.Rect(
		int(math.Floor((math.Min(x0, x1)-pad)*s.ratio)),
		int(math.Floor((math.Min(y0, y1)-pad)*s.ratio)),
		int(math.Ceil((math.Max(x0, x1)+pad)*s.ratio)),
		int(math.Ceil((math.Max(y0, y1)+pad)*s.ratio)),
	)
	return r.Intersect(image.Rect(0, 0, s.pix.Width(), s.pix.Height()))
}

// Clear wipes the surface to transparent.
func (s *Surface) Clear() {
	s.pix.Clear(gg.Transparent)
}

// Generation identifies the current backing store.
func (s *Surface) Generation() uint64 { return s.gen }

// Size returns the CSS size and device pixel ratio.
func (s *Surface) Size() (cssW, cssH, ratio float64) { return s.cssW, s.cssH, s.ratio }

// Bounds returns the backing store rectangle in device pixels.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.pix.Width(), s.pix.Height())
}

// Image returns a copy of the surface pixels. The backing store holds
// premultiplied colour, which is what image.RGBA expects.
func (s *Surface) Image() *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	copy(img.Pix, s.pix.Data())
	return img
}

// view wraps the backing store without copying.
func (s *Surface) view() *image.RGBA {
	return &image.RGBA{Pix: s.pix.Data(), Stride: s.pix.Width() * 4, Rect: s.Bounds()}
}

// Restore replaces the surface content with img. An image with the backing
// store's dimensions is copied pixel for pixel; any other size is scaled to
// the backing store.
func (s *Surface) Restore(img image.Image) {
	if img.Bounds().Size() != s.Bounds().Size() {
		s.DrawScaled(img)
		return
	}
	if src, ok := img.(*image.RGBA); ok && src.Stride == src.Rect.Dx()*4 {
		copy(s.pix.Data(), src.Pix)
		return
	}
	draw.Draw(s.view(), s.Bounds(), img, img.Bounds().Min, draw.Src)
}

// DrawScaled replaces the surface content with img stretched over the
// whole backing store.
func (s *Surface) DrawScaled(img image.Image) {
	xdraw.BiLinear.Scale(s.view(), s.Bounds(), img, img.Bounds(), xdraw.Src, nil)
}

// Close releases the drawing contexts.
func (s *Surface) Close() error {
	s.close()
	return nil
}

func (s *Surface) close() {
	if s.dc != nil {
		_ = s.dc.Close()
	}
	if s.scratch != nil {
		_ = s.scratch.Close()
	}
}

func backing(css, ratio float64) int {
	n := int(math.Round(css * ratio))
	if n < 1 {
		n = 1
	}
	return n
}
