package surface

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// ErrSnapshotSize is returned when decoded pixels do not match the size
// recorded in the snapshot.
var ErrSnapshotSize = errors.New("surface: snapshot size mismatch")

// Snapshot is an immutable, lossless capture of the surface pixels.
// The zero value is an empty snapshot that fails to decode.
type Snapshot struct {
	data          []byte
	width, height int
}

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Snapshot captures the current pixels. The premultiplied bytes are stored
// verbatim as an RGBA PNG so Decode reproduces them exactly. The result is
// not meant for display; use PNG for that.
func (s *Surface) Snapshot() (Snapshot, error) {
	img := s.Image()
	raw := &image.NRGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, raw); err != nil {
		return Snapshot{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	return Snapshot{data: buf.Bytes(), width: img.Rect.Dx(), height: img.Rect.Dy()}, nil
}

// PNG encodes the current pixels as an ordinary straight-alpha PNG.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, s.Image()); err != nil {
		return nil, fmt.Errorf("encoding surface: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode turns a snapshot back into premultiplied pixels. It is safe to
// call off the event loop since it does not touch the surface.
func (s Snapshot) Decode() (*image.RGBA, error) {
	if len(s.data) == 0 {
		return nil, errors.New("surface: empty snapshot")
	}
	img, err := png.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if b := img.Bounds(); b.Dx() != s.width || b.Dy() != s.height {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSnapshotSize, b.Dx(), b.Dy(), s.width, s.height)
	}
	return stored(img), nil
}

// stored recovers the bytes Snapshot wrote. Fully opaque captures come back
// from the decoder as RGBA already.
func stored(img image.Image) *image.RGBA {
	switch m := img.(type) {
	case *image.NRGBA:
		return &image.RGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}
	case *image.RGBA:
		return m
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
