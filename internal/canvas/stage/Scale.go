package stage

import (
	"fmt"
	"image"

	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"golang.org/x/image/draw"
)

// ScaleStage resizes the image. A zero Width or Height is derived from the
// other so the aspect ratio is preserved.
type ScaleStage struct {
	Width  int
	Height int
}

// Process resamples the image with Catmull-Rom interpolation
func (s *ScaleStage) Process(c *canvas.Canvas) error {
	w, h := s.size(c.Bounds)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid scale dimensions %dx%d", w, h)
	}
	if w == c.Bounds.Dx() && h == c.Bounds.Dy() {
		return nil
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), c.Img, c.Bounds, draw.Src, nil)
	c.Replace(scaled)
	return nil
}

func (s *ScaleStage) size(b image.Rectangle) (int, int) {
	w, h := s.Width, s.Height
	switch {
	case w == 0 && h == 0:
		return b.Dx(), b.Dy()
	case w == 0 && b.Dy() > 0:
		w = b.Dx() * h / b.Dy()
	case h == 0 && b.Dx() > 0:
		h = b.Dy() * w / b.Dx()
	}
	return w, h
}
