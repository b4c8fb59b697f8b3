package stage

import (
	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/wasm-image-filters/internal/canvas"
)

type GaussianBlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur to the image using the specified Sigma value
// Higher Sigma values result in a more pronounced blur effect
func (s *GaussianBlurStage) Process(c *canvas.Canvas) error {
	if s.Sigma <= 0 {
		return nil
	}
	c.Replace(blur.Gaussian(c.Img, s.Sigma))
	return nil
}
