package stage

import (
	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/filters"
)

type GrayscaleStage struct{}

// Process shades the image by its red channel alone: green and blue take the red value
func (s *GrayscaleStage) Process(c *canvas.Canvas) error {
	c.Rows(filters.Grayscale)
	return nil
}
