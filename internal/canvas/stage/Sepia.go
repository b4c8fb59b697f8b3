package stage

import (
	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/filters"
)

type SepiaStage struct{}

// Process replaces the colour of every pixel with its luma, keeping alpha
func (s *SepiaStage) Process(c *canvas.Canvas) error {
	c.Rows(filters.Sepia)
	return nil
}
