package stage

import (
	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/filters"
)

type AdjustStage struct {
	R, G, B float32
	// A is inverted: 0 keeps alpha, 1 makes the image fully transparent
	A float32
}

// Process scales each channel of every pixel by its factor
func (s *AdjustStage) Process(c *canvas.Canvas) error {
	c.Rows(func(row []byte) {
		filters.Adjust(row, s.R, s.G, s.B, s.A)
	})
	return nil
}
