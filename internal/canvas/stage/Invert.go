package stage

import (
	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/filters"
)

type InvertStage struct{}

func (s *InvertStage) Process(c *canvas.Canvas) error {
	c.Rows(filters.Invert)
	return nil
}
