package stage

import (
	"errors"

	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/filters"
)

type NoiseStage struct {
	Rand filters.RandomSource
}

// Process adds film-grain style jitter; channel values wrap rather than saturate
func (s *NoiseStage) Process(c *canvas.Canvas) error {
	if s.Rand == nil {
		return errors.New("noise stage has no random source")
	}
	c.Rows(func(row []byte) {
		filters.Noise(row, s.Rand)
	})
	return nil
}
