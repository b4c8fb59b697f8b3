package stage

import (
	"image/color"
	"math"

	"github.com/rm-hull/wasm-image-filters/internal/canvas"
)

type ReplaceColorStage struct {
	Tolerance float64
	Replace   color.Color
}

// Process replaces pixels close to the specified color with transparency based on the distance to that color
// Tolerance defines how close a pixel must be to the target color to be affected
// A pixel exactly matching the target color becomes fully transparent, one at the edge of the tolerance remains opaque
func (s *ReplaceColorStage) Process(c *canvas.Canvas) error {
	if s.Tolerance <= 0 {
		return nil
	}
	replaceR, replaceG, replaceB, _ := s.Replace.RGBA()
	rR, rG, rB := float64(replaceR>>8), float64(replaceG>>8), float64(replaceB>>8)
	c.Rows(func(row []byte) {
		for i := 0; i+3 < len(row); i += 4 {
			R, G, B, A := float64(row[i]), float64(row[i+1]), float64(row[i+2]), float64(row[i+3])
			dist := math.Sqrt((rR-R)*(rR-R) + (rG-G)*(rG-G) + (rB-B)*(rB-B))
			if dist < s.Tolerance {
				row[i+3] = uint8((dist / s.Tolerance) * A)
			}
		}
	})
	return nil
}
