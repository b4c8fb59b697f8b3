// Package filters implements in-place transforms over interleaved RGBA byte
// buffers. Every function walks the buffer four bytes at a time, red, green,
// blue, alpha, and ignores a trailing partial pixel.
package filters

// RandomSource draws integers uniformly from [0, n). *math/rand/v2.Rand
// satisfies it.
type RandomSource interface {
	IntN(n int) int
}

const (
	noiseRange  = 70
	noiseOffset = 35
)

// end returns the largest multiple of 4 that is <= len(buf).
func end(buf []byte) int {
	return len(buf) &^ 3
}

// Adjust scales red, green and blue by their factors and alpha by (1 - a),
// so a == 0 keeps alpha and a == 1 clears it. Results are truncated toward
// zero and clamped to [0, 255].
func Adjust(buf []byte, r, g, b, a float32) {
	n := end(buf)
	for i := 0; i < n; i += 4 {
		p := buf[i : i+4 : i+4]
		p[0] = clamp(float32(p[0]) * r)
		p[1] = clamp(float32(p[1]) * g)
		p[2] = clamp(float32(p[2]) * b)
		p[3] = clamp(float32(p[3]) * (1 - a))
	}
}

func clamp(v float32) uint8 {
	switch {
	case v >= 255:
		return 255
	case v > 0:
		return uint8(v)
	default:
		// negative, fractions above -1 and NaN
		return 0
	}
}

// Sepia writes the weighted luma of each pixel into its red, green and blue
// channels. Alpha is left alone.
func Sepia(buf []byte) {
	n := end(buf)
	for i := 0; i < n; i += 4 {
		p := buf[i : i+4 : i+4]
		// The explicit conversions keep each product rounded on its own, so
		// the sum matches unfused double arithmetic on every platform.
		lum := float64(float64(p[0])*0.30) + float64(float64(p[1])*0.59)
		lum = lum + float64(float64(p[2])*0.11)
		// lum never exceeds 255, so no clamp
		y := uint8(lum)
		p[0], p[1], p[2] = y, y, y
	}
}

// Grayscale copies the red channel into green and blue.
func Grayscale(buf []byte) {
	n := end(buf)
	for i := 0; i < n; i += 4 {
		p := buf[i : i+4 : i+4]
		p[1], p[2] = p[0], p[0]
	}
}

// Invert replaces red, green and blue with their complement. Alpha is left alone.
func Invert(buf []byte) {
	n := end(buf)
	for i := 0; i < n; i += 4 {
		p := buf[i : i+4 : i+4]
		p[0] = 255 - p[0]
		p[1] = 255 - p[1]
		p[2] = 255 - p[2]
	}
}

// Noise adds one random offset in [-35, 34] to the red, green and blue channels
// of each pixel. Sums outside [0, 255] wrap modulo 256 rather than saturate.
func Noise(buf []byte, rng RandomSource) {
	n := end(buf)
	for i := 0; i < n; i += 4 {
		p := buf[i : i+4 : i+4]
		delta := NoiseDelta(rng)
		p[0] = uint8(int(p[0]) + delta)
		p[1] = uint8(int(p[1]) + delta)
		p[2] = uint8(int(p[2]) + delta)
	}
}

// NoiseDelta draws a single per-pixel offset for Noise.
func NoiseDelta(rng RandomSource) int {
	return rng.IntN(noiseRange) - noiseOffset
}
