//go:build wasm

// Command wasm exposes the pixel filters to a WebAssembly host. Build with
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o filters.wasm ./wasm
//
// The host owns every buffer: it writes RGBA pixels into linear memory,
// calls an export with the buffer's address and byte length, and reads the
// result back from the same place.
package main

import (
	"math/rand/v2"
	"unsafe"

	"github.com/rm-hull/wasm-image-filters/internal/filters"
	"github.com/rm-hull/wasm-image-filters/internal/wasmmem"
)

var rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

func main() {}

func pixels(ptr unsafe.Pointer, length int32) []byte {
	return wasmmem.Bytes(ptr, length)
}

//go:wasmexport Adjust
func Adjust(ptr unsafe.Pointer, length int32, r, g, b, a float32) {
	filters.Adjust(pixels(ptr, length), r, g, b, a)
}

//go:wasmexport Sepia
func Sepia(ptr unsafe.Pointer, length int32) {
	filters.Sepia(pixels(ptr, length))
}

//go:wasmexport Grayscale
func Grayscale(ptr unsafe.Pointer, length int32) {
	filters.Grayscale(pixels(ptr, length))
}

//go:wasmexport Invert
func Invert(ptr unsafe.Pointer, length int32) {
	filters.Invert(pixels(ptr, length))
}

//go:wasmexport Noise
func Noise(ptr unsafe.Pointer, length int32) {
	filters.Noise(pixels(ptr, length), rng)
}

//go:wasmexport Seed
func Seed(seed uint64) {
	rng = rand.New(rand.NewPCG(seed, seed))
}
