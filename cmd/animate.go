package cmd

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/rm-hull/wasm-image-filters/internal"
	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/canvas/stage"
)

// Animate renders frames copies of the input, each run through the filter
// pipeline separately, and writes them out as a looping APNG. With a noise
// filter in the pipeline every frame gets different grain.
func Animate(input string, specs []string, frames int, frameDelay float64, out string, seed uint64) error {
	if frames < 1 {
		return errors.New("frames must be at least 1")
	}
	if err := canvas.ValidateFrameDelay(frameDelay); err != nil {
		return err
	}
	if seed == 0 {
		seed = rand.Uint64()
	}

	stages, err := stage.ParseAll(specs, rand.New(rand.NewPCG(seed, 0)))
	if err != nil {
		return err
	}

	src, err := internal.LoadImage(internal.NewImageSource("wasm-image-filters"), input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}

	rendered := make([]*canvas.Canvas, frames)
	for i := range rendered {
		frame := src.Clone()
		if err := frame.Pipeline(stages...); err != nil {
			return fmt.Errorf("failed to process frame %d: %w", i, err)
		}
		rendered[i] = frame
	}

	apngBytes, err := canvas.Animate(rendered, frameDelay)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, apngBytes, 0644); err != nil {
		return err
	}
	log.Printf("Wrote %d frames to %s", frames, out)
	return nil
}
