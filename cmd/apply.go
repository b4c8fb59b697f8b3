package cmd

import (
	"fmt"
	"strings"

	"github.com/rm-hull/wasm-image-filters/internal"
	"github.com/rm-hull/wasm-image-filters/internal/canvas"
)

func Apply(inputs, specs []string, outDir string, workers int, format string, seed uint64) error {
	var outFormat canvas.Format
	if format != "" {
		f, err := canvas.ParseFormat(format)
		if err != nil {
			return err
		}
		outFormat = f
	}

	p, err := internal.NewProcessor(inputs, specs, internal.BatchOptions{
		OutDir:   outDir,
		PoolSize: workers,
		Format:   outFormat,
		Seed:     seed,
	})
	if err != nil {
		return err
	}

	p.StartWorkers()
	p.DispatchJobs()
	errs := p.Wait()
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return fmt.Errorf("%d of %d images failed:\n  %s", len(errs), len(inputs), strings.Join(msgs, "\n  "))
	}
	return nil
}
