package internal

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/canvas/stage"
)

type job struct {
	index    int
	location string
	output   string
	format   canvas.Format
}

// Processor applies the same filter pipeline to a set of images using a
// fixed pool of workers. Each image gets its own random source derived from
// the seed, so results do not depend on which worker picks up the job.
type Processor struct {
	startTime time.Time
	endTime   time.Time
	outDir    string
	poolSize  int
	format    canvas.Format
	seed      uint64
	specs     []string
	inputs    []string
	outputs   []job
	jobs      chan job
	results   chan error
	source    ImageSource
}

type BatchOptions struct {
	OutDir   string
	PoolSize int
	// Format overrides the output format; empty keeps the input's extension.
	Format canvas.Format
	// Seed for the noise filter; zero picks one at random.
	Seed   uint64
	Source ImageSource
}

func NewProcessor(inputs, specs []string, opts BatchOptions) (*Processor, error) {
	if opts.PoolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	if len(inputs) == 0 {
		return nil, errors.New("no images to process")
	}
	if len(specs) == 0 {
		return nil, errors.New("no filters given")
	}
	if _, err := stage.ParseAll(specs, nil); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	source := opts.Source
	if source == nil {
		source = NewImageSource("wasm-image-filters")
	}

	p := &Processor{
		startTime: time.Now(),
		outDir:    opts.OutDir,
		poolSize:  opts.PoolSize,
		format:    opts.Format,
		seed:      seed,
		specs:     specs,
		inputs:    inputs,
		jobs:      make(chan job),
		results:   make(chan error),
		source:    source,
	}
	p.reserveOutputs()
	return p, nil
}

// reserveOutputs assigns every input a distinct output file before any work
// starts. Inputs sharing a base name get their position as a suffix, so
// a/x.png and b/x.png become x.png and x-1.png.
func (p *Processor) reserveOutputs() {
	taken := make(map[string]bool, len(p.inputs))
	p.outputs = make([]job, len(p.inputs))
	for i, location := range p.inputs {
		filename, format := p.outputName(location)
		if taken[filename] {
			ext := filepath.Ext(filename)
			stem := strings.TrimSuffix(filename, ext)
			filename = fmt.Sprintf("%s-%d%s", stem, i, ext)
			for k := 2; taken[filename]; k++ {
				filename = fmt.Sprintf("%s-%d-%d%s", stem, i, k, ext)
			}
		}
		taken[filename] = true
		p.outputs[i] = job{index: i, location: location, output: filename, format: format}
	}
}

func (p *Processor) DispatchJobs() {
	go func() {
		for _, j := range p.outputs {
			p.jobs <- j
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Printf("Processing %d images with pool size: %d", len(p.inputs), p.poolSize)

	for i := range p.poolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log.Printf("Worker %d started", i)
	for j := range p.jobs {
		err := p.processFile(j)
		if err != nil {
			err = fmt.Errorf("%s: %w", j.location, err)
		}
		p.results <- err
	}
	log.Printf("Worker %d finished", i)
}

func (p *Processor) processFile(j job) error {
	rng := rand.New(rand.NewPCG(p.seed, uint64(j.index)))
	stages, err := stage.ParseAll(p.specs, rng)
	if err != nil {
		return err
	}

	img, err := LoadImage(p.source, j.location)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	if err := img.Pipeline(stages...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	filename, format := j.output, j.format
	tmpFile, err := os.CreateTemp(p.outDir, "filter-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := img.Write(tmpFile, format); err != nil {
		return fmt.Errorf("failed to write processed image to temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false // Successfully renamed, don't delete
	log.Printf("Wrote %s", filename)
	return nil
}

// outputName maps an input path or URL to a file in the output directory.
func (p *Processor) outputName(location string) (string, canvas.Format) {
	base := filepath.Base(location)
	if IsRemote(location) {
		base = "image"
		if u, err := url.Parse(location); err == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
			base = path.Base(u.Path)
		}
	}

	format := p.format
	if format == "" {
		format = canvas.FormatFromExtension(base)
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(p.outDir, stem+"."+string(format)), format
}

func (p *Processor) Wait() []error {
	log.Printf("Waiting for %d images to be processed", len(p.inputs))

	errors := make([]error, 0, 10)
	for range p.inputs {
		err := <-p.results
		if err != nil {
			errors = append(errors, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	log.Printf("All images processed in %s (errors=%d)", elapsed, len(errors))
	return errors
}
