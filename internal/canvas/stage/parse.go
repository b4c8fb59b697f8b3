package stage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/filters"
)

var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrBadParameter  = errors.New("bad filter parameter")
)

type builder struct {
	keys  []string
	build func(p params, rng filters.RandomSource) (canvas.PipelineStage, error)
}

var registry = map[string]builder{
	"adjust": {
		keys: []string{"r", "g", "b", "a"},
		build: func(p params, _ filters.RandomSource) (canvas.PipelineStage, error) {
			s := &AdjustStage{
				R: p.getFloat32("r", 1),
				G: p.getFloat32("g", 1),
				B: p.getFloat32("b", 1),
				A: p.getFloat32("a", 0),
			}
			return s, p.err
		},
	},
	"sepia": {
		build: func(_ params, _ filters.RandomSource) (canvas.PipelineStage, error) {
			return &SepiaStage{}, nil
		},
	},
	"grayscale": {
		build: func(_ params, _ filters.RandomSource) (canvas.PipelineStage, error) {
			return &GrayscaleStage{}, nil
		},
	},
	"invert": {
		build: func(_ params, _ filters.RandomSource) (canvas.PipelineStage, error) {
			return &InvertStage{}, nil
		},
	},
	"noise": {
		build: func(_ params, rng filters.RandomSource) (canvas.PipelineStage, error) {
			return &NoiseStage{Rand: rng}, nil
		},
	},
	"blur": {
		keys: []string{"sigma"},
		build: func(p params, _ filters.RandomSource) (canvas.PipelineStage, error) {
			s := &GaussianBlurStage{Sigma: p.getFloat64("sigma", 1.0)}
			return s, p.err
		},
	},
	"scale": {
		keys: []string{"w", "h"},
		build: func(p params, _ filters.RandomSource) (canvas.PipelineStage, error) {
			s := &ScaleStage{Width: p.getInt("w", 0), Height: p.getInt("h", 0)}
			return s, p.err
		},
	},
	"replace-color": {
		keys: []string{"color", "tolerance"},
		build: func(p params, _ filters.RandomSource) (canvas.PipelineStage, error) {
			s := &ReplaceColorStage{
				Replace:   p.getColor("color", color.White),
				Tolerance: p.getFloat64("tolerance", 50),
			}
			return s, p.err
		},
	},
}

// Names lists the filters Parse and Build understand, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Keys lists the parameter names a filter accepts.
func Keys(name string) []string {
	return slices.Clone(registry[name].keys)
}

// Parse builds a stage from a spec of the form name[:key=value,...],
// for example "adjust:r=1.2,a=0.5" or "blur:sigma=2".
func Parse(spec string, rng filters.RandomSource) (canvas.PipelineStage, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(spec), ":")
	values := make(map[string]string)
	if args != "" {
		for _, kv := range strings.Split(args, ",") {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("%w: %q in %q is not key=value", ErrBadParameter, kv, spec)
			}
			values[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return Build(name, values, rng)
}

// Build constructs the named stage from string parameters. Missing keys take
// their defaults; unknown keys are rejected.
func Build(name string, values map[string]string, rng filters.RandomSource) (canvas.PipelineStage, error) {
	b, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	for k := range values {
		if !slices.Contains(b.keys, k) {
			return nil, fmt.Errorf("%w: %s does not accept %q", ErrBadParameter, name, k)
		}
	}
	return b.build(params{values: values}, rng)
}

// ParseAll parses each spec in turn.
func ParseAll(specs []string, rng filters.RandomSource) ([]canvas.PipelineStage, error) {
	stages := make([]canvas.PipelineStage, 0, len(specs))
	for _, spec := range specs {
		s, err := Parse(spec, rng)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

// params reads typed values, keeping the first conversion error.
type params struct {
	values map[string]string
	err    error
}

func (p *params) lookup(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok && p.err == nil
}

func (p *params) fail(key, value string, err error) {
	p.err = fmt.Errorf("%w: %s=%q: %v", ErrBadParameter, key, value, err)
}

func (p *params) getFloat64(key string, def float64) float64 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *params) getFloat32(key string, def float32) float32 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return float32(f)
}

func (p *params) getInt(key string, def int) int {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *params) getColor(key string, def color.Color) color.Color {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	b, err := hex.DecodeString(strings.TrimPrefix(v, "#"))
	if err != nil || len(b) != 3 {
		if err == nil {
			err = errors.New("want six hex digits")
		}
		p.fail(key, v, err)
		return def
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}
}
