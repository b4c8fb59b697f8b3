package internal

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	data []byte
}

func (s *stubSource) Get(_ string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func encodePNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func runBatch(t *testing.T, p *Processor) []error {
	t.Helper()
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait()
}

func TestProcessor(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	first := filepath.Join(inDir, "first.png")
	second := filepath.Join(inDir, "second.png")
	broken := filepath.Join(inDir, "broken.png")
	require.NoError(t, os.WriteFile(first, encodePNG(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}), 0644))
	require.NoError(t, os.WriteFile(second, encodePNG(t, color.NRGBA{R: 200, G: 100, B: 0, A: 128}), 0644))
	require.NoError(t, os.WriteFile(broken, []byte("nope"), 0644))

	p, err := NewProcessor(
		[]string{first, second, broken, "https://example.com/images/remote.png"},
		[]string{"invert"},
		BatchOptions{
			OutDir:   outDir,
			PoolSize: 2,
			Source:   &stubSource{data: encodePNG(t, color.NRGBA{R: 0, G: 0, B: 0, A: 255})},
		},
	)
	require.NoError(t, err)

	errs := runBatch(t, p)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken.png")

	check := func(name string, want color.NRGBA) {
		c, err := canvas.Open(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, want, c.Img.NRGBAAt(1, 1), name)
	}
	check("first.png", color.NRGBA{R: 245, G: 235, B: 225, A: 255})
	check("second.png", color.NRGBA{R: 55, G: 155, B: 255, A: 128})
	check("remote.png", color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	leftovers, err := filepath.Glob(filepath.Join(outDir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestProcessorSameBaseNames(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	outDir := t.TempDir()

	a := filepath.Join(dirA, "x.png")
	b := filepath.Join(dirB, "x.png")
	require.NoError(t, os.WriteFile(a, encodePNG(t, color.NRGBA{R: 10, G: 10, B: 10, A: 255}), 0644))
	require.NoError(t, os.WriteFile(b, encodePNG(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}), 0644))

	p, err := NewProcessor([]string{a, b}, []string{"invert"}, BatchOptions{OutDir: outDir, PoolSize: 2})
	require.NoError(t, err)
	require.Empty(t, runBatch(t, p))

	written, err := filepath.Glob(filepath.Join(outDir, "*.png"))
	require.NoError(t, err)
	assert.Len(t, written, 2)

	first, err := canvas.Open(filepath.Join(outDir, "x.png"))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 245, G: 245, B: 245, A: 255}, first.Img.NRGBAAt(0, 0))

	second, err := canvas.Open(filepath.Join(outDir, "x-1.png"))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 55, G: 55, B: 55, A: 255}, second.Img.NRGBAAt(0, 0))
}

func TestReserveOutputs(t *testing.T) {
	p := &Processor{
		outDir: "out",
		inputs: []string{
			"https://h1/p/img.png",
			"https://h2/q/img.png",
			"https://h3/",
			"https://h4",
			"local/img-1.png",
		},
	}
	p.reserveOutputs()

	names := make([]string, len(p.outputs))
	for i, j := range p.outputs {
		names[i] = j.output
		assert.Equal(t, i, j.index)
		assert.Equal(t, p.inputs[i], j.location)
	}
	assert.Equal(t, []string{
		filepath.Join("out", "img.png"),
		filepath.Join("out", "img-1.png"),
		filepath.Join("out", "image.png"),
		filepath.Join("out", "image-3.png"),
		filepath.Join("out", "img-1-4.png"),
	}, names)
}

func TestProcessorSeededNoiseIsRepeatable(t *testing.T) {
	inDir := t.TempDir()
	input := filepath.Join(inDir, "grain.png")
	require.NoError(t, os.WriteFile(input, encodePNG(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}), 0644))

	run := func() []byte {
		outDir := t.TempDir()
		p, err := NewProcessor([]string{input}, []string{"noise"}, BatchOptions{OutDir: outDir, PoolSize: 1, Seed: 99})
		require.NoError(t, err)
		require.Empty(t, runBatch(t, p))
		data, err := os.ReadFile(filepath.Join(outDir, "grain.png"))
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, run(), run())
}

func TestNewProcessorValidation(t *testing.T) {
	outDir := t.TempDir()

	_, err := NewProcessor([]string{"a.png"}, []string{"invert"}, BatchOptions{OutDir: outDir})
	assert.EqualError(t, err, "pool size must be at least 1")

	_, err = NewProcessor(nil, []string{"invert"}, BatchOptions{OutDir: outDir, PoolSize: 1})
	assert.EqualError(t, err, "no images to process")

	_, err = NewProcessor([]string{"a.png"}, nil, BatchOptions{OutDir: outDir, PoolSize: 1})
	assert.EqualError(t, err, "no filters given")

	_, err = NewProcessor([]string{"a.png"}, []string{"sharpen"}, BatchOptions{OutDir: outDir, PoolSize: 1})
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	p := &Processor{outDir: "out"}

	name, format := p.outputName("in/photo.jpg")
	assert.Equal(t, filepath.Join("out", "photo.jpeg"), name)
	assert.Equal(t, canvas.JPEG, format)

	name, format = p.outputName("in/photo.webp")
	assert.Equal(t, filepath.Join("out", "photo.png"), name)
	assert.Equal(t, canvas.PNG, format)

	name, _ = p.outputName("https://example.com/")
	assert.Equal(t, filepath.Join("out", "image.png"), name)

	p.format = canvas.BMP
	name, format = p.outputName("in/photo.png")
	assert.Equal(t, filepath.Join("out", "photo.bmp"), name)
	assert.Equal(t, canvas.BMP, format)
}
