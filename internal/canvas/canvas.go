package canvas

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Canvas holds non-premultiplied RGBA pixels, laid out the same way as a
// browser ImageData buffer.
type Canvas struct {
	Img    *image.NRGBA
	Bounds image.Rectangle
}

type PipelineStage interface {
	Process(c *Canvas) error
}

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
)

const jpegQuality = 90

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", name)
	}
}

// FormatFromExtension picks the output format from a filename, falling back
// to PNG.
func FormatFromExtension(filename string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
	if err != nil {
		return PNG
	}
	return f
}

func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case BMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}

func (f Format) encoder() imgio.Encoder {
	switch f {
	case JPEG:
		return imgio.JPEGEncoder(jpegQuality)
	case BMP:
		return imgio.BMPEncoder()
	default:
		return imgio.PNGEncoder()
	}
}

// New wraps an arbitrary image, converting it to NRGBA when needed.
func New(img image.Image) *Canvas {
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(img.Bounds())
		draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return &Canvas{
		Img:    nrgba,
		Bounds: nrgba.Bounds(),
	}
}

func NewFromReader(r io.Reader) (*Canvas, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return New(img), nil
}

func Open(filename string) (*Canvas, error) {
	img, err := imgio.Open(filename)
	if err != nil {
		return nil, err
	}
	return New(img), nil
}

func (c *Canvas) Write(w io.Writer, format Format) error {
	return format.encoder()(w, c.Img)
}

func (c *Canvas) Save(filename string, format Format) error {
	return imgio.Save(filename, c.Img, format.encoder())
}

// Rows calls fn once per pixel row with that row's RGBA bytes. Padding
// between rows is never passed to fn.
func (c *Canvas) Rows(fn func(row []byte)) {
	rowLen := 4 * c.Bounds.Dx()
	for y := c.Bounds.Min.Y; y < c.Bounds.Max.Y; y++ {
		off := c.Img.PixOffset(c.Bounds.Min.X, y)
		fn(c.Img.Pix[off : off+rowLen])
	}
}

func (c *Canvas) Clone() *Canvas {
	img := image.NewNRGBA(c.Bounds)
	draw.Draw(img, c.Bounds, c.Img, c.Bounds.Min, draw.Src)
	return &Canvas{
		Img:    img,
		Bounds: c.Bounds,
	}
}

// Replace swaps in a new backing image, e.g. after a stage that produces a
// fresh image rather than editing pixels in place.
func (c *Canvas) Replace(img image.Image) {
	next := New(img)
	c.Img = next.Img
	c.Bounds = next.Bounds
}

func (c *Canvas) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(c); err != nil {
			return err
		}
	}
	return nil
}
