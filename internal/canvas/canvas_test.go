package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStage struct {
	name  string
	calls *[]string
	err   error
}

func (s *recordingStage) Process(_ *Canvas) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(10 * x), G: uint8(20 * y), B: 99, A: 200})
		}
	}
	return img
}

func TestNewFromReader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	c, err := NewFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), c.Bounds)
	assert.Equal(t, color.NRGBA{R: 20, G: 20, B: 99, A: 200}, c.Img.NRGBAAt(2, 1))

	_, err = NewFromReader(bytes.NewBufferString("not an image"))
	assert.Error(t, err)
}

func TestNewConvertsToNRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 77})

	c := New(gray)
	assert.Equal(t, color.NRGBA{R: 77, G: 77, B: 77, A: 255}, c.Img.NRGBAAt(1, 1))
}

func TestRowsSkipsStridePadding(t *testing.T) {
	full := testImage()
	sub := full.SubImage(image.Rect(1, 0, 3, 2)).(*image.NRGBA)
	c := New(sub)

	var rows [][]byte
	c.Rows(func(row []byte) {
		rows = append(rows, append([]byte(nil), row...))
	})

	assert.Equal(t, [][]byte{
		{10, 0, 99, 200, 20, 0, 99, 200},
		{10, 20, 99, 200, 20, 20, 99, 200},
	}, rows)
}

func TestClone(t *testing.T) {
	c := New(testImage())
	clone := c.Clone()
	clone.Img.Pix[0] = 255

	assert.Equal(t, uint8(0), c.Img.Pix[0])
	assert.Equal(t, c.Bounds, clone.Bounds)
}

func TestPipeline(t *testing.T) {
	t.Run("runs stages in order", func(t *testing.T) {
		var calls []string
		c := New(testImage())
		err := c.Pipeline(
			&recordingStage{name: "a", calls: &calls},
			&recordingStage{name: "b", calls: &calls},
		)
		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		var calls []string
		boom := errors.New("boom")
		c := New(testImage())
		err := c.Pipeline(
			&recordingStage{name: "a", calls: &calls, err: boom},
			&recordingStage{name: "b", calls: &calls},
		)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"a"}, calls)
	})
}

func TestFormats(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"", PNG, false},
		{"PNG", PNG, false},
		{"jpg", JPEG, false},
		{"jpeg", JPEG, false},
		{"bmp", BMP, false},
		{"tiff", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, JPEG, FormatFromExtension("out/photo.JPG"))
	assert.Equal(t, PNG, FormatFromExtension("out/photo.tiff"))
	assert.Equal(t, "image/bmp", BMP.ContentType())
}

func TestSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{PNG, BMP} {
		t.Run(string(f), func(t *testing.T) {
			filename := filepath.Join(dir, "out."+string(f))
			c := New(testImage())
			require.NoError(t, c.Save(filename, f))

			loaded, err := Open(filename)
			require.NoError(t, err)
			assert.Equal(t, c.Bounds, loaded.Bounds)
		})
	}
}

func TestWritePNGRoundTrip(t *testing.T) {
	c := New(testImage())
	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf, PNG))

	decoded, err := NewFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, c.Img.Pix, decoded.Img.Pix)
}

func TestAnimate(t *testing.T) {
	c := New(testImage())
	frames := []*Canvas{c, c.Clone()}

	data, err := Animate(frames, 0.5)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
	assert.True(t, bytes.Contains(data, []byte("acTL")), "expected an animation control chunk")

	_, err = Animate(nil, 0.5)
	assert.Error(t, err)
}

func TestAnimateFrameDelay(t *testing.T) {
	frames := []*Canvas{New(testImage())}

	for _, delay := range []float64{0.001, 1, MaxFrameDelay} {
		_, err := Animate(frames, delay)
		assert.NoError(t, err, "delay %g", delay)
	}

	for _, delay := range []float64{0, -1, 65.536, 70, math.NaN(), math.Inf(1)} {
		_, err := Animate(frames, delay)
		assert.Error(t, err, "delay %g", delay)
	}
}
