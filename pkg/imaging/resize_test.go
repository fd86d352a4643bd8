package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/mealhelper/mealhelper/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"small unchanged", 640, 480, 640, 480},
		{"exact limit", 800, 800, 800, 800},
		{"landscape", 1600, 1200, 800, 600},
		{"portrait", 1200, 2400, 400, 800},
		{"square", 1000, 1000, 800, 800},
		{"thin strip", 10000, 2, 800, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.width, tt.height, 800)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestResize_Downscales(t *testing.T) {
	r := NewResizer(80, 80, nil)

	out, err := r.Resize(bytes.NewReader(encodePNG(t, 200, 100)))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestResize_KeepsSmallImages(t *testing.T) {
	r := NewResizer(0, 0, nil)
	assert.Equal(t, DefaultMaxDimension, r.MaxDimension)
	assert.Equal(t, DefaultQuality, r.Quality)

	out, err := r.Resize(bytes.NewReader(encodePNG(t, 30, 20)))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestResize_RejectsGarbage(t *testing.T) {
	r := NewResizer(800, 80, nil)

	_, err := r.Resize(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestResize_EnforcesPixelLimit(t *testing.T) {
	v := security.NewValidator(1<<20, 1<<20, 100)
	r := NewResizer(800, 80, v)

	_, err := r.Resize(bytes.NewReader(encodePNG(t, 20, 20)))
	assert.Error(t, err)
}
