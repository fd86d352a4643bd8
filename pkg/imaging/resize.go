// Package imaging downscales meal photos before they are stored.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/security"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Defaults match what the capture screen has always produced.
const (
	DefaultMaxDimension = 800
	DefaultQuality      = 80
)

// Resizer decodes a photo, fits it inside MaxDimension on both sides and
// re-encodes it as JPEG.
type Resizer struct {
	MaxDimension int
	Quality      int
	validator    *security.Validator
}

// NewResizer creates a resizer. A nil validator skips dimension checks.
func NewResizer(maxDimension, quality int, validator *security.Validator) *Resizer {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Resizer{MaxDimension: maxDimension, Quality: quality, validator: validator}
}

// Resize reads an encoded image (jpeg, png, gif or webp) and returns JPEG bytes
// no larger than MaxDimension in either direction.
func (r *Resizer) Resize(src io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		slog.Error("image_decode_config_failed", "error", err)
		return nil, errors.Wrap(err, "failed to decode image header")
	}
	if r.validator != nil {
		if err := r.validator.ValidateDimensions(cfg.Width, cfg.Height); err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		slog.Error("image_decode_failed", "format", format, "error", err)
		return nil, errors.Wrap(err, "failed to decode image")
	}

	bounds := img.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), r.MaxDimension)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: r.Quality}); err != nil {
		slog.Error("image_encode_failed", "error", err)
		return nil, errors.Wrap(err, "failed to encode jpeg")
	}

	slog.Info("image_resized",
		"format", format,
		"src_width", bounds.Dx(),
		"src_height", bounds.Dy(),
		"width", width,
		"height", height,
		"size_bytes", out.Len())

	return out.Bytes(), nil
}

// FitWithin scales width and height down so that neither exceeds limit,
// preserving the aspect ratio. Images already within bounds are unchanged.
func FitWithin(width, height, limit int) (int, int) {
	if width <= limit && height <= limit {
		return width, height
	}
	if width >= height {
		h := int(float64(height)*float64(limit)/float64(width) + 0.5)
		return limit, clampMin(h)
	}
	w := int(float64(width)*float64(limit)/float64(height) + 0.5)
	return clampMin(w), limit
}

func clampMin(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
