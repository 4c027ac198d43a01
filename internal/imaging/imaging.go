// Package imaging normalizes inspection photos before they are stored next to
// an extinguisher record.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// MaxUploadBytes caps the size of an uploaded photo.
	MaxUploadBytes = 10 << 20

	// MaxDimension is the longest side of a stored photo.
	MaxDimension = 1024

	JPEGQuality = 85
	OutputMIME  = "image/jpeg"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooLarge          = errors.New("image too large")
)

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a normalized inspection photo.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process sniffs the upload, fits it inside MaxDimension and re-encodes it as
// JPEG. The client supplied content type is ignored.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	if detected := http.DetectContentType(data); !accepted[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}

	b := img.Bounds()
	return &Photo{Data: buf.Bytes(), MIME: OutputMIME, Width: b.Dx(), Height: b.Dy()}, nil
}

// fit scales img down so its longest side is at most limit, keeping the aspect
// ratio. Smaller images are returned unchanged.
func fit(img image.Image, limit int) image.Image {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w <= limit && h <= limit {
		return img
	}

	nw, nh := limit, h*limit/w
	if h > w {
		nw, nh = w*limit/h, limit
	}
	nw, nh = atLeastOne(nw), atLeastOne(nh)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
