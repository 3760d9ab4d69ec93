// Package artwork decodes cover images from inline bytes or URLs and keeps
// the one image that belongs to the active playback session.
package artwork

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultQuality matches the lossless-as-possible snapshots consumers expect.
const DefaultQuality = 100

// Image is a decoded cover together with its source format name.
type Image struct {
	image.Image
	Format string
}

// DecodeError reports bytes that no registered decoder accepts.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode artwork: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode accepts png, jpeg, gif, bmp and webp.
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: image.ErrFormat}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &Image{Image: img, Format: format}, nil
}

// EncodeJPEG compresses img. Out of range qualities are clamped to 1..100.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	switch {
	case quality < 1:
		quality = 1
	case quality > 100:
		quality = 100
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode artwork: %w", err)
	}

	return buf.Bytes(), nil
}
