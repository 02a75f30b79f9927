// Package imaging reconstructs displayable raster images from embedded PDF
// image streams and canonicalizes them to PNG for the OCR engine.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	// Registered so image.Decode can auto-detect formats beyond JPEG/PNG when
	// an image carries an unrecognized filter tag.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/redactcheck/redactcheck/internal/pagesource"
)

// UnsupportedCodecError reports an image stream whose filter could not be
// decoded by any strategy.
type UnsupportedCodecError struct {
	Filter string
}

func (e *UnsupportedCodecError) Error() string {
	return fmt.Sprintf("unsupported image codec: filter %q", e.Filter)
}

// Decode reconstructs a raster image from an embedded image stream.
//
// DCTDecode payloads are complete JPEG streams and decode directly.
// FlateDecode payloads are raw uncompressed samples; malformed producers emit
// under- or over-sized buffers, so the payload is zero-padded or truncated to
// the declared dimensions before construction. Anything else goes through
// generic format auto-detection, and failing that the filter is reported as
// unsupported.
func Decode(src pagesource.ImageStream) (image.Image, error) {
	switch {
	case strings.Contains(src.Filter, "DCTDecode"):
		img, err := jpeg.Decode(bytes.NewReader(src.Data))
		if err != nil {
			return nil, fmt.Errorf("decoding DCTDecode image: %w", err)
		}
		return img, nil

	case strings.Contains(src.Filter, "FlateDecode"):
		return decodeRawSamples(src)

	default:
		img, _, err := image.Decode(bytes.NewReader(src.Data))
		if err != nil {
			return nil, &UnsupportedCodecError{Filter: src.Filter}
		}
		return img, nil
	}
}

// decodeRawSamples builds an image from raw component samples. Grayscale when
// the color space mentions DeviceGray, RGB otherwise.
func decodeRawSamples(src pagesource.ImageStream) (image.Image, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", src.Width, src.Height)
	}

	gray := strings.Contains(src.ColorSpace, "DeviceGray")

	expected := src.Width * src.Height
	if !gray {
		expected *= 3
	}

	data := src.Data
	if len(data) < expected {
		padded := make([]byte, expected)
		copy(padded, data)
		data = padded
	} else if len(data) > expected {
		data = data[:expected]
	}

	bounds := image.Rect(0, 0, src.Width, src.Height)
	if gray {
		img := image.NewGray(bounds)
		// Gray.Pix has the same layout as the sample buffer.
		copy(img.Pix, data)
		return img, nil
	}

	img := image.NewRGBA(bounds)
	for i := 0; i < src.Width*src.Height; i++ {
		img.SetRGBA(i%src.Width, i/src.Width, color.RGBA{
			R: data[i*3],
			G: data[i*3+1],
			B: data[i*3+2],
			A: 0xff,
		})
	}
	return img, nil
}

// EncodePNG re-encodes a decoded raster to PNG bytes, the canonical lossless
// input format for the OCR engine.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeToPNG decodes an embedded image stream and returns it as PNG bytes.
func DecodeToPNG(src pagesource.ImageStream) ([]byte, error) {
	img, err := Decode(src)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}
