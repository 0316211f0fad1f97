package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	// Registered decoders for the formats accepted on upload.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// JPEGQuality is used when re-encoding uploads.
const JPEGQuality = 90

// ToJPEG decodes any registered image format and re-encodes it as JPEG.
func ToJPEG(r io.Reader) ([]byte, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}
