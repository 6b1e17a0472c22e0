package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrInvalidImage is returned when uploaded data cannot be decoded as an image
// in any of the registered formats.
var ErrInvalidImage = fmt.Errorf("data is not a valid image")

// Decode validates uploaded bytes by fully decoding them as an image.
// Returns the decoded image and its format name ("jpeg", "png", "gif", "webp").
// Anything the registered decoders reject is ErrInvalidImage, including
// truncated files with a valid magic number.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrInvalidImage
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return img, format, nil
}

// Extension returns the canonical file extension for a decoded format name.
func Extension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	default:
		return ".img"
	}
}
