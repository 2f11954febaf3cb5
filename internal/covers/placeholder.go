package covers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/bbrks/go-blurhash"
)

// Placeholder size keeps the 2:3 shape of a book cover. The browser scales
// it up, so a few pixels are enough for a blurred preview.
const (
	placeholderWidth  = 16
	placeholderHeight = 24
)

// Placeholder decodes a BlurHash into a PNG data URI that pages show
// behind a cover while it loads, or instead of it when it fails to.
func Placeholder(hash string) (string, error) {
	img, err := blurhash.Decode(hash, placeholderWidth, placeholderHeight, 1)
	if err != nil {
		return "", fmt.Errorf("decode blurhash: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode placeholder: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
