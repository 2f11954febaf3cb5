package covers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/bbrks/go-blurhash"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// MaxDimension bounds the stored cover on both axes.
	MaxDimension = 1200

	// MaxPixels caps the declared size of a source image. Decoding
	// allocates width*height pixels up front, whatever the file size.
	MaxPixels = 40_000_000

	// blurHashSize is the thumbnail edge used for BlurHash; the hash is a
	// low resolution placeholder so a small source gives the same result.
	blurHashSize = 64

	jpegQuality = 85
)

var (
	ErrTooLarge     = errors.New("image too large")
	ErrInvalidImage = errors.New("not a supported image")
)

var allowedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// Processed is a cover ready to be stored.
type Processed struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
	BlurHash    string
}

type Processor struct {
	MaxSize int64 // bytes
}

func NewProcessor(maxSize int64) *Processor {
	return &Processor{MaxSize: maxSize}
}

// Validate checks byte size, format and declared dimensions without
// decoding the pixels.
func (p *Processor) Validate(data []byte) error {
	if p.MaxSize > 0 && int64(len(data)) > p.MaxSize {
		return fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, p.MaxSize)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if !allowedFormats[format] {
		return fmt.Errorf("%w: format %s not allowed", ErrInvalidImage, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty %dx%d image", ErrInvalidImage, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}
	return nil
}

// Process validates data, fits it into MaxDimension and re-encodes it as JPEG.
func (p *Processor) Process(data []byte) (*Processed, error) {
	if err := p.Validate(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	// Fit never upscales, small covers keep their size.
	resized := imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}

	hash, err := computeBlurHash(resized)
	if err != nil {
		return nil, err
	}

	bounds := resized.Bounds()
	return &Processed{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Ext:         ".jpg",
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		BlurHash:    hash,
	}, nil
}

// computeBlurHash uses 4x3 components, enough detail for a book cover.
func computeBlurHash(img image.Image) (string, error) {
	thumbnail := imaging.Fit(img, blurHashSize, blurHashSize, imaging.Box)
	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}
