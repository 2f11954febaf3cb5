package covers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog/log"
)

// Upload describes a stored cover.
type Upload struct {
	URL      string
	BlurHash string
}

// Uploader turns a multipart cover file into a stored, processed image.
type Uploader struct {
	storage   Storage
	processor *Processor
	now       func() time.Time
}

func NewUploader(storage Storage, processor *Processor) *Uploader {
	return &Uploader{
		storage:   storage,
		processor: processor,
		now:       time.Now,
	}
}

// Store reads, processes and saves the uploaded file. Any failure means
// the form submission should not be persisted.
func (u *Uploader) Store(ctx context.Context, fh *multipart.FileHeader) (*Upload, error) {
	if u.processor.MaxSize > 0 && fh.Size > u.processor.MaxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, fh.Filename, fh.Size)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if u.processor.MaxSize > 0 {
		r = io.LimitReader(f, u.processor.MaxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	processed, err := u.processor.Process(data)
	if err != nil {
		return nil, err
	}

	name := storedName(fh.Filename, u.now(), processed.Ext)
	url, err := u.storage.Save(ctx, name, processed.Data, processed.ContentType)
	if err != nil {
		return nil, fmt.Errorf("save cover: %w", err)
	}

	log.Info().
		Str("file", fh.Filename).
		Str("url", url).
		Int("width", processed.Width).
		Int("height", processed.Height).
		Msg("Cover stored")

	return &Upload{URL: url, BlurHash: processed.BlurHash}, nil
}
