package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// MaxImageSize is the largest accepted image upload (5 MB).
const MaxImageSize = 5 << 20

var (
	ErrImageTooLarge = errors.New("file size must be less than 5MB")
	ErrImageType     = errors.New("file must be a valid image (JPEG, PNG, WebP, or GIF)")
	ErrImageCorrupt  = errors.New("image could not be decoded")
)

// AllowedImageTypes lists the accepted MIME types.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// File is an image selected for upload.
type File struct {
	Name string
	Data []byte

	// Filled by ValidateImage.
	ContentType string
	Width       int
	Height      int
}

// Size returns the payload length in bytes.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// Reader returns a fresh reader over the payload.
func (f *File) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// ReadFile reads at most MaxImageSize+1 bytes so oversized uploads are
// detected without buffering them entirely.
func ReadFile(name string, r io.Reader) (File, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", name, err)
	}
	return File{Name: name, Data: data}, nil
}

// ValidateImage checks size, sniffed MIME type and dimensions. The declared
// content type of the upload is ignored.
func ValidateImage(f *File) error {
	if f.Size() > MaxImageSize {
		return ErrImageTooLarge
	}
	if f.Size() == 0 {
		return ErrImageType
	}

	detected := mimetype.Detect(f.Data)
	contentType := ""
	for _, allowed := range AllowedImageTypes {
		if detected.Is(allowed) {
			contentType = allowed
			break
		}
	}
	if contentType == "" {
		return ErrImageType
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return ErrImageCorrupt
	}

	f.ContentType = contentType
	f.Width = cfg.Width
	f.Height = cfg.Height
	return nil
}
