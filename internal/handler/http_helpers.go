package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/storage"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// formFile reads one optional upload. A missing field yields nil.
func formFile(c *gin.Context, field string) (*storage.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if header.Size == 0 && header.Filename == "" {
		return nil, nil
	}
	file, err := readHeader(header)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// formFiles reads every upload under field in selection order.
func formFiles(c *gin.Context, field string) ([]storage.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	headers := form.File[field]
	files := make([]storage.File, 0, len(headers))
	for _, header := range headers {
		if header.Size == 0 && header.Filename == "" {
			continue
		}
		file, err := readHeader(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readHeader(header *multipart.FileHeader) (storage.File, error) {
	src, err := header.Open()
	if err != nil {
		return storage.File{}, err
	}
	defer src.Close()
	return storage.ReadFile(header.Filename, src)
}

func trimmedForm(c *gin.Context, key string) string {
	return strings.TrimSpace(c.PostForm(key))
}
