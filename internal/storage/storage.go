// Package storage uploads post images to an object store and resolves their
// public URLs. The local driver writes to disk; minio and s3 talk to any
// S3-compatible backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid object key")

// Storage is the object storage surface the authoring workflow consumes.
type Storage interface {
	// Upload stores reader under key and returns the stored path.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object at path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error
	// PublicURL returns the browser-accessible URL for a stored path.
	PublicURL(path string) string
}

// MaxNameLength caps the sanitized original name kept in an object key.
const MaxNameLength = 100

var (
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	dotRuns         = regexp.MustCompile(`\.{2,}`)
)

// ObjectName builds "<unix-millis>-<random>-<sanitized-name>" for an upload.
// The result always passes checkKey.
func ObjectName(original string, now time.Time) string {
	name := unsafeNameChars.ReplaceAllString(original, "")
	name = dotRuns.ReplaceAllString(name, ".")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "image"
	}
	name = truncateName(name, MaxNameLength)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), suffix, name)
}

// truncateName shortens name to max bytes and keeps a short extension.
// name is ASCII after sanitizing.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	ext := path.Ext(name)
	if len(ext) >= max/2 {
		ext = ""
	}
	return strings.TrimRight(name[:max-len(ext)], ".") + ext
}

func checkKey(key string) error {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
