package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes objects below dir/bucket and serves them under urlPrefix.
type LocalStorage struct {
	root      string
	urlPrefix string
}

// NewLocalStorage 创建本地磁盘存储，目录不存在时自动创建。
func NewLocalStorage(dir, bucket, urlPrefix string) (*LocalStorage, error) {
	root := filepath.Join(dir, bucket)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{
		root:      root,
		urlPrefix: strings.TrimRight(urlPrefix, "/") + "/" + bucket,
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.root, key)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object %q: %w", key, err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write object %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("close object %q: %w", key, err)
	}
	return key, nil
}

func (s *LocalStorage) Delete(_ context.Context, path string) error {
	if err := checkKey(path); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) PublicURL(path string) string {
	return s.urlPrefix + "/" + path
}
