package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/outfitcult/internal/db"
	"github.com/outfitcult/internal/logger"
	"github.com/outfitcult/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), db.Config(false))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// memoryStorage keeps uploads in memory. failOn makes the Nth upload
// (1-based) fail.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
	deletes []string
	failOn  int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.failOn > 0 && m.uploads == m.failOn {
		return "", errors.New("storage unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return key, nil
}

func (m *memoryStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, path)
	delete(m.objects, path)
	return nil
}

func (m *memoryStorage) PublicURL(path string) string {
	return "https://cdn.test/blog-images/" + path
}

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func testPNG(t *testing.T, name string) storage.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return storage.File{Name: name, Data: buf.Bytes(), ContentType: "image/png"}
}

func createTestUser(t *testing.T, gdb *gorm.DB, username string) *db.User {
	t.Helper()
	user, err := db.EnsureUser(gdb, username, "secret-pass", "Display "+username)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func newTestAuthoring(gdb *gorm.DB, store storage.Storage, opts ...AuthoringOption) *AuthoringService {
	return NewAuthoringService(gdb, store, logger.Discard(), opts...)
}

func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Minute)
		return current
	}
}
