// Package output persists rendered captures and drives the save and copy
// actions. Each capture keeps a working PNG under a temp directory and is
// promoted to the pictures directory on save.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoPicturesDir is returned when no pictures directory could be resolved.
var ErrNoPicturesDir = errors.New("output: no pictures directory available")

// Storage manages capture files on disk.
type Storage struct {
	tempDir     string
	picturesDir string
}

// StorageOption configures a Storage.
type StorageOption func(*Storage)

// WithTempDir overrides the working directory for rendered captures.
func WithTempDir(dir string) StorageOption {
	return func(s *Storage) { s.tempDir = dir }
}

// WithPicturesDir overrides the directory saved captures are copied to.
func WithPicturesDir(dir string) StorageOption {
	return func(s *Storage) { s.picturesDir = dir }
}

// NewStorage creates a Storage rooted at the default locations unless
// overridden by options.
func NewStorage(opts ...StorageOption) *Storage {
	s := &Storage{
		tempDir:     defaultTempDir(),
		picturesDir: defaultPicturesDir(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultTempDir() string {
	return filepath.Join(os.TempDir(), "snapmark")
}

func defaultPicturesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Pictures")
}

// TempPath returns the working PNG path for a capture.
func (s *Storage) TempPath(id uint64) string {
	return filepath.Join(s.tempDir, fmt.Sprintf("capture_%d.png", id))
}

// SavedPath returns the destination path used by Save.
func (s *Storage) SavedPath(id uint64) string {
	return filepath.Join(s.picturesDir, fmt.Sprintf("%d.png", id))
}

// TempExists reports whether a rendered working file exists for the capture.
func (s *Storage) TempExists(id uint64) bool {
	_, err := os.Stat(s.TempPath(id))
	return err == nil
}

// WriteTemp encodes img as PNG into the capture's working file.
func (s *Storage) WriteTemp(id uint64, img image.Image) error {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	f, err := os.Create(s.TempPath(id))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// ReadTemp decodes the capture's working PNG.
func (s *Storage) ReadTemp(id uint64) (image.Image, error) {
	f, err := os.Open(s.TempPath(id))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode temp png: %w", err)
	}
	return img, nil
}

// Save copies the capture's working file into the pictures directory and
// returns the destination path.
func (s *Storage) Save(id uint64) (string, error) {
	if s.picturesDir == "" {
		return "", ErrNoPicturesDir
	}
	if err := os.MkdirAll(s.picturesDir, 0o755); err != nil {
		return "", fmt.Errorf("create pictures dir: %w", err)
	}
	src, err := os.Open(s.TempPath(id))
	if err != nil {
		return "", fmt.Errorf("open rendered capture: %w", err)
	}
	defer src.Close()

	dest := s.SavedPath(id)
	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create saved capture: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy capture: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return dest, nil
}

// Discard removes the capture's working file. Missing files are not an error.
func (s *Storage) Discard(id uint64) error {
	err := os.Remove(s.TempPath(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PruneStale removes working files older than maxAge and reports how many
// were removed.
func (s *Storage) PruneStale(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "capture_") || !strings.HasSuffix(name, ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.tempDir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}
