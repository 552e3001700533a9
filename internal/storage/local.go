// Package storage keeps uploaded product images on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// PublicPrefix is the URL prefix under which stored files are served.
const PublicPrefix = "/uploads/"

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("storage: file too large")

// Local writes uploads into a single directory. File names are the upload
// time in Unix milliseconds plus the original extension; two uploads in the
// same millisecond with the same extension overwrite each other.
type Local struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// NewLocal creates dir if needed. maxBytes <= 0 disables the size limit.
func NewLocal(dir string, maxBytes int64) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &Local{dir: abs, maxBytes: maxBytes, now: time.Now}, nil
}

// Dir returns the absolute upload directory, for static serving.
func (s *Local) Dir() string { return s.dir }

// Save copies r into a new file named after the current time and the
// extension of originalName, and returns its public path.
func (s *Local) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + filepath.Ext(filepath.Base(originalName))
	full := filepath.Join(s.dir, name)

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close() //nolint:errcheck // close error after a successful copy is not actionable

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		_ = os.Remove(full)
		return "", ErrTooLarge
	}
	return PublicPrefix + name, nil
}
