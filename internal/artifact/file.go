package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore writes artifacts into a directory.
type FileStore struct {
	Dir   string
	Namer Namer
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Store implements Store. Existing files are never overwritten.
func (s *FileStore) Store(_ context.Context, area, fileType string, payload []byte) (Handle, error) {
	name, createdAt := s.Namer.Name(area, fileType)
	path := filepath.Join(s.Dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return Handle{}, fmt.Errorf("%w: %s", ErrNameTaken, path)
		}
		return Handle{}, fmt.Errorf("failed to create artifact file: %w", err)
	}

	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(path)
		return Handle{}, fmt.Errorf("failed to write artifact file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return Handle{}, fmt.Errorf("failed to close artifact file: %w", err)
	}

	return newHandle(area, fileType, name, path, len(payload), createdAt), nil
}
