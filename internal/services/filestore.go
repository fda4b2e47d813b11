package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore is the blob-storage collaborator recording uploads are handed to.
// The platform's real blob store lives elsewhere; this interface is the seam.
type FileStore interface {
	Save(name string, r io.Reader) (url string, err error)
}

// DiskFileStore keeps uploaded files on the local filesystem.
type DiskFileStore struct {
	Dir string
}

// NewDiskFileStore creates a DiskFileStore rooted at dir.
func NewDiskFileStore(dir string) DiskFileStore {
	return DiskFileStore{Dir: dir}
}

// Save writes the file under a collision-proof name and returns its path.
func (s DiskFileStore) Save(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	path := filepath.Join(s.Dir, uuid.New().String()+"_"+filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	return path, nil
}
