// Package services: services/storage_service.go
package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-field-ops/logger"
)

// MediaStorageInterface abstracts where uploaded files land, so handlers can
// be tested without touching the filesystem.
type MediaStorageInterface interface {
	// Save writes the upload and returns the stored filename.
	Save(file *multipart.FileHeader) (string, error)
	// Remove deletes a stored file. Best-effort: callers log failures and
	// move on.
	Remove(storedName string) error
	// Path resolves a stored filename to a servable path.
	Path(storedName string) string
}

// DiskStorage stores uploads under a single directory. Stored names are
// prefixed with an upload timestamp to avoid collisions.
type DiskStorage struct {
	dir string
}

// NewDiskStorage ensures the upload directory exists.
func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

// Save streams the multipart file to disk under a timestamped name.
func (s *DiskStorage) Save(file *multipart.FileHeader) (string, error) {
	storedName := time.Now().Format("20060102150405") + "_" + sanitizeFilename(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(filepath.Join(s.dir, storedName)) // #nosec
	if err != nil {
		return "", err
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	logger.Debug.Printf("storage: saved upload as %s", storedName)
	return storedName, nil
}

// Remove deletes a stored file; a missing file is not an error.
func (s *DiskStorage) Remove(storedName string) error {
	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path resolves the stored filename inside the upload directory.
func (s *DiskStorage) Path(storedName string) string {
	return filepath.Join(s.dir, filepath.Base(storedName))
}

// sanitizeFilename strips path components and whitespace from a client
// supplied filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
