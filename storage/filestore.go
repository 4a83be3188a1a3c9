// Package storage persists user-owned files (avatars, generated reports)
// under a per-user directory tree on local disk.
package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"
	"meetups.app/config"
	apperrors "meetups.app/errors"
)

// FileStore lays files out as:
//
//	<base>/<user_id>/images/avatar.jpg
//	<base>/<user_id>/reports/<mode>/report_<timestamp>.<mode>
type FileStore struct {
	basePath string
}

// NewFileStore creates a file store rooted at the configured base path
func NewFileStore(cfg *config.StorageConfig) *FileStore {
	return &FileStore{basePath: cfg.BasePath}
}

// IsImage reports whether the content sniffs as a known image format
func (s *FileStore) IsImage(content []byte) bool {
	return filetype.IsImage(content)
}

// SaveAvatar writes the avatar image for a user and returns its path.
// The file is always stored as avatar.jpg, replacing any previous upload.
func (s *FileStore) SaveAvatar(userID uint, content []byte) (string, error) {
	dir := filepath.Join(s.basePath, fmt.Sprintf("%d", userID), "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewFileStorageError("failed to create avatar directory", err)
	}

	path := filepath.Join(dir, "avatar.jpg")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", apperrors.NewFileStorageError("failed to write avatar file", err)
	}

	log.Printf("[DEBUG] Saved avatar for user %d at %s\n", userID, path)
	return path, nil
}

// NewReportPath allocates a fresh timestamped report path for a user and
// creates its parent directories. The mode doubles as the file extension.
func (s *FileStore) NewReportPath(userID uint, mode string) (string, error) {
	dir := filepath.Join(s.basePath, fmt.Sprintf("%d", userID), "reports", mode)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewFileStorageError("failed to create report directory", err)
	}

	name := fmt.Sprintf("report_%s.%s", time.Now().UTC().Format("2006-01-02 15:04:05.000000"), mode)
	return filepath.Join(dir, name), nil
}
