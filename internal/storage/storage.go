// Package storage holds the blob store behind the note service. Two
// backends implement the same interface: an S3-compatible bucket and the
// Google Drive files API. The note service never knows which one is active.
package storage

import (
	"fmt"
	"io"

	cfg "github.com/alnotes/alnotes/internal/config"
)

// PutResult describes a stored blob. Path is the opaque identifier used
// for later deletion; backends that assign their own ids (Drive) return
// theirs, not the requested path. URL is the shareable download URL.
type PutResult struct {
	Path string
	URL  string
}

// Storage defines the interface for blob storage operations
type Storage interface {
	// Put stores a blob under the given path and returns its identifier
	// and download URL
	Put(path string, file io.Reader, contentType string) (*PutResult, error)

	// Delete removes the blob with the given identifier
	Delete(path string) error
}

// New creates the storage backend selected by STORAGE_PROVIDER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageProvider {
	case "s3":
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	case "drive":
		return NewDriveStorage(DriveConfig{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			RefreshToken: c.DriveRefreshToken,
			FolderID:     c.DriveFolderID,
		})
	default:
		return nil, fmt.Errorf("unknown storage provider: %q", c.StorageProvider)
	}
}
