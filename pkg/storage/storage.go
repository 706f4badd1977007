package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Object describes a file being written to storage.
type Object struct {
	Folder      string
	Name        string
	ContentType string
	Size        int64
}

// Key is the folder-qualified object name.
func (o Object) Key() string {
	if o.Folder == "" {
		return o.Name
	}
	return path.Join(o.Folder, o.Name)
}

// FileStorage is the contract for the object storage providers.
type FileStorage interface {
	// Upload stores the content of r and returns its public URL.
	Upload(ctx context.Context, r io.Reader, obj Object) (string, error)
	// Delete removes the object behind a URL previously returned by Upload.
	Delete(ctx context.Context, fileURL string) error
}

const (
	DriverCloudinary = "cloudinary"
	DriverS3         = "s3"
)

// Options select and configure a storage driver.
type Options struct {
	Driver     string
	Cloudinary CloudinaryConfig
	S3         S3Config
}

// New builds the driver named in opts.
func New(ctx context.Context, opts Options) (FileStorage, error) {
	switch strings.ToLower(opts.Driver) {
	case DriverCloudinary, "":
		return NewCloudinaryStorage(opts.Cloudinary)
	case DriverS3:
		return NewS3Storage(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
