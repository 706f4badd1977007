package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig holds credentials. When URL is set it wins over the
// individual fields; when everything is empty CLOUDINARY_URL is read from
// the environment by the SDK.
type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
}

type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type cloudinaryStorage struct {
	upload cloudinaryUploader
}

// NewCloudinaryStorage creates the Cloudinary-backed FileStorage.
func NewCloudinaryStorage(cfg CloudinaryConfig) (FileStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.URL != "":
		cld, err = cloudinary.NewFromURL(cfg.URL)
	case cfg.CloudName != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	default:
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	// Ensure HTTPS URLs by default.
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{upload: &cld.Upload}, nil
}

// Upload stores the file and returns the secure URL.
func (s *cloudinaryStorage) Upload(ctx context.Context, r io.Reader, obj Object) (string, error) {
	if s == nil || s.upload == nil {
		return "", fmt.Errorf("cloudinary storage is not initialized")
	}

	resourceType := resourceTypeFor(obj)
	publicID := obj.Name
	if resourceType != "raw" {
		// image and video public ids carry no extension
		publicID = strings.TrimSuffix(obj.Name, filepath.Ext(obj.Name))
	}

	params := uploader.UploadParams{
		Folder:         obj.Folder,
		PublicID:       publicID,
		ResourceType:   resourceType,
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	}

	resp, err := s.upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload file to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload rejected: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

// Delete removes the file from Cloudinary.
func (s *cloudinaryStorage) Delete(ctx context.Context, fileURL string) error {
	if s == nil || s.upload == nil {
		return fmt.Errorf("cloudinary storage is not initialized")
	}

	resourceType, publicID := extractPublicID(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

	// Invalidate: true helps to clear CDN cache
	resp, err := s.upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from cloudinary: %w", err)
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}

func resourceTypeFor(obj Object) string {
	switch {
	case strings.HasPrefix(obj.ContentType, "image/") && obj.ContentType != "image/svg+xml":
		return "image"
	case strings.HasPrefix(obj.ContentType, "video/"), strings.HasPrefix(obj.ContentType, "audio/"):
		return "video"
	default:
		return "raw"
	}
}

// extractPublicID splits a Cloudinary delivery URL into resource type and
// public ID.
// https://res.cloudinary.com/demo/image/upload/v123/folder/sample.jpg -> image, folder/sample
// https://res.cloudinary.com/demo/raw/upload/v123/folder/doc.pdf -> raw, folder/doc.pdf
func extractPublicID(fileURL string) (string, string) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", ""
	}

	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}

	if uploadIndex < 1 || uploadIndex+1 >= len(parts) {
		return "", ""
	}
	resourceType := parts[uploadIndex-1]

	relevantParts := parts[uploadIndex+1:]
	if isVersionSegment(relevantParts[0]) {
		relevantParts = relevantParts[1:]
	}
	if len(relevantParts) == 0 {
		return "", ""
	}

	publicID := strings.Join(relevantParts, "/")
	if resourceType != "raw" {
		publicID = strings.TrimSuffix(publicID, filepath.Ext(publicID))
	}
	return resourceType, publicID
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
