package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/internal/modules/upload/dto"
	"anoa.com/blogapi/internal/modules/upload/repository"
	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/storage"
	"anoa.com/blogapi/pkg/validator"
)

// sniffLen is how much of a file is read to detect its type.
const sniffLen = 3072

type Options struct {
	Driver       string
	Folder       string
	MaxBytes     int64
	AllowedTypes []string
}

type UploadService interface {
	Upload(ctx context.Context, uploadedBy string, file *multipart.FileHeader) (*dto.FileUploadVO, error)
	Delete(ctx context.Context, filename string) error
}

type uploadService struct {
	repo    repository.FileRepository
	storage storage.FileStorage
	opts    Options
	log     *zap.Logger
}

func NewUploadService(repo repository.FileRepository, fileStorage storage.FileStorage, opts Options, log *zap.Logger) UploadService {
	if log == nil {
		log = zap.NewNop()
	}
	return &uploadService{
		repo:    repo,
		storage: fileStorage,
		opts:    opts,
		log:     log,
	}
}

func (s *uploadService) Upload(ctx context.Context, uploadedBy string, file *multipart.FileHeader) (*dto.FileUploadVO, error) {
	if s.opts.MaxBytes > 0 && file.Size > s.opts.MaxBytes {
		return nil, apperror.New(http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds the %d byte limit", s.opts.MaxBytes), apperror.ErrPayloadTooLarge)
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !s.allowed(mtype) {
		return nil, apperror.New(http.StatusUnsupportedMediaType, fmt.Sprintf("file type %s is not allowed", mtype.String()), apperror.ErrUnsupportedMediaType)
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(file.Filename))
	}
	obj := storage.Object{
		Folder:      s.opts.Folder,
		Name:        uuid.NewString() + ext,
		ContentType: mtype.String(),
		Size:        file.Size,
	}

	url, err := s.storage.Upload(ctx, io.MultiReader(bytes.NewReader(head), f), obj)
	if err != nil {
		return nil, err
	}

	record := &entity.StoredFile{
		Filename:     obj.Name,
		OriginalName: file.Filename,
		URL:          url,
		Size:         file.Size,
		MimeType:     obj.ContentType,
		Driver:       s.opts.Driver,
		UploadedBy:   uploadedBy,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// do not leave an unreferenced object behind
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			s.log.Warn("failed to remove orphaned upload", zap.String("url", url), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	vo := &dto.FileUploadVO{
		URL:          record.URL,
		Filename:     record.Filename,
		OriginalName: record.OriginalName,
		Size:         record.Size,
		Type:         record.MimeType,
	}
	if err := validator.Validate(vo); err != nil {
		s.log.Error("upload produced an invalid result", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	s.log.Info("file uploaded",
		zap.String("filename", vo.Filename),
		zap.String("type", vo.Type),
		zap.Int64("size", vo.Size),
	)
	return vo, nil
}

func (s *uploadService) Delete(ctx context.Context, filename string) error {
	record, err := s.repo.FindByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("file not found")
		}
		return err
	}

	if err := s.storage.Delete(ctx, record.URL); err != nil {
		return fmt.Errorf("failed to delete file from storage: %w", err)
	}
	return s.repo.Delete(ctx, record.ID)
}

// allowed walks the detected type and its parents, so "text/plain" also
// admits more specific text formats.
func (s *uploadService) allowed(mtype *mimetype.MIME) bool {
	if len(s.opts.AllowedTypes) == 0 {
		return true
	}
	for m := mtype; m != nil; m = m.Parent() {
		for _, allowed := range s.opts.AllowedTypes {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}
