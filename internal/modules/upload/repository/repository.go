package repository

import (
	"context"
	"errors"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/pkg/apperror"
	"gorm.io/gorm"
)

type FileRepository interface {
	Create(ctx context.Context, file *entity.StoredFile) error
	FindByFilename(ctx context.Context, filename string) (*entity.StoredFile, error)
	Delete(ctx context.Context, id uint) error
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *entity.StoredFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) FindByFilename(ctx context.Context, filename string) (*entity.StoredFile, error) {
	var file entity.StoredFile
	if err := r.db.WithContext(ctx).Where("filename = ?", filename).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.StoredFile{}, id).Error
}
