package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/pkg/apperror"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	Update(ctx context.Context, tag *entity.Tag) error
	FindByID(ctx context.Context, id uint) (*entity.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Tag, error)
	List(ctx context.Context, status int8, keyword string) ([]*entity.Tag, error)
	ListAll(ctx context.Context) ([]*entity.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	return duplicate(r.db.WithContext(ctx).Create(tag).Error, tag.Slug)
}

func (r *tagRepository) Update(ctx context.Context, tag *entity.Tag) error {
	return duplicate(r.db.WithContext(ctx).Save(tag).Error, tag.Slug)
}

func (r *tagRepository) FindByID(ctx context.Context, id uint) (*entity.Tag, error) {
	var tag entity.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tag, nil
}

func (r *tagRepository) FindBySlug(ctx context.Context, slug string) (*entity.Tag, error) {
	var tag entity.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, notFound(err)
	}
	return &tag, nil
}

// List returns the tags with the given status, most used first.
func (r *tagRepository) List(ctx context.Context, status int8, keyword string) ([]*entity.Tag, error) {
	var tags []*entity.Tag
	query := r.db.WithContext(ctx).Where("status = ?", status)
	if keyword != "" {
		query = query.Where("name ILIKE ?", "%"+keyword+"%")
	}
	if err := query.Order("article_count DESC, name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) ListAll(ctx context.Context) ([]*entity.Tag, error) {
	var tags []*entity.Tag
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// duplicate reports a unique slug violation as a conflict.
func duplicate(err error, slug string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict(fmt.Sprintf("tag with slug %s already exists", slug))
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}
