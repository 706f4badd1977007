package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/pkg/apperror"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
	FindByID(ctx context.Context, id uint) (*entity.Category, error)
	FindAll(ctx context.Context, filter string) ([]*entity.Category, error)
	CountChildren(ctx context.Context, id uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return duplicate(r.db.WithContext(ctx).Create(category).Error, category.Slug)
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return duplicate(r.db.WithContext(ctx).Save(category).Error, category.Slug)
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, filter string) ([]*entity.Category, error) {
	var categories []*entity.Category
	query := r.db.WithContext(ctx)

	if filter != "" {
		query = query.Where("name ILIKE ?", "%"+filter+"%")
	}

	if err := query.Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}

// duplicate reports a unique slug violation as a conflict.
func duplicate(err error, slug string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict(fmt.Sprintf("category with slug %s already exists", slug))
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}
