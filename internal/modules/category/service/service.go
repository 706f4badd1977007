package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/internal/modules/category/dto"
	"anoa.com/blogapi/internal/modules/category/repository"
	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/slug"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryVO, error)
	UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (*dto.CategoryVO, error)
	GetCategory(ctx context.Context, id uint) (*dto.CategoryVO, error)
	GetAllCategories(ctx context.Context, filter dto.CategoryFilter) ([]dto.CategoryVO, error)
	DeleteCategory(ctx context.Context, id uint) error
}

// Indexer mirrors categories into the search index.
type Indexer interface {
	IndexCategory(ctx context.Context, category *entity.Category) error
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	repo      repository.CategoryRepository
	indexer   Indexer
	sanitizer *bluemonday.Policy
	log       *zap.Logger
}

// NewCategoryService wires the service. indexer may be nil when search is
// not configured.
func NewCategoryService(repo repository.CategoryRepository, indexer Indexer, log *zap.Logger) CategoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &categoryService{
		repo:      repo,
		indexer:   indexer,
		sanitizer: bluemonday.UGCPolicy(),
		log:       log,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryVO, error) {
	category := &entity.Category{}
	if err := s.apply(ctx, category, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.index(ctx, category)
	vo := toVO(category)
	return &vo, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (*dto.CategoryVO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, err
	}

	if req.ParentID > 0 {
		if err := s.checkAncestry(ctx, id, uint(req.ParentID)); err != nil {
			return nil, err
		}
	}

	if err := s.apply(ctx, category, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.index(ctx, category)
	vo := toVO(category)
	return &vo, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*dto.CategoryVO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, err
	}
	vo := toVO(category)
	return &vo, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter dto.CategoryFilter) ([]dto.CategoryVO, error) {
	categories, err := s.repo.FindAll(ctx, strings.TrimSpace(filter.Search))
	if err != nil {
		return nil, err
	}

	categoryResponses := make([]dto.CategoryVO, 0, len(categories))
	for _, cat := range categories {
		categoryResponses = append(categoryResponses, toVO(cat))
	}
	return categoryResponses, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("category not found")
		}
		return err
	}

	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return apperror.Conflict("category still has child categories")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteCategory(ctx, id); err != nil {
			s.log.Warn("failed to remove category from search index", zap.Uint("category_id", id), zap.Error(err))
		}
	}
	return nil
}

// apply copies req onto category after checking the slug and parent.
func (s *categoryService) apply(ctx context.Context, category *entity.Category, req dto.CategoryRequest) error {
	categorySlug := req.Slug
	if categorySlug == "" {
		categorySlug = slug.Make(req.Name)
	}
	if categorySlug == "" {
		categorySlug = uuid.New().String()[:8]
	}

	existing, err := s.repo.FindBySlug(ctx, categorySlug)
	switch {
	case err == nil && existing.ID != category.ID:
		return apperror.Conflict(fmt.Sprintf("category with slug %s already exists", categorySlug))
	case err != nil && !errors.Is(err, apperror.ErrNotFound):
		return err
	}

	if req.ParentID > 0 {
		if _, err := s.repo.FindByID(ctx, uint(req.ParentID)); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return apperror.NotFound(fmt.Sprintf("parent category %d not found", req.ParentID))
			}
			return err
		}
	}

	category.Name = req.Name
	category.Slug = categorySlug
	category.Description = s.sanitizer.Sanitize(req.Description)
	category.CoverImage = req.CoverImage
	category.Color = strings.ToUpper(req.Color)
	category.ParentID = uint(req.ParentID)
	category.SortOrder = req.SortOrder
	return nil
}

// checkAncestry rejects a parent that is the category itself or one of its
// descendants. A missing parent ends the walk; apply reports it.
func (s *categoryService) checkAncestry(ctx context.Context, id, parentID uint) error {
	seen := make(map[uint]bool)
	for current := parentID; current != 0; {
		if current == id {
			if current == parentID {
				return apperror.InvalidInput("category cannot be its own parent")
			}
			return apperror.InvalidInput(fmt.Sprintf("category %d is a descendant of category %d", parentID, id))
		}
		if seen[current] {
			// the stored tree already loops above this point
			return apperror.InvalidInput(fmt.Sprintf("category %d has a cyclic ancestry", parentID))
		}
		seen[current] = true

		parent, err := s.repo.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil
			}
			return err
		}
		current = parent.ParentID
	}
	return nil
}

func (s *categoryService) index(ctx context.Context, category *entity.Category) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexCategory(ctx, category); err != nil {
		s.log.Warn("failed to index category", zap.Uint("category_id", category.ID), zap.Error(err))
	}
}

func toVO(c *entity.Category) dto.CategoryVO {
	return dto.CategoryVO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CoverImage:  c.CoverImage,
		Color:       c.Color,
		ParentID:    c.ParentID,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
