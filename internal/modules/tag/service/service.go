package tag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/internal/modules/tag/dto"
	"anoa.com/blogapi/internal/modules/tag/repository"
	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/cache"
	"anoa.com/blogapi/pkg/slug"
	"anoa.com/blogapi/pkg/validator"
)

// ActiveTagsKey caches the unfiltered list of active tags.
const ActiveTagsKey = "tags:active"

type TagService interface {
	ListTags(ctx context.Context, filter dto.TagFilter) ([]dto.TagVO, error)
	GetTag(ctx context.Context, id uint) (*dto.TagVO, error)
	CreateTag(ctx context.Context, req dto.TagRequest) (*dto.TagVO, error)
	UpdateTag(ctx context.Context, id uint, req dto.TagRequest) (*dto.TagVO, error)
	RefreshCache(ctx context.Context) error
}

// Indexer mirrors tags into the search index.
type Indexer interface {
	IndexTag(ctx context.Context, tag *entity.Tag) error
}

type tagService struct {
	repo    repository.TagRepository
	cache   cache.Cache
	ttl     time.Duration
	indexer Indexer
	log     *zap.Logger
}

// NewTagService wires the service. cache and indexer may be nil.
func NewTagService(repo repository.TagRepository, c cache.Cache, ttl time.Duration, indexer Indexer, log *zap.Logger) TagService {
	if log == nil {
		log = zap.NewNop()
	}
	return &tagService{
		repo:    repo,
		cache:   c,
		ttl:     ttl,
		indexer: indexer,
		log:     log,
	}
}

func (s *tagService) ListTags(ctx context.Context, filter dto.TagFilter) ([]dto.TagVO, error) {
	keyword := strings.TrimSpace(filter.Keyword)
	cacheable := s.cache != nil && keyword == "" && filter.Status == dto.StatusActive

	if cacheable {
		if cached, err := s.cache.Get(ctx, ActiveTagsKey); err == nil {
			var vos []dto.TagVO
			if err := json.Unmarshal([]byte(cached), &vos); err == nil {
				return vos, nil
			}
			s.log.Warn("discarding unreadable tag cache entry")
		} else if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("tag cache read failed", zap.Error(err))
		}
	}

	tags, err := s.repo.List(ctx, filter.Status, keyword)
	if err != nil {
		return nil, err
	}
	vos, err := s.toVOs(tags)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.store(ctx, vos)
	}
	return vos, nil
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*dto.TagVO, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("tag not found")
		}
		return nil, err
	}
	return s.toVO(tag)
}

func (s *tagService) CreateTag(ctx context.Context, req dto.TagRequest) (*dto.TagVO, error) {
	tag := &entity.Tag{}
	if err := s.apply(ctx, tag, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.changed(ctx, tag)
	return s.toVO(tag)
}

func (s *tagService) UpdateTag(ctx context.Context, id uint, req dto.TagRequest) (*dto.TagVO, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("tag not found")
		}
		return nil, err
	}

	if err := s.apply(ctx, tag, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, tag); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	s.changed(ctx, tag)
	return s.toVO(tag)
}

// RefreshCache reloads the active tag list into the cache.
func (s *tagService) RefreshCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	tags, err := s.repo.List(ctx, dto.StatusActive, "")
	if err != nil {
		return err
	}
	vos, err := s.toVOs(tags)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(vos)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, ActiveTagsKey, string(payload), s.ttl)
}

func (s *tagService) apply(ctx context.Context, tag *entity.Tag, req dto.TagRequest) error {
	tagSlug := req.Slug
	if tagSlug == "" {
		tagSlug = slug.Make(req.Name)
	}
	if tagSlug == "" {
		tagSlug = uuid.New().String()[:8]
	}

	existing, err := s.repo.FindBySlug(ctx, tagSlug)
	switch {
	case err == nil && existing.ID != tag.ID:
		return apperror.Conflict(fmt.Sprintf("tag with slug %s already exists", tagSlug))
	case err != nil && !errors.Is(err, apperror.ErrNotFound):
		return err
	}

	tag.Name = req.Name
	tag.Slug = tagSlug
	tag.Description = req.Description
	tag.Color = strings.ToUpper(req.Color)
	tag.Status = req.Status
	return nil
}

// changed drops the cached list and re-indexes the tag. Both are best effort.
func (s *tagService) changed(ctx context.Context, tag *entity.Tag) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, ActiveTagsKey); err != nil {
			s.log.Warn("failed to invalidate tag cache", zap.Error(err))
		}
	}
	if s.indexer != nil {
		if err := s.indexer.IndexTag(ctx, tag); err != nil {
			s.log.Warn("failed to index tag", zap.Uint("tag_id", tag.ID), zap.Error(err))
		}
	}
}

func (s *tagService) store(ctx context.Context, vos []dto.TagVO) {
	payload, err := json.Marshal(vos)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, ActiveTagsKey, string(payload), s.ttl); err != nil {
		s.log.Warn("tag cache write failed", zap.Error(err))
	}
}

func (s *tagService) toVOs(tags []*entity.Tag) ([]dto.TagVO, error) {
	vos := make([]dto.TagVO, 0, len(tags))
	for _, t := range tags {
		vo, err := s.toVO(t)
		if err != nil {
			return nil, err
		}
		vos = append(vos, *vo)
	}
	return vos, nil
}

// toVO builds the outbound shape and checks it; a stored row that violates
// the TagVO constraints is a server side fault.
func (s *tagService) toVO(t *entity.Tag) (*dto.TagVO, error) {
	vo := &dto.TagVO{
		ID:           t.ID,
		Name:         t.Name,
		Slug:         t.Slug,
		Description:  t.Description,
		Color:        t.Color,
		ArticleCount: t.ArticleCount,
		Status:       t.Status,
	}
	if err := validator.Validate(vo); err != nil {
		s.log.Error("stored tag violates TagVO", zap.Uint("tag_id", t.ID), zap.Error(err))
		return nil, apperror.ErrInternal
	}
	return vo, nil
}
