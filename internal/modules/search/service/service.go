package search

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/internal/modules/search/dto"
	"anoa.com/blogapi/pkg/apperror"
	commonDto "anoa.com/blogapi/pkg/dto"
	"anoa.com/blogapi/pkg/validator"
)

type SearchService interface {
	Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResult, error)
	IndexCategory(ctx context.Context, category *entity.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	IndexTag(ctx context.Context, tag *entity.Tag) error
	DeleteTag(ctx context.Context, id uint) error
	Reindex(ctx context.Context) (int, error)
}

// CategorySource lists every category for a full reindex.
type CategorySource interface {
	FindAll(ctx context.Context, filter string) ([]*entity.Category, error)
}

// TagSource lists every tag for a full reindex.
type TagSource interface {
	ListAll(ctx context.Context) ([]*entity.Tag, error)
}

type searchService struct {
	engine     Engine
	categories CategorySource
	tags       TagSource
	sanitizer  *bluemonday.Policy
	log        *zap.Logger
}

func NewSearchService(engine Engine, categories CategorySource, tags TagSource, log *zap.Logger) SearchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &searchService{
		engine:     engine,
		categories: categories,
		tags:       tags,
		sanitizer:  bluemonday.StrictPolicy(),
		log:        log,
	}
}

func (s *searchService) Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResult, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	docs, total, err := s.engine.Search(ctx, BuildQuery(req))
	if err != nil {
		s.log.Error("search failed", zap.String("keyword", req.Keyword), zap.Error(err))
		return nil, fmt.Errorf("%w: search engine error", apperror.ErrUnavailable)
	}

	records := make([]dto.SearchRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, dto.SearchRecord{
			ID:        d.ID,
			Type:      d.Type,
			RefID:     d.RefID,
			Title:     d.Title,
			Content:   d.Content,
			Slug:      d.Slug,
			Views:     d.Views,
			CreatedAt: d.CreatedAt,
		})
	}

	return &dto.SearchResult{
		Records: records,
		Total:   total,
		Current: req.Current,
		Size:    req.Size,
		Pages:   commonDto.TotalPages(total, int64(req.Size)),
	}, nil
}

// BuildQuery maps a decoded request onto an engine query.
func BuildQuery(req dto.SearchRequest) Query {
	q := Query{
		Keyword: strings.TrimSpace(req.Keyword),
		Offset:  req.Offset(),
		Limit:   int64(req.Size),
	}
	if req.Type != "" && req.Type != dto.TypeAll {
		q.Filter = fmt.Sprintf("type = %q", req.Type)
	}
	switch req.SortField {
	case dto.SortTime:
		q.Sort = []string{"createdAt:" + req.SortOrder}
	case dto.SortViews:
		q.Sort = []string{"views:" + req.SortOrder}
	}
	return q
}

func (s *searchService) IndexCategory(ctx context.Context, category *entity.Category) error {
	return s.engine.Upsert(ctx, []Document{s.categoryDoc(category)})
}

func (s *searchService) DeleteCategory(ctx context.Context, id uint) error {
	return s.engine.Delete(ctx, DocumentID(dto.TypeCategory, id))
}

// IndexTag upserts an active tag. Disabled tags are removed from the index.
func (s *searchService) IndexTag(ctx context.Context, tag *entity.Tag) error {
	if tag.Status != entity.TagStatusActive {
		return s.DeleteTag(ctx, tag.ID)
	}
	return s.engine.Upsert(ctx, []Document{s.tagDoc(tag)})
}

func (s *searchService) DeleteTag(ctx context.Context, id uint) error {
	return s.engine.Delete(ctx, DocumentID(dto.TypeTag, id))
}

// Reindex configures the index and pushes every category and active tag.
func (s *searchService) Reindex(ctx context.Context) (int, error) {
	if err := s.engine.Configure(ctx); err != nil {
		return 0, err
	}

	var docs []Document
	if s.categories != nil {
		categories, err := s.categories.FindAll(ctx, "")
		if err != nil {
			return 0, fmt.Errorf("failed to list categories: %w", err)
		}
		for _, c := range categories {
			docs = append(docs, s.categoryDoc(c))
		}
	}
	if s.tags != nil {
		tags, err := s.tags.ListAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list tags: %w", err)
		}
		for _, t := range tags {
			if t.Status == entity.TagStatusActive {
				docs = append(docs, s.tagDoc(t))
			}
		}
	}

	if err := s.engine.Upsert(ctx, docs); err != nil {
		return 0, err
	}
	s.log.Info("search index rebuilt", zap.Int("documents", len(docs)))
	return len(docs), nil
}

// DocumentID is the index key of an entity.
func DocumentID(docType string, id uint) string {
	return fmt.Sprintf("%s-%d", docType, id)
}

func (s *searchService) categoryDoc(c *entity.Category) Document {
	return Document{
		ID:        DocumentID(dto.TypeCategory, c.ID),
		Type:      dto.TypeCategory,
		RefID:     c.ID,
		Title:     c.Name,
		Content:   s.cleanContentForIndex(c.Description),
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt.Unix(),
	}
}

func (s *searchService) tagDoc(t *entity.Tag) Document {
	return Document{
		ID:        DocumentID(dto.TypeTag, t.ID),
		Type:      dto.TypeTag,
		RefID:     t.ID,
		Title:     t.Name,
		Content:   s.cleanContentForIndex(t.Description),
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt.Unix(),
	}
}

func (s *searchService) cleanContentForIndex(content string) string {
	// keep words from adjacent blocks apart
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}
