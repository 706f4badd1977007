package tag

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/internal/modules/tag/dto"
	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	byID      map[uint]entity.Tag
	nextID    uint
	listCalls int
}

func newMemoryRepo(seed ...entity.Tag) *memoryRepo {
	r := &memoryRepo{byID: make(map[uint]entity.Tag), nextID: 1}
	for _, t := range seed {
		r.byID[t.ID] = t
		if t.ID >= r.nextID {
			r.nextID = t.ID + 1
		}
	}
	return r
}

func (r *memoryRepo) Create(_ context.Context, t *entity.Tag) error {
	t.ID = r.nextID
	r.nextID++
	r.byID[t.ID] = *t
	return nil
}

func (r *memoryRepo) Update(_ context.Context, t *entity.Tag) error {
	r.byID[t.ID] = *t
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uint) (*entity.Tag, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &t, nil
}

func (r *memoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Tag, error) {
	for _, t := range r.byID {
		if t.Slug == slug {
			clone := t
			return &clone, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *memoryRepo) List(_ context.Context, status int8, keyword string) ([]*entity.Tag, error) {
	r.listCalls++
	var out []*entity.Tag
	for _, t := range r.byID {
		if t.Status != status {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(keyword)) {
			continue
		}
		clone := t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ArticleCount != out[j].ArticleCount {
			return out[i].ArticleCount > out[j].ArticleCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memoryRepo) ListAll(ctx context.Context) ([]*entity.Tag, error) {
	return nil, nil
}

type memoryCache struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.values[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

type recordingIndexer struct {
	indexed []uint
}

func (i *recordingIndexer) IndexTag(_ context.Context, t *entity.Tag) error {
	i.indexed = append(i.indexed, t.ID)
	return nil
}

func seedTags() []entity.Tag {
	return []entity.Tag{
		{ID: 1, Name: "Rust", Slug: "rust", ArticleCount: 3, Status: entity.TagStatusActive},
		{ID: 2, Name: "Go", Slug: "go", ArticleCount: 10, Status: entity.TagStatusActive},
		{ID: 3, Name: "Gin", Slug: "gin", ArticleCount: 3, Status: entity.TagStatusActive},
		{ID: 4, Name: "Perl", Slug: "perl", ArticleCount: 1, Status: entity.TagStatusDisabled},
	}
}

func activeFilter() dto.TagFilter {
	var f dto.TagFilter
	f.ApplyDefaults()
	return f
}

func TestListTags_OrderAndCache(t *testing.T) {
	repo := newMemoryRepo(seedTags()...)
	c := newMemoryCache()
	svc := NewTagService(repo, c, time.Minute, nil, nil)
	ctx := context.Background()

	tags, err := svc.ListTags(ctx, activeFilter())
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, []string{"Go", "Gin", "Rust"}, []string{tags[0].Name, tags[1].Name, tags[2].Name})
	assert.Contains(t, c.values, ActiveTagsKey)
	assert.Equal(t, time.Minute, c.ttls[ActiveTagsKey])

	again, err := svc.ListTags(ctx, activeFilter())
	require.NoError(t, err)
	assert.Equal(t, tags, again)
	assert.Equal(t, 1, repo.listCalls)
}

func TestListTags_FilteredBypassesCache(t *testing.T) {
	repo := newMemoryRepo(seedTags()...)
	c := newMemoryCache()
	svc := NewTagService(repo, c, time.Minute, nil, nil)

	tags, err := svc.ListTags(context.Background(), dto.TagFilter{Status: dto.StatusDisabled})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Perl", tags[0].Name)

	tags, err = svc.ListTags(context.Background(), dto.TagFilter{Status: dto.StatusActive, Keyword: "g"})
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Empty(t, c.values)
}

func TestListTags_CacheErrorFallsBackToRepository(t *testing.T) {
	c := newMemoryCache()
	c.getErr = errors.New("connection reset")
	svc := NewTagService(newMemoryRepo(seedTags()...), c, time.Minute, nil, nil)

	tags, err := svc.ListTags(context.Background(), activeFilter())
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}

func TestListTags_WithoutCache(t *testing.T) {
	repo := newMemoryRepo(seedTags()...)
	svc := NewTagService(repo, nil, time.Minute, nil, nil)

	_, err := svc.ListTags(context.Background(), activeFilter())
	require.NoError(t, err)
	_, err = svc.ListTags(context.Background(), activeFilter())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.NoError(t, svc.RefreshCache(context.Background()))
}

func TestListTags_InvalidRowIsInternalError(t *testing.T) {
	repo := newMemoryRepo(entity.Tag{ID: 1, Name: "Bad", Slug: "bad", ArticleCount: -1, Status: entity.TagStatusActive})
	svc := NewTagService(repo, nil, 0, nil, nil)

	_, err := svc.ListTags(context.Background(), activeFilter())
	assert.ErrorIs(t, err, apperror.ErrInternal)
}

func TestCreateTag_InvalidatesCacheAndIndexes(t *testing.T) {
	repo := newMemoryRepo(seedTags()...)
	c := newMemoryCache()
	indexer := &recordingIndexer{}
	svc := NewTagService(repo, c, time.Minute, indexer, nil)
	ctx := context.Background()

	_, err := svc.ListTags(ctx, activeFilter())
	require.NoError(t, err)
	require.Contains(t, c.values, ActiveTagsKey)

	vo, err := svc.CreateTag(ctx, dto.TagRequest{Name: "Cloud Native", Color: "#00add8", Status: dto.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, "cloud-native", vo.Slug)
	assert.Equal(t, "#00ADD8", vo.Color)
	assert.Equal(t, int64(0), vo.ArticleCount)
	assert.NotContains(t, c.values, ActiveTagsKey)
	assert.Equal(t, []uint{vo.ID}, indexer.indexed)

	_, err = svc.CreateTag(ctx, dto.TagRequest{Name: "Go", Status: dto.StatusActive})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUpdateTag(t *testing.T) {
	repo := newMemoryRepo(seedTags()...)
	svc := NewTagService(repo, nil, 0, nil, nil)
	ctx := context.Background()

	vo, err := svc.UpdateTag(ctx, 4, dto.TagRequest{Name: "Perl", Slug: "perl", Status: dto.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusActive, vo.Status)
	assert.Equal(t, int64(1), vo.ArticleCount)

	_, err = svc.UpdateTag(ctx, 99, dto.TagRequest{Name: "x", Status: dto.StatusActive})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetTag(t *testing.T) {
	svc := NewTagService(newMemoryRepo(seedTags()...), nil, 0, nil, nil)

	vo, err := svc.GetTag(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Go", vo.Name)

	_, err = svc.GetTag(context.Background(), 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRefreshCache(t *testing.T) {
	c := newMemoryCache()
	svc := NewTagService(newMemoryRepo(seedTags()...), c, 5*time.Minute, nil, nil)

	require.NoError(t, svc.RefreshCache(context.Background()))
	assert.Contains(t, c.values[ActiveTagsKey], `"name":"Go"`)
	assert.Equal(t, 5*time.Minute, c.ttls[ActiveTagsKey])
}
