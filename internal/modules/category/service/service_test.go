package category

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"

	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/internal/modules/category/dto"
	"anoa.com/blogapi/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory category repository for tests.
type memoryRepo struct {
	byID   map[uint]entity.Category
	nextID uint
}

func newMemoryRepo(seed ...entity.Category) *memoryRepo {
	r := &memoryRepo{byID: make(map[uint]entity.Category), nextID: 1}
	for _, c := range seed {
		r.byID[c.ID] = c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	return r
}

func (r *memoryRepo) Create(_ context.Context, c *entity.Category) error {
	c.ID = r.nextID
	r.nextID++
	r.byID[c.ID] = *c
	return nil
}

func (r *memoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.byID[c.ID] = *c
	return nil
}

func (r *memoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range r.byID {
		if c.Slug == slug {
			clone := c
			return &clone, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *memoryRepo) FindByID(_ context.Context, id uint) (*entity.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepo) FindAll(_ context.Context, _ string) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(r.byID))
	for _, c := range r.byID {
		clone := c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryRepo) CountChildren(_ context.Context, id uint) (int64, error) {
	var n int64
	for _, c := range r.byID {
		if c.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) Delete(_ context.Context, id uint) error {
	delete(r.byID, id)
	return nil
}

type recordingIndexer struct {
	indexed []uint
	deleted []uint
	err     error
}

func (i *recordingIndexer) IndexCategory(_ context.Context, c *entity.Category) error {
	i.indexed = append(i.indexed, c.ID)
	return i.err
}

func (i *recordingIndexer) DeleteCategory(_ context.Context, id uint) error {
	i.deleted = append(i.deleted, id)
	return i.err
}

func TestCreateCategory_DerivesSlugAndSanitizes(t *testing.T) {
	repo := newMemoryRepo()
	indexer := &recordingIndexer{}
	svc := NewCategoryService(repo, indexer, nil)

	vo, err := svc.CreateCategory(context.Background(), dto.CategoryRequest{
		Name:        "Cloud & DevOps",
		Description: `<p>Ops</p><script>alert(1)</script>`,
		Color:       "#a1b2c3",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(1), vo.ID)
	assert.Equal(t, "cloud-devops", vo.Slug)
	assert.Equal(t, "<p>Ops</p>", vo.Description)
	assert.Equal(t, "#A1B2C3", vo.Color)
	assert.Equal(t, []uint{1}, indexer.indexed)
}

func TestCreateCategory_DuplicateSlug(t *testing.T) {
	repo := newMemoryRepo(entity.Category{ID: 1, Name: "Go", Slug: "go"})
	svc := NewCategoryService(repo, nil, nil)

	_, err := svc.CreateCategory(context.Background(), dto.CategoryRequest{Name: "Go"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
}

func TestCreateCategory_MissingParent(t *testing.T) {
	svc := NewCategoryService(newMemoryRepo(), nil, nil)

	_, err := svc.CreateCategory(context.Background(), dto.CategoryRequest{Name: "Child", ParentID: 9})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateCategory_IndexFailureIsNotFatal(t *testing.T) {
	svc := NewCategoryService(newMemoryRepo(), &recordingIndexer{err: errors.New("meili down")}, nil)

	vo, err := svc.CreateCategory(context.Background(), dto.CategoryRequest{Name: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "go", vo.Slug)
}

func TestUpdateCategory(t *testing.T) {
	repo := newMemoryRepo(
		entity.Category{ID: 1, Name: "Go", Slug: "go"},
		entity.Category{ID: 2, Name: "Rust", Slug: "rust"},
	)
	svc := NewCategoryService(repo, nil, nil)
	ctx := context.Background()

	vo, err := svc.UpdateCategory(ctx, 1, dto.CategoryRequest{Name: "Golang", Slug: "go", ParentID: 2, SortOrder: 3})
	require.NoError(t, err)
	assert.Equal(t, "Golang", vo.Name)
	assert.Equal(t, "go", vo.Slug)
	assert.Equal(t, uint(2), vo.ParentID)

	_, err = svc.UpdateCategory(ctx, 1, dto.CategoryRequest{Name: "Go", ParentID: 1})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.UpdateCategory(ctx, 1, dto.CategoryRequest{Name: "Go", Slug: "rust"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.UpdateCategory(ctx, 42, dto.CategoryRequest{Name: "Go"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateCategory_RejectsDescendantAsParent(t *testing.T) {
	repo := newMemoryRepo(
		entity.Category{ID: 1, Name: "Languages", Slug: "languages"},
		entity.Category{ID: 2, Name: "Compiled", Slug: "compiled", ParentID: 1},
		entity.Category{ID: 3, Name: "Go", Slug: "go", ParentID: 2},
		entity.Category{ID: 4, Name: "Ops", Slug: "ops"},
	)
	svc := NewCategoryService(repo, nil, nil)
	ctx := context.Background()

	for _, parent := range []int64{2, 3} {
		_, err := svc.UpdateCategory(ctx, 1, dto.CategoryRequest{Name: "Languages", Slug: "languages", ParentID: parent})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	}
	assert.Equal(t, uint(0), repo.byID[1].ParentID)

	// moving under an unrelated branch is fine
	vo, err := svc.UpdateCategory(ctx, 1, dto.CategoryRequest{Name: "Languages", Slug: "languages", ParentID: 4})
	require.NoError(t, err)
	assert.Equal(t, uint(4), vo.ParentID)

	// a grandchild may move directly under its grandparent
	vo, err = svc.UpdateCategory(ctx, 3, dto.CategoryRequest{Name: "Go", Slug: "go", ParentID: 1})
	require.NoError(t, err)
	assert.Equal(t, uint(1), vo.ParentID)
}

func TestCreateCategory_ConflictFromRepositoryKeeps409(t *testing.T) {
	repo := &conflictRepo{memoryRepo: newMemoryRepo()}
	svc := NewCategoryService(repo, nil, nil)

	_, err := svc.CreateCategory(context.Background(), dto.CategoryRequest{Name: "Go"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
	assert.Equal(t, "category with slug go already exists", err.Error())
}

// conflictRepo loses the race on the unique slug index.
type conflictRepo struct {
	*memoryRepo
}

func (r *conflictRepo) Create(_ context.Context, c *entity.Category) error {
	return apperror.Conflict("category with slug " + c.Slug + " already exists")
}

func TestGetAllCategories_Ordered(t *testing.T) {
	repo := newMemoryRepo(
		entity.Category{ID: 1, Name: "B", Slug: "b", SortOrder: 2},
		entity.Category{ID: 2, Name: "A", Slug: "a", SortOrder: 1},
	)
	svc := NewCategoryService(repo, nil, nil)

	list, err := svc.GetAllCategories(context.Background(), dto.CategoryFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, "B", list[1].Name)
}

func TestDeleteCategory(t *testing.T) {
	repo := newMemoryRepo(
		entity.Category{ID: 1, Name: "Parent", Slug: "parent"},
		entity.Category{ID: 2, Name: "Child", Slug: "child", ParentID: 1},
	)
	indexer := &recordingIndexer{}
	svc := NewCategoryService(repo, indexer, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteCategory(ctx, 1), apperror.ErrConflict)
	require.NoError(t, svc.DeleteCategory(ctx, 2))
	require.NoError(t, svc.DeleteCategory(ctx, 1))
	assert.Equal(t, []uint{2, 1}, indexer.deleted)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, 1), apperror.ErrNotFound)
}
