package category

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

type memRepo struct {
	items  map[uint]*Category
	nextID uint
}

func newMemRepo() *memRepo { return &memRepo{items: map[uint]*Category{}, nextID: 1} }

func (r *memRepo) Create(_ context.Context, c *Category) error {
	c.ID = r.nextID
	r.nextID++
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) ExistsByName(_ context.Context, name string, excludeID uint) (bool, error) {
	for id, c := range r.items {
		if id != excludeID && strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) Update(_ context.Context, c *Category) error {
	if r.items[c.ID].Version != c.Version {
		return apperrors.ErrVersionConflict
	}
	c.Version++
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uint) error {
	delete(r.items, id)
	return nil
}

func (r *memRepo) List(context.Context, ListParams) ([]*Detail, int64, error) { return nil, 0, nil }

type bookCount map[uint]int64

func (b bookCount) CountByCategory(_ context.Context, id uint) (int64, error) { return b[id], nil }

func TestCreate_DuplicateNameIsFieldError(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), bookCount{})

	_, err := svc.Create(ctx, Fields{Name: "Fantasy"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Fields{Name: "fantasy"})
	require.ErrorIs(t, err, ErrNameDuplicate)
	appErr := apperrors.GetAppError(err)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "name", appErr.Fields[0].Field)
}

func TestUpdate_KeepsOwnName(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), bookCount{})

	c, err := svc.Create(ctx, Fields{Name: "History", DisplayOrder: 1})
	require.NoError(t, err)
	other, err := svc.Create(ctx, Fields{Name: "Science"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, c.Version, Fields{Name: "History", DisplayOrder: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.DisplayOrder)

	_, err = svc.Update(ctx, other.ID, other.Version, Fields{Name: "HISTORY"})
	assert.ErrorIs(t, err, ErrNameDuplicate)
}

func TestValidate(t *testing.T) {
	err := Fields{Name: "x", ColorCode: "red"}.Validate()
	require.Error(t, err)
	assert.Len(t, apperrors.GetAppError(err).Fields, 2)
}

func TestDelete_RefusedWithBooks(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	books := bookCount{}
	svc := NewService(repo, books)

	c, err := svc.Create(ctx, Fields{Name: "Poetry"})
	require.NoError(t, err)
	books[c.ID] = 1

	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrCategoryHasBooks)
	assert.Len(t, repo.items, 1)
}
