package author

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

type memRepo struct {
	authors map[uint]*Author
	nextID  uint
}

func newMemRepo() *memRepo {
	return &memRepo{authors: map[uint]*Author{}, nextID: 1}
}

func (r *memRepo) Create(_ context.Context, a *Author) error {
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.authors[a.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*Author, error) {
	a, ok := r.authors[id]
	if !ok {
		return nil, ErrAuthorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, a *Author) error {
	cur, ok := r.authors[a.ID]
	if !ok {
		return ErrAuthorNotFound
	}
	if cur.Version != a.Version {
		return apperrors.ErrVersionConflict
	}
	a.Version++
	cp := *a
	r.authors[a.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uint) error {
	delete(r.authors, id)
	return nil
}

func (r *memRepo) List(context.Context, ListParams) ([]*Detail, int64, error) {
	return nil, 0, nil
}

type bookCount map[uint]int64

func (b bookCount) CountByAuthor(_ context.Context, id uint) (int64, error) {
	return b[id], nil
}

func validFields() Fields {
	return Fields{FirstName: "Ursula", LastName: "Le Guin", Nationality: "American", IsActive: true}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMemRepo(), bookCount{})

	_, err := svc.Create(context.Background(), Fields{Email: "bad"})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Len(t, appErr.Fields, 3) // first_name, last_name, email
}

func TestUpdate_VersionConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), bookCount{})

	a, err := svc.Create(ctx, validFields())
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.Version)

	// 第一次编辑成功，版本号变为2
	f := validFields()
	f.Biography = "Earthsea"
	updated, err := svc.Update(ctx, a.ID, 1, f)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.Version)

	// 用旧版本号再次提交，返回冲突而不是覆盖
	f.Biography = "stale"
	_, err = svc.Update(ctx, a.ID, 1, f)
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Earthsea", got.Biography)
}

func TestDelete_RefusedWithBooks(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	books := bookCount{}
	svc := NewService(repo, books)

	a, err := svc.Create(ctx, validFields())
	require.NoError(t, err)
	books[a.ID] = 2

	err = svc.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAuthorHasBooks)
	assert.Contains(t, repo.authors, a.ID)

	books[a.ID] = 0
	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.NotContains(t, repo.authors, a.ID)
}

func TestGet_NotFound(t *testing.T) {
	_, err := NewService(newMemRepo(), bookCount{}).Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}
