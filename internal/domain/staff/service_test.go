package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

type memRepo struct {
	byEmail map[string]*Staff
}

func (r *memRepo) Create(_ context.Context, s *Staff) error {
	if _, ok := r.byEmail[s.Email]; ok {
		return ErrEmailDuplicate
	}
	s.ID = uint(len(r.byEmail) + 1)
	r.byEmail[s.Email] = s
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*Staff, error) {
	for _, s := range r.byEmail {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrStaffNotFound
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*Staff, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return s, nil
}

func newTestService() (Service, *memRepo) {
	repo := &memRepo{byEmail: map[string]*Staff{}}
	return NewService(repo, bcrypt.MinCost), repo
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	st, err := svc.Create(ctx, "Desk@Library.test", "circulation42", "Front Desk", RoleLibrarian)
	require.NoError(t, err)
	assert.Equal(t, "desk@library.test", st.Email)
	assert.NotEqual(t, "circulation42", st.PasswordHash)

	got, err := svc.Authenticate(ctx, "desk@library.test", "circulation42")
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)
	assert.False(t, got.IsAdmin())
}

func TestAuthenticate_DoesNotLeakAccountExistence(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, err := svc.Create(ctx, "root@library.test", "s3cretpass", "Root", RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "root@library.test", "wrongpass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Authenticate(ctx, "nobody@library.test", "s3cretpass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestAuthenticate_Disabled(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	_, err := svc.Create(ctx, "old@library.test", "s3cretpass", "Old Hand", RoleLibrarian)
	require.NoError(t, err)
	repo.byEmail["old@library.test"].IsActive = false

	_, err = svc.Authenticate(ctx, "old@library.test", "s3cretpass")
	assert.ErrorIs(t, err, ErrStaffDisabled)
}

func TestCreate_Rules(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Create(ctx, "a@library.test", "short1", "Ann", RoleAdmin)
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Create(ctx, "a@library.test", "lettersonly", "Ann", RoleAdmin)
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Create(ctx, "a@library.test", "s3cretpass", "Ann", "janitor")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Create(ctx, "not-an-email", "s3cretpass", "Ann", RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetAppError(err).Code)
}
