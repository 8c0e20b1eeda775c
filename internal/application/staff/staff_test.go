package staff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/staff"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

type memRepo struct {
	rows []*staff.Staff
}

func (r *memRepo) Create(_ context.Context, s *staff.Staff) error {
	for _, row := range r.rows {
		if row.Email == s.Email {
			return staff.ErrEmailDuplicate
		}
	}
	s.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, s)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*staff.Staff, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, staff.ErrStaffNotFound
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*staff.Staff, error) {
	for _, row := range r.rows {
		if row.Email == email {
			return row, nil
		}
	}
	return nil, staff.ErrStaffNotFound
}

type fakeSessions struct {
	saved       map[uint]map[string]interface{}
	ttl         time.Duration
	blacklisted map[string]time.Duration
	saveErr     error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{saved: map[uint]map[string]interface{}{}, blacklisted: map[string]time.Duration{}}
}

func (f *fakeSessions) SaveSession(_ context.Context, id uint, data map[string]interface{}, ttl time.Duration) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved[id] = data
	f.ttl = ttl
	return "csrf-token", nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, id uint) error {
	delete(f.saved, id)
	return nil
}

func (f *fakeSessions) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	f.blacklisted[token] = ttl
	return nil
}

func newUseCase(t *testing.T) (*UseCase, *fakeSessions, *jwt.Manager) {
	t.Helper()
	svc := staff.NewService(&memRepo{}, bcrypt.MinCost)
	tokens := jwt.NewManager("unit-test-secret", time.Hour, 24*time.Hour)
	sessions := newFakeSessions()
	uc := NewUseCase(svc, tokens, sessions)

	_, err := uc.Create(context.Background(), CreateRequest{
		Email: "desk@library.test", Password: "circulation42", Name: "Front Desk", Role: staff.RoleLibrarian,
	})
	require.NoError(t, err)
	return uc, sessions, tokens
}

func TestLogin(t *testing.T) {
	uc, sessions, tokens := newUseCase(t)

	res, err := uc.Login(context.Background(), LoginRequest{Email: "desk@library.test", Password: "circulation42"})
	require.NoError(t, err)

	assert.Equal(t, "csrf-token", res.CSRFToken)
	assert.EqualValues(t, 3600, res.ExpiresIn)
	assert.Equal(t, 24*time.Hour, sessions.ttl)
	assert.Contains(t, sessions.saved, res.Staff.ID)

	claims, err := tokens.ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, staff.RoleLibrarian, claims.Role)
}

func TestLogin_SameErrorForUnknownAccount(t *testing.T) {
	uc, _, _ := newUseCase(t)

	_, errWrong := uc.Login(context.Background(), LoginRequest{Email: "desk@library.test", Password: "wrong-pass1"})
	_, errUnknown := uc.Login(context.Background(), LoginRequest{Email: "nobody@library.test", Password: "circulation42"})

	assert.ErrorIs(t, errWrong, apperrors.ErrInvalidPassword)
	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidPassword)
}

func TestLogin_SessionFailure(t *testing.T) {
	uc, sessions, _ := newUseCase(t)
	sessions.saveErr = errors.New("redis down")

	_, err := uc.Login(context.Background(), LoginRequest{Email: "desk@library.test", Password: "circulation42"})
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	uc, sessions, _ := newUseCase(t)
	res, err := uc.Login(context.Background(), LoginRequest{Email: "desk@library.test", Password: "circulation42"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), res.Staff.ID, res.AccessToken))

	assert.NotContains(t, sessions.saved, res.Staff.ID)
	assert.Equal(t, time.Hour, sessions.blacklisted[res.AccessToken])
}

func TestCreate_DuplicateEmail(t *testing.T) {
	uc, _, _ := newUseCase(t)

	_, err := uc.Create(context.Background(), CreateRequest{
		Email: "desk@library.test", Password: "another123", Name: "Other", Role: staff.RoleAdmin,
	})
	assert.ErrorIs(t, err, staff.ErrEmailDuplicate)
}
