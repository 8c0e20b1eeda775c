package customer

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

type memRepo struct {
	items  map[uint]*Customer
	nextID uint
}

func newMemRepo() *memRepo { return &memRepo{items: map[uint]*Customer{}} }

func (r *memRepo) Create(_ context.Context, c *Customer) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*Customer, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) FindDetail(ctx context.Context, id uint) (*Detail, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Customer: c}, nil
}

func (r *memRepo) ExistsByEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	for id, c := range r.items {
		if id != excludeID && strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ExistsByCardNumber(_ context.Context, card string, excludeID uint) (bool, error) {
	for id, c := range r.items {
		if id != excludeID && c.LibraryCardNumber == card {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) MaxCardSequence(_ context.Context, prefix string) (int, error) {
	max := 0
	for _, c := range r.items {
		if seq, err := strconv.Atoi(strings.TrimPrefix(c.LibraryCardNumber, prefix)); err == nil && seq > max {
			max = seq
		}
	}
	return max, nil
}

func (r *memRepo) Update(_ context.Context, c *Customer) error {
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
func (r *memRepo) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := r.items[id]
	return ok, nil
}

type loanCounts struct{ holding, total map[uint]int64 }

func (l loanCounts) CountHoldingByCustomer(_ context.Context, id uint) (int64, error) {
	return l.holding[id], nil
}
func (l loanCounts) CountByCustomer(_ context.Context, id uint) (int64, error) {
	return l.total[id], nil
}

type noBranches struct{}

func (noBranches) Exists(context.Context, uint) (bool, error) { return false, nil }

func newTestService() (*service, *memRepo, loanCounts) {
	repo := newMemRepo()
	loans := loanCounts{holding: map[uint]int64{}, total: map[uint]int64{}}
	svc := NewService(repo, loans, noBranches{}).(*service)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, repo, loans
}

func reader(email string) Fields {
	return Fields{FirstName: "Ada", LastName: "Lovelace", Email: email, IsActiveMember: true}
}

func TestCreate_GeneratesCardNumber(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	first, err := svc.Create(ctx, reader("ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "LIB-2026-0001", first.LibraryCardNumber)

	second, err := svc.Create(ctx, reader("grace@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "LIB-2026-0002", second.LibraryCardNumber)
	assert.False(t, second.MembershipDate.IsZero())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Create(ctx, reader("ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, reader("ADA@example.com"))
	require.ErrorIs(t, err, ErrEmailDuplicate)
	assert.Equal(t, "email", apperrors.GetAppError(err).Fields[0].Field)
}

func TestCreate_DuplicateCard(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	f := reader("a@example.com")
	f.LibraryCardNumber = "LIB-2020-0007"
	_, err := svc.Create(ctx, f)
	require.NoError(t, err)

	f = reader("b@example.com")
	f.LibraryCardNumber = "LIB-2020-0007"
	_, err = svc.Create(ctx, f)
	assert.ErrorIs(t, err, ErrCardNumberDuplicate)
}

// racingRepo 第一次Create前模拟另一个请求抢先用掉同一个借书证号
type racingRepo struct {
	*memRepo
	raced bool
}

func (r *racingRepo) Create(ctx context.Context, c *Customer) error {
	if !r.raced {
		r.raced = true
		other := NewCustomer(reader("other@example.com"), c.LibraryCardNumber)
		_ = r.memRepo.Create(ctx, other)
		return ErrCardNumberDuplicate
	}
	return r.memRepo.Create(ctx, c)
}

func TestCreate_RetriesGeneratedCardOnce(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()
	svc.repo = &racingRepo{memRepo: repo}

	c, err := svc.Create(ctx, reader("ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "LIB-2026-0002", c.LibraryCardNumber)
	assert.Len(t, repo.items, 2)
}

func TestCreate_ExplicitCardNotRetried(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()
	svc.repo = &racingRepo{memRepo: repo}

	f := reader("ada@example.com")
	f.LibraryCardNumber = "LIB-2020-0007"
	_, err := svc.Create(ctx, f)
	assert.ErrorIs(t, err, ErrCardNumberDuplicate)
	assert.Len(t, repo.items, 1)
}

func TestUpdate_EmailScopedToOthers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	a, err := svc.Create(ctx, reader("a@example.com"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, reader("b@example.com"))
	require.NoError(t, err)

	f := reader("a@example.com")
	f.City = "London"
	updated, err := svc.Update(ctx, a.ID, a.Version, f)
	require.NoError(t, err)
	assert.Equal(t, "London", updated.City)
	assert.Equal(t, a.LibraryCardNumber, updated.LibraryCardNumber)

	_, err = svc.Update(ctx, a.ID, updated.Version, reader("b@example.com"))
	assert.ErrorIs(t, err, ErrEmailDuplicate)

	_, err = svc.Update(ctx, a.ID, a.Version, f)
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)
}

func TestCreate_UnknownBranch(t *testing.T) {
	svc, _, _ := newTestService()
	f := reader("a@example.com")
	id := uint(3)
	f.PreferredBranchID = &id

	_, err := svc.Create(context.Background(), f)
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestDelete_Guards(t *testing.T) {
	ctx := context.Background()
	svc, repo, loans := newTestService()

	c, err := svc.Create(ctx, reader("a@example.com"))
	require.NoError(t, err)

	loans.holding[c.ID] = 1
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrCustomerHasActiveLoans)

	loans.holding[c.ID] = 0
	loans.total[c.ID] = 4
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrCustomerHasLoanHistory)

	loans.total[c.ID] = 0
	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.Empty(t, repo.items)
}

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "LIB-2026-0042", FormatCardNumber(2026, 42))
	assert.Equal(t, "LIB-2026-12345", FormatCardNumber(2026, 12345))
}
