package loan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type fakeTx struct{ calls int }

func (f *fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeLoans struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*loan.Loan
}

func newFakeLoans() *fakeLoans {
	return &fakeLoans{rows: map[uint]*loan.Loan{}}
}

func (f *fakeLoans) put(l *loan.Loan) *loan.Loan {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	if l.Version == 0 {
		l.Version = 1
	}
	cp := *l
	f.rows[l.ID] = &cp
	return l
}

func (f *fakeLoans) Create(_ context.Context, l *loan.Loan) error {
	f.put(l)
	return nil
}

func (f *fakeLoans) FindByID(_ context.Context, id uint) (*loan.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.rows[id]
	if !ok {
		return nil, loan.ErrLoanNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLoans) FindListing(ctx context.Context, id uint) (*loan.Listing, error) {
	l, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &loan.Listing{Loan: l, BookTitle: "Dune"}, nil
}

func (f *fakeLoans) LockByID(ctx context.Context, id uint) (*loan.Loan, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeLoans) Update(_ context.Context, l *loan.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[l.ID]
	if !ok {
		return loan.ErrLoanNotFound
	}
	if cur.Version != l.Version {
		return apperrors.ErrVersionConflict
	}
	l.Version++
	cp := *l
	f.rows[l.ID] = &cp
	return nil
}

func (f *fakeLoans) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return loan.ErrLoanNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeLoans) List(_ context.Context, params loan.ListParams) ([]*loan.Listing, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*loan.Listing
	for _, l := range f.rows {
		if params.Status != 0 && l.Status != params.Status {
			continue
		}
		cp := *l
		out = append(out, &loan.Listing{Loan: &cp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeLoans) HasOverdue(_ context.Context, customerID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.rows {
		if l.CustomerID == customerID && l.Status == loan.StatusOverdue {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLoans) LockActiveDueBefore(_ context.Context, t time.Time) ([]*loan.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*loan.Loan
	for _, l := range f.rows {
		if l.Status == loan.StatusActive && l.DueDate.Before(t) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLoans) RecentByCustomer(context.Context, uint, int) ([]*loan.Listing, error) {
	return nil, nil
}
func (f *fakeLoans) CountHoldingByBook(context.Context, uint) (int64, error)     { return 0, nil }
func (f *fakeLoans) CountHoldingByBranch(context.Context, uint) (int64, error)   { return 0, nil }
func (f *fakeLoans) CountHoldingByCustomer(context.Context, uint) (int64, error) { return 0, nil }
func (f *fakeLoans) CountByBook(context.Context, uint) (int64, error)            { return 0, nil }
func (f *fakeLoans) CountByCustomer(context.Context, uint) (int64, error)        { return 0, nil }

func (f *fakeLoans) status(id uint) loan.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id].Status
}

type fakeBooks struct {
	mu       sync.Mutex
	books    map[uint]*book.Book
	reserves int // 落库的扣减次数
	releases int
}

func (f *fakeBooks) LockByID(_ context.Context, id uint) (*book.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBooks) ReserveCopy(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	f.reserves++
	if b.AvailableCopies <= 0 {
		return book.ErrNoAvailableCopies
	}
	b.AvailableCopies--
	return nil
}

func (f *fakeBooks) ReleaseCopy(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return false, book.ErrBookNotFound
	}
	f.releases++
	if b.AvailableCopies >= b.TotalCopies {
		return false, nil
	}
	b.AvailableCopies++
	return true, nil
}

func (f *fakeBooks) available(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.books[id].AvailableCopies
}

type fakeExister map[uint]bool

func (f fakeExister) Exists(_ context.Context, id uint) (bool, error) {
	return f[id], nil
}

type recordingCache struct {
	deleted []string
}

func (c *recordingCache) GetJSON(context.Context, string, interface{}) (bool, error) {
	return false, nil
}
func (c *recordingCache) SetJSON(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (c *recordingCache) Delete(_ context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}

type recordingPublisher struct {
	err    error
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, event interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event.(Event))
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
