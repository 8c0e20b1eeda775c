package review

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 书评领域服务
type Service interface {
	List(ctx context.Context, params ListParams) ([]*Listing, int64, error)
	Get(ctx context.Context, id uint) (*Listing, error)

	// Create 发表书评
	// 业务规则：图书、读者必须存在；(图书, 读者)唯一
	Create(ctx context.Context, f Fields) (*Review, error)

	Update(ctx context.Context, id, version uint, f Fields) (*Review, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo      Repository
	books     shared.Exister
	customers shared.Exister
}

// NewService 创建书评领域服务
func NewService(repo Repository, books, customers shared.Exister) Service {
	return &service{repo: repo, books: books, customers: customers}
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Listing, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Get(ctx context.Context, id uint) (*Listing, error) {
	return s.repo.FindListing(ctx, id)
}

func (s *service) Create(ctx context.Context, f Fields) (*Review, error) {
	if err := s.check(ctx, f, 0); err != nil {
		return nil, err
	}
	r := NewReview(f)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Update(ctx context.Context, id, version uint, f Fields) (*Review, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Version != version {
		return nil, apperrors.ErrVersionConflict
	}
	if err := s.check(ctx, f, id); err != nil {
		return nil, err
	}

	r.Apply(f)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// check 字段校验 → 引用存在 → (图书, 读者)唯一
func (s *service) check(ctx context.Context, f Fields, excludeID uint) error {
	if err := f.Validate(); err != nil {
		return err
	}

	ok, err := s.books.Exists(ctx, f.BookID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookNotFound
	}

	ok, err = s.customers.Exists(ctx, f.CustomerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCustomerNotFound
	}

	dup, err := s.repo.ExistsForPair(ctx, f.BookID, f.CustomerID, excludeID)
	if err != nil {
		return err
	}
	if dup {
		return ErrReviewDuplicate
	}
	return nil
}
