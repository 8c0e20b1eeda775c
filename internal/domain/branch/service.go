package branch

import (
	"context"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 分馆领域服务
type Service interface {
	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
	Get(ctx context.Context, id uint) (*Detail, error)
	Create(ctx context.Context, f Fields) (*Branch, error)
	Update(ctx context.Context, id, version uint, f Fields) (*Branch, error)

	// Delete 删除分馆
	// 业务规则：有馆藏图书或未归还借阅时拒绝删除
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo  Repository
	books BookCounter
	loans LoanCounter
}

// NewService 创建分馆领域服务
func NewService(repo Repository, books BookCounter, loans LoanCounter) Service {
	return &service{repo: repo, books: books, loans: loans}
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Detail, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Get(ctx context.Context, id uint) (*Detail, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	books, err := s.books.CountByBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.CountHoldingByBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Branch: b, BookCount: books, ActiveLoanCount: loans}, nil
}

func (s *service) Create(ctx context.Context, f Fields) (*Branch, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	b := NewBranch(f)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id, version uint, f Fields) (*Branch, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Version != version {
		return nil, apperrors.ErrVersionConflict
	}
	b.Apply(f)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	// 1. 分馆必须存在
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	// 2. 馆藏图书检查
	books, err := s.books.CountByBranch(ctx, id)
	if err != nil {
		return err
	}
	if books > 0 {
		return ErrBranchHasBooks
	}

	// 3. 未归还借阅检查
	loans, err := s.loans.CountHoldingByBranch(ctx, id)
	if err != nil {
		return err
	}
	if loans > 0 {
		return ErrBranchHasActiveLoans
	}

	// 4. 删除（仓储负责置空读者、历史借阅上的分馆引用）
	return s.repo.Delete(ctx, id)
}
