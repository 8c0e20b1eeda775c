package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 图书领域服务接口
type Service interface {
	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
	Get(ctx context.Context, id uint) (*Detail, error)

	// Create 上架图书
	// 业务规则：
	// - 0 <= 可借副本 <= 总副本
	// - ISBN不能与其他图书重复（字段级错误）
	// - 作者必须存在，分类、分馆填写时必须存在
	Create(ctx context.Context, f Fields) (*Book, error)

	// Update 编辑图书，ISBN唯一性检查排除自身
	Update(ctx context.Context, id, version uint, f Fields) (*Book, error)

	// Delete 删除图书
	// 业务规则：有未归还借阅或历史借阅时拒绝
	Delete(ctx context.Context, id uint) error
}

// Refs 跨聚合引用检查
type Refs struct {
	Authors    shared.Exister
	Categories shared.Exister
	Branches   shared.Exister
}

type service struct {
	repo  Repository
	loans LoanCounter
	refs  Refs
}

// NewService 创建图书领域服务
func NewService(repo Repository, loans LoanCounter, refs Refs) Service {
	return &service{repo: repo, loans: loans, refs: refs}
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Detail, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Get(ctx context.Context, id uint) (*Detail, error) {
	return s.repo.FindDetail(ctx, id)
}

func (s *service) Create(ctx context.Context, f Fields) (*Book, error) {
	// 1. 字段校验
	if err := f.Validate(); err != nil {
		return nil, err
	}

	// 2. 引用校验
	if err := s.checkRefs(ctx, f); err != nil {
		return nil, err
	}

	// 3. ISBN唯一性
	if err := s.checkISBN(ctx, f.ISBN, 0); err != nil {
		return nil, err
	}

	// 4. 持久化
	b := NewBook(f)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id, version uint, f Fields) (*Book, error) {
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

	if err := s.checkRefs(ctx, f); err != nil {
		return nil, err
	}
	if err := s.checkISBN(ctx, f.ISBN, id); err != nil {
		return nil, err
	}

	b.Apply(f)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	holding, err := s.loans.CountHoldingByBook(ctx, id)
	if err != nil {
		return err
	}
	if holding > 0 {
		return ErrBookOnLoan
	}

	// 借阅对图书是restrict外键，历史借阅同样阻止删除
	history, err := s.loans.CountByBook(ctx, id)
	if err != nil {
		return err
	}
	if history > 0 {
		return ErrBookHasLoanHistory
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) checkISBN(ctx context.Context, isbn string, excludeID uint) error {
	exists, err := s.repo.ExistsByISBN(ctx, isbn, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrISBNDuplicate
	}
	return nil
}

func (s *service) checkRefs(ctx context.Context, f Fields) error {
	if err := mustExist(ctx, s.refs.Authors, f.AuthorID, ErrAuthorNotFound); err != nil {
		return err
	}
	if f.CategoryID != nil {
		if err := mustExist(ctx, s.refs.Categories, *f.CategoryID, ErrCategoryNotFound); err != nil {
			return err
		}
	}
	if f.BranchID != nil {
		if err := mustExist(ctx, s.refs.Branches, *f.BranchID, ErrBranchNotFound); err != nil {
			return err
		}
	}
	return nil
}

func mustExist(ctx context.Context, e shared.Exister, id uint, notFound error) error {
	ok, err := e.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}
