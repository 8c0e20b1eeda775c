package category

import (
	"context"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 分类领域服务
type Service interface {
	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
	Get(ctx context.Context, id uint) (*Detail, error)

	// Create 创建分类，名称重复返回name字段错误
	Create(ctx context.Context, f Fields) (*Category, error)

	// Update 编辑分类，名称唯一性检查排除自身
	Update(ctx context.Context, id, version uint, f Fields) (*Category, error)

	// Delete 分类下有图书时拒绝删除
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo  Repository
	books BookCounter
}

// NewService 创建分类领域服务
func NewService(repo Repository, books BookCounter) Service {
	return &service{repo: repo, books: books}
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Detail, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Get(ctx context.Context, id uint) (*Detail, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.books.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Category: c, BookCount: count}, nil
}

func (s *service) Create(ctx context.Context, f Fields) (*Category, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, f.Name, 0); err != nil {
		return nil, err
	}

	c := NewCategory(f)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id, version uint, f Fields) (*Category, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Version != version {
		return nil, apperrors.ErrVersionConflict
	}
	if err := s.checkName(ctx, f.Name, id); err != nil {
		return nil, err
	}

	c.Apply(f)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.books.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryHasBooks
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) checkName(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrNameDuplicate
	}
	return nil
}
