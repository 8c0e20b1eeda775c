package author

import (
	"context"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 作者领域服务
type Service interface {
	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
	Get(ctx context.Context, id uint) (*Detail, error)
	Create(ctx context.Context, f Fields) (*Author, error)

	// Update 编辑作者，version为客户端加载时拿到的版本号
	Update(ctx context.Context, id, version uint, f Fields) (*Author, error)

	// Delete 删除作者
	// 业务规则：名下有图书时拒绝删除
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo  Repository
	books BookCounter
}

// NewService 创建作者领域服务
func NewService(repo Repository, books BookCounter) Service {
	return &service{repo: repo, books: books}
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Detail, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Get(ctx context.Context, id uint) (*Detail, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.books.CountByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Author: a, BookCount: count}, nil
}

func (s *service) Create(ctx context.Context, f Fields) (*Author, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	a := NewAuthor(f)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, id, version uint, f Fields) (*Author, error) {
	// 1. 字段校验
	if err := f.Validate(); err != nil {
		return nil, err
	}

	// 2. 加载并比对版本号
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Version != version {
		return nil, apperrors.ErrVersionConflict
	}

	// 3. 修改并持久化
	a.Apply(f)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.books.CountByAuthor(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAuthorHasBooks
	}
	return s.repo.Delete(ctx, id)
}
