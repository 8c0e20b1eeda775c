// Package catalog 作者、分类、分馆的管理用例
package catalog

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/pkg/logger"
)

// AuthorUseCase 作者管理用例
type AuthorUseCase struct {
	authors  author.Service
	tx       application.TxManager
	pageSize int
}

// NewAuthorUseCase 创建作者管理用例
func NewAuthorUseCase(authors author.Service, tx application.TxManager, pageSize int) *AuthorUseCase {
	return &AuthorUseCase{authors: authors, tx: tx, pageSize: pageSize}
}

// List 分页查询
func (uc *AuthorUseCase) List(ctx context.Context, params author.ListParams) (*application.Page[*author.Detail], error) {
	params.Page = params.Page.Normalize(uc.pageSize)
	list, total, err := uc.authors.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return application.NewPage(list, total, params.Page), nil
}

func (uc *AuthorUseCase) Get(ctx context.Context, id uint) (*author.Detail, error) {
	return uc.authors.Get(ctx, id)
}

func (uc *AuthorUseCase) Create(ctx context.Context, f author.Fields) (*author.Detail, error) {
	a, err := uc.authors.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("author created", "author_id", a.ID)
	return &author.Detail{Author: a}, nil
}

func (uc *AuthorUseCase) Update(ctx context.Context, id, version uint, f author.Fields) (*author.Detail, error) {
	if _, err := uc.authors.Update(ctx, id, version, f); err != nil {
		return nil, err
	}
	return uc.authors.Get(ctx, id)
}

// Delete 计数与删除放在同一事务
func (uc *AuthorUseCase) Delete(ctx context.Context, id uint) error {
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		return uc.authors.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("author deleted", "author_id", id)
	return nil
}
