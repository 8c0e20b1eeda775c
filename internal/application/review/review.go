// Package review 书评管理用例
package review

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/review"
)

// UseCase 书评管理用例
type UseCase struct {
	reviews  review.Service
	pageSize int
}

// NewUseCase 创建书评管理用例
func NewUseCase(reviews review.Service, pageSize int) *UseCase {
	return &UseCase{reviews: reviews, pageSize: pageSize}
}

func (uc *UseCase) List(ctx context.Context, params review.ListParams) (*application.Page[*review.Listing], error) {
	params.Page = params.Page.Normalize(uc.pageSize)
	list, total, err := uc.reviews.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return application.NewPage(list, total, params.Page), nil
}

func (uc *UseCase) Get(ctx context.Context, id uint) (*review.Listing, error) {
	return uc.reviews.Get(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, f review.Fields) (*review.Listing, error) {
	r, err := uc.reviews.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	return uc.reviews.Get(ctx, r.ID)
}

func (uc *UseCase) Update(ctx context.Context, id, version uint, f review.Fields) (*review.Listing, error) {
	if _, err := uc.reviews.Update(ctx, id, version, f); err != nil {
		return nil, err
	}
	return uc.reviews.Get(ctx, id)
}

func (uc *UseCase) Delete(ctx context.Context, id uint) error {
	return uc.reviews.Delete(ctx, id)
}
