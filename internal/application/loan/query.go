package loan

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/loan"
)

// Get 借阅详情（含书名、读者姓名、分馆名称）
func (uc *UseCase) Get(ctx context.Context, id uint) (*loan.Listing, error) {
	return uc.loans.FindListing(ctx, id)
}

// List 借阅列表
func (uc *UseCase) List(ctx context.Context, params loan.ListParams) (*application.Page[*loan.Listing], error) {
	params.Page = params.Page.Normalize(uc.pageSize)
	list, total, err := uc.loans.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return application.NewPage(list, total, params.Page), nil
}
