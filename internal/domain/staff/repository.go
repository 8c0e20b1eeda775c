package staff

import (
	"context"
)

// Repository 工作人员仓储接口
type Repository interface {
	// Create 邮箱重复返回ErrEmailDuplicate
	Create(ctx context.Context, s *Staff) error

	// FindByID 不存在返回ErrStaffNotFound
	FindByID(ctx context.Context, id uint) (*Staff, error)

	// FindByEmail 不存在返回ErrStaffNotFound
	FindByEmail(ctx context.Context, email string) (*Staff, error)
}
