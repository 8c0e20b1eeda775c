package sqlstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/staff"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// StaffRepository 工作人员仓储
type StaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建工作人员仓储
func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

var _ staff.Repository = (*StaffRepository)(nil)

func (r *StaffRepository) Create(ctx context.Context, s *staff.Staff) error {
	model := &StaffModel{
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		Name:         s.Name,
		Role:         s.Role,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return staff.ErrEmailDuplicate
		}
		return apperrors.WrapDB(err, "创建工作人员失败")
	}
	s.ID = model.ID
	return nil
}

func (r *StaffRepository) FindByID(ctx context.Context, id uint) (*staff.Staff, error) {
	var model StaffModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, findErr(err, staff.ErrStaffNotFound, "查询工作人员失败")
	}
	return toStaff(&model), nil
}

func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	var model StaffModel
	err := conn(ctx, r.db).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&model).Error
	if err != nil {
		return nil, findErr(err, staff.ErrStaffNotFound, "查询工作人员失败")
	}
	return toStaff(&model), nil
}

func toStaff(m *StaffModel) *staff.Staff {
	return &staff.Staff{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         m.Role,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
