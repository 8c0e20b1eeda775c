package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/branch"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const (
	branchBookCount       = "(SELECT COUNT(*) FROM books WHERE books.library_branch_id = library_branches.id)"
	branchActiveLoanCount = "(SELECT COUNT(*) FROM book_loans WHERE book_loans.library_branch_id = library_branches.id AND book_loans.status IN (1, 3))"
)

// BranchRepository 分馆仓储
type BranchRepository struct {
	db *gorm.DB
}

// NewBranchRepository 创建分馆仓储
func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

var _ branch.Repository = (*BranchRepository)(nil)

func (r *BranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	model := fromBranch(b)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建分馆失败")
	}
	b.ID = model.ID
	return nil
}

func (r *BranchRepository) FindByID(ctx context.Context, id uint) (*branch.Branch, error) {
	var model BranchModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, findErr(err, branch.ErrBranchNotFound, "查询分馆失败")
	}
	return toBranch(&model), nil
}

func (r *BranchRepository) Update(ctx context.Context, b *branch.Branch) error {
	err := versionedUpdate(conn(ctx, r.db), &BranchModel{}, b.ID, b.Version, map[string]interface{}{
		"name":          b.Name,
		"address":       b.Address,
		"city":          b.City,
		"state":         b.State,
		"postal_code":   b.PostalCode,
		"phone":         b.Phone,
		"email":         b.Email,
		"opening_hours": b.OpeningHours,
		"is_active":     b.IsActive,
		"updated_at":    b.UpdatedAt,
	}, branch.ErrBranchNotFound)
	if err != nil {
		return err
	}
	b.Version++
	return nil
}

// Delete 删除分馆
// 同一事务内：读者首选分馆置空 → 借阅所属分馆置空 → 删除分馆
func (r *BranchRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&CustomerModel{}).Where("preferred_branch_id = ?", id).
			Update("preferred_branch_id", nil).Error; err != nil {
			return apperrors.WrapDB(err, "解除读者首选分馆失败")
		}
		if err := tx.Model(&LoanModel{}).Where("library_branch_id = ?", id).
			Update("library_branch_id", nil).Error; err != nil {
			return apperrors.WrapDB(err, "解除借阅分馆失败")
		}

		result := tx.Delete(&BranchModel{}, id)
		if result.Error != nil {
			if isForeignKeyError(result.Error) {
				return branch.ErrBranchHasBooks
			}
			return apperrors.WrapDB(result.Error, "删除分馆失败")
		}
		if result.RowsAffected == 0 {
			return branch.ErrBranchNotFound
		}
		return nil
	})
}

type branchRow struct {
	BranchModel     `gorm:"embedded"`
	BookCount       int64
	ActiveLoanCount int64
}

func (r *BranchRepository) List(ctx context.Context, params branch.ListParams) ([]*branch.Detail, int64, error) {
	query := conn(ctx, r.db).Model(&BranchModel{})

	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(city) LIKE ? ESCAPE '!' OR LOWER(address) LIKE ? ESCAPE '!'", kw, kw, kw)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询分馆总数失败")
	}

	switch params.SortBy {
	case "name_desc":
		query = query.Order("name DESC")
	case "city":
		query = query.Order("city ASC").Order("name ASC")
	case "books":
		query = query.Order(branchBookCount + " DESC").Order("name ASC")
	case "newest":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("name ASC")
	}

	var rows []branchRow
	err := query.Select("library_branches.*, " + branchBookCount + " AS book_count, " + branchActiveLoanCount + " AS active_loan_count").
		Limit(params.PageSize).Offset(params.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询分馆列表失败")
	}

	list := make([]*branch.Detail, len(rows))
	for i := range rows {
		list[i] = &branch.Detail{
			Branch:          toBranch(&rows[i].BranchModel),
			BookCount:       rows[i].BookCount,
			ActiveLoanCount: rows[i].ActiveLoanCount,
		}
	}
	return list, total, nil
}

func (r *BranchRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(conn(ctx, r.db), &BranchModel{}, id)
}

func fromBranch(b *branch.Branch) *BranchModel {
	return &BranchModel{
		ID:           b.ID,
		Name:         b.Name,
		Address:      b.Address,
		City:         b.City,
		State:        b.State,
		PostalCode:   b.PostalCode,
		Phone:        b.Phone,
		Email:        b.Email,
		OpeningHours: b.OpeningHours,
		IsActive:     b.IsActive,
		Version:      b.Version,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func toBranch(m *BranchModel) *branch.Branch {
	return &branch.Branch{
		ID:           m.ID,
		Name:         m.Name,
		Address:      m.Address,
		City:         m.City,
		State:        m.State,
		PostalCode:   m.PostalCode,
		Phone:        m.Phone,
		Email:        m.Email,
		OpeningHours: m.OpeningHours,
		IsActive:     m.IsActive,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
