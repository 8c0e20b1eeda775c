package sqlstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/category"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const categoryBookCount = "(SELECT COUNT(*) FROM books WHERE books.category_id = categories.id)"

// CategoryRepository 分类仓储
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

var _ category.Repository = (*CategoryRepository)(nil)

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := fromCategory(c)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrNameDuplicate
		}
		return apperrors.WrapDB(err, "创建分类失败")
	}
	c.ID = model.ID
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, findErr(err, category.ErrCategoryNotFound, "查询分类失败")
	}
	return toCategory(&model), nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	n, err := count(conn(ctx, r.db), &CategoryModel{}, "LOWER(name) = ? AND id <> ?",
		strings.ToLower(strings.TrimSpace(name)), excludeID)
	return n > 0, err
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	err := versionedUpdate(conn(ctx, r.db), &CategoryModel{}, c.ID, c.Version, map[string]interface{}{
		"name":          c.Name,
		"description":   c.Description,
		"icon_class":    c.IconClass,
		"color_code":    c.ColorCode,
		"display_order": c.DisplayOrder,
		"is_active":     c.IsActive,
		"updated_at":    c.UpdatedAt,
	}, category.ErrCategoryNotFound)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeDuplicateEntry) {
			return category.ErrNameDuplicate
		}
		return err
	}
	c.Version++
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&CategoryModel{}, id)
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "删除分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

type categoryRow struct {
	CategoryModel `gorm:"embedded"`
	BookCount     int64
}

func (r *CategoryRepository) List(ctx context.Context, params category.ListParams) ([]*category.Detail, int64, error) {
	query := conn(ctx, r.db).Model(&CategoryModel{})

	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", kw, kw)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询分类总数失败")
	}

	switch params.SortBy {
	case "name":
		query = query.Order("name ASC")
	case "name_desc":
		query = query.Order("name DESC")
	default:
		query = query.Order("display_order ASC").Order("name ASC")
	}

	var rows []categoryRow
	err := query.Select("categories.*, " + categoryBookCount + " AS book_count").
		Limit(params.PageSize).Offset(params.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询分类列表失败")
	}

	list := make([]*category.Detail, len(rows))
	for i := range rows {
		list[i] = &category.Detail{Category: toCategory(&rows[i].CategoryModel), BookCount: rows[i].BookCount}
	}
	return list, total, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(conn(ctx, r.db), &CategoryModel{}, id)
}

func fromCategory(c *category.Category) *CategoryModel {
	return &CategoryModel{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		IconClass:    c.IconClass,
		ColorCode:    c.ColorCode,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		Version:      c.Version,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toCategory(m *CategoryModel) *category.Category {
	return &category.Category{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		IconClass:    m.IconClass,
		ColorCode:    m.ColorCode,
		DisplayOrder: m.DisplayOrder,
		IsActive:     m.IsActive,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
