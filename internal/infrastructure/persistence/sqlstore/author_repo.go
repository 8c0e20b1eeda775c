package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/author"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const authorBookCount = "(SELECT COUNT(*) FROM books WHERE books.author_id = authors.id)"

// AuthorRepository 作者仓储
type AuthorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

var _ author.Repository = (*AuthorRepository)(nil)

func (r *AuthorRepository) Create(ctx context.Context, a *author.Author) error {
	model := fromAuthor(a)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建作者失败")
	}
	a.ID = model.ID
	return nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id uint) (*author.Author, error) {
	var model AuthorModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, findErr(err, author.ErrAuthorNotFound, "查询作者失败")
	}
	return toAuthor(&model), nil
}

func (r *AuthorRepository) Update(ctx context.Context, a *author.Author) error {
	err := versionedUpdate(conn(ctx, r.db), &AuthorModel{}, a.ID, a.Version, map[string]interface{}{
		"first_name":    a.FirstName,
		"last_name":     a.LastName,
		"date_of_birth": a.DateOfBirth,
		"nationality":   a.Nationality,
		"biography":     a.Biography,
		"email":         a.Email,
		"is_active":     a.IsActive,
		"updated_at":    a.UpdatedAt,
	}, author.ErrAuthorNotFound)
	if err != nil {
		return err
	}
	a.Version++
	return nil
}

func (r *AuthorRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&AuthorModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return author.ErrAuthorHasBooks
		}
		return apperrors.WrapDB(result.Error, "删除作者失败")
	}
	if result.RowsAffected == 0 {
		return author.ErrAuthorNotFound
	}
	return nil
}

type authorRow struct {
	AuthorModel `gorm:"embedded"`
	BookCount   int64
}

func (r *AuthorRepository) List(ctx context.Context, params author.ListParams) ([]*author.Detail, int64, error) {
	query := conn(ctx, r.db).Model(&AuthorModel{})

	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!' OR LOWER(nationality) LIKE ? ESCAPE '!'", kw, kw, kw)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询作者总数失败")
	}

	switch params.SortBy {
	case "name_desc":
		query = query.Order("last_name DESC").Order("first_name DESC")
	case "books":
		query = query.Order(authorBookCount + " DESC").Order("last_name ASC")
	case "newest":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("last_name ASC").Order("first_name ASC")
	}

	var rows []authorRow
	err := query.Select("authors.*, " + authorBookCount + " AS book_count").
		Limit(params.PageSize).Offset(params.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询作者列表失败")
	}

	list := make([]*author.Detail, len(rows))
	for i := range rows {
		list[i] = &author.Detail{Author: toAuthor(&rows[i].AuthorModel), BookCount: rows[i].BookCount}
	}
	return list, total, nil
}

// Exists 供图书引用校验
func (r *AuthorRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(conn(ctx, r.db), &AuthorModel{}, id)
}

func fromAuthor(a *author.Author) *AuthorModel {
	return &AuthorModel{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: a.DateOfBirth,
		Nationality: a.Nationality,
		Biography:   a.Biography,
		Email:       a.Email,
		IsActive:    a.IsActive,
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAuthor(m *AuthorModel) *author.Author {
	return &author.Author{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		DateOfBirth: m.DateOfBirth,
		Nationality: m.Nationality,
		Biography:   m.Biography,
		Email:       m.Email,
		IsActive:    m.IsActive,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
