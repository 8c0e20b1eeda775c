package sqlstore

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const bookActiveLoanCount = "(SELECT COUNT(*) FROM book_loans WHERE book_loans.book_id = books.id AND book_loans.status IN (1, 3))"

// BookRepository 图书仓储实现
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

var _ book.Repository = (*BookRepository)(nil)

// Create 创建图书
func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	model := fromBook(b)
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		switch {
		case isDuplicateError(err):
			return book.ErrISBNDuplicate
		case isForeignKeyError(err):
			return book.ErrAuthorNotFound
		}
		return apperrors.WrapDB(err, "创建图书失败")
	}
	b.ID = model.ID
	return nil
}

// FindByID 根据ID查询
func (r *BookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, findErr(err, book.ErrBookNotFound, "查询图书失败")
	}
	return toBook(&model), nil
}

type bookRow struct {
	BookModel       `gorm:"embedded"`
	AuthorFirstName string
	AuthorLastName  string
	CategoryName    string
	BranchName      string
	ActiveLoanCount int64
}

const bookDetailColumns = "books.*, authors.first_name AS author_first_name, authors.last_name AS author_last_name, " +
	"categories.name AS category_name, library_branches.name AS branch_name, " +
	bookActiveLoanCount + " AS active_loan_count"

func (r *BookRepository) detailQuery(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Model(&BookModel{}).
		Joins("LEFT JOIN authors ON authors.id = books.author_id").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Joins("LEFT JOIN library_branches ON library_branches.id = books.library_branch_id")
}

// FindDetail 查询图书及关联名称
func (r *BookRepository) FindDetail(ctx context.Context, id uint) (*book.Detail, error) {
	var rows []bookRow
	err := r.detailQuery(ctx).Select(bookDetailColumns).Where("books.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询图书详情失败")
	}
	if len(rows) == 0 {
		return nil, book.ErrBookNotFound
	}
	return rows[0].toDetail(), nil
}

func (r *BookRepository) ExistsByISBN(ctx context.Context, isbn string, excludeID uint) (bool, error) {
	n, err := count(conn(ctx, r.db), &BookModel{}, "isbn = ? AND id <> ?", strings.TrimSpace(isbn), excludeID)
	return n > 0, err
}

// Update 带版本号更新
func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	err := versionedUpdate(conn(ctx, r.db), &BookModel{}, b.ID, b.Version, map[string]interface{}{
		"title":             b.Title,
		"isbn":              b.ISBN,
		"description":       b.Description,
		"publication_date":  b.PublicationDate,
		"publisher":         b.Publisher,
		"page_count":        b.PageCount,
		"language":          b.Language,
		"cover_image_url":   b.CoverImageURL,
		"price":             b.Price,
		"available_copies":  b.AvailableCopies,
		"total_copies":      b.TotalCopies,
		"author_id":         b.AuthorID,
		"category_id":       b.CategoryID,
		"library_branch_id": b.BranchID,
		"updated_at":        b.UpdatedAt,
	}, book.ErrBookNotFound)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeDuplicateEntry) {
			return book.ErrISBNDuplicate
		}
		return err
	}
	b.Version++
	return nil
}

// Delete 删除图书及其书评
// 借阅记录由外键RESTRICT保护
func (r *BookRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&ReviewModel{}).Error; err != nil {
			return apperrors.WrapDB(err, "删除图书书评失败")
		}
		result := tx.Delete(&BookModel{}, id)
		if result.Error != nil {
			if isForeignKeyError(result.Error) {
				return book.ErrBookHasLoanHistory
			}
			return apperrors.WrapDB(result.Error, "删除图书失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrBookNotFound
		}
		return nil
	})
}

// List 分页查询图书
func (r *BookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Detail, int64, error) {
	query := r.detailQuery(ctx)

	// 1. 过滤条件
	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("LOWER(books.title) LIKE ? ESCAPE '!' OR LOWER(books.isbn) LIKE ? ESCAPE '!' OR LOWER(authors.first_name) LIKE ? ESCAPE '!' OR LOWER(authors.last_name) LIKE ? ESCAPE '!'",
			kw, kw, kw, kw)
	}
	if params.AuthorID > 0 {
		query = query.Where("books.author_id = ?", params.AuthorID)
	}
	if params.CategoryID > 0 {
		query = query.Where("books.category_id = ?", params.CategoryID)
	}
	if params.BranchID > 0 {
		query = query.Where("books.library_branch_id = ?", params.BranchID)
	}
	if params.AvailableOnly {
		query = query.Where("books.available_copies > 0")
	}
	query = query.Session(&gorm.Session{})

	// 2. 总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书总数失败")
	}

	// 3. 排序 + 分页
	switch params.SortBy {
	case "title_desc":
		query = query.Order("books.title DESC")
	case "newest":
		query = query.Order("books.created_at DESC")
	case "available":
		query = query.Order("books.available_copies DESC").Order("books.title ASC")
	default:
		query = query.Order("books.title ASC")
	}

	var rows []bookRow
	if err := query.Select(bookDetailColumns).Limit(params.PageSize).Offset(params.Offset()).Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书列表失败")
	}

	list := make([]*book.Detail, len(rows))
	for i := range rows {
		list[i] = rows[i].toDetail()
	}
	return list, total, nil
}

// LockByID 悲观锁查询（SELECT ... FOR UPDATE）
func (r *BookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := forUpdate(conn(ctx, r.db)).First(&model, id).Error; err != nil {
		return nil, findErr(err, book.ErrBookNotFound, "锁定图书失败")
	}
	return toBook(&model), nil
}

// ReserveCopy 原子扣减可借副本
func (r *BookRepository) ReserveCopy(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Model(&BookModel{}).
		Where("id = ? AND available_copies > 0", id).
		Updates(map[string]interface{}{
			"available_copies": gorm.Expr("available_copies - 1"),
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "扣减副本失败")
	}
	if result.RowsAffected == 0 {
		ok, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return book.ErrBookNotFound
		}
		return book.ErrNoAvailableCopies
	}
	return nil
}

// ReleaseCopy 原子归还副本，已达总副本数时返回false
func (r *BookRepository) ReleaseCopy(ctx context.Context, id uint) (bool, error) {
	result := conn(ctx, r.db).Model(&BookModel{}).
		Where("id = ? AND available_copies < total_copies", id).
		Updates(map[string]interface{}{
			"available_copies": gorm.Expr("available_copies + 1"),
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, apperrors.WrapDB(result.Error, "归还副本失败")
	}
	return result.RowsAffected > 0, nil
}

func (r *BookRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(conn(ctx, r.db), &BookModel{}, id)
}

func (r *BookRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return count(conn(ctx, r.db), &BookModel{}, "author_id = ?", authorID)
}

func (r *BookRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	return count(conn(ctx, r.db), &BookModel{}, "category_id = ?", categoryID)
}

func (r *BookRepository) CountByBranch(ctx context.Context, branchID uint) (int64, error) {
	return count(conn(ctx, r.db), &BookModel{}, "library_branch_id = ?", branchID)
}

func (row *bookRow) toDetail() *book.Detail {
	d := &book.Detail{
		Book:            toBook(&row.BookModel),
		CategoryName:    row.CategoryName,
		BranchName:      row.BranchName,
		ActiveLoanCount: row.ActiveLoanCount,
	}
	if row.AuthorFirstName != "" || row.AuthorLastName != "" {
		d.AuthorName = strings.TrimSpace(row.AuthorFirstName + " " + row.AuthorLastName)
	}
	return d
}

func fromBook(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		Description:     b.Description,
		PublicationDate: b.PublicationDate,
		Publisher:       b.Publisher,
		PageCount:       b.PageCount,
		Language:        b.Language,
		CoverImageURL:   b.CoverImageURL,
		Price:           b.Price,
		AvailableCopies: b.AvailableCopies,
		TotalCopies:     b.TotalCopies,
		AuthorID:        b.AuthorID,
		CategoryID:      b.CategoryID,
		BranchID:        b.BranchID,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBook(m *BookModel) *book.Book {
	return &book.Book{
		ID:              m.ID,
		Title:           m.Title,
		ISBN:            m.ISBN,
		Description:     m.Description,
		PublicationDate: m.PublicationDate,
		Publisher:       m.Publisher,
		PageCount:       m.PageCount,
		Language:        m.Language,
		CoverImageURL:   m.CoverImageURL,
		Price:           m.Price,
		AvailableCopies: m.AvailableCopies,
		TotalCopies:     m.TotalCopies,
		AuthorID:        m.AuthorID,
		CategoryID:      m.CategoryID,
		BranchID:        m.BranchID,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
