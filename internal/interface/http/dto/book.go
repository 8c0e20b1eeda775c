package dto

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/library/internal/domain/book"
)

// BookRequest 上架图书请求
// 副本数由管理员填写；可借副本不能超过总副本
type BookRequest struct {
	Title           string           `json:"title" binding:"required,max=200" example:"The Left Hand of Darkness"`
	ISBN            string           `json:"isbn" binding:"required,max=17" example:"9780441478125"`
	Description     string           `json:"description" binding:"max=5000"`
	PublicationDate string           `json:"publication_date" example:"1969-03-01"`
	Publisher       string           `json:"publisher" binding:"max=100" example:"Ace Books"`
	PageCount       int              `json:"page_count" binding:"min=0,max=10000" example:"304"`
	Language        string           `json:"language" binding:"max=50" example:"English"`
	CoverImageURL   string           `json:"cover_image_url" binding:"omitempty,url,max=500"`
	Price           *decimal.Decimal `json:"price" swaggertype:"string" example:"12.99"`
	AvailableCopies int              `json:"available_copies" binding:"min=0" example:"3"`
	TotalCopies     int              `json:"total_copies" binding:"min=1" example:"3"`
	AuthorID        uint             `json:"author_id" binding:"required" example:"1"`
	CategoryID      *uint            `json:"category_id" example:"2"`
	LibraryBranchID *uint            `json:"library_branch_id" example:"1"`
}

// UpdateBookRequest 编辑图书请求
type UpdateBookRequest struct {
	BookRequest
	VersionField
}

// ToFields 转换为领域输入
func (r BookRequest) ToFields() (book.Fields, error) {
	published, err := ParseDate("publication_date", r.PublicationDate)
	if err != nil {
		return book.Fields{}, err
	}
	return book.Fields{
		Title:           r.Title,
		ISBN:            r.ISBN,
		Description:     r.Description,
		PublicationDate: published,
		Publisher:       r.Publisher,
		PageCount:       r.PageCount,
		Language:        r.Language,
		CoverImageURL:   r.CoverImageURL,
		Price:           r.Price,
		AvailableCopies: r.AvailableCopies,
		TotalCopies:     r.TotalCopies,
		AuthorID:        r.AuthorID,
		CategoryID:      r.CategoryID,
		BranchID:        r.LibraryBranchID,
	}, nil
}

// ListBooksQuery 图书列表查询
type ListBooksQuery struct {
	PageQuery
	Keyword         string `form:"keyword" binding:"max=100"`
	AuthorID        uint   `form:"author_id"`
	CategoryID      uint   `form:"category_id"`
	LibraryBranchID uint   `form:"library_branch_id"`
	AvailableOnly   bool   `form:"available_only"`
	SortBy          string `form:"sort_by" binding:"omitempty,oneof=title title_desc newest available"`
}

// ToParams 转换为领域查询参数
func (q ListBooksQuery) ToParams() book.ListParams {
	return book.ListParams{
		Page:          q.ToPage(),
		Keyword:       q.Keyword,
		AuthorID:      q.AuthorID,
		CategoryID:    q.CategoryID,
		BranchID:      q.LibraryBranchID,
		AvailableOnly: q.AvailableOnly,
		SortBy:        q.SortBy,
	}
}

// BookResponse 图书基础信息
type BookResponse struct {
	ID              uint   `json:"id" example:"1"`
	Title           string `json:"title"`
	ISBN            string `json:"isbn"`
	Description     string `json:"description,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	PageCount       int    `json:"page_count,omitempty"`
	Language        string `json:"language"`
	CoverImageURL   string `json:"cover_image_url,omitempty"`
	Price           string `json:"price,omitempty" example:"12.99"`
	AvailableCopies int    `json:"available_copies"`
	TotalCopies     int    `json:"total_copies"`
	IsAvailable     bool   `json:"is_available"`
	AuthorID        uint   `json:"author_id"`
	CategoryID      *uint  `json:"category_id"`
	LibraryBranchID *uint  `json:"library_branch_id"`
	Version         uint   `json:"version"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// BookDetailResponse 图书详情（基础信息 + 关联名称 + 未归还借阅数）
type BookDetailResponse struct {
	BookResponse
	AuthorName      string `json:"author_name"`
	CategoryName    string `json:"category_name,omitempty"`
	BranchName      string `json:"branch_name,omitempty"`
	ActiveLoanCount int64  `json:"active_loan_count"`
}

// NewBookDetail 组装图书详情
func NewBookDetail(d *book.Detail) BookDetailResponse {
	b := d.Book
	return BookDetailResponse{
		BookResponse: BookResponse{
			ID:              b.ID,
			Title:           b.Title,
			ISBN:            b.ISBN,
			Description:     b.Description,
			PublicationDate: formatDate(b.PublicationDate),
			Publisher:       b.Publisher,
			PageCount:       b.PageCount,
			Language:        b.Language,
			CoverImageURL:   b.CoverImageURL,
			Price:           formatMoney(b.Price),
			AvailableCopies: b.AvailableCopies,
			TotalCopies:     b.TotalCopies,
			IsAvailable:     b.IsAvailable(),
			AuthorID:        b.AuthorID,
			CategoryID:      b.CategoryID,
			LibraryBranchID: b.BranchID,
			Version:         b.Version,
			CreatedAt:       formatTime(b.CreatedAt),
			UpdatedAt:       formatTime(b.UpdatedAt),
		},
		AuthorName:      d.AuthorName,
		CategoryName:    d.CategoryName,
		BranchName:      d.BranchName,
		ActiveLoanCount: d.ActiveLoanCount,
	}
}
