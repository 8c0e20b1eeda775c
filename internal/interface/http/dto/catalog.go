package dto

import (
	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/branch"
	"github.com/xiebiao/library/internal/domain/category"
)

// =========================================
// 作者
// =========================================

// AuthorRequest 创建作者请求
type AuthorRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=50" example:"Ursula"`
	LastName    string `json:"last_name" binding:"required,max=50" example:"Le Guin"`
	DateOfBirth string `json:"date_of_birth" example:"1929-10-21"`
	Nationality string `json:"nationality" binding:"max=50" example:"American"`
	Biography   string `json:"biography" binding:"max=2000"`
	Email       string `json:"email" binding:"omitempty,email,max=100"`
	IsActive    *bool  `json:"is_active" example:"true"`
}

// UpdateAuthorRequest 编辑作者请求
type UpdateAuthorRequest struct {
	AuthorRequest
	VersionField
}

// ToFields 转换为领域输入
func (r AuthorRequest) ToFields() (author.Fields, error) {
	dob, err := ParseDate("date_of_birth", r.DateOfBirth)
	if err != nil {
		return author.Fields{}, err
	}
	return author.Fields{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: dob,
		Nationality: r.Nationality,
		Biography:   r.Biography,
		Email:       r.Email,
		IsActive:    boolOr(r.IsActive, true),
	}, nil
}

// ListAuthorsQuery 作者列表查询
type ListAuthorsQuery struct {
	PageQuery
	Keyword string `form:"keyword" binding:"max=100"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=name name_desc books newest"`
}

// ToParams 转换为领域查询参数
func (q ListAuthorsQuery) ToParams() author.ListParams {
	return author.ListParams{Page: q.ToPage(), Keyword: q.Keyword, SortBy: q.SortBy}
}

// AuthorResponse 作者基础信息
type AuthorResponse struct {
	ID          uint   `json:"id" example:"1"`
	FirstName   string `json:"first_name" example:"Ursula"`
	LastName    string `json:"last_name" example:"Le Guin"`
	FullName    string `json:"full_name" example:"Ursula Le Guin"`
	DateOfBirth string `json:"date_of_birth,omitempty" example:"1929-10-21"`
	Nationality string `json:"nationality,omitempty"`
	Biography   string `json:"biography,omitempty"`
	Email       string `json:"email,omitempty"`
	IsActive    bool   `json:"is_active"`
	Version     uint   `json:"version" example:"1"`
	CreatedAt   string `json:"created_at" example:"2026-01-15 10:30:00"`
	UpdatedAt   string `json:"updated_at" example:"2026-01-15 10:30:00"`
}

// AuthorDetailResponse 作者详情（基础信息 + 图书数量）
type AuthorDetailResponse struct {
	AuthorResponse
	BookCount int64 `json:"book_count" example:"3"`
}

// NewAuthorDetail 组装作者详情
func NewAuthorDetail(d *author.Detail) AuthorDetailResponse {
	a := d.Author
	return AuthorDetailResponse{
		AuthorResponse: AuthorResponse{
			ID:          a.ID,
			FirstName:   a.FirstName,
			LastName:    a.LastName,
			FullName:    a.FullName(),
			DateOfBirth: formatDate(a.DateOfBirth),
			Nationality: a.Nationality,
			Biography:   a.Biography,
			Email:       a.Email,
			IsActive:    a.IsActive,
			Version:     a.Version,
			CreatedAt:   formatTime(a.CreatedAt),
			UpdatedAt:   formatTime(a.UpdatedAt),
		},
		BookCount: d.BookCount,
	}
}

// =========================================
// 分类
// =========================================

// CategoryRequest 创建分类请求
type CategoryRequest struct {
	Name         string `json:"name" binding:"required,max=50" example:"Science Fiction"`
	Description  string `json:"description" binding:"max=500"`
	IconClass    string `json:"icon_class" binding:"max=50" example:"fa-rocket"`
	ColorCode    string `json:"color_code" binding:"omitempty,max=7" example:"#3366FF"`
	DisplayOrder int    `json:"display_order" binding:"min=0" example:"1"`
	IsActive     *bool  `json:"is_active" example:"true"`
}

// UpdateCategoryRequest 编辑分类请求
type UpdateCategoryRequest struct {
	CategoryRequest
	VersionField
}

// ToFields 转换为领域输入
func (r CategoryRequest) ToFields() category.Fields {
	return category.Fields{
		Name:         r.Name,
		Description:  r.Description,
		IconClass:    r.IconClass,
		ColorCode:    r.ColorCode,
		DisplayOrder: r.DisplayOrder,
		IsActive:     boolOr(r.IsActive, true),
	}
}

// ListCategoriesQuery 分类列表查询
type ListCategoriesQuery struct {
	PageQuery
	Keyword    string `form:"keyword" binding:"max=100"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=display_order name name_desc"`
}

// ToParams 转换为领域查询参数
func (q ListCategoriesQuery) ToParams() category.ListParams {
	return category.ListParams{Page: q.ToPage(), Keyword: q.Keyword, ActiveOnly: q.ActiveOnly, SortBy: q.SortBy}
}

// CategoryResponse 分类基础信息
type CategoryResponse struct {
	ID           uint   `json:"id" example:"1"`
	Name         string `json:"name" example:"Science Fiction"`
	Description  string `json:"description,omitempty"`
	IconClass    string `json:"icon_class,omitempty"`
	ColorCode    string `json:"color_code,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
	Version      uint   `json:"version"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// CategoryDetailResponse 分类详情（基础信息 + 图书数量）
type CategoryDetailResponse struct {
	CategoryResponse
	BookCount int64 `json:"book_count"`
}

// NewCategoryDetail 组装分类详情
func NewCategoryDetail(d *category.Detail) CategoryDetailResponse {
	c := d.Category
	return CategoryDetailResponse{
		CategoryResponse: CategoryResponse{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			IconClass:    c.IconClass,
			ColorCode:    c.ColorCode,
			DisplayOrder: c.DisplayOrder,
			IsActive:     c.IsActive,
			Version:      c.Version,
			CreatedAt:    formatTime(c.CreatedAt),
			UpdatedAt:    formatTime(c.UpdatedAt),
		},
		BookCount: d.BookCount,
	}
}

// =========================================
// 分馆
// =========================================

// BranchRequest 创建分馆请求
type BranchRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"Central Library"`
	Address      string `json:"address" binding:"required,max=200" example:"1 Main St"`
	City         string `json:"city" binding:"required,max=50" example:"Springfield"`
	State        string `json:"state" binding:"max=50"`
	PostalCode   string `json:"postal_code" binding:"max=10"`
	Phone        string `json:"phone" binding:"max=20"`
	Email        string `json:"email" binding:"omitempty,email,max=100"`
	OpeningHours string `json:"opening_hours" binding:"max=200" example:"Mon-Fri 9:00-18:00"`
	IsActive     *bool  `json:"is_active"`
}

// UpdateBranchRequest 编辑分馆请求
type UpdateBranchRequest struct {
	BranchRequest
	VersionField
}

// ToFields 转换为领域输入
func (r BranchRequest) ToFields() branch.Fields {
	return branch.Fields{
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Phone:        r.Phone,
		Email:        r.Email,
		OpeningHours: r.OpeningHours,
		IsActive:     boolOr(r.IsActive, true),
	}
}

// ListBranchesQuery 分馆列表查询
type ListBranchesQuery struct {
	PageQuery
	Keyword    string `form:"keyword" binding:"max=100"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name name_desc city books newest"`
}

// ToParams 转换为领域查询参数
func (q ListBranchesQuery) ToParams() branch.ListParams {
	return branch.ListParams{Page: q.ToPage(), Keyword: q.Keyword, ActiveOnly: q.ActiveOnly, SortBy: q.SortBy}
}

// BranchResponse 分馆基础信息
type BranchResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
	IsActive     bool   `json:"is_active"`
	Version      uint   `json:"version"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// BranchDetailResponse 分馆详情（基础信息 + 馆藏数 + 未归还借阅数）
type BranchDetailResponse struct {
	BranchResponse
	BookCount       int64 `json:"book_count"`
	ActiveLoanCount int64 `json:"active_loan_count"`
}

// NewBranchDetail 组装分馆详情
func NewBranchDetail(d *branch.Detail) BranchDetailResponse {
	b := d.Branch
	return BranchDetailResponse{
		BranchResponse: BranchResponse{
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
			CreatedAt:    formatTime(b.CreatedAt),
			UpdatedAt:    formatTime(b.UpdatedAt),
		},
		BookCount:       d.BookCount,
		ActiveLoanCount: d.ActiveLoanCount,
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
