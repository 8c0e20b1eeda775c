package dto

import (
	"github.com/xiebiao/library/internal/domain/review"
)

// ReviewRequest 发表书评请求
type ReviewRequest struct {
	BookID     uint   `json:"book_id" binding:"required" example:"1"`
	CustomerID uint   `json:"customer_id" binding:"required" example:"1"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Title      string `json:"title" binding:"max=100" example:"A classic"`
	Content    string `json:"content" binding:"max=2000"`
	IsApproved bool   `json:"is_approved"`
}

// UpdateReviewRequest 编辑书评请求
type UpdateReviewRequest struct {
	ReviewRequest
	VersionField
}

// ToFields 转换为领域输入
func (r ReviewRequest) ToFields() review.Fields {
	return review.Fields{
		BookID:     r.BookID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Title:      r.Title,
		Content:    r.Content,
		IsApproved: r.IsApproved,
	}
}

// ListReviewsQuery 书评列表查询
type ListReviewsQuery struct {
	PageQuery
	BookID     uint   `form:"book_id"`
	CustomerID uint   `form:"customer_id"`
	Approved   *bool  `form:"approved"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=newest rating"`
}

// ToParams 转换为领域查询参数
func (q ListReviewsQuery) ToParams() review.ListParams {
	return review.ListParams{
		Page:       q.ToPage(),
		BookID:     q.BookID,
		CustomerID: q.CustomerID,
		Approved:   q.Approved,
		SortBy:     q.SortBy,
	}
}

// ReviewResponse 书评（含书名、读者姓名）
type ReviewResponse struct {
	ID           uint   `json:"id"`
	BookID       uint   `json:"book_id"`
	BookTitle    string `json:"book_title"`
	CustomerID   uint   `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating"`
	Title        string `json:"title,omitempty"`
	Content      string `json:"content,omitempty"`
	IsApproved   bool   `json:"is_approved"`
	HelpfulVotes int    `json:"helpful_votes"`
	Version      uint   `json:"version"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// NewReview 组装书评
func NewReview(l *review.Listing) ReviewResponse {
	r := l.Review
	return ReviewResponse{
		ID:           r.ID,
		BookID:       r.BookID,
		BookTitle:    l.BookTitle,
		CustomerID:   r.CustomerID,
		CustomerName: l.CustomerName,
		Rating:       r.Rating,
		Title:        r.Title,
		Content:      r.Content,
		IsApproved:   r.IsApproved,
		HelpfulVotes: r.HelpfulVotes,
		Version:      r.Version,
		CreatedAt:    formatTime(r.CreatedAt),
		UpdatedAt:    formatTime(r.UpdatedAt),
	}
}

// NewReviews 批量组装
func NewReviews(list []*review.Listing) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(list))
	for _, l := range list {
		out = append(out, NewReview(l))
	}
	return out
}
