package review

import (
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Review 书评，每位读者对同一本书只能有一条
type Review struct {
	ID           uint
	BookID       uint
	CustomerID   uint
	Rating       int // 1-5
	Title        string
	Content      string
	IsApproved   bool
	HelpfulVotes int
	Version      uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fields 创建/编辑书评的输入
type Fields struct {
	BookID     uint
	CustomerID uint
	Rating     int
	Title      string
	Content    string
	IsApproved bool
}

// Validate 字段校验
func (f Fields) Validate() error {
	var c shared.Checker
	if f.BookID == 0 {
		c.Add("book_id", "不能为空")
	}
	if f.CustomerID == 0 {
		c.Add("customer_id", "不能为空")
	}
	c.Range("rating", f.Rating, 1, 5)
	c.MaxLen("title", f.Title, 100)
	if c.Required("content", f.Content) {
		c.Length("content", f.Content, 10, 2000)
	}
	return c.Err()
}

// NewReview 创建书评
func NewReview(f Fields) *Review {
	now := time.Now()
	r := &Review{Version: 1, CreatedAt: now}
	r.apply(f, now)
	return r
}

// Apply 编辑书评
func (r *Review) Apply(f Fields) {
	r.apply(f, time.Now())
}

func (r *Review) apply(f Fields, now time.Time) {
	r.BookID = f.BookID
	r.CustomerID = f.CustomerID
	r.Rating = f.Rating
	r.Title = strings.TrimSpace(f.Title)
	r.Content = strings.TrimSpace(f.Content)
	r.IsApproved = f.IsApproved
	r.UpdatedAt = now
}

// Listing 书评展示信息
type Listing struct {
	*Review
	BookTitle    string
	CustomerName string
}
