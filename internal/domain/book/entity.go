package book

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/library/internal/domain/shared"
)

const (
	maxCopies       = 10000
	defaultLanguage = "English"
)

// Book 图书实体（聚合根）
// 设计说明：
// 1. AvailableCopies只能通过ReserveCopy/ReleaseCopy变化（编辑表单除外）
// 2. 价格使用decimal
// 3. 分类、分馆为可选引用（删除分类/分馆时置空）
type Book struct {
	ID              uint
	Title           string
	ISBN            string // 唯一
	Description     string
	PublicationDate *time.Time
	Publisher       string
	PageCount       int // 0表示未填写
	Language        string
	CoverImageURL   string
	Price           *decimal.Decimal
	AvailableCopies int
	TotalCopies     int
	AuthorID        uint
	CategoryID      *uint
	BranchID        *uint
	Version         uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Fields 创建/编辑图书时的输入
// 副本数由管理员填写，不与未归还借阅做对账
type Fields struct {
	Title           string
	ISBN            string
	Description     string
	PublicationDate *time.Time
	Publisher       string
	PageCount       int
	Language        string
	CoverImageURL   string
	Price           *decimal.Decimal
	AvailableCopies int
	TotalCopies     int
	AuthorID        uint
	CategoryID      *uint
	BranchID        *uint
}

// Validate 字段校验（不含跨聚合引用，引用由Service检查）
func (f Fields) Validate() error {
	var c shared.Checker
	if c.Required("title", f.Title) {
		c.MaxLen("title", f.Title, 200)
	}
	if c.Required("isbn", f.ISBN) && !IsValidISBN(f.ISBN) {
		c.Add("isbn", "ISBN格式不正确（10位或13位）")
	}
	c.MaxLen("description", f.Description, 2000)
	c.MaxLen("publisher", f.Publisher, 100)
	if f.PageCount != 0 {
		c.Range("page_count", f.PageCount, 1, maxCopies)
	}
	c.MaxLen("language", f.Language, 50)
	c.URL("cover_image_url", f.CoverImageURL)
	if f.Price != nil && f.Price.IsNegative() {
		c.Add("price", "价格不能为负数")
	}
	c.Range("total_copies", f.TotalCopies, 0, maxCopies)
	if f.AvailableCopies < 0 || f.AvailableCopies > f.TotalCopies {
		c.Add("available_copies", "可借副本数必须在0到总副本数之间")
	}
	if f.AuthorID == 0 {
		c.Add("author_id", "不能为空")
	}
	return c.Err()
}

// NewBook 创建图书（工厂方法）
func NewBook(f Fields) *Book {
	now := time.Now()
	b := &Book{Version: 1, CreatedAt: now}
	b.apply(f, now)
	return b
}

// Apply 编辑图书信息
func (b *Book) Apply(f Fields) {
	b.apply(f, time.Now())
}

func (b *Book) apply(f Fields, now time.Time) {
	b.Title = strings.TrimSpace(f.Title)
	b.ISBN = strings.TrimSpace(f.ISBN)
	b.Description = f.Description
	b.PublicationDate = f.PublicationDate
	b.Publisher = f.Publisher
	b.PageCount = f.PageCount
	b.Language = f.Language
	if b.Language == "" {
		b.Language = defaultLanguage
	}
	b.CoverImageURL = f.CoverImageURL
	b.Price = f.Price
	b.AvailableCopies = f.AvailableCopies
	b.TotalCopies = f.TotalCopies
	b.AuthorID = f.AuthorID
	b.CategoryID = f.CategoryID
	b.BranchID = f.BranchID
	b.UpdatedAt = now
}

// IsAvailable 是否还有可借副本
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// ReserveCopy 借出一本副本
// 业务规则：可借副本为0时拒绝
func (b *Book) ReserveCopy() error {
	if b.AvailableCopies <= 0 {
		return ErrNoAvailableCopies
	}
	b.AvailableCopies--
	b.UpdatedAt = time.Now()
	return nil
}

// ReleaseCopy 归还一本副本
// 已达总副本数时不再增加（管理员可能手工改过副本数），返回false
func (b *Book) ReleaseCopy() bool {
	if b.AvailableCopies >= b.TotalCopies {
		return false
	}
	b.AvailableCopies++
	b.UpdatedAt = time.Now()
	return true
}

var isbnSeparators = regexp.MustCompile(`[\s-]`)

// IsValidISBN 校验ISBN格式
// 支持ISBN-10（末位可为X）和ISBN-13，允许连字符和空格分隔，不校验校验位
func IsValidISBN(isbn string) bool {
	clean := isbnSeparators.ReplaceAllString(isbn, "")
	switch len(clean) {
	case 13:
		return allDigits(clean)
	case 10:
		last := clean[9]
		return allDigits(clean[:9]) && (last == 'X' || last == 'x' || (last >= '0' && last <= '9'))
	default:
		return false
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Detail 图书详情（基础信息 + 关联名称）
type Detail struct {
	*Book
	AuthorName      string
	CategoryName    string
	BranchName      string
	ActiveLoanCount int64
}
