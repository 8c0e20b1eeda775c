package customer

import (
	"fmt"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Customer 读者实体
type Customer struct {
	ID                uint
	FirstName         string
	LastName          string
	Email             string // 唯一
	Phone             string
	Address           string
	City              string
	MembershipDate    time.Time
	LibraryCardNumber string // 唯一，格式LIB-<年份>-<4位序号>
	IsActiveMember    bool
	PreferredBranchID *uint
	Version           uint
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Fields 创建/编辑读者时的输入
type Fields struct {
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Address           string
	City              string
	MembershipDate    *time.Time // 为空时取当前时间（仅创建）
	LibraryCardNumber string     // 为空时自动生成（仅创建）
	IsActiveMember    bool
	PreferredBranchID *uint
}

// Validate 字段校验
func (f Fields) Validate() error {
	var c shared.Checker
	if c.Required("first_name", f.FirstName) {
		c.MaxLen("first_name", f.FirstName, 50)
	}
	if c.Required("last_name", f.LastName) {
		c.MaxLen("last_name", f.LastName, 50)
	}
	if c.Required("email", f.Email) {
		c.Email("email", f.Email)
	}
	c.Phone("phone", f.Phone)
	c.MaxLen("address", f.Address, 200)
	c.MaxLen("city", f.City, 50)
	c.MaxLen("library_card_number", f.LibraryCardNumber, 20)
	return c.Err()
}

// NewCustomer 创建读者，cardNumber由Service生成或来自输入
func NewCustomer(f Fields, cardNumber string) *Customer {
	now := time.Now()
	c := &Customer{
		Version:           1,
		MembershipDate:    now,
		LibraryCardNumber: cardNumber,
		CreatedAt:         now,
	}
	if f.MembershipDate != nil {
		c.MembershipDate = *f.MembershipDate
	}
	c.apply(f, now)
	return c
}

// Apply 编辑读者信息
// 借书证号留空表示保持不变
func (c *Customer) Apply(f Fields) {
	if card := strings.TrimSpace(f.LibraryCardNumber); card != "" {
		c.LibraryCardNumber = card
	}
	if f.MembershipDate != nil {
		c.MembershipDate = *f.MembershipDate
	}
	c.apply(f, time.Now())
}

func (c *Customer) apply(f Fields, now time.Time) {
	c.FirstName = strings.TrimSpace(f.FirstName)
	c.LastName = strings.TrimSpace(f.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(f.Email))
	c.Phone = f.Phone
	c.Address = f.Address
	c.City = f.City
	c.IsActiveMember = f.IsActiveMember
	c.PreferredBranchID = f.PreferredBranchID
	c.UpdatedAt = now
}

// FullName 全名
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CardPrefix 某年借书证号前缀
func CardPrefix(year int) string {
	return fmt.Sprintf("LIB-%d-", year)
}

// FormatCardNumber 生成借书证号，如LIB-2026-0042
func FormatCardNumber(year, seq int) string {
	return fmt.Sprintf("%s%04d", CardPrefix(year), seq)
}

// Detail 读者详情（基础信息 + 首选分馆名称 + 借阅统计）
type Detail struct {
	*Customer
	PreferredBranchName string
	ActiveLoanCount     int64
	TotalLoanCount      int64
}
