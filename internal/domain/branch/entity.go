package branch

import (
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Branch 图书馆分馆
type Branch struct {
	ID           uint
	Name         string
	Address      string
	City         string
	State        string
	PostalCode   string
	Phone        string
	Email        string
	OpeningHours string
	IsActive     bool
	Version      uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fields 创建/编辑分馆时的输入
type Fields struct {
	Name         string
	Address      string
	City         string
	State        string
	PostalCode   string
	Phone        string
	Email        string
	OpeningHours string
	IsActive     bool
}

// Validate 字段校验
func (f Fields) Validate() error {
	var c shared.Checker
	if c.Required("name", f.Name) {
		c.MaxLen("name", f.Name, 100)
	}
	if c.Required("address", f.Address) {
		c.MaxLen("address", f.Address, 200)
	}
	c.MaxLen("city", f.City, 50)
	c.MaxLen("state", f.State, 50)
	c.MaxLen("postal_code", f.PostalCode, 20)
	c.Phone("phone", f.Phone)
	c.Email("email", f.Email)
	c.MaxLen("opening_hours", f.OpeningHours, 200)
	return c.Err()
}

// NewBranch 创建分馆
func NewBranch(f Fields) *Branch {
	now := time.Now()
	b := &Branch{Version: 1, CreatedAt: now}
	b.apply(f, now)
	return b
}

// Apply 编辑分馆
func (b *Branch) Apply(f Fields) {
	b.apply(f, time.Now())
}

func (b *Branch) apply(f Fields, now time.Time) {
	b.Name = strings.TrimSpace(f.Name)
	b.Address = strings.TrimSpace(f.Address)
	b.City = f.City
	b.State = f.State
	b.PostalCode = f.PostalCode
	b.Phone = f.Phone
	b.Email = f.Email
	b.OpeningHours = f.OpeningHours
	b.IsActive = f.IsActive
	b.UpdatedAt = now
}

// Detail 分馆详情
type Detail struct {
	*Branch
	BookCount       int64
	ActiveLoanCount int64
}
