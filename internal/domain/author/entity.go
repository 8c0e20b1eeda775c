package author

import (
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Author 作者实体
type Author struct {
	ID          uint
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Nationality string
	Biography   string
	Email       string // 联系方式
	IsActive    bool
	Version     uint // 乐观锁版本号，从1开始
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields 创建/编辑作者时的输入
type Fields struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Nationality string
	Biography   string
	Email       string
	IsActive    bool
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
	c.MaxLen("nationality", f.Nationality, 50)
	c.MaxLen("biography", f.Biography, 2000)
	c.Email("email", f.Email)
	if f.DateOfBirth != nil && f.DateOfBirth.After(time.Now()) {
		c.Add("date_of_birth", "出生日期不能晚于今天")
	}
	return c.Err()
}

// NewAuthor 创建作者（工厂方法）
func NewAuthor(f Fields) *Author {
	now := time.Now()
	a := &Author{Version: 1, CreatedAt: now}
	a.apply(f, now)
	return a
}

// Apply 编辑作者信息
func (a *Author) Apply(f Fields) {
	a.apply(f, time.Now())
}

func (a *Author) apply(f Fields, now time.Time) {
	a.FirstName = strings.TrimSpace(f.FirstName)
	a.LastName = strings.TrimSpace(f.LastName)
	a.DateOfBirth = f.DateOfBirth
	a.Nationality = strings.TrimSpace(f.Nationality)
	a.Biography = f.Biography
	a.Email = strings.TrimSpace(f.Email)
	a.IsActive = f.IsActive
	a.UpdatedAt = now
}

// FullName 全名
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Detail 作者详情（基础信息 + 图书数量）
type Detail struct {
	*Author
	BookCount int64
}
