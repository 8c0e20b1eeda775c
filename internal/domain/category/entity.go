package category

import (
	"regexp"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Category 图书分类
type Category struct {
	ID           uint
	Name         string // 唯一（不区分大小写）
	Description  string
	IconClass    string
	ColorCode    string // #RRGGBB
	DisplayOrder int
	IsActive     bool
	Version      uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fields 创建/编辑分类时的输入
type Fields struct {
	Name         string
	Description  string
	IconClass    string
	ColorCode    string
	DisplayOrder int
	IsActive     bool
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate 字段校验
func (f Fields) Validate() error {
	var c shared.Checker
	if c.Required("name", f.Name) {
		c.Length("name", f.Name, 2, 100)
	}
	c.MaxLen("description", f.Description, 500)
	c.MaxLen("icon_class", f.IconClass, 50)
	if f.ColorCode != "" && !colorPattern.MatchString(f.ColorCode) {
		c.Add("color_code", "颜色必须是#RRGGBB格式")
	}
	c.Range("display_order", f.DisplayOrder, 0, 1000)
	return c.Err()
}

// NewCategory 创建分类
func NewCategory(f Fields) *Category {
	now := time.Now()
	c := &Category{Version: 1, CreatedAt: now}
	c.apply(f, now)
	return c
}

// Apply 编辑分类
func (c *Category) Apply(f Fields) {
	c.apply(f, time.Now())
}

func (c *Category) apply(f Fields, now time.Time) {
	c.Name = strings.TrimSpace(f.Name)
	c.Description = f.Description
	c.IconClass = f.IconClass
	c.ColorCode = f.ColorCode
	c.DisplayOrder = f.DisplayOrder
	c.IsActive = f.IsActive
	c.UpdatedAt = now
}

// Detail 分类详情（基础信息 + 图书数量）
type Detail struct {
	*Category
	BookCount int64
}
