// Package shared 领域层公共约定：分页参数、字段校验收集器
package shared

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Page 分页参数（页码从1开始）
type Page struct {
	Page     int
	PageSize int
}

// Offset 计算偏移量
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Normalize 修正非法分页参数
func (p Page) Normalize(defaultSize int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Checker 字段校验收集器
// 用法：
//
//	var c shared.Checker
//	c.Required("name", f.Name)
//	c.Length("name", f.Name, 2, 100)
//	return c.Err()
type Checker struct {
	fields []apperrors.FieldError
}

// Add 追加字段错误
func (c *Checker) Add(field, message string) {
	c.fields = append(c.fields, apperrors.FieldError{Field: field, Message: message})
}

// Required 必填
func (c *Checker) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.Add(field, "不能为空")
		return false
	}
	return true
}

// MaxLen 最大长度（按字符数）
func (c *Checker) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		c.Add(field, "长度不能超过"+strconv.Itoa(max))
	}
}

// Length 长度区间（按字符数）
func (c *Checker) Length(field, value string, min, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < min || n > max {
		c.Add(field, "长度必须在"+strconv.Itoa(min)+"-"+strconv.Itoa(max)+"之间")
	}
}

// Email 邮箱格式（空值跳过）
func (c *Checker) Email(field, value string) {
	if value == "" {
		return
	}
	if validate.Var(value, "email") != nil {
		c.Add(field, "邮箱格式不正确")
	}
}

// URL 链接格式（空值跳过）
func (c *Checker) URL(field, value string) {
	if value != "" && validate.Var(value, "url") != nil {
		c.Add(field, "URL格式不正确")
	}
}

var validate = validator.New()

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\-\s()]{5,19}$`)

// Phone 电话格式（空值跳过）
func (c *Checker) Phone(field, value string) {
	if value != "" && !phonePattern.MatchString(value) {
		c.Add(field, "电话格式不正确")
	}
}

// Range 整数区间
func (c *Checker) Range(field string, value, min, max int) {
	if value < min || value > max {
		c.Add(field, "取值必须在"+strconv.Itoa(min)+"-"+strconv.Itoa(max)+"之间")
	}
}

// Err 有字段错误时返回校验错误
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return apperrors.Validation(c.fields...)
}

// Exister 按ID判断记录是否存在（跨聚合引用校验用）
type Exister interface {
	Exists(ctx context.Context, id uint) (bool, error)
}
