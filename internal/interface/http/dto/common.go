// Package dto HTTP请求/响应结构
//
// 响应采用组合：基础信息结构体嵌入到详情、列表等扩展结构体中，
// JSON输出时字段平铺。
package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// PageQuery 分页查询参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"10"`
}

// ToPage 转换为领域分页参数（未传时由用例按配置补齐）
func (q PageQuery) ToPage() shared.Page {
	return shared.Page{Page: q.Page, PageSize: q.PageSize}
}

// VersionField 编辑请求携带的版本号（加载记录时返回的version）
type VersionField struct {
	Version uint `json:"version" binding:"required,min=1" example:"1"`
}

// ParseDate 解析YYYY-MM-DD或RFC3339，空字符串返回nil
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, apperrors.NewField(apperrors.ErrCodeValidation, field, "日期格式应为YYYY-MM-DD")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatMoney(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
