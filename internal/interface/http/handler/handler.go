// Package handler HTTP处理器：参数绑定 → 调用用例 → 组装响应
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// pathID 解析路径参数:id，非法时写入错误响应并返回false
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.NewField(apperrors.ErrCodeInvalidParams, "id", "ID必须是正整数"))
		return 0, false
	}
	return uint(id), true
}

// page 把用例分页结果转换为分页响应
func page[T, R any](c *gin.Context, items []T, total int64, pageNo, pageSize int, convert func(T) R) {
	list := make([]R, 0, len(items))
	for _, it := range items {
		list = append(list, convert(it))
	}
	response.SuccessWithPage(c, list, total, pageNo, pageSize)
}
