package category

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrNameDuplicate 分类名称重复（字段级错误，挂在name上）
	ErrNameDuplicate = apperrors.NewField(apperrors.ErrCodeCategoryNameDuplicate, "name", "分类名称已存在")

	ErrCategoryHasBooks = apperrors.New(apperrors.ErrCodeDeleteRestricted, "该分类下还有图书，请先调整图书分类")
)
