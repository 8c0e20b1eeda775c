package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已被其他图书使用（字段级）
	ErrISBNDuplicate = apperrors.NewField(apperrors.ErrCodeISBNDuplicate, "isbn", "ISBN号已被其他图书使用")

	// ErrNoAvailableCopies 没有可借副本
	ErrNoAvailableCopies = apperrors.New(apperrors.ErrCodeNoAvailableCopies, "该图书当前没有可借副本")

	// ErrBookOnLoan 图书有未归还借阅
	ErrBookOnLoan = apperrors.New(apperrors.ErrCodeDeleteRestricted, "该图书还有未归还的借阅，无法删除")

	// ErrBookHasLoanHistory 图书有历史借阅记录
	ErrBookHasLoanHistory = apperrors.New(apperrors.ErrCodeDeleteRestricted, "该图书存在历史借阅记录，请先删除相关借阅")

	ErrAuthorNotFound   = apperrors.NewField(apperrors.ErrCodeAuthorNotFound, "author_id", "作者不存在")
	ErrCategoryNotFound = apperrors.NewField(apperrors.ErrCodeCategoryNotFound, "category_id", "分类不存在")
	ErrBranchNotFound   = apperrors.NewField(apperrors.ErrCodeBranchNotFound, "library_branch_id", "分馆不存在")
)
