package branch

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrBranchNotFound = apperrors.New(apperrors.ErrCodeBranchNotFound, "分馆不存在")

	ErrBranchHasBooks = apperrors.New(apperrors.ErrCodeDeleteRestricted, "该分馆还有馆藏图书，请先调整图书所属分馆")

	ErrBranchHasActiveLoans = apperrors.New(apperrors.ErrCodeDeleteRestricted, "该分馆还有未归还的借阅，请先处理相关借阅")
)
