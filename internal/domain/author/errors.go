package author

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")

	// ErrAuthorHasBooks 作者名下还有图书
	ErrAuthorHasBooks = apperrors.New(apperrors.ErrCodeDeleteRestricted, "该作者名下还有图书，请先转移或删除相关图书")
)
