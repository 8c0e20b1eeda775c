package review

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "书评不存在")

	// ErrReviewDuplicate 同一读者对同一本书重复评论（挂在book_id上）
	ErrReviewDuplicate = apperrors.NewField(apperrors.ErrCodeReviewDuplicate, "book_id", "该读者已经评论过这本书")

	ErrBookNotFound     = apperrors.NewField(apperrors.ErrCodeBookNotFound, "book_id", "图书不存在")
	ErrCustomerNotFound = apperrors.NewField(apperrors.ErrCodeCustomerNotFound, "customer_id", "读者不存在")
)
