package customer

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrCustomerNotFound = apperrors.New(apperrors.ErrCodeCustomerNotFound, "读者不存在")

	ErrEmailDuplicate = apperrors.NewField(apperrors.ErrCodeEmailDuplicate, "email", "该邮箱已被其他读者使用")

	ErrCardNumberDuplicate = apperrors.NewField(apperrors.ErrCodeCardNumberDuplicate, "library_card_number", "借书证号已存在")

	ErrBranchNotFound = apperrors.NewField(apperrors.ErrCodeBranchNotFound, "preferred_branch_id", "分馆不存在")

	ErrCustomerHasActiveLoans = apperrors.New(apperrors.ErrCodeDeleteRestricted, "该读者还有未归还的借阅，无法删除")

	ErrCustomerHasLoanHistory = apperrors.New(apperrors.ErrCodeDeleteRestricted, "该读者存在历史借阅记录，请先删除相关借阅")
)
