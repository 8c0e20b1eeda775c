package loan

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	ErrLoanNotFound = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在")

	// ErrLoanNotReturnable 只有借出中或已逾期的借阅可以归还
	ErrLoanNotReturnable = apperrors.New(apperrors.ErrCodeLoanNotReturnable, "该借阅不是借出状态，无法归还")

	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidStatus, "借阅状态流转非法")

	// ErrNoAvailableCopies 借书时没有可借副本（挂在book_id上）
	ErrNoAvailableCopies = apperrors.NewField(apperrors.ErrCodeNoAvailableCopies, "book_id", "该图书当前没有可借副本")

	// ErrCustomerHasOverdue 读者有逾期借阅，禁止借书（挂在customer_id上）
	ErrCustomerHasOverdue = apperrors.NewField(apperrors.ErrCodeCustomerHasOverdue, "customer_id", "该读者有逾期未还的图书，请先归还后再借")

	ErrBranchNotFound = apperrors.NewField(apperrors.ErrCodeBranchNotFound, "library_branch_id", "分馆不存在")

	ErrDueBeforeLoan    = apperrors.NewField(apperrors.ErrCodeValidation, "due_date", "应还日期必须晚于借书日期")
	ErrReturnBeforeLoan = apperrors.NewField(apperrors.ErrCodeValidation, "return_date", "归还日期不能早于借书日期")
	ErrNegativeFine     = apperrors.NewField(apperrors.ErrCodeValidation, "fine_amount", "罚金不能为负数")
	ErrNotesTooLong     = apperrors.NewField(apperrors.ErrCodeValidation, "notes", "长度不能超过500")
)
