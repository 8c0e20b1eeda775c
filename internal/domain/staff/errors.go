package staff

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrStaffNotFound = apperrors.New(apperrors.ErrCodeStaffNotFound, "工作人员不存在")

	ErrEmailDuplicate = apperrors.NewField(apperrors.ErrCodeEmailDuplicate, "email", "该邮箱已注册")

	// ErrWeakPassword 密码强度不足：8-64位，必须同时包含字母和数字
	ErrWeakPassword = apperrors.NewField(apperrors.ErrCodeWeakPassword, "password", "密码至少8位，且必须包含字母和数字")

	ErrInvalidRole = apperrors.NewField(apperrors.ErrCodeValidation, "role", "角色必须是admin或librarian")

	ErrStaffDisabled = apperrors.New(apperrors.ErrCodeForbidden, "账号已停用")
)
