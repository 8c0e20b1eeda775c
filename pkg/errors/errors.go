package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，HTTP状态码由HTTPStatus(Code)推导
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
// 4. Fields携带字段级校验错误（表单逐字段提示）
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError 字段级错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("[%d] %s: %s %s", e.Code, e.Message, e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，预定义错误经WithField派生后仍可用errors.Is识别
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithField 派生一个携带字段信息的副本（不修改预定义错误本身）
func (e *AppError) WithField(field, message string) *AppError {
	cp := *e
	cp.Fields = append(append([]FieldError(nil), e.Fields...), FieldError{Field: field, Message: message})
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewField 创建带单个字段错误的AppError
func NewField(code int, field, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// Validation 汇总多个字段校验错误
func Validation(fields ...FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "参数校验失败",
		Fields:  fields,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapDB 包装数据库错误
func WrapDB(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// WrapRedis 包装Redis错误
func WrapRedis(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeRedisError,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx: 业务规则校验失败
// - 401xx: 认证授权
// - 404xx: 资源不存在
// - 409xx: 参数错误
// - 429xx: 请求过于频繁
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeMQError       = 50003 // 消息队列错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限
	ErrCodeCSRFInvalid     = 40105 // 防伪令牌无效

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeStaffNotFound    = 40401 // 工作人员不存在
	ErrCodeBookNotFound     = 40402 // 图书不存在
	ErrCodeLoanNotFound     = 40403 // 借阅记录不存在
	ErrCodeAuthorNotFound   = 40404 // 作者不存在
	ErrCodeCategoryNotFound = 40405 // 分类不存在
	ErrCodeBranchNotFound   = 40406 // 分馆不存在
	ErrCodeCustomerNotFound = 40407 // 读者不存在
	ErrCodeReviewNotFound   = 40408 // 书评不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError         = 40000 // 业务错误(通用)
	ErrCodeNoAvailableCopies     = 40001 // 无可借副本
	ErrCodeLoanNotReturnable     = 40002 // 借阅状态不允许归还
	ErrCodeEmailDuplicate        = 40003 // 邮箱已存在
	ErrCodeISBNDuplicate         = 40004 // ISBN已存在
	ErrCodeWeakPassword          = 40005 // 密码强度不足
	ErrCodeCustomerHasOverdue    = 40006 // 读者有逾期借阅
	ErrCodeDeleteRestricted      = 40007 // 存在关联记录，禁止删除
	ErrCodeCategoryNameDuplicate = 40008 // 分类名称已存在
	ErrCodeDuplicateEntry        = 40009 // 重复记录(通用)
	ErrCodeCardNumberDuplicate   = 40010 // 借书证号已存在
	ErrCodeReviewDuplicate       = 40011 // 重复书评
	ErrCodeInvalidStatus         = 40012 // 状态流转非法
	ErrCodeVersionConflict       = 40020 // 并发修改冲突

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
	ErrCodeValidation    = 40902 // 字段校验失败

	// 限流（42900-42999）
	ErrCodeTooManyRequests = 42900 // 请求过于频繁
)

// =========================================
// 预定义错误
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")
	ErrCSRFInvalid     = New(ErrCodeCSRFInvalid, "防伪令牌缺失或无效")

	// 限流
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁，请稍后再试")

	// 并发
	ErrVersionConflict = New(ErrCodeVersionConflict, "记录已被他人修改，请刷新后重试")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsCode 判断错误链中是否含有指定错误码
func IsCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// HTTPStatus 错误码 → HTTP状态码
func HTTPStatus(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code == ErrCodeVersionConflict:
		return http.StatusConflict
	case code == ErrCodeForbidden || code == ErrCodeCSRFInvalid:
		return http.StatusForbidden
	case code >= 40100 && code < 40200:
		return http.StatusUnauthorized
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40900 && code < 41000:
		return http.StatusBadRequest
	case code >= 42900 && code < 43000:
		return http.StatusTooManyRequests
	case code >= 40000 && code < 40100:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
