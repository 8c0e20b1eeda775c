package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithField_DoesNotMutateSentinel(t *testing.T) {
	sentinel := New(ErrCodeISBNDuplicate, "ISBN号已存在")

	derived := sentinel.WithField("isbn", "ISBN号已存在")

	assert.Empty(t, sentinel.Fields)
	assert.Len(t, derived.Fields, 1)
	assert.Equal(t, "isbn", derived.Fields[0].Field)
	assert.True(t, errors.Is(derived, sentinel), "派生错误仍应匹配预定义错误")
}

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", ErrVersionConflict)

	assert.True(t, IsCode(wrapped, ErrCodeVersionConflict))
	assert.False(t, IsCode(wrapped, ErrCodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeInternal))
}

func TestGetAppError_WrapsPlainError(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))

	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.EqualError(t, appErr.Err, "boom")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[int]int{
		0:                        http.StatusOK,
		ErrCodeValidation:        http.StatusBadRequest,
		ErrCodeBindError:         http.StatusBadRequest,
		ErrCodeNoAvailableCopies: http.StatusUnprocessableEntity,
		ErrCodeDeleteRestricted:  http.StatusUnprocessableEntity,
		ErrCodeLoanNotFound:      http.StatusNotFound,
		ErrCodeVersionConflict:   http.StatusConflict,
		ErrCodeUnauthorized:      http.StatusUnauthorized,
		ErrCodeForbidden:         http.StatusForbidden,
		ErrCodeCSRFInvalid:       http.StatusForbidden,
		ErrCodeTooManyRequests:   http.StatusTooManyRequests,
		ErrCodeDatabaseError:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), "code=%d", code)
	}
}

func TestValidation_CollectsFields(t *testing.T) {
	err := Validation(
		FieldError{Field: "title", Message: "书名不能为空"},
		FieldError{Field: "available_copies", Message: "可借数量不能大于总数量"},
	)

	assert.Equal(t, ErrCodeValidation, err.Code)
	assert.Len(t, err.Fields, 2)
	assert.Contains(t, err.Error(), "title")
}
