//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCirculation 借出 → 无副本拒绝 → 归还 → 删除借阅与图书
func TestCirculation(t *testing.T) {
	s := Login(t)

	authorID := Create(t, s, "/authors", map[string]string{"first_name": "Octavia", "last_name": "Butler"})
	bookID := Create(t, s, "/books", map[string]interface{}{
		"title": "Kindred", "isbn": TestISBN(), "author_id": authorID,
		"total_copies": 1, "available_copies": 1,
	})
	first := Create(t, s, "/customers", map[string]string{"first_name": "Ada", "last_name": "L", "email": TestEmail("ada")})
	second := Create(t, s, "/customers", map[string]string{"first_name": "Alan", "last_name": "T", "email": TestEmail("alan")})

	var loanID uint
	t.Run("借出最后一个副本", func(t *testing.T) {
		loanID = Create(t, s, "/loans", map[string]interface{}{"book_id": bookID, "customer_id": first})
	})

	t.Run("无可借副本", func(t *testing.T) {
		resp := Do(t, s, http.MethodPost, "/loans", map[string]interface{}{"book_id": bookID, "customer_id": second})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
		require.NotEmpty(t, resp.Errors)
		assert.Equal(t, "book_id", resp.Errors[0].Field)
	})

	t.Run("按期归还无罚金", func(t *testing.T) {
		resp := Do(t, s, http.MethodPost, fmt.Sprintf("/loans/%d/return", loanID), map[string]interface{}{})
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)

		var l struct {
			Status     string `json:"status"`
			FineAmount string `json:"fine_amount"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &l))
		assert.Equal(t, "Returned", l.Status)
		assert.Equal(t, "0.00", l.FineAmount)
	})

	t.Run("清理", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, Do(t, s, http.MethodDelete, fmt.Sprintf("/loans/%d", loanID), nil).Status)
		assert.Equal(t, http.StatusOK, Do(t, s, http.MethodDelete, fmt.Sprintf("/books/%d", bookID), nil).Status)
		assert.Equal(t, http.StatusOK, Do(t, s, http.MethodDelete, fmt.Sprintf("/authors/%d", authorID), nil).Status)
	})
}

// TestDashboard 首页统计可访问
func TestDashboard(t *testing.T) {
	s := Login(t)
	resp := Do(t, s, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, 0, resp.Code)
}
