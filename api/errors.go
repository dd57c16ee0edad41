package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidationError 代表客戶端輸入不合法，對應到HTTP 400
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DependencyError 代表外部依賴(物件儲存、AI供應商或資料庫)失敗，
// 對應到HTTP 500；Message 是返回給客戶端的訊息，Err 只會進入log
type DependencyError struct {
	Message string
	Err     error
}

func (e *DependencyError) Error() string {
	return e.Message
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// abortWithError 將錯誤分類並轉換為對應的HTTP回應
// 內部錯誤細節只寫入log，不會洩漏給客戶端
func abortWithError(c *gin.Context, op string, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		return
	}
	var dErr *DependencyError
	if errors.As(err, &dErr) {
		slog.Error("Dependency failure", slog.String("op", op), slog.Any("error", dErr.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": dErr.Message})
		return
	}
	slog.Error("Unexpected failure", slog.String("op", op), slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
