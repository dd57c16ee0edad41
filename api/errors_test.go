package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "ValidationError對應400",
			err:        &ValidationError{Message: "No image provided"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"No image provided"}`,
		},
		{
			name:       "DependencyError對應500且不洩漏內部錯誤",
			err:        &DependencyError{Message: "Operation Failed", Err: errors.New("pq: connection refused on 10.0.0.3")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Operation Failed"}`,
		},
		{
			name:       "未分類的錯誤對應500與通用訊息",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			abortWithError(c, "TestOp", tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}

func TestDependencyErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &DependencyError{Message: "outer", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "outer", err.Error())
}
