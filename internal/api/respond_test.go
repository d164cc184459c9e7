package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// 成功响应和错误响应一样回显请求关联 id。
func TestSuccessResponseEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, gin.H{"status": "done"})
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-xyz-789")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var response struct {
		RequestID string            `json:"request_id"`
		Data      map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.RequestID != "req-xyz-789" {
		t.Fatalf("expected request_id in success payload, got %q", response.RequestID)
	}
	if response.Data["status"] != "done" {
		t.Fatalf("payload body must sit under data, got %v", response.Data)
	}
}
