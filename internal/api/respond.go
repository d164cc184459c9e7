package api

import "github.com/gin-gonic/gin"

// APIResponse 统一的成功响应结构。request_id 与错误响应一致地回显，
// 成功路径的排障同样能跟日志对账。
type APIResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// SuccessResponse 返回统一格式的成功响应
func SuccessResponse(c *gin.Context, status int, data any) {
	c.JSON(status, APIResponse{
		RequestID: RequestID(c),
		Data:      data,
	})
}
