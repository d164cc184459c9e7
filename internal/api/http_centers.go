package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"shopdesk/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListCenters 门店目录，仅超级管理员可见。申请人只提交自由文本的门店
// 名称，租户 id 和编码不对外公开。
func (h *HTTPHandler) ListCenters(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	centers, err := h.repo.ListCenters(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list centers")
		InternalError(c, "failed to list centers")
		return
	}

	summaries := make([]entity.CenterSummary, 0, len(centers))
	for _, center := range centers {
		summaries = append(summaries, entity.CenterSummary{
			ID:   center.ID,
			Name: center.Name,
			Code: center.Code,
		})
	}

	SuccessResponse(c, http.StatusOK, entity.CenterListResponse{Centers: summaries})
}

// GetCenter 按 id 查询门店，仅超级管理员可见
func (h *HTTPHandler) GetCenter(c *gin.Context) {
	centerID := strings.TrimSpace(c.Param("id"))
	if centerID == "" {
		BadRequest(c, "invalid center id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	center, err := h.repo.GetCenter(ctx, centerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "center not found")
			return
		}
		logrus.WithError(err).WithField("center_id", centerID).Error("failed to load center")
		InternalError(c, "failed to load center")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.CenterSummary{
		ID:   center.ID,
		Name: center.Name,
		Code: center.Code,
	})
}
