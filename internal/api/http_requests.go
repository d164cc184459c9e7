package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopdesk/internal/entity"
	"shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SubmitAccountRequest 公共端点，提交开通账号申请
func (h *HTTPHandler) SubmitAccountRequest(c *gin.Context) {
	var req entity.AccountRequestSubmit
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.accountService.SubmitRequest(ctx, req.CenterName, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			BadRequest(c, err.Error())
			return
		}
		logrus.WithError(err).Error("failed to submit account request")
		InternalError(c, "failed to submit request")
		return
	}

	SuccessResponse(c, http.StatusCreated, makeRequestSummary(record))
}

// ListAccountRequests 超级管理员查看申请列表
func (h *HTTPHandler) ListAccountRequests(c *gin.Context) {
	var query entity.AccountRequestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, meta, err := h.repo.ListAdminRequests(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list account requests")
		InternalError(c, "failed to list requests")
		return
	}

	summaries := make([]entity.AccountRequestSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, *makeRequestSummary(&records[i]))
	}

	SuccessResponse(c, http.StatusOK, entity.AccountRequestListResponse{Requests: summaries, Meta: meta})
}

// DecideAccountRequest 超级管理员审批申请。approved / rejected 为终态，
// 重复审批返回 409。
func (h *HTTPHandler) DecideAccountRequest(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || requestID == 0 {
		BadRequest(c, "invalid request id")
		return
	}

	var req entity.AccountDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	principal := CurrentPrincipal(c)
	decidedBy := ""
	if principal != nil {
		decidedBy = principal.Username
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, user, err := h.accountService.Decide(ctx, uint(requestID), req.Action, req.CenterID, decidedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			BadRequest(c, err.Error())
		case errors.Is(err, service.ErrNotFound):
			NotFound(c, "request not found")
		case errors.Is(err, service.ErrConflict):
			Conflict(c, err.Error())
		default:
			logrus.WithError(err).WithField("request_id", requestID).Error("failed to decide account request")
			InternalError(c, "failed to decide request")
		}
		return
	}

	SuccessResponse(c, http.StatusOK, entity.AccountDecisionResponse{
		Request: *makeRequestSummary(record),
		User:    makeAdminSummary(user),
	})
}

func makeRequestSummary(record *entity.DbAdminRequest) *entity.AccountRequestSummary {
	if record == nil {
		return nil
	}
	return &entity.AccountRequestSummary{
		ID:         record.ID,
		Username:   record.Username,
		CenterName: record.CenterName,
		Status:     record.Status,
		CenterID:   record.CenterID,
		ApprovedAt: record.ApprovedAt,
		ApprovedBy: record.ApprovedBy,
		CreatedAt:  record.CreatedAt,
	}
}
