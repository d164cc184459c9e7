package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shopdesk/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// requireScope 解析当前会话的租户范围。访问码会话没有 center_id，
// 对租户数据一律 403。
func requireScope(c *gin.Context) (centerID string, ok bool) {
	principal := CurrentPrincipal(c)
	centerID, ok = principal.Scope()
	if !ok {
		Forbidden(c, "this session cannot access center data")
	}
	return centerID, ok
}

// resolveWriteCenter 确定写入记录归属的门店。普通管理员固定写入自己
// 门店；超级管理员通过 center_id 查询参数指定。
func resolveWriteCenter(c *gin.Context) (string, bool) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "no active session")
		return "", false
	}
	if principal.IsSuperadmin {
		centerID := strings.TrimSpace(c.Query("center_id"))
		if centerID == "" {
			MissingField(c, "center_id")
			return "", false
		}
		return centerID, true
	}
	if principal.CenterID == "" {
		Forbidden(c, "this session cannot access center data")
		return "", false
	}
	return principal.CenterID, true
}

func parseRecordID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (h *HTTPHandler) CreateReceipt(c *gin.Context) {
	centerID, ok := resolveWriteCenter(c)
	if !ok {
		return
	}

	var req entity.ReceiptCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	receipt := &entity.DbReceipt{
		CenterID:      centerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		ItemName:      strings.TrimSpace(req.ItemName),
		Amount:        req.Amount,
		Memo:          req.Memo,
		PhotoURLs:     entity.StringArray(req.PhotoURLs),
	}
	if err := h.repo.CreateReceipt(ctx, receipt); err != nil {
		logrus.WithError(err).Error("failed to create receipt")
		InternalError(c, "failed to create receipt")
		return
	}

	SuccessResponse(c, http.StatusCreated, makeReceiptItem(receipt))
}

func (h *HTTPHandler) ListReceipts(c *gin.Context) {
	centerID, ok := requireScope(c)
	if !ok {
		return
	}

	var query entity.ReceiptQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	receipts, meta, err := h.repo.ListReceipts(ctx, centerID, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list receipts")
		InternalError(c, "failed to list receipts")
		return
	}

	items := make([]entity.ReceiptItem, 0, len(receipts))
	for i := range receipts {
		items = append(items, *makeReceiptItem(&receipts[i]))
	}

	SuccessResponse(c, http.StatusOK, entity.ReceiptListResponse{Receipts: items, Meta: meta})
}

func (h *HTTPHandler) GetReceipt(c *gin.Context) {
	centerID, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	receipt, err := h.repo.GetReceipt(ctx, id, centerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "receipt not found")
			return
		}
		logrus.WithError(err).Error("failed to load receipt")
		InternalError(c, "failed to load receipt")
		return
	}

	SuccessResponse(c, http.StatusOK, makeReceiptItem(receipt))
}

func (h *HTTPHandler) UpdateReceipt(c *gin.Context) {
	centerID, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	var req entity.ReceiptUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.ReceiptUpdates{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ItemName:      req.ItemName,
		Amount:        req.Amount,
		Memo:          req.Memo,
	}
	if req.PhotoURLs != nil {
		urls := entity.StringArray(*req.PhotoURLs)
		updates.PhotoURLs = &urls
	}
	if updates.IsEmpty() {
		BadRequest(c, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateReceipt(ctx, id, centerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "receipt not found")
			return
		}
		logrus.WithError(err).Error("failed to update receipt")
		InternalError(c, "failed to update receipt")
		return
	}

	receipt, err := h.repo.GetReceipt(ctx, id, centerID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload receipt")
		InternalError(c, "failed to update receipt")
		return
	}

	SuccessResponse(c, http.StatusOK, makeReceiptItem(receipt))
}

func (h *HTTPHandler) DeleteReceipt(c *gin.Context) {
	centerID, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteReceipt(ctx, id, centerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "receipt not found")
			return
		}
		logrus.WithError(err).Error("failed to delete receipt")
		InternalError(c, "failed to delete receipt")
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"status": "ok"})
}

func makeReceiptItem(receipt *entity.DbReceipt) *entity.ReceiptItem {
	if receipt == nil {
		return nil
	}
	return &entity.ReceiptItem{
		ID:            receipt.ID,
		CenterID:      receipt.CenterID,
		CustomerName:  receipt.CustomerName,
		CustomerPhone: receipt.CustomerPhone,
		ItemName:      receipt.ItemName,
		Amount:        receipt.Amount,
		Memo:          receipt.Memo,
		PhotoURLs:     receipt.PhotoURLs,
		CreatedAt:     receipt.CreatedAt,
		UpdatedAt:     receipt.UpdatedAt,
	}
}
