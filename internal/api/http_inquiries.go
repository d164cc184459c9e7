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

func (h *HTTPHandler) CreateInquiry(c *gin.Context) {
	centerID, ok := resolveWriteCenter(c)
	if !ok {
		return
	}

	var req entity.InquiryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		MissingField(c, "content")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	inquiry := &entity.DbInquiry{
		CenterID:      centerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Content:       strings.TrimSpace(req.Content),
		Status:        entity.InquiryStatusOpen,
	}
	if err := h.repo.CreateInquiry(ctx, inquiry); err != nil {
		logrus.WithError(err).Error("failed to create inquiry")
		InternalError(c, "failed to create inquiry")
		return
	}

	SuccessResponse(c, http.StatusCreated, makeInquiryItem(inquiry))
}

func (h *HTTPHandler) ListInquiries(c *gin.Context) {
	centerID, ok := requireScope(c)
	if !ok {
		return
	}

	var query entity.InquiryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	inquiries, meta, err := h.repo.ListInquiries(ctx, centerID, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list inquiries")
		InternalError(c, "failed to list inquiries")
		return
	}

	items := make([]entity.InquiryItem, 0, len(inquiries))
	for i := range inquiries {
		items = append(items, *makeInquiryItem(&inquiries[i]))
	}

	SuccessResponse(c, http.StatusOK, entity.InquiryListResponse{Inquiries: items, Meta: meta})
}

func (h *HTTPHandler) GetInquiry(c *gin.Context) {
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

	inquiry, err := h.repo.GetInquiry(ctx, id, centerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "inquiry not found")
			return
		}
		logrus.WithError(err).Error("failed to load inquiry")
		InternalError(c, "failed to load inquiry")
		return
	}

	SuccessResponse(c, http.StatusOK, makeInquiryItem(inquiry))
}

func (h *HTTPHandler) UpdateInquiry(c *gin.Context) {
	centerID, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	var req entity.InquiryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case entity.InquiryStatusOpen, entity.InquiryStatusAnswered, entity.InquiryStatusClosed:
		default:
			BadRequest(c, "invalid status")
			return
		}
	}

	updates := entity.InquiryUpdates{Status: req.Status, Answer: req.Answer}
	if updates.IsEmpty() {
		BadRequest(c, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateInquiry(ctx, id, centerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "inquiry not found")
			return
		}
		logrus.WithError(err).Error("failed to update inquiry")
		InternalError(c, "failed to update inquiry")
		return
	}

	inquiry, err := h.repo.GetInquiry(ctx, id, centerID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload inquiry")
		InternalError(c, "failed to update inquiry")
		return
	}

	SuccessResponse(c, http.StatusOK, makeInquiryItem(inquiry))
}

func (h *HTTPHandler) DeleteInquiry(c *gin.Context) {
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

	if err := h.repo.DeleteInquiry(ctx, id, centerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "inquiry not found")
			return
		}
		logrus.WithError(err).Error("failed to delete inquiry")
		InternalError(c, "failed to delete inquiry")
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"status": "ok"})
}

func makeInquiryItem(inquiry *entity.DbInquiry) *entity.InquiryItem {
	if inquiry == nil {
		return nil
	}
	return &entity.InquiryItem{
		ID:            inquiry.ID,
		CenterID:      inquiry.CenterID,
		CustomerName:  inquiry.CustomerName,
		CustomerPhone: inquiry.CustomerPhone,
		Content:       inquiry.Content,
		Status:        inquiry.Status,
		Answer:        inquiry.Answer,
		CreatedAt:     inquiry.CreatedAt,
		UpdatedAt:     inquiry.UpdatedAt,
	}
}
