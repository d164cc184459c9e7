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

func (h *HTTPHandler) CreateTicket(c *gin.Context) {
	centerID, ok := resolveWriteCenter(c)
	if !ok {
		return
	}

	var req entity.TicketCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		MissingField(c, "title")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ticket := &entity.DbTicket{
		CenterID: centerID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Status:   entity.TicketStatusOpen,
		Assignee: strings.TrimSpace(req.Assignee),
	}
	if err := h.repo.CreateTicket(ctx, ticket); err != nil {
		logrus.WithError(err).Error("failed to create ticket")
		InternalError(c, "failed to create ticket")
		return
	}

	SuccessResponse(c, http.StatusCreated, makeTicketItem(ticket))
}

func (h *HTTPHandler) ListTickets(c *gin.Context) {
	centerID, ok := requireScope(c)
	if !ok {
		return
	}

	var query entity.TicketQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tickets, meta, err := h.repo.ListTickets(ctx, centerID, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list tickets")
		InternalError(c, "failed to list tickets")
		return
	}

	items := make([]entity.TicketItem, 0, len(tickets))
	for i := range tickets {
		items = append(items, *makeTicketItem(&tickets[i]))
	}

	SuccessResponse(c, http.StatusOK, entity.TicketListResponse{Tickets: items, Meta: meta})
}

func (h *HTTPHandler) GetTicket(c *gin.Context) {
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

	ticket, err := h.repo.GetTicket(ctx, id, centerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "ticket not found")
			return
		}
		logrus.WithError(err).Error("failed to load ticket")
		InternalError(c, "failed to load ticket")
		return
	}

	SuccessResponse(c, http.StatusOK, makeTicketItem(ticket))
}

func (h *HTTPHandler) UpdateTicket(c *gin.Context) {
	centerID, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	var req entity.TicketUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case entity.TicketStatusOpen, entity.TicketStatusInProgress, entity.TicketStatusDone:
		default:
			BadRequest(c, "invalid status")
			return
		}
	}

	updates := entity.TicketUpdates{
		Title:    req.Title,
		Content:  req.Content,
		Status:   req.Status,
		Assignee: req.Assignee,
	}
	if updates.IsEmpty() {
		BadRequest(c, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateTicket(ctx, id, centerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "ticket not found")
			return
		}
		logrus.WithError(err).Error("failed to update ticket")
		InternalError(c, "failed to update ticket")
		return
	}

	ticket, err := h.repo.GetTicket(ctx, id, centerID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload ticket")
		InternalError(c, "failed to update ticket")
		return
	}

	SuccessResponse(c, http.StatusOK, makeTicketItem(ticket))
}

func (h *HTTPHandler) DeleteTicket(c *gin.Context) {
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

	if err := h.repo.DeleteTicket(ctx, id, centerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "ticket not found")
			return
		}
		logrus.WithError(err).Error("failed to delete ticket")
		InternalError(c, "failed to delete ticket")
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"status": "ok"})
}

func makeTicketItem(ticket *entity.DbTicket) *entity.TicketItem {
	if ticket == nil {
		return nil
	}
	return &entity.TicketItem{
		ID:        ticket.ID,
		CenterID:  ticket.CenterID,
		Title:     ticket.Title,
		Content:   ticket.Content,
		Status:    ticket.Status,
		Assignee:  ticket.Assignee,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}
