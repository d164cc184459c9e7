package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shopdesk/internal/auth"
	"shopdesk/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListAdmins 超级管理员查看账户列表
func (h *HTTPHandler) ListAdmins(c *gin.Context) {
	var query entity.AdminQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, meta, err := h.repo.ListAdminUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list admin users")
		InternalError(c, "failed to list admins")
		return
	}

	summaries := make([]entity.AdminSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, *makeAdminSummary(&users[i]))
	}

	SuccessResponse(c, http.StatusOK, entity.AdminListResponse{Admins: summaries, Meta: meta})
}

// CreateAdmin 超级管理员直接开设账户，不经申请流程
func (h *HTTPHandler) CreateAdmin(c *gin.Context) {
	var req entity.AdminCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		MissingField(c, "username")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetCenter(ctx, req.CenterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			BadRequest(c, "unknown center")
			return
		}
		logrus.WithError(err).Error("failed to load center")
		InternalError(c, "failed to create admin")
		return
	}

	if _, err := h.repo.GetAdminUserByUsername(ctx, username); err == nil {
		Conflict(c, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("failed to check username")
		InternalError(c, "failed to create admin")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		InternalError(c, "failed to create admin")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &entity.DbAdminUser{
		Username:     username,
		PasswordHash: hash,
		CenterID:     req.CenterID,
		IsActive:     isActive,
	}
	if err := h.repo.CreateAdminUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "username already taken")
			return
		}
		logrus.WithError(err).Error("failed to create admin user")
		InternalError(c, "failed to create admin")
		return
	}

	SuccessResponse(c, http.StatusCreated, makeAdminSummary(user))
}

// SetAdminActive 超级管理员启用或停用账户
func (h *HTTPHandler) SetAdminActive(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || userID == 0 {
		BadRequest(c, "invalid admin id")
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	principal := CurrentPrincipal(c)
	if principal != nil && principal.UserID == uint(userID) && req.IsActive != nil && !*req.IsActive {
		BadRequest(c, "cannot deactivate your own account")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetAdminUserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "admin not found")
			return
		}
		logrus.WithError(err).Error("failed to load admin user")
		InternalError(c, "failed to update admin")
		return
	}

	if err := h.repo.UpdateAdminUser(ctx, user.ID, entity.AdminUserUpdates{IsActive: req.IsActive}); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to update admin user")
		InternalError(c, "failed to update admin")
		return
	}

	user.IsActive = *req.IsActive
	SuccessResponse(c, http.StatusOK, makeAdminSummary(user))
}
