package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"shopdesk/internal/auth"
	"shopdesk/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		BadRequest(c, "username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetAdminUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("username", username).Error("failed to load admin user for login")
			InternalError(c, "failed to process login")
			return
		}
		logrus.WithField("username", username).Warn("login attempt for unknown user")
		Unauthorized(c, "invalid username or password")
		return
	}

	if !user.IsActive {
		Forbidden(c, "account is disabled")
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		logrus.WithField("username", username).Warn("password verification failed")
		Unauthorized(c, "invalid username or password")
		return
	}

	token, expiresAt, err := h.authManager.GenerateToken(user, req.Remember)
	if err != nil {
		logrus.WithError(err).Error("failed to generate session token")
		InternalError(c, "failed to create session")
		return
	}

	h.setSessionCookie(c, token, expiresAt)
	SuccessResponse(c, http.StatusOK, entity.AuthResponse{
		ExpiresAt: expiresAt,
		User:      makeAdminSummary(user),
	})
}

// LoginWithAccessCode 访问码登录，签发不携带用户与门店信息的受限会话
func (h *HTTPHandler) LoginWithAccessCode(c *gin.Context) {
	var req entity.AuthAccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	configured := strings.TrimSpace(h.cfg.AdminAccessCode)
	supplied := strings.TrimSpace(req.Code)
	if configured == "" {
		Forbidden(c, "access code login is disabled")
		return
	}
	if subtle.ConstantTimeCompare([]byte(configured), []byte(supplied)) != 1 {
		logrus.WithField("ip", c.ClientIP()).Warn("access code login rejected")
		Unauthorized(c, "invalid access code")
		return
	}

	token, expiresAt, err := h.authManager.GenerateAccessCodeToken()
	if err != nil {
		logrus.WithError(err).Error("failed to generate access code token")
		InternalError(c, "failed to create session")
		return
	}

	h.setSessionCookie(c, token, expiresAt)
	SuccessResponse(c, http.StatusOK, entity.AuthResponse{ExpiresAt: expiresAt})
}

func (h *HTTPHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	SuccessResponse(c, http.StatusOK, gin.H{"status": "ok"})
}

// Me 返回当前会话的身份信息
func (h *HTTPHandler) Me(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "no active session")
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"user_id":       principal.UserID,
		"username":      principal.Username,
		"center_id":     principal.CenterID,
		"is_superadmin": principal.IsSuperadmin,
	})
}

func makeAdminSummary(user *entity.DbAdminUser) *entity.AdminSummary {
	if user == nil {
		return nil
	}
	return &entity.AdminSummary{
		ID:           user.ID,
		Username:     user.Username,
		CenterID:     user.CenterID,
		IsActive:     user.IsActive,
		IsSuperadmin: user.IsSuperadmin,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
