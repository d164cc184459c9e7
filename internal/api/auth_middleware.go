package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	currentPrincipalContextKey = "current-principal"

	// SessionCookieName 会话 Cookie 名称
	SessionCookieName = "admin_session"
)

// Principal 存储请求上下文中的认证会话信息
type Principal struct {
	UserID       uint
	Username     string
	CenterID     string
	IsSuperadmin bool
}

// Scope 返回租户过滤所用的门店 ID。超级管理员返回空串表示不过滤；
// 普通会话缺少 center_id 时 ok 为 false，调用方应拒绝访问租户数据。
func (p *Principal) Scope() (centerID string, ok bool) {
	if p == nil {
		return "", false
	}
	if p.IsSuperadmin {
		return "", true
	}
	if p.CenterID == "" {
		return "", false
	}
	return p.CenterID, true
}

// SessionMiddleware 会话认证中间件，从 admin_session Cookie 解析令牌
func (h *HTTPHandler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:      ErrCodeUnauthenticated,
				Message:   "缺少会话凭证",
				RequestID: RequestID(c),
			})
			return
		}

		claims, err := h.authManager.VerifyToken(strings.TrimSpace(tokenString))
		if err != nil {
			logrus.WithError(err).Warn("failed to verify session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:      ErrCodeUnauthenticated,
				Message:   "会话无效或已过期",
				RequestID: RequestID(c),
			})
			return
		}

		principal := &Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
			CenterID: claims.CenterID,
		}

		// 访问码会话没有用户记录，直接放行；superadmin 标记只能来自数据库,
		// 不信任令牌自带的任何权限声明。
		if claims.UserID > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()

			user, err := h.repo.GetAdminUserByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
						Code:      ErrCodeUnauthenticated,
						Message:   "账户不存在",
						RequestID: RequestID(c),
					})
					return
				}
				logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load admin user")
				c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
					Code:      ErrCodeInternalError,
					Message:   "验证会话失败",
					RequestID: RequestID(c),
				})
				return
			}

			if !user.IsActive {
				c.AbortWithStatusJSON(http.StatusForbidden, APIError{
					Code:      ErrCodeForbidden,
					Message:   "账户已被停用",
					RequestID: RequestID(c),
				})
				return
			}

			principal.Username = user.Username
			principal.CenterID = user.CenterID
			principal.IsSuperadmin = user.IsSuperadmin
		}

		c.Set(currentPrincipalContextKey, principal)
		c.Next()
	}
}

// RequireSuperAdmin 超级管理员守卫中间件
func (h *HTTPHandler) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil || !principal.IsSuperadmin {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:      ErrCodeForbidden,
				Message:   "需要超级管理员权限",
				RequestID: RequestID(c),
			})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal 从上下文获取当前认证会话
func CurrentPrincipal(c *gin.Context) *Principal {
	value, exists := c.Get(currentPrincipalContextKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*Principal)
	if !ok {
		return nil
	}
	return principal
}

// setSessionCookie 写入会话 Cookie。生产环境强制 Secure。
func (h *HTTPHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", h.cfg.IsProduction(), true)
}

// clearSessionCookie 清除会话 Cookie
func (h *HTTPHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.cfg.IsProduction(), true)
}
