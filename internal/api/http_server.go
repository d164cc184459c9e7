package api

import (
	"strings"
	"time"

	"shopdesk/internal/auth"
	"shopdesk/internal/config"
	"shopdesk/internal/model"
	"shopdesk/internal/service"
	"shopdesk/internal/storage"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager

	// 服务层
	accountService *service.AccountService

	// 公共端点限流
	loginLimiter  *ipRateLimiter
	submitLimiter *ipRateLimiter
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.SessionExpiryDays) * 24 * time.Hour
	rememberExpiry := time.Duration(cfg.SessionRememberDays) * 24 * time.Hour
	authManager, err := auth.NewManager(cfg.SessionSecret, cfg.SessionIssuer, expiry, rememberExpiry)
	if err != nil {
		return nil, err
	}

	handler := &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		accountService:    service.NewAccountService(repo),
		loginLimiter:      newIPRateLimiter(cfg.LoginRatePerMinute),
		submitLimiter:     newIPRateLimiter(cfg.SubmitRatePerMinute),
	}

	return handler, nil
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return strings.TrimRight(trimmed, "/")
}

// signedURLExpiry 返回配置的签名 URL 有效期
func (h *HTTPHandler) signedURLExpiry() time.Duration {
	if h.cfg.SignedURLExpirySecs <= 0 {
		return storage.DefaultSignedURLExpiry
	}
	return time.Duration(h.cfg.SignedURLExpirySecs) * time.Second
}
