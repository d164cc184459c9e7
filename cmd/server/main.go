package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"shopdesk/internal/api"
	"shopdesk/internal/config"
	"shopdesk/internal/model"
	"shopdesk/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(api.RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(api.MetricsMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")

	// 公共端点：登录与开号申请，均带限流
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/login", httpHandler.LoginRateLimit(), httpHandler.Login)
	authGroup.POST("/access-code", httpHandler.LoginRateLimit(), httpHandler.LoginWithAccessCode)
	authGroup.POST("/logout", httpHandler.Logout)
	authGroup.GET("/me", httpHandler.SessionMiddleware(), httpHandler.Me)

	apiGroup.POST("/account-requests", httpHandler.SubmitRateLimit(), httpHandler.SubmitAccountRequest)

	// 会话保护端点
	protected := apiGroup.Group("")
	protected.Use(httpHandler.SessionMiddleware())

	protected.GET("/assets/signed-url", httpHandler.SignAssetURL)
	protected.POST("/assets", httpHandler.UploadAsset)

	receipts := protected.Group("/receipts")
	receipts.GET("", httpHandler.ListReceipts)
	receipts.POST("", httpHandler.CreateReceipt)
	receipts.GET("/:id", httpHandler.GetReceipt)
	receipts.PATCH("/:id", httpHandler.UpdateReceipt)
	receipts.DELETE("/:id", httpHandler.DeleteReceipt)

	inquiries := protected.Group("/inquiries")
	inquiries.GET("", httpHandler.ListInquiries)
	inquiries.POST("", httpHandler.CreateInquiry)
	inquiries.GET("/:id", httpHandler.GetInquiry)
	inquiries.PATCH("/:id", httpHandler.UpdateInquiry)
	inquiries.DELETE("/:id", httpHandler.DeleteInquiry)

	tickets := protected.Group("/tickets")
	tickets.GET("", httpHandler.ListTickets)
	tickets.POST("", httpHandler.CreateTicket)
	tickets.GET("/:id", httpHandler.GetTicket)
	tickets.PATCH("/:id", httpHandler.UpdateTicket)
	tickets.DELETE("/:id", httpHandler.DeleteTicket)

	// 超级管理员端点
	superAdmin := protected.Group("")
	superAdmin.Use(httpHandler.RequireSuperAdmin())
	superAdmin.GET("/account-requests", httpHandler.ListAccountRequests)
	superAdmin.POST("/account-requests/:id/decision", httpHandler.DecideAccountRequest)
	superAdmin.GET("/centers", httpHandler.ListCenters)
	superAdmin.GET("/centers/:id", httpHandler.GetCenter)
	superAdmin.GET("/admins", httpHandler.ListAdmins)
	superAdmin.POST("/admins", httpHandler.CreateAdmin)
	superAdmin.PATCH("/admins/:id/active", httpHandler.SetAdminActive)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   duration.String(),
			"size":       c.Writer.Size(),
			"client_ip":  c.ClientIP(),
			"request_id": api.RequestID(c),
		}).Info("http_request")
	}
}
