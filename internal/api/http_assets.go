package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"shopdesk/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 10 << 20

// SignAssetURL 为存储对象签发短时效访问 URL。也接受 url 参数，先按公共/
// 私有两种 URL 形态解析出 bucket 和 path 再签名；无法解析时返回 400，
// 调用方应直接使用原始 URL。
func (h *HTTPHandler) SignAssetURL(c *gin.Context) {
	bucket := strings.TrimSpace(c.Query("bucket"))
	path := strings.TrimSpace(c.Query("path"))

	if raw := strings.TrimSpace(c.Query("url")); raw != "" && path == "" {
		ref, ok := storage.ResolveObjectURL(raw)
		if !ok {
			BadRequest(c, "url does not reference a stored object")
			return
		}
		bucket, path = ref.Bucket, ref.Key
	}

	if path == "" {
		MissingField(c, "path")
		return
	}

	expires := h.signedURLExpiry()
	if raw := strings.TrimSpace(c.Query("expires_in")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			BadRequest(c, "invalid expires_in")
			return
		}
		expires = time.Duration(seconds) * time.Second
	}

	signer, ok := h.storage.(storage.Signer)
	if !ok {
		BadGateway(c, "storage backend cannot sign URLs")
		return
	}

	signedURL, err := signer.SignedURL(c.Request.Context(), bucket, path, expires)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"bucket": bucket,
			"path":   path,
		}).Error("failed to sign asset url")
		BadGateway(c, "failed to sign url")
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"signed_url": signedURL})
}

// UploadAsset 上传附件，返回存储标识与公共访问 URL
func (h *HTTPHandler) UploadAsset(c *gin.Context) {
	if _, ok := requireScope(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		BadRequest(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "unreadable file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read upload")
		InternalError(c, "failed to read upload")
		return
	}
	if len(data) > maxUploadBytes {
		BadRequest(c, "file too large")
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	base := strings.TrimSuffix(filepath.Base(fileHeader.Filename), filepath.Ext(fileHeader.Filename))

	key, err := h.storage.Save(c.Request.Context(), data, storage.SaveOptions{
		Category:  "uploads",
		BaseName:  fmt.Sprintf("%s-%d", base, time.Now().UnixNano()),
		Extension: ext,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to save upload")
		BadGateway(c, "failed to store file")
		return
	}

	SuccessResponse(c, http.StatusCreated, gin.H{
		"key": key,
		"url": h.publicURL(key),
	})
}

func (h *HTTPHandler) publicURL(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	base := h.storagePublicBase
	if base == "" {
		base = "/files"
	}
	return fmt.Sprintf("%s/%s", base, strings.TrimLeft(trimmed, "/"))
}
