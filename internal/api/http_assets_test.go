package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopdesk/internal/entity"
	"shopdesk/internal/storage"

	"github.com/gin-gonic/gin"
)

type stubSigningStorage struct {
	failSigning bool
	lastExpires time.Duration
}

func (s *stubSigningStorage) Save(context.Context, []byte, storage.SaveOptions) (string, error) {
	return "uploads/x", nil
}

func (s *stubSigningStorage) Remove(context.Context, string) error { return nil }

func (s *stubSigningStorage) SignedURL(_ context.Context, bucket, key string, expires time.Duration) (string, error) {
	if s.failSigning {
		return "", errors.New("backend denied")
	}
	s.lastExpires = expires
	return fmt.Sprintf("https://signed.example/%s/%s?sig=abc", bucket, key), nil
}

func assetRouter(handler *HTTPHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/assets/signed-url", handler.SessionMiddleware(), handler.SignAssetURL)
	return r
}

func signURLRequest(r *gin.Engine, token, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/assets/signed-url?"+query, nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignAssetURL(t *testing.T) {
	admin := &entity.DbAdminUser{ID: 1, Username: "alice", CenterID: "north", IsActive: true}
	repo := &fakeRepo{users: map[uint]*entity.DbAdminUser{1: admin}}
	store := &stubSigningStorage{}
	handler := newTestHandler(t, repo)
	handler.storage = store
	r := assetRouter(handler)

	token, _, err := handler.authManager.GenerateToken(admin, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := signURLRequest(r, token, "bucket=receipts&path=photos/a.jpg")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Data struct {
			SignedURL string `json:"signed_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Data.SignedURL != "https://signed.example/receipts/photos/a.jpg?sig=abc" {
		t.Fatalf("unexpected signed url %q", body.Data.SignedURL)
	}
	if store.lastExpires != storage.DefaultSignedURLExpiry {
		t.Fatalf("expected default expiry %v, got %v", storage.DefaultSignedURLExpiry, store.lastExpires)
	}

	// 私有 URL 形态先解析再签名
	w = signURLRequest(r, token, "url=https://host.example/storage/v1/object/receipts/photos%2Fb.jpg")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for private-shape url, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Data.SignedURL != "https://signed.example/receipts/photos/b.jpg?sig=abc" {
		t.Fatalf("unexpected signed url %q", body.Data.SignedURL)
	}

	// 非对象 URL 不重签
	if w := signURLRequest(r, token, "url=https://cdn.example/logo.png"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unresolvable url, got %d", w.Code)
	}

	if w := signURLRequest(r, token, "bucket=receipts&path=a.jpg&expires_in=-5"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad expires_in, got %d", w.Code)
	}
}

func TestSignAssetURLBackendFailure(t *testing.T) {
	admin := &entity.DbAdminUser{ID: 1, Username: "alice", CenterID: "north", IsActive: true}
	repo := &fakeRepo{users: map[uint]*entity.DbAdminUser{1: admin}}
	handler := newTestHandler(t, repo)
	handler.storage = &stubSigningStorage{failSigning: true}
	r := assetRouter(handler)

	token, _, err := handler.authManager.GenerateToken(admin, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := signURLRequest(r, token, "bucket=receipts&path=a.jpg")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var response APIError
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Code != ErrCodeUpstream {
		t.Fatalf("expected %s, got %s", ErrCodeUpstream, response.Code)
	}
}

func TestSignAssetURLRequiresSession(t *testing.T) {
	handler := newTestHandler(t, &fakeRepo{users: map[uint]*entity.DbAdminUser{}})
	handler.storage = &stubSigningStorage{}
	r := assetRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/assets/signed-url?bucket=b&path=k", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
