package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopdesk/internal/entity"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type scopedRepo struct {
	fakeRepo

	receipts map[uint]*entity.DbReceipt
}

func (f *scopedRepo) GetReceipt(_ context.Context, id uint, centerID string) (*entity.DbReceipt, error) {
	receipt, ok := f.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 空 centerID 为超级管理员的无过滤访问
	if centerID != "" && receipt.CenterID != centerID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *receipt
	return &copied, nil
}

func (f *scopedRepo) DeleteReceipt(_ context.Context, id uint, centerID string) error {
	receipt, ok := f.receipts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if centerID != "" && receipt.CenterID != centerID {
		return gorm.ErrRecordNotFound
	}
	delete(f.receipts, id)
	return nil
}

func receiptRouter(handler *HTTPHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/receipts/:id", handler.SessionMiddleware(), handler.GetReceipt)
	r.DELETE("/api/receipts/:id", handler.SessionMiddleware(), handler.DeleteReceipt)
	return r
}

func receiptRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// 跨租户读取表现为 404 而不是 403，不泄露记录是否存在。
func TestGetReceiptTenantScoping(t *testing.T) {
	northAdmin := &entity.DbAdminUser{ID: 1, Username: "alice", CenterID: "north", IsActive: true}
	root := &entity.DbAdminUser{ID: 2, Username: "root", IsActive: true, IsSuperadmin: true}
	repo := &scopedRepo{
		fakeRepo: fakeRepo{users: map[uint]*entity.DbAdminUser{1: northAdmin, 2: root}},
		receipts: map[uint]*entity.DbReceipt{
			10: {ID: 10, CenterID: "north", CustomerName: "customer-n"},
			20: {ID: 20, CenterID: "south", CustomerName: "customer-s"},
		},
	}
	handler := newTestHandler(t, repo)
	r := receiptRouter(handler)

	northToken, _, err := handler.authManager.GenerateToken(northAdmin, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if w := receiptRequest(r, http.MethodGet, "/api/receipts/10", northToken); w.Code != http.StatusOK {
		t.Fatalf("own-center receipt: expected 200, got %d", w.Code)
	}
	if w := receiptRequest(r, http.MethodGet, "/api/receipts/20", northToken); w.Code != http.StatusNotFound {
		t.Fatalf("cross-center receipt: expected 404, got %d", w.Code)
	}
	if w := receiptRequest(r, http.MethodGet, "/api/receipts/999", northToken); w.Code != http.StatusNotFound {
		t.Fatalf("unknown receipt: expected 404, got %d", w.Code)
	}

	rootToken, _, err := handler.authManager.GenerateToken(root, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if w := receiptRequest(r, http.MethodGet, "/api/receipts/20", rootToken); w.Code != http.StatusOK {
		t.Fatalf("superadmin cross-center receipt: expected 200, got %d", w.Code)
	}
}

// 猜中 id 也不能删除他人门店的记录。
func TestDeleteReceiptUsesCompoundKey(t *testing.T) {
	northAdmin := &entity.DbAdminUser{ID: 1, Username: "alice", CenterID: "north", IsActive: true}
	repo := &scopedRepo{
		fakeRepo: fakeRepo{users: map[uint]*entity.DbAdminUser{1: northAdmin}},
		receipts: map[uint]*entity.DbReceipt{
			20: {ID: 20, CenterID: "south", CustomerName: "customer-s"},
		},
	}
	handler := newTestHandler(t, repo)
	r := receiptRouter(handler)

	token, _, err := handler.authManager.GenerateToken(northAdmin, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if w := receiptRequest(r, http.MethodDelete, "/api/receipts/20", token); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if _, exists := repo.receipts[20]; !exists {
		t.Fatal("record from another center must not be deleted")
	}
}

// 访问码会话没有 center_id，对租户数据一律 403。
func TestAccessCodeSessionCannotReadTenantData(t *testing.T) {
	repo := &scopedRepo{
		fakeRepo: fakeRepo{users: map[uint]*entity.DbAdminUser{}},
		receipts: map[uint]*entity.DbReceipt{
			10: {ID: 10, CenterID: "north", CustomerName: "customer-n"},
		},
	}
	handler := newTestHandler(t, repo)
	r := receiptRouter(handler)

	token, _, err := handler.authManager.GenerateAccessCodeToken()
	if err != nil {
		t.Fatalf("GenerateAccessCodeToken: %v", err)
	}

	if w := receiptRequest(r, http.MethodGet, "/api/receipts/10", token); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
