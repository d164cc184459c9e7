package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopdesk/internal/auth"
	"shopdesk/internal/config"
	"shopdesk/internal/entity"
	"shopdesk/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type fakeRepo struct {
	model.Repository

	users map[uint]*entity.DbAdminUser
}

func (f *fakeRepo) GetAdminUserByID(_ context.Context, id uint) (*entity.DbAdminUser, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func newTestHandler(t *testing.T, repo model.Repository) *HTTPHandler {
	t.Helper()
	manager, err := auth.NewManager("test-secret", "shopdesk-test", 0, 0)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &HTTPHandler{
		cfg:         config.Config{},
		repo:        repo,
		authManager: manager,
	}
}

func sessionRouter(handler *HTTPHandler, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{handler.SessionMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":       principal.UserID,
			"center_id":     principal.CenterID,
			"is_superadmin": principal.IsSuperadmin,
		})
	})
	r.GET("/probe", chain...)
	return r
}

func doProbe(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionMiddlewareRejectsMissingCookie(t *testing.T) {
	handler := newTestHandler(t, &fakeRepo{users: map[uint]*entity.DbAdminUser{}})
	r := sessionRouter(handler)

	w := doProbe(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSessionMiddlewareRejectsGarbageToken(t *testing.T) {
	handler := newTestHandler(t, &fakeRepo{users: map[uint]*entity.DbAdminUser{}})
	r := sessionRouter(handler)

	w := doProbe(r, "not-a-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSessionMiddlewareRejectsDeletedUser(t *testing.T) {
	repo := &fakeRepo{users: map[uint]*entity.DbAdminUser{}}
	handler := newTestHandler(t, repo)

	token, _, err := handler.authManager.GenerateToken(&entity.DbAdminUser{
		ID: 7, Username: "ghost", CenterID: "north", IsActive: true,
	}, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := doProbe(sessionRouter(handler), token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", w.Code)
	}
}

func TestSessionMiddlewareRejectsInactiveUser(t *testing.T) {
	user := &entity.DbAdminUser{ID: 3, Username: "bob", CenterID: "north", IsActive: false}
	repo := &fakeRepo{users: map[uint]*entity.DbAdminUser{3: user}}
	handler := newTestHandler(t, repo)

	token, _, err := handler.authManager.GenerateToken(&entity.DbAdminUser{
		ID: 3, Username: "bob", CenterID: "north", IsActive: true,
	}, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := doProbe(sessionRouter(handler), token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for inactive user, got %d", w.Code)
	}
}

// Token 不携带 superadmin 声明，必须每次从数据库读取当前值。
func TestSessionMiddlewareReadsSuperadminFromStore(t *testing.T) {
	user := &entity.DbAdminUser{ID: 5, Username: "root", IsActive: true, IsSuperadmin: true}
	repo := &fakeRepo{users: map[uint]*entity.DbAdminUser{5: user}}
	handler := newTestHandler(t, repo)

	token, _, err := handler.authManager.GenerateToken(user, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := doProbe(sessionRouter(handler), token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		IsSuperadmin bool `json:"is_superadmin"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.IsSuperadmin {
		t.Fatal("expected superadmin flag from store")
	}

	// 撤销后同一令牌不再有超级管理员权限
	user.IsSuperadmin = false
	w = doProbe(sessionRouter(handler), token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.IsSuperadmin {
		t.Fatal("revoked superadmin flag must not survive in an old token")
	}
}

func TestSessionMiddlewareAcceptsAccessCodeToken(t *testing.T) {
	handler := newTestHandler(t, &fakeRepo{users: map[uint]*entity.DbAdminUser{}})

	token, _, err := handler.authManager.GenerateAccessCodeToken()
	if err != nil {
		t.Fatalf("GenerateAccessCodeToken: %v", err)
	}

	w := doProbe(sessionRouter(handler), token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for access code session, got %d", w.Code)
	}
	var body struct {
		UserID   uint   `json:"user_id"`
		CenterID string `json:"center_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.UserID != 0 || body.CenterID != "" {
		t.Fatalf("access code session must carry no identity, got %+v", body)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	admin := &entity.DbAdminUser{ID: 1, Username: "alice", CenterID: "north", IsActive: true}
	root := &entity.DbAdminUser{ID: 2, Username: "root", IsActive: true, IsSuperadmin: true}
	repo := &fakeRepo{users: map[uint]*entity.DbAdminUser{1: admin, 2: root}}
	handler := newTestHandler(t, repo)
	r := sessionRouter(handler, handler.RequireSuperAdmin())

	adminToken, _, err := handler.authManager.GenerateToken(admin, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if w := doProbe(r, adminToken); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for tenant admin, got %d", w.Code)
	}

	rootToken, _, err := handler.authManager.GenerateToken(root, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if w := doProbe(r, rootToken); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for superadmin, got %d", w.Code)
	}

	codeToken, _, err := handler.authManager.GenerateAccessCodeToken()
	if err != nil {
		t.Fatalf("GenerateAccessCodeToken: %v", err)
	}
	if w := doProbe(r, codeToken); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for access code session, got %d", w.Code)
	}
}

func TestPrincipalScope(t *testing.T) {
	tests := []struct {
		name         string
		principal    *Principal
		wantCenterID string
		wantOK       bool
	}{
		{"nil principal", nil, "", false},
		{"tenant admin", &Principal{UserID: 1, CenterID: "north"}, "north", true},
		{"superadmin unscoped", &Principal{UserID: 2, IsSuperadmin: true}, "", true},
		{"access code session", &Principal{}, "", false},
		{"admin missing center", &Principal{UserID: 3}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			centerID, ok := tt.principal.Scope()
			if centerID != tt.wantCenterID || ok != tt.wantOK {
				t.Fatalf("Scope() = (%q, %v), want (%q, %v)", centerID, ok, tt.wantCenterID, tt.wantOK)
			}
		})
	}
}

func TestSessionCookieLifetime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestHandler(t, &fakeRepo{users: map[uint]*entity.DbAdminUser{}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
	handler.setSessionCookie(c, "tok", time.Now().Add(time.Hour))

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != SessionCookieName || cookie.Value != "tok" {
		t.Fatalf("unexpected cookie %q=%q", cookie.Name, cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
	if cookie.Path != "/" {
		t.Fatalf("expected path /, got %q", cookie.Path)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)
	handler.clearSessionCookie(c)

	cookies = w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("logout must overwrite with expired empty cookie, got value=%q maxage=%d", cookies[0].Value, cookies[0].MaxAge)
	}
}
