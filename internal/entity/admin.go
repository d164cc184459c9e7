package entity

import "time"

// RoleAdmin is the only role a session token may carry. Superadmin is not a
// token role: it is a row flag re-checked against the database per request.
const RoleAdmin = "admin"

// DbAdminUser represents a persisted admin account bound to one center.
type DbAdminUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"column:username;type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	CenterID     string    `gorm:"column:center_id;type:varchar(64);index" json:"center_id"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsSuperadmin bool      `gorm:"column:is_superadmin;not null;default:false" json:"is_superadmin"`
}

// TableName overrides default pluralised name.
func (DbAdminUser) TableName() string {
	return "admin_users"
}

// AdminSummary is a lightweight admin account description returned to clients.
type AdminSummary struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	CenterID     string    `json:"center_id"`
	IsActive     bool      `json:"is_active"`
	IsSuperadmin bool      `json:"is_superadmin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminQuery supports listing admin accounts with pagination.
type AdminQuery struct {
	BaseParams
	CenterID string `json:"center_id" form:"center_id" query:"center_id"`
	Keyword  string `json:"keyword" form:"keyword" query:"keyword"`
}

type AdminCreateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	CenterID string `json:"center_id" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

type AdminListResponse struct {
	Admins []AdminSummary `json:"admins"`
	Meta   *Meta          `json:"meta"`
}

type AuthLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type AuthAccessCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type AuthResponse struct {
	ExpiresAt time.Time     `json:"expires_at"`
	User      *AdminSummary `json:"user,omitempty"`
}
