package entity

import "time"

// Account request lifecycle. A request leaves pending exactly once; approved
// and rejected are terminal.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// DbAdminRequest is a self-service credential application awaiting review.
// The password is hashed at submission time; plaintext is never stored.
type DbAdminRequest struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Username     string     `gorm:"column:username;type:varchar(255);index;not null" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	CenterName   string     `gorm:"column:center_name;type:varchar(255);not null" json:"center_name"`
	Status       string     `gorm:"column:status;type:varchar(20);index;not null;default:pending" json:"status"`
	ApprovedAt   *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	ApprovedBy   string     `gorm:"column:approved_by;type:varchar(255)" json:"approved_by,omitempty"`
	CenterID     string     `gorm:"column:center_id;type:varchar(64)" json:"center_id,omitempty"`
}

// TableName overrides default pluralised name.
func (DbAdminRequest) TableName() string {
	return "admin_requests"
}

// AccountRequestSummary is the client-facing view of a request. It never
// includes the password hash.
type AccountRequestSummary struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	CenterName string     `json:"center_name"`
	Status     string     `json:"status"`
	CenterID   string     `json:"center_id,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AccountRequestSubmit struct {
	CenterName string `json:"center_name" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type AccountRequestQuery struct {
	BaseParams
	Status string `json:"status" form:"status" query:"status"`
}

type AccountRequestListResponse struct {
	Requests []AccountRequestSummary `json:"requests"`
	Meta     *Meta                   `json:"meta"`
}

// Decision actions accepted by the approval endpoint.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type AccountDecisionRequest struct {
	Action   string `json:"action" binding:"required"`
	CenterID string `json:"center_id"`
}

type AccountDecisionResponse struct {
	Request AccountRequestSummary `json:"request"`
	User    *AdminSummary         `json:"user,omitempty"`
}
