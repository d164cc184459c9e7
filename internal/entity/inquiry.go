package entity

import "time"

const (
	InquiryStatusOpen     = "open"
	InquiryStatusAnswered = "answered"
	InquiryStatusClosed   = "closed"
)

// DbInquiry is a customer inquiry recorded at a center. Tenant-owned.
type DbInquiry struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CenterID      string    `gorm:"column:center_id;type:varchar(64);index;not null" json:"center_id"`
	CustomerName  string    `gorm:"column:customer_name;type:varchar(255)" json:"customer_name"`
	CustomerPhone string    `gorm:"column:customer_phone;type:varchar(64)" json:"customer_phone"`
	Content       string    `gorm:"column:content;type:text;not null" json:"content"`
	Status        string    `gorm:"column:status;type:varchar(20);index;not null;default:open" json:"status"`
	Answer        string    `gorm:"column:answer;type:text" json:"answer"`
}

// TableName overrides default pluralised name.
func (DbInquiry) TableName() string {
	return "inquiries"
}

type InquiryItem struct {
	ID            uint      `json:"id"`
	CenterID      string    `json:"center_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Content       string    `json:"content"`
	Status        string    `json:"status"`
	Answer        string    `json:"answer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type InquiryQuery struct {
	BaseParams
	Status string `json:"status" form:"status" query:"status"`
}

type InquiryCreateRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Content       string `json:"content" binding:"required"`
}

type InquiryUpdateRequest struct {
	Status *string `json:"status,omitempty"`
	Answer *string `json:"answer,omitempty"`
}

type InquiryListResponse struct {
	Inquiries []InquiryItem `json:"inquiries"`
	Meta      *Meta         `json:"meta"`
}
