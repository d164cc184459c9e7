package entity

import "time"

// DbReceipt is a service receipt registered by center staff. Tenant-owned:
// every read and write goes through the (id, center_id) compound key unless
// the caller is superadmin.
type DbReceipt struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	CenterID      string      `gorm:"column:center_id;type:varchar(64);index;not null" json:"center_id"`
	CustomerName  string      `gorm:"column:customer_name;type:varchar(255);not null" json:"customer_name"`
	CustomerPhone string      `gorm:"column:customer_phone;type:varchar(64)" json:"customer_phone"`
	ItemName      string      `gorm:"column:item_name;type:varchar(255)" json:"item_name"`
	Amount        int64       `gorm:"column:amount;not null;default:0" json:"amount"`
	Memo          string      `gorm:"column:memo;type:text" json:"memo"`
	PhotoURLs     StringArray `gorm:"column:photo_urls;type:text" json:"photo_urls"`
}

// TableName overrides default pluralised name.
func (DbReceipt) TableName() string {
	return "receipts"
}

type ReceiptItem struct {
	ID            uint      `json:"id"`
	CenterID      string    `json:"center_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	ItemName      string    `json:"item_name"`
	Amount        int64     `json:"amount"`
	Memo          string    `json:"memo"`
	PhotoURLs     []string  `json:"photo_urls"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReceiptQuery struct {
	BaseParams
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type ReceiptCreateRequest struct {
	CustomerName  string   `json:"customer_name" binding:"required"`
	CustomerPhone string   `json:"customer_phone"`
	ItemName      string   `json:"item_name"`
	Amount        int64    `json:"amount"`
	Memo          string   `json:"memo"`
	PhotoURLs     []string `json:"photo_urls"`
}

type ReceiptUpdateRequest struct {
	CustomerName  *string   `json:"customer_name,omitempty"`
	CustomerPhone *string   `json:"customer_phone,omitempty"`
	ItemName      *string   `json:"item_name,omitempty"`
	Amount        *int64    `json:"amount,omitempty"`
	Memo          *string   `json:"memo,omitempty"`
	PhotoURLs     *[]string `json:"photo_urls,omitempty"`
}

type ReceiptListResponse struct {
	Receipts []ReceiptItem `json:"receipts"`
	Meta     *Meta         `json:"meta"`
}
