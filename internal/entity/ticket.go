package entity

import "time"

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusDone       = "done"
)

// DbTicket is a service ticket tracked by center staff. Tenant-owned.
type DbTicket struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CenterID  string    `gorm:"column:center_id;type:varchar(64);index;not null" json:"center_id"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	Status    string    `gorm:"column:status;type:varchar(20);index;not null;default:open" json:"status"`
	Assignee  string    `gorm:"column:assignee;type:varchar(255)" json:"assignee"`
}

// TableName overrides default pluralised name.
func (DbTicket) TableName() string {
	return "tickets"
}

type TicketItem struct {
	ID        uint      `json:"id"`
	CenterID  string    `json:"center_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	Assignee  string    `json:"assignee"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TicketQuery struct {
	BaseParams
	Status string `json:"status" form:"status" query:"status"`
}

type TicketCreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Assignee string `json:"assignee"`
}

type TicketUpdateRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Status   *string `json:"status,omitempty"`
	Assignee *string `json:"assignee,omitempty"`
}

type TicketListResponse struct {
	Tickets []TicketItem `json:"tickets"`
	Meta    *Meta        `json:"meta"`
}
