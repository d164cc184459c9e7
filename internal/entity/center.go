package entity

import "time"

// DbCenter is the tenant boundary. Every tenant-owned row carries a CenterID
// foreign key; this service reads centers for scoping and approval only.
type DbCenter struct {
	ID        string    `gorm:"column:id;type:varchar(64);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Code      string    `gorm:"column:code;type:varchar(64);uniqueIndex" json:"code"`
}

// TableName overrides default pluralised name.
func (DbCenter) TableName() string {
	return "centers"
}

type CenterSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type CenterListResponse struct {
	Centers []CenterSummary `json:"centers"`
}
