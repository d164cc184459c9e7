package entity

import "time"

// AdminUserUpdates 管理员账户更新字段
type AdminUserUpdates struct {
	PasswordHash *string
	CenterID     *string
	IsActive     *bool
	IsSuperadmin *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u AdminUserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.CenterID != nil {
		updates["center_id"] = *u.CenterID
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.IsSuperadmin != nil {
		updates["is_superadmin"] = *u.IsSuperadmin
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u AdminUserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// AdminRequestDecision 审批结果落库字段，更新时带 pending 前置条件
type AdminRequestDecision struct {
	Status     string
	ApprovedAt time.Time
	ApprovedBy string
	CenterID   string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u AdminRequestDecision) ToMap() map[string]interface{} {
	updates := map[string]interface{}{
		"status":      u.Status,
		"approved_at": u.ApprovedAt,
		"approved_by": u.ApprovedBy,
	}
	if u.CenterID != "" {
		updates["center_id"] = u.CenterID
	}
	return updates
}

// ReceiptUpdates 维修单更新字段
type ReceiptUpdates struct {
	CustomerName  *string
	CustomerPhone *string
	ItemName      *string
	Amount        *int64
	Memo          *string
	PhotoURLs     *StringArray
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u ReceiptUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.CustomerName != nil {
		updates["customer_name"] = *u.CustomerName
	}
	if u.CustomerPhone != nil {
		updates["customer_phone"] = *u.CustomerPhone
	}
	if u.ItemName != nil {
		updates["item_name"] = *u.ItemName
	}
	if u.Amount != nil {
		updates["amount"] = *u.Amount
	}
	if u.Memo != nil {
		updates["memo"] = *u.Memo
	}
	if u.PhotoURLs != nil {
		updates["photo_urls"] = *u.PhotoURLs
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u ReceiptUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// InquiryUpdates 咨询更新字段
type InquiryUpdates struct {
	Status *string
	Answer *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u InquiryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Answer != nil {
		updates["answer"] = *u.Answer
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u InquiryUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// TicketUpdates 工单更新字段
type TicketUpdates struct {
	Title    *string
	Content  *string
	Status   *string
	Assignee *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u TicketUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Assignee != nil {
		updates["assignee"] = *u.Assignee
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u TicketUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
