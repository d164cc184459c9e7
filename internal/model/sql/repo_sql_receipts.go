package sql

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shopdesk/internal/entity"
)

// CreateReceipt persists a new receipt. CenterID must already be set by the
// caller from the authenticated principal, never from client input.
func (r *GormRepository) CreateReceipt(ctx context.Context, receipt *entity.DbReceipt) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if receipt == nil {
		return fmt.Errorf("receipt is nil")
	}
	if strings.TrimSpace(receipt.CenterID) == "" {
		return fmt.Errorf("receipt center id is empty")
	}
	return r.db.WithContext(ctx).Create(receipt).Error
}

// UpdateReceipt updates a receipt through the (id, center_id) compound key.
// A cross-tenant id resolves to gorm.ErrRecordNotFound.
func (r *GormRepository) UpdateReceipt(ctx context.Context, id uint, centerID string, updates entity.ReceiptUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid receipt id")
	}
	if updates.IsEmpty() {
		return nil
	}
	query := scopeCenter(r.db.WithContext(ctx).Model(&entity.DbReceipt{}).Where("id = ?", id), centerID)
	result := query.Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetReceipt loads a receipt through the (id, center_id) compound key.
func (r *GormRepository) GetReceipt(ctx context.Context, id uint, centerID string) (*entity.DbReceipt, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid receipt id")
	}
	var receipt entity.DbReceipt
	query := scopeCenter(r.db.WithContext(ctx).Where("id = ?", id), centerID)
	if err := query.First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListReceipts returns paginated receipts for one center, or across centers
// when centerID is empty.
func (r *GormRepository) ListReceipts(ctx context.Context, centerID string, params *entity.ReceiptQuery) ([]entity.DbReceipt, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := scopeCenter(r.db.WithContext(ctx).Model(&entity.DbReceipt{}), centerID)
	if params != nil {
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(customer_name) LIKE ? OR LOWER(customer_phone) LIKE ? OR LOWER(item_name) LIKE ?", kw, kw, kw)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var base *entity.BaseParams
	if params != nil {
		base = &params.BaseParams
	}
	page, pageSize, offset := pageWindow(base)

	var receipts []entity.DbReceipt
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&receipts).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return receipts, meta, nil
}

// DeleteReceipt removes a receipt through the (id, center_id) compound key.
func (r *GormRepository) DeleteReceipt(ctx context.Context, id uint, centerID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid receipt id")
	}
	result := scopeCenter(r.db.WithContext(ctx).Where("id = ?", id), centerID).Delete(&entity.DbReceipt{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
