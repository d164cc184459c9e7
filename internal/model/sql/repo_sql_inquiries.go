package sql

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shopdesk/internal/entity"
)

// CreateInquiry persists a new customer inquiry.
func (r *GormRepository) CreateInquiry(ctx context.Context, inquiry *entity.DbInquiry) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if inquiry == nil {
		return fmt.Errorf("inquiry is nil")
	}
	if strings.TrimSpace(inquiry.CenterID) == "" {
		return fmt.Errorf("inquiry center id is empty")
	}
	if inquiry.Status == "" {
		inquiry.Status = entity.InquiryStatusOpen
	}
	return r.db.WithContext(ctx).Create(inquiry).Error
}

// UpdateInquiry updates an inquiry through the (id, center_id) compound key.
func (r *GormRepository) UpdateInquiry(ctx context.Context, id uint, centerID string, updates entity.InquiryUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid inquiry id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := scopeCenter(r.db.WithContext(ctx).Model(&entity.DbInquiry{}).Where("id = ?", id), centerID).
		Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetInquiry loads an inquiry through the (id, center_id) compound key.
func (r *GormRepository) GetInquiry(ctx context.Context, id uint, centerID string) (*entity.DbInquiry, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid inquiry id")
	}
	var inquiry entity.DbInquiry
	if err := scopeCenter(r.db.WithContext(ctx).Where("id = ?", id), centerID).First(&inquiry).Error; err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// ListInquiries returns paginated inquiries for one center, or across centers
// when centerID is empty.
func (r *GormRepository) ListInquiries(ctx context.Context, centerID string, params *entity.InquiryQuery) ([]entity.DbInquiry, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := scopeCenter(r.db.WithContext(ctx).Model(&entity.DbInquiry{}), centerID)
	if params != nil {
		if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
			query = query.Where("status = ?", trimmed)
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

	var inquiries []entity.DbInquiry
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&inquiries).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return inquiries, meta, nil
}

// DeleteInquiry removes an inquiry through the (id, center_id) compound key.
func (r *GormRepository) DeleteInquiry(ctx context.Context, id uint, centerID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid inquiry id")
	}
	result := scopeCenter(r.db.WithContext(ctx).Where("id = ?", id), centerID).Delete(&entity.DbInquiry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
