package sql

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shopdesk/internal/entity"
)

// CreateTicket persists a new service ticket.
func (r *GormRepository) CreateTicket(ctx context.Context, ticket *entity.DbTicket) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if ticket == nil {
		return fmt.Errorf("ticket is nil")
	}
	if strings.TrimSpace(ticket.CenterID) == "" {
		return fmt.Errorf("ticket center id is empty")
	}
	if ticket.Status == "" {
		ticket.Status = entity.TicketStatusOpen
	}
	return r.db.WithContext(ctx).Create(ticket).Error
}

// UpdateTicket updates a ticket through the (id, center_id) compound key.
func (r *GormRepository) UpdateTicket(ctx context.Context, id uint, centerID string, updates entity.TicketUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid ticket id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := scopeCenter(r.db.WithContext(ctx).Model(&entity.DbTicket{}).Where("id = ?", id), centerID).
		Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetTicket loads a ticket through the (id, center_id) compound key.
func (r *GormRepository) GetTicket(ctx context.Context, id uint, centerID string) (*entity.DbTicket, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid ticket id")
	}
	var ticket entity.DbTicket
	if err := scopeCenter(r.db.WithContext(ctx).Where("id = ?", id), centerID).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListTickets returns paginated tickets for one center, or across centers
// when centerID is empty.
func (r *GormRepository) ListTickets(ctx context.Context, centerID string, params *entity.TicketQuery) ([]entity.DbTicket, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := scopeCenter(r.db.WithContext(ctx).Model(&entity.DbTicket{}), centerID)
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

	var tickets []entity.DbTicket
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&tickets).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return tickets, meta, nil
}

// DeleteTicket removes a ticket through the (id, center_id) compound key.
func (r *GormRepository) DeleteTicket(ctx context.Context, id uint, centerID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid ticket id")
	}
	result := scopeCenter(r.db.WithContext(ctx).Where("id = ?", id), centerID).Delete(&entity.DbTicket{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
