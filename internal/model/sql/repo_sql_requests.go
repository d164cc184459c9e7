package sql

import (
	"context"
	"fmt"
	"strings"

	"shopdesk/internal/entity"
)

// CreateAdminRequest persists a new pending account request.
func (r *GormRepository) CreateAdminRequest(ctx context.Context, request *entity.DbAdminRequest) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if request == nil {
		return fmt.Errorf("request is nil")
	}
	if request.Status == "" {
		request.Status = entity.RequestStatusPending
	}
	return r.db.WithContext(ctx).Create(request).Error
}

// GetAdminRequest loads an account request by ID.
func (r *GormRepository) GetAdminRequest(ctx context.Context, id uint) (*entity.DbAdminRequest, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid request id")
	}
	var request entity.DbAdminRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListAdminRequests returns paginated account requests, optionally filtered
// by status.
func (r *GormRepository) ListAdminRequests(ctx context.Context, params *entity.AccountRequestQuery) ([]entity.DbAdminRequest, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbAdminRequest{})
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

	var requests []entity.DbAdminRequest
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&requests).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return requests, meta, nil
}

// DecideAdminRequest stamps the decision onto a request. The update carries a
// pending precondition so a request leaves pending at most once; the returned
// bool reports whether this call performed the transition. A retried decide
// against an already-terminal row updates nothing and returns false.
func (r *GormRepository) DecideAdminRequest(ctx context.Context, id uint, decision entity.AdminRequestDecision) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return false, fmt.Errorf("invalid request id")
	}
	result := r.db.WithContext(ctx).
		Model(&entity.DbAdminRequest{}).
		Where("id = ? AND status = ?", id, entity.RequestStatusPending).
		Updates(decision.ToMap())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
