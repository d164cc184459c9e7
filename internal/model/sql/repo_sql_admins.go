package sql

import (
	"context"
	"fmt"
	"strings"

	"shopdesk/internal/entity"
)

// CreateAdminUser persists a new admin account. The username is stored
// lowercased so the unique index and the case-insensitive login lookup agree
// on one canonical form.
func (r *GormRepository) CreateAdminUser(ctx context.Context, user *entity.DbAdminUser) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" {
		return fmt.Errorf("username is empty")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateAdminUser updates an existing admin account.
func (r *GormRepository) UpdateAdminUser(ctx context.Context, id uint, updates entity.AdminUserUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid admin user id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbAdminUser{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetAdminUserByUsername loads an admin account by username.
func (r *GormRepository) GetAdminUserByUsername(ctx context.Context, username string) (*entity.DbAdminUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, fmt.Errorf("username is empty")
	}

	var user entity.DbAdminUser
	if err := r.db.WithContext(ctx).Where("LOWER(username) = ?", strings.ToLower(trimmed)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAdminUserByID loads an admin account by ID.
func (r *GormRepository) GetAdminUserByID(ctx context.Context, id uint) (*entity.DbAdminUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid admin user id")
	}
	var user entity.DbAdminUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAdminUsers returns paginated admin accounts.
func (r *GormRepository) ListAdminUsers(ctx context.Context, params *entity.AdminQuery) ([]entity.DbAdminUser, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbAdminUser{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.CenterID); trimmed != "" {
			query = query.Where("center_id = ?", trimmed)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(username) LIKE ?", kw)
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

	var users []entity.DbAdminUser
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return users, meta, nil
}
