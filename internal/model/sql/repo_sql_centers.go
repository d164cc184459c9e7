package sql

import (
	"context"
	"fmt"
	"strings"

	"shopdesk/internal/entity"
)

// GetCenter loads a center by ID.
func (r *GormRepository) GetCenter(ctx context.Context, id string) (*entity.DbCenter, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, fmt.Errorf("center id is empty")
	}
	var center entity.DbCenter
	if err := r.db.WithContext(ctx).Where("id = ?", trimmed).First(&center).Error; err != nil {
		return nil, err
	}
	return &center, nil
}

// ListCenters returns all centers ordered by name.
func (r *GormRepository) ListCenters(ctx context.Context) ([]entity.DbCenter, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var centers []entity.DbCenter
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&centers).Error; err != nil {
		return nil, err
	}
	return centers, nil
}
