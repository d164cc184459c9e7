package sql

import (
	"gorm.io/gorm"

	"shopdesk/internal/entity"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// calculatePagination calculates pagination metrics
func (r *GormRepository) calculatePagination(totalCount int64, page, pageSize int) *entity.Meta {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	return &entity.Meta{
		Total:    totalCount,
		Page:     int64(page),
		PageSize: int64(pageSize),
	}
}

// pageWindow resolves page/pageSize defaults and the query offset.
func pageWindow(params *entity.BaseParams) (page, pageSize, offset int) {
	page = 1
	pageSize = 20
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}
	offset = (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return page, pageSize, offset
}

// scopeCenter applies the tenant filter when centerID is non-empty. Superadmin
// call sites pass "" and read across centers.
func scopeCenter(query *gorm.DB, centerID string) *gorm.DB {
	if centerID == "" {
		return query
	}
	return query.Where("center_id = ?", centerID)
}
