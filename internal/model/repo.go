package model

import (
	"context"

	"shopdesk/internal/entity"
)

// Repository 定义数据库操作接口
//
// Tenant-owned tables (receipts, inquiries, tickets) take an explicit
// centerID on every method. An empty centerID means unscoped access and is
// only ever passed from superadmin-gated call sites; tenant-admin call sites
// always pass the principal's own center so lookups run against the
// (id, center_id) compound key.
type Repository interface {
	// 管理员账户
	CreateAdminUser(ctx context.Context, user *entity.DbAdminUser) error
	UpdateAdminUser(ctx context.Context, id uint, updates entity.AdminUserUpdates) error
	GetAdminUserByUsername(ctx context.Context, username string) (*entity.DbAdminUser, error)
	GetAdminUserByID(ctx context.Context, id uint) (*entity.DbAdminUser, error)
	ListAdminUsers(ctx context.Context, params *entity.AdminQuery) ([]entity.DbAdminUser, *entity.Meta, error)

	// 开号申请
	CreateAdminRequest(ctx context.Context, request *entity.DbAdminRequest) error
	GetAdminRequest(ctx context.Context, id uint) (*entity.DbAdminRequest, error)
	ListAdminRequests(ctx context.Context, params *entity.AccountRequestQuery) ([]entity.DbAdminRequest, *entity.Meta, error)
	DecideAdminRequest(ctx context.Context, id uint, decision entity.AdminRequestDecision) (bool, error)

	// 门店（租户）
	GetCenter(ctx context.Context, id string) (*entity.DbCenter, error)
	ListCenters(ctx context.Context) ([]entity.DbCenter, error)

	// 维修单
	CreateReceipt(ctx context.Context, receipt *entity.DbReceipt) error
	UpdateReceipt(ctx context.Context, id uint, centerID string, updates entity.ReceiptUpdates) error
	GetReceipt(ctx context.Context, id uint, centerID string) (*entity.DbReceipt, error)
	ListReceipts(ctx context.Context, centerID string, params *entity.ReceiptQuery) ([]entity.DbReceipt, *entity.Meta, error)
	DeleteReceipt(ctx context.Context, id uint, centerID string) error

	// 客户咨询
	CreateInquiry(ctx context.Context, inquiry *entity.DbInquiry) error
	UpdateInquiry(ctx context.Context, id uint, centerID string, updates entity.InquiryUpdates) error
	GetInquiry(ctx context.Context, id uint, centerID string) (*entity.DbInquiry, error)
	ListInquiries(ctx context.Context, centerID string, params *entity.InquiryQuery) ([]entity.DbInquiry, *entity.Meta, error)
	DeleteInquiry(ctx context.Context, id uint, centerID string) error

	// 工单
	CreateTicket(ctx context.Context, ticket *entity.DbTicket) error
	UpdateTicket(ctx context.Context, id uint, centerID string, updates entity.TicketUpdates) error
	GetTicket(ctx context.Context, id uint, centerID string) (*entity.DbTicket, error)
	ListTickets(ctx context.Context, centerID string, params *entity.TicketQuery) ([]entity.DbTicket, *entity.Meta, error)
	DeleteTicket(ctx context.Context, id uint, centerID string) error
}
