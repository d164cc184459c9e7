package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shopdesk/internal/auth"
	"shopdesk/internal/entity"
	"shopdesk/internal/model"
)

// AccountService runs the account-provisioning workflow: a submitted request
// is pending until a superadmin approves it into a live credential or rejects
// it. Both outcomes are terminal.
type AccountService struct {
	repo model.Repository
}

// NewAccountService 创建开号申请服务
func NewAccountService(repo model.Repository) *AccountService {
	return &AccountService{repo: repo}
}

// SubmitRequest validates and stores a new pending request. The password is
// hashed before the row is built; plaintext never reaches the repository.
func (s *AccountService) SubmitRequest(ctx context.Context, centerName, username, password string) (*entity.DbAdminRequest, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("account service not initialised")
	}

	centerName = strings.TrimSpace(centerName)
	// Usernames are stored lowercased; the unique index and the login lookup
	// must agree on one canonical form.
	username = strings.ToLower(strings.TrimSpace(username))
	password = strings.TrimSpace(password)
	if centerName == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: center name, username, and password are required", ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	request := &entity.DbAdminRequest{
		Username:     username,
		PasswordHash: hash,
		CenterName:   centerName,
		Status:       entity.RequestStatusPending,
	}
	if err := s.repo.CreateAdminRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return request, nil
}

// Decide applies an approve or reject decision to a pending request. Only the
// superadmin-gated handler calls this; decidedBy is the reviewer's username.
//
// Approve creates the admin account before stamping the request. The two
// writes are not transactional: when a previous approve created the user but
// failed before the status update, the retried call finds the existing account
// for the same username and center and converges instead of duplicating.
func (s *AccountService) Decide(ctx context.Context, requestID uint, action, centerID, decidedBy string) (*entity.DbAdminRequest, *entity.DbAdminUser, error) {
	if s == nil || s.repo == nil {
		return nil, nil, fmt.Errorf("account service not initialised")
	}

	request, err := s.repo.GetAdminRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return nil, nil, fmt.Errorf("load request: %w", err)
	}
	if request.Status != entity.RequestStatusPending {
		return nil, nil, fmt.Errorf("%w: request already %s", ErrConflict, request.Status)
	}

	switch action {
	case entity.DecisionApprove:
		return s.approve(ctx, request, centerID, decidedBy)
	case entity.DecisionReject:
		return s.reject(ctx, request, decidedBy)
	default:
		return nil, nil, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
}

func (s *AccountService) approve(ctx context.Context, request *entity.DbAdminRequest, centerID, decidedBy string) (*entity.DbAdminRequest, *entity.DbAdminUser, error) {
	centerID = strings.TrimSpace(centerID)
	if centerID == "" {
		return nil, nil, fmt.Errorf("%w: center id is required for approval", ErrValidation)
	}
	if _, err := s.repo.GetCenter(ctx, centerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: unknown center %q", ErrValidation, centerID)
		}
		return nil, nil, fmt.Errorf("load center: %w", err)
	}

	// Uniqueness check must complete before the insert is issued; the two
	// steps are sequential to avoid a duplicate-username race within one call.
	user, err := s.repo.GetAdminUserByUsername(ctx, request.Username)
	switch {
	case err == nil:
		// An account left behind by a partially completed approve of this
		// same request is reused; any other holder of the name conflicts.
		if user.CenterID != centerID {
			return nil, nil, fmt.Errorf("%w: username %q already taken", ErrConflict, request.Username)
		}
		logrus.WithFields(logrus.Fields{
			"request_id": request.ID,
			"username":   request.Username,
		}).Warn("approve retry found existing account, reusing")
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &entity.DbAdminUser{
			Username:     request.Username,
			PasswordHash: request.PasswordHash, // already hashed at submission
			CenterID:     centerID,
			IsActive:     true,
		}
		if err := s.repo.CreateAdminUser(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("create admin user: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("check username: %w", err)
	}

	decision := entity.AdminRequestDecision{
		Status:     entity.RequestStatusApproved,
		ApprovedAt: nowUTC(),
		ApprovedBy: decidedBy,
		CenterID:   centerID,
	}
	decided, err := s.repo.DecideAdminRequest(ctx, request.ID, decision)
	if err != nil {
		// The account exists but the request is still pending; a retried
		// decide converges through the reuse path above.
		return nil, nil, fmt.Errorf("update request: %w", err)
	}
	if !decided {
		return nil, nil, fmt.Errorf("%w: request already decided", ErrConflict)
	}

	request.Status = decision.Status
	request.ApprovedAt = &decision.ApprovedAt
	request.ApprovedBy = decision.ApprovedBy
	request.CenterID = decision.CenterID
	return request, user, nil
}

func (s *AccountService) reject(ctx context.Context, request *entity.DbAdminRequest, decidedBy string) (*entity.DbAdminRequest, *entity.DbAdminUser, error) {
	decision := entity.AdminRequestDecision{
		Status:     entity.RequestStatusRejected,
		ApprovedAt: nowUTC(),
		ApprovedBy: decidedBy,
	}
	decided, err := s.repo.DecideAdminRequest(ctx, request.ID, decision)
	if err != nil {
		return nil, nil, fmt.Errorf("update request: %w", err)
	}
	if !decided {
		return nil, nil, fmt.Errorf("%w: request already decided", ErrConflict)
	}

	request.Status = decision.Status
	request.ApprovedAt = &decision.ApprovedAt
	request.ApprovedBy = decision.ApprovedBy
	return request, nil, nil
}
