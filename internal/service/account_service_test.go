package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"shopdesk/internal/auth"
	"shopdesk/internal/entity"
	"shopdesk/internal/model"
)

// fakeRepo is an in-memory stand-in for the gorm repository. Only the methods
// the workflow touches are implemented; the embedded interface panics on
// anything else, which would indicate a test reaching outside the workflow.
type fakeRepo struct {
	model.Repository

	users    map[uint]*entity.DbAdminUser
	requests map[uint]*entity.DbAdminRequest
	centers  map[string]*entity.DbCenter
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[uint]*entity.DbAdminUser),
		requests: make(map[uint]*entity.DbAdminRequest),
		centers:  make(map[string]*entity.DbCenter),
		nextID:   1,
	}
}

func (f *fakeRepo) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeRepo) CreateAdminUser(_ context.Context, user *entity.DbAdminUser) error {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = f.id()
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) GetAdminUserByUsername(_ context.Context, username string) (*entity.DbAdminUser, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Username, username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetAdminUserByID(_ context.Context, id uint) (*entity.DbAdminUser, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) CreateAdminRequest(_ context.Context, request *entity.DbAdminRequest) error {
	request.ID = f.id()
	copied := *request
	f.requests[request.ID] = &copied
	return nil
}

func (f *fakeRepo) GetAdminRequest(_ context.Context, id uint) (*entity.DbAdminRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (f *fakeRepo) DecideAdminRequest(_ context.Context, id uint, decision entity.AdminRequestDecision) (bool, error) {
	request, ok := f.requests[id]
	if !ok || request.Status != entity.RequestStatusPending {
		return false, nil
	}
	request.Status = decision.Status
	at := decision.ApprovedAt
	request.ApprovedAt = &at
	request.ApprovedBy = decision.ApprovedBy
	if decision.CenterID != "" {
		request.CenterID = decision.CenterID
	}
	return true, nil
}

func (f *fakeRepo) GetCenter(_ context.Context, id string) (*entity.DbCenter, error) {
	center, ok := f.centers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *center
	return &copied, nil
}

func (f *fakeRepo) addCenter(id, name string) {
	f.centers[id] = &entity.DbCenter{ID: id, Name: name, Code: id}
}

func (f *fakeRepo) countUsersNamed(username string) int {
	count := 0
	for _, user := range f.users {
		if strings.EqualFold(user.Username, username) {
			count++
		}
	}
	return count
}

func TestSubmitRequestValidation(t *testing.T) {
	svc := NewAccountService(newFakeRepo())

	tests := []struct {
		name       string
		centerName string
		username   string
		password   string
	}{
		{"missing center name", "", "alice", "p1"},
		{"missing username", "North", "", "p1"},
		{"missing password", "North", "alice", ""},
		{"blank fields", "  ", "  ", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitRequest(context.Background(), tt.centerName, tt.username, tt.password)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSubmitRequestHashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAccountService(repo)

	request, err := svc.SubmitRequest(context.Background(), "North", "alice", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != entity.RequestStatusPending {
		t.Fatalf("expected pending status, got %s", request.Status)
	}
	if request.PasswordHash == "p1" || request.PasswordHash == "" {
		t.Fatal("expected password to be hashed at submission time")
	}
	if err := auth.VerifyPassword(request.PasswordHash, "p1"); err != nil {
		t.Fatalf("stored hash does not verify against the password: %v", err)
	}
}

// Usernames are canonicalised to lowercase at submission so the lookup at
// login and the uniqueness check at approval agree on one spelling.
func TestSubmitRequestNormalizesUsername(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAccountService(repo)

	request, err := svc.SubmitRequest(context.Background(), "North", "  Alice ", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Username != "alice" {
		t.Fatalf("expected lowercased username, got %q", request.Username)
	}
}

func TestDecideApproveConflictsAcrossCase(t *testing.T) {
	repo := newFakeRepo()
	repo.addCenter("north", "North")
	repo.addCenter("south", "South")
	repo.users[99] = &entity.DbAdminUser{ID: 99, Username: "alice", CenterID: "south", IsActive: true}
	svc := NewAccountService(repo)

	request, err := svc.SubmitRequest(context.Background(), "North", "ALICE", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = svc.Decide(context.Background(), request.ID, entity.DecisionApprove, "north", "root")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for case-variant username, got %v", err)
	}
	if repo.countUsersNamed("alice") != 1 {
		t.Fatal("conflicting approval must not create a second account")
	}
}

func TestDecideApprove(t *testing.T) {
	repo := newFakeRepo()
	repo.addCenter("north-id", "North")
	svc := NewAccountService(repo)

	submitted, err := svc.SubmitRequest(context.Background(), "North", "alice", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	request, user, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionApprove, "north-id", "root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != entity.RequestStatusApproved {
		t.Fatalf("expected approved, got %s", request.Status)
	}
	if request.ApprovedAt == nil || request.ApprovedBy != "root" || request.CenterID != "north-id" {
		t.Fatalf("decision stamps missing: %+v", request)
	}
	if user == nil || user.Username != "alice" || user.CenterID != "north-id" || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != submitted.PasswordHash {
		t.Fatal("expected the submission-time hash to be reused, not re-hashed")
	}
	// Login with the original password must succeed against the created row.
	if err := auth.VerifyPassword(user.PasswordHash, "p1"); err != nil {
		t.Fatalf("password does not verify after approval: %v", err)
	}
}

func TestDecideApproveRequiresCenter(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAccountService(repo)

	submitted, _ := svc.SubmitRequest(context.Background(), "North", "alice", "p1")

	if _, _, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionApprove, "", "root"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing center, got %v", err)
	}
	if _, _, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionApprove, "ghost-id", "root"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown center, got %v", err)
	}
	if repo.countUsersNamed("alice") != 0 {
		t.Fatal("no user may be created on a failed approval")
	}
}

func TestDecideApproveDuplicateUsername(t *testing.T) {
	repo := newFakeRepo()
	repo.addCenter("north-id", "North")
	repo.users[99] = &entity.DbAdminUser{ID: 99, Username: "alice", CenterID: "south-id", IsActive: true}
	svc := NewAccountService(repo)

	submitted, _ := svc.SubmitRequest(context.Background(), "North", "alice", "p1")

	_, _, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionApprove, "north-id", "root")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if repo.countUsersNamed("alice") != 1 {
		t.Fatalf("expected exactly one alice, got %d", repo.countUsersNamed("alice"))
	}
	stored, _ := repo.GetAdminRequest(context.Background(), submitted.ID)
	if stored.Status != entity.RequestStatusPending {
		t.Fatalf("request must stay pending after a failed approval, got %s", stored.Status)
	}
}

func TestDecideIsTerminal(t *testing.T) {
	repo := newFakeRepo()
	repo.addCenter("north-id", "North")
	svc := NewAccountService(repo)

	submitted, _ := svc.SubmitRequest(context.Background(), "North", "alice", "p1")

	if _, _, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionApprove, "north-id", "root"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionApprove, "north-id", "root"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second decide, got %v", err)
	}
	if _, _, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionReject, "", "root"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict rejecting an approved request, got %v", err)
	}
	if repo.countUsersNamed("alice") != 1 {
		t.Fatalf("expected exactly one alice, got %d", repo.countUsersNamed("alice"))
	}
}

func TestDecideReject(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAccountService(repo)

	submitted, _ := svc.SubmitRequest(context.Background(), "North", "alice", "p1")

	request, user, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionReject, "ignored-id", "root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != entity.RequestStatusRejected {
		t.Fatalf("expected rejected, got %s", request.Status)
	}
	if request.ApprovedAt == nil || request.ApprovedBy != "root" {
		t.Fatalf("decision stamps missing: %+v", request)
	}
	if user != nil {
		t.Fatal("reject must never create a credential")
	}
	if len(repo.users) != 0 {
		t.Fatal("reject must never create a credential row")
	}
}

func TestDecideUnknownRequest(t *testing.T) {
	svc := NewAccountService(newFakeRepo())
	if _, _, err := svc.Decide(context.Background(), 404, entity.DecisionApprove, "north-id", "root"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDecideUnknownAction(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAccountService(repo)
	submitted, _ := svc.SubmitRequest(context.Background(), "North", "alice", "p1")

	if _, _, err := svc.Decide(context.Background(), submitted.ID, "escalate", "", "root"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestApproveRetryAfterPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.addCenter("north-id", "North")
	svc := NewAccountService(repo)

	submitted, _ := svc.SubmitRequest(context.Background(), "North", "alice", "p1")

	// Simulate a previous approve that created the account but crashed before
	// the request-status update.
	orphan := &entity.DbAdminUser{Username: "alice", PasswordHash: submitted.PasswordHash, CenterID: "north-id", IsActive: true}
	if err := repo.CreateAdminUser(context.Background(), orphan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	request, user, err := svc.Decide(context.Background(), submitted.ID, entity.DecisionApprove, "north-id", "root")
	if err != nil {
		t.Fatalf("expected retry to converge, got %v", err)
	}
	if request.Status != entity.RequestStatusApproved {
		t.Fatalf("expected approved, got %s", request.Status)
	}
	if user.ID != orphan.ID {
		t.Fatal("expected the orphaned account to be reused")
	}
	if repo.countUsersNamed("alice") != 1 {
		t.Fatalf("expected exactly one alice, got %d", repo.countUsersNamed("alice"))
	}
}
