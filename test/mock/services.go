// test/mock/services.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/service"
)

// MockComplaintService is a mock implementation of service.IComplaintService
type MockComplaintService struct {
	mock.Mock
}

func (m *MockComplaintService) CreateComplaint(ctx context.Context, complaint model.Complaint) (*model.Complaint, error) {
	args := m.Called(ctx, complaint)
	return complaintOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) GetComplaint(ctx context.Context, complaintID string) (*model.Complaint, error) {
	args := m.Called(ctx, complaintID)
	return complaintOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) ListComplaints(ctx context.Context) ([]*model.Complaint, error) {
	args := m.Called(ctx)
	return complaintsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) ListVisibleComplaints(ctx context.Context, user *model.User) ([]*model.Complaint, error) {
	args := m.Called(ctx, user)
	return complaintsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) AssignToSelf(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error) {
	args := m.Called(ctx, complaintID, actor)
	return complaintOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) AssignWorker(ctx context.Context, complaintID string, actor *model.User, workerID string) (*model.Complaint, error) {
	args := m.Called(ctx, complaintID, actor, workerID)
	return complaintOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) Resolve(ctx context.Context, complaintID string, actor *model.User, photoURL, thumbnailURL string, lat, lng float64) (*model.Complaint, error) {
	args := m.Called(ctx, complaintID, actor, photoURL, thumbnailURL, lat, lng)
	return complaintOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) Complete(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error) {
	args := m.Called(ctx, complaintID, actor)
	return complaintOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) Deny(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error) {
	args := m.Called(ctx, complaintID, actor)
	return complaintOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) Reject(ctx context.Context, complaintID string, actor *model.User, reason string) (*model.Complaint, error) {
	args := m.Called(ctx, complaintID, actor, reason)
	return complaintOrNil(args.Get(0)), args.Error(1)
}

func (m *MockComplaintService) DeleteComplaint(ctx context.Context, complaintID string, actor *model.User) error {
	args := m.Called(ctx, complaintID, actor)
	return args.Error(0)
}

// MockUserService is a mock implementation of service.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterUser(ctx context.Context, user model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) GetUserByPhone(ctx context.Context, phoneNumber string) (*model.User, error) {
	args := m.Called(ctx, phoneNumber)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) (*model.User, error) {
	args := m.Called(ctx, userID, fields)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) InviteUser(ctx context.Context, actor *model.User, phoneNumber string, target model.Role, municipalityIDs, areaIDs []string) (*model.User, error) {
	args := m.Called(ctx, actor, phoneNumber, target, municipalityIDs, areaIDs)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) ResolveInvite(ctx context.Context, userID string, accept bool) (*model.User, error) {
	args := m.Called(ctx, userID, accept)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) RevokeRole(ctx context.Context, actor *model.User, userID string) (*model.User, error) {
	args := m.Called(ctx, actor, userID)
	return userOrNil(args.Get(0)), args.Error(1)
}

// MockAuthService is a mock implementation of service.IAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, user model.User, password string) (*model.User, error) {
	args := m.Called(ctx, user, password)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), userOrNil(args.Get(1)), args.Error(2)
}

func (m *MockAuthService) SendOTP(ctx context.Context, phoneNumber string) error {
	args := m.Called(ctx, phoneNumber)
	return args.Error(0)
}

func (m *MockAuthService) LoginWithOTP(ctx context.Context, phoneNumber, code string) (string, *model.User, error) {
	args := m.Called(ctx, phoneNumber, code)
	return args.String(0), userOrNil(args.Get(1)), args.Error(2)
}

func (m *MockAuthService) MarkEmailVerified(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) ParseToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if v := args.Get(0); v != nil {
		return v.(*service.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRefDataService is a mock implementation of service.IRefDataService
type MockRefDataService struct {
	mock.Mock
}

func (m *MockRefDataService) Areas(ctx context.Context) ([]*model.Area, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*model.Area), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefDataService) Municipalities(ctx context.Context) ([]*model.Municipality, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*model.Municipality), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefDataService) Indicators(ctx context.Context) ([]*model.Indicator, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*model.Indicator), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefDataService) WasteItems(ctx context.Context) ([]*model.WasteItem, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*model.WasteItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefDataService) LocateArea(ctx context.Context, lat, lng float64) (*model.Area, error) {
	args := m.Called(ctx, lat, lng)
	if v := args.Get(0); v != nil {
		return v.(*model.Area), args.Error(1)
	}
	return nil, args.Error(1)
}

func complaintOrNil(v interface{}) *model.Complaint {
	if v == nil {
		return nil
	}
	return v.(*model.Complaint)
}

func complaintsOrNil(v interface{}) []*model.Complaint {
	if v == nil {
		return nil
	}
	return v.([]*model.Complaint)
}

func userOrNil(v interface{}) *model.User {
	if v == nil {
		return nil
	}
	return v.(*model.User)
}
