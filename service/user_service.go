// service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fayhaa-municipality/complaints-api/audit"
	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/otp"
	"github.com/fayhaa-municipality/complaints-api/util"
)

// userStore is what the user service needs from the DAO layer.
type userStore interface {
	CreateUser(ctx context.Context, user model.User) (string, error)
	UpdateUserFields(ctx context.Context, userID, action string, fields map[string]interface{}) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByPhone(ctx context.Context, phoneNumber string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error)
}

// userCache is what the user service needs from the cache layer.
type userCache interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	SetUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, userID string) error
}

// IUserService defines the interface for user and role operations
type IUserService interface {
	RegisterUser(ctx context.Context, user model.User) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByPhone(ctx context.Context, phoneNumber string) (*model.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error)
	UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) (*model.User, error)
	InviteUser(ctx context.Context, actor *model.User, phoneNumber string, target model.Role, municipalityIDs, areaIDs []string) (*model.User, error)
	ResolveInvite(ctx context.Context, userID string, accept bool) (*model.User, error)
	RevokeRole(ctx context.Context, actor *model.User, userID string) (*model.User, error)
}

// UserService handles user profiles and the role promotion protocol
type UserService struct {
	userDAO         userStore
	validationUtil  *util.ValidationUtil
	cacheService    userCache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IUserService = &UserService{}

// NewUserService creates a new instance of UserService
func NewUserService(userDAO userStore, validationUtil *util.ValidationUtil, cacheService userCache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *UserService {
	service := &UserService{
		userDAO:         userDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Write paths only publish; cache refresh and push notifications ride
	// the event bus.
	eventBus.Subscribe(util.EventUserCreated, service.handleUserWritten)
	eventBus.Subscribe(util.EventUserUpdated, service.handleUserWritten)
	eventBus.Subscribe(util.EventRoleInvited, service.handleUserWritten)
	eventBus.Subscribe(util.EventRoleInvited, service.handleRoleInvited)
	eventBus.Subscribe(util.EventRoleChanged, service.handleUserWritten)
	eventBus.Subscribe(util.EventRoleChanged, service.handleRoleChanged)

	return service
}

// handleUserWritten refreshes the cache entry after any user write.
func (s *UserService) handleUserWritten(ctx context.Context, event util.Event) error {
	user, ok := event.Payload.(model.User)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s event", event.Payload, event.Type)
	}
	if err := s.cacheService.SetUser(ctx, user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", user.ID))
	}
	return nil
}

// handleRoleInvited pushes the pending invite to the target, best-effort.
func (s *UserService) handleRoleInvited(ctx context.Context, event util.Event) error {
	user, ok := event.Payload.(model.User)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s event", event.Payload, event.Type)
	}
	if user.InviteRole == nil {
		return nil
	}
	s.notificationSvc.NotifyRoleInvite(ctx, user.Email, *user.InviteRole)
	return nil
}

// handleRoleChanged pushes the new role to the affected user, best-effort.
func (s *UserService) handleRoleChanged(ctx context.Context, event util.Event) error {
	user, ok := event.Payload.(model.User)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s event", event.Payload, event.Type)
	}
	s.notificationSvc.NotifyRoleChange(ctx, user.Email, user.Role)
	return nil
}

// RegisterUser creates a new citizen account. Sign-up never grants an
// elevated role; staff roles only exist through the invite protocol.
func (s *UserService) RegisterUser(ctx context.Context, user model.User) (*model.User, error) {
	user.Role = model.RoleCitizen
	user.InviteRole = nil

	formatted, err := otp.FormatLebanesePhone(user.PhoneNumber)
	if err != nil {
		return nil, err
	}
	user.PhoneNumber = formatted

	if err := s.validationUtil.ValidateUser(user); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	if existing, err := s.userDAO.GetUserByPhone(ctx, user.PhoneNumber); err == nil && existing != nil {
		return nil, fayhaa_errors.ErrUserConflict
	} else if err != nil && !errors.Is(err, fayhaa_errors.ErrUserNotFound) {
		return nil, err
	}
	if existing, err := s.userDAO.GetUserByEmail(ctx, user.Email); err == nil && existing != nil {
		return nil, fayhaa_errors.ErrUserConflict
	} else if err != nil && !errors.Is(err, fayhaa_errors.ErrUserNotFound) {
		return nil, err
	}

	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	userID, err := s.userDAO.CreateUser(ctx, user)
	if err != nil {
		logger.Error("Error creating user", zap.Error(err), zap.String("phone", user.PhoneNumber))
		return nil, err
	}
	user.ID = userID

	s.eventBus.Publish(ctx, util.EventUserCreated, user)

	logger.Info("User registered successfully", zap.String("userID", userID))
	return &user, nil
}

// GetUser retrieves a user by their ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	cachedUser, err := s.cacheService.GetUser(ctx, userID)
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, fayhaa_errors.ErrUserNotFound) {
			return nil, fayhaa_errors.ErrUserNotFound
		}
		logger.Error("Error retrieving user", zap.Error(err), zap.String("userID", userID))
		return nil, fayhaa_errors.ErrInternalServer
	}

	if err := s.cacheService.SetUser(ctx, *user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}

	return user, nil
}

// GetUserByPhone looks up the invite protocol's target.
func (s *UserService) GetUserByPhone(ctx context.Context, phoneNumber string) (*model.User, error) {
	formatted, err := otp.FormatLebanesePhone(phoneNumber)
	if err != nil {
		return nil, err
	}
	return s.userDAO.GetUserByPhone(ctx, formatted)
}

// ListUsers retrieves all users, possibly with pagination
func (s *UserService) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	users, err := s.userDAO.ListUsers(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing users", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// profileFields is the set of fields a user may change on their own record.
// Role, invite and scoping fields only move through the invite protocol.
var profileFields = map[string]bool{
	"full_name":     true,
	"date_of_birth": true,
	"area_id":       true,
}

// UpdateProfile applies a partial self-service update.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) (*model.User, error) {
	for key := range fields {
		if !profileFields[key] {
			return nil, fayhaa_errors.ErrInvalidUserData
		}
	}

	updated, err := s.userDAO.UpdateUserFields(ctx, userID, audit.ActionUpdateUser, fields)
	if err != nil {
		logger.Error("Error updating profile", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventUserUpdated, *updated)
	return updated, nil
}

// InviteUser starts the two-phase role promotion: it records invite_role on
// the target without touching role, and notifies the target best-effort.
// Worker and Supervisor invites may carry municipality/area scoping.
func (s *UserService) InviteUser(ctx context.Context, actor *model.User, phoneNumber string, target model.Role, municipalityIDs, areaIDs []string) (*model.User, error) {
	if !actor.Role.CanInvite(target) {
		return nil, fayhaa_errors.ErrInviteNotAllowed
	}

	user, err := s.GetUserByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	switch {
	case user.Role == model.RoleAdmin:
		return nil, fayhaa_errors.ErrTargetIsAdmin
	case user.Role == target:
		return nil, fayhaa_errors.ErrAlreadyHasRole
	case user.Role.Elevated():
		return nil, fayhaa_errors.ErrElevatedRole
	case user.InviteRole != nil:
		return nil, fayhaa_errors.ErrPendingInvite
	}

	fields := map[string]interface{}{
		"invite_role": target,
	}
	if target == model.RoleWorker || target == model.RoleSupervisor {
		if len(municipalityIDs) > 0 {
			fields["municipality_ids"] = municipalityIDs
		}
		if len(areaIDs) > 0 {
			fields["assigned_area_ids"] = areaIDs
		}
	}

	updated, err := s.userDAO.UpdateUserFields(ctx, user.ID, audit.ActionInviteRole, fields)
	if err != nil {
		logger.Error("Error recording role invite",
			zap.Error(err),
			zap.String("userID", user.ID),
			zap.String("target", target.String()))
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventRoleInvited, *updated)

	logger.Info("Role invite recorded",
		zap.String("userID", user.ID),
		zap.String("actorID", actor.ID),
		zap.String("target", target.String()))

	return updated, nil
}

// ResolveInvite settles a pending invite. Accept promotes to the invited
// role; reject only clears the invite and leaves the role unchanged. Either
// way the invite is consumed by a single partial update.
func (s *UserService) ResolveInvite(ctx context.Context, userID string, accept bool) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.InviteRole == nil {
		return nil, fayhaa_errors.ErrNoPendingInvite
	}

	fields := map[string]interface{}{
		"invite_role": nil,
	}
	if accept {
		fields["role"] = *user.InviteRole
	}

	updated, err := s.userDAO.UpdateUserFields(ctx, userID, audit.ActionResolveInvite, fields)
	if err != nil {
		logger.Error("Error resolving role invite",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Bool("accept", accept))
		return nil, err
	}

	// A rejection leaves the role untouched, so subscribers must not see it
	// as a role change.
	if accept {
		s.eventBus.Publish(ctx, util.EventRoleChanged, *updated)
	} else {
		s.eventBus.Publish(ctx, util.EventUserUpdated, *updated)
	}

	logger.Info("Role invite resolved",
		zap.String("userID", userID),
		zap.Bool("accept", accept),
		zap.String("role", updated.Role.String()))

	return updated, nil
}

// RevokeRole forces an elevated user back to Citizen without a handshake and
// clears any scoping and pending invite.
func (s *UserService) RevokeRole(ctx context.Context, actor *model.User, userID string) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role == model.RoleAdmin {
		return nil, fayhaa_errors.ErrTargetIsAdmin
	}
	if !user.Role.Elevated() {
		return nil, fayhaa_errors.ErrInvalidUserData
	}
	// Revocation authority mirrors invite authority for the held role.
	if !actor.Role.CanInvite(user.Role) {
		return nil, fayhaa_errors.ErrForbidden
	}

	fields := map[string]interface{}{
		"role":              model.RoleCitizen,
		"invite_role":       nil,
		"municipality_ids":  nil,
		"assigned_area_ids": nil,
	}

	updated, err := s.userDAO.UpdateUserFields(ctx, userID, audit.ActionRevokeRole, fields)
	if err != nil {
		logger.Error("Error revoking role", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventRoleChanged, *updated)

	logger.Info("Role revoked",
		zap.String("userID", userID),
		zap.String("actorID", actor.ID))

	return updated, nil
}
