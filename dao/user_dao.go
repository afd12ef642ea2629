// dao/user_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/fayhaa-municipality/complaints-api/audit"
	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
)

type UserDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewUserDAO(driver neo4j.Driver, auditService audit.Service) *UserDAO {
	dao := &UserDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for User", zap.Error(err))
	}
	return dao
}

func (dao *UserDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_app_user_id IF NOT EXISTS
        FOR (u:AppUser) REQUIRE u.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on User ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, user model.User) (string, error) {
	start := time.Now()
	logger.Info("Creating new user", zap.String("phone", user.PhoneNumber))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (u:AppUser {id: $id})
        ON CREATE SET u += $props
        RETURN u.id as id
        `
		params := map[string]interface{}{
			"id":    user.ID,
			"props": userProps(&user),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, fayhaa_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, fayhaa_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("phone", user.PhoneNumber),
			zap.Duration("duration", duration))
		return "", err
	}

	userID := fmt.Sprintf("%v", result)
	logger.Info("User created successfully",
		zap.String("userID", userID),
		zap.Duration("duration", duration))

	dao.recordAudit(ctx, audit.ActionCreateUser, userID, nil)

	return userID, nil
}

// UpdateUserFields applies a partial update as one atomic write and stamps
// updated_at. A nil value removes the property, which is how a resolved
// invite_role is cleared. The action names the mutation in the audit trail,
// so an invite is distinguishable from a profile edit.
func (dao *UserDAO) UpdateUserFields(ctx context.Context, userID, action string, fields map[string]interface{}) (*model.User, error) {
	start := time.Now()
	logger.Info("Updating user", zap.String("userID", userID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	props := make(map[string]interface{}, len(fields)+1)
	for key, value := range fields {
		switch v := value.(type) {
		case time.Time:
			props[key] = v.Format(time.RFC3339)
		case model.Role:
			props[key] = int64(v)
		default:
			props[key] = value
		}
	}
	props["updated_at"] = time.Now().Format(time.RFC3339)

	var updated *model.User
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:AppUser {id: $id})
        SET u += $props
        RETURN u
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":    userID,
			"props": props,
		})
		if err != nil {
			return nil, fayhaa_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			updated, err = mapNodeToUser(node)
			if err != nil {
				return nil, fmt.Errorf("failed to map user node to struct: %w", err)
			}
			return nil, nil
		}

		return nil, fayhaa_errors.ErrUserNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update user",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("User updated successfully",
		zap.String("userID", userID),
		zap.Duration("duration", duration))

	details, _ := json.Marshal(fieldNames(fields))
	dao.recordAudit(ctx, action, userID, details)

	return updated, nil
}

func (dao *UserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return dao.getByProperty(ctx, "id", userID)
}

// GetUserByPhone is the invite protocol's target lookup.
func (dao *UserDAO) GetUserByPhone(ctx context.Context, phoneNumber string) (*model.User, error) {
	return dao.getByProperty(ctx, "phone_number", phoneNumber)
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return dao.getByProperty(ctx, "email", email)
}

func (dao *UserDAO) getByProperty(ctx context.Context, property, value string) (*model.User, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`MATCH (u:AppUser {%s: $value}) RETURN u`, property)
	result, err := session.Run(query, map[string]interface{}{"value": value})
	if err != nil {
		logger.Error("Failed to execute get user query",
			zap.Error(err),
			zap.String(property, value),
			zap.Duration("duration", time.Since(start)))
		return nil, fayhaa_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		user, err := mapNodeToUser(node)
		if err != nil {
			logger.Error("Failed to map user node to struct",
				zap.Error(err),
				zap.String(property, value))
			return nil, fayhaa_errors.ErrInternalServer
		}
		return user, nil
	}

	logger.Warn("User not found",
		zap.String(property, value),
		zap.Duration("duration", time.Since(start)))
	return nil, fayhaa_errors.ErrUserNotFound
}

func (dao *UserDAO) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (u:AppUser)
    RETURN u
    ORDER BY u.created_at DESC
    SKIP $offset
    LIMIT $limit
    `
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list users query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, fayhaa_errors.ErrDatabaseOperation
	}

	var users []*model.User
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		user, err := mapNodeToUser(node)
		if err != nil {
			logger.Error("Failed to map user node to struct", zap.Error(err))
			return nil, fayhaa_errors.ErrInternalServer
		}
		users = append(users, user)
	}

	logger.Info("Users listed successfully",
		zap.Int("count", len(users)),
		zap.Duration("duration", time.Since(start)))

	return users, nil
}

func (dao *UserDAO) recordAudit(ctx context.Context, action, resourceID string, details json.RawMessage) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		ActorID:       actorIDFromContext(ctx),
		Action:        action,
		ResourceID:    resourceID,
		ChangeDetails: details,
	}
	if err := dao.AuditService.Record(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}

func userProps(u *model.User) map[string]interface{} {
	props := map[string]interface{}{
		"phone_number":   u.PhoneNumber,
		"email":          u.Email,
		"full_name":      u.FullName,
		"date_of_birth":  u.DateOfBirth,
		"area_id":        u.AreaID,
		"role":           int64(u.Role),
		"auth_uid":       u.AuthUID,
		"email_verified": u.EmailVerified,
		"password_hash":  u.PasswordHash,
		"created_at":     u.CreatedAt.Format(time.RFC3339),
		"updated_at":     u.UpdatedAt.Format(time.RFC3339),
	}
	if u.InviteRole != nil {
		props["invite_role"] = int64(*u.InviteRole)
	}
	if len(u.MunicipalityIDs) > 0 {
		props["municipality_ids"] = toInterfaceSlice(u.MunicipalityIDs)
	}
	if len(u.AssignedAreaIDs) > 0 {
		props["assigned_area_ids"] = toInterfaceSlice(u.AssignedAreaIDs)
	}
	return props
}

// Helper function to map Neo4j Node to User struct
func mapNodeToUser(node neo4j.Node) (*model.User, error) {
	props := node.Props
	u := &model.User{}

	u.ID = stringProp(props, "id")
	u.PhoneNumber = stringProp(props, "phone_number")
	u.Email = stringProp(props, "email")
	u.FullName = stringProp(props, "full_name")
	u.DateOfBirth = stringProp(props, "date_of_birth")
	u.AreaID = stringProp(props, "area_id")
	u.AuthUID = stringProp(props, "auth_uid")
	u.EmailVerified = boolProp(props, "email_verified")
	u.PasswordHash = stringProp(props, "password_hash")
	u.MunicipalityIDs = stringSliceProp(props, "municipality_ids")
	u.AssignedAreaIDs = stringSliceProp(props, "assigned_area_ids")

	role, err := model.ParseRole(intProp(props, "role"))
	if err != nil {
		return nil, err
	}
	u.Role = role

	if raw, ok := props["invite_role"].(int64); ok {
		invite, err := model.ParseRole(int(raw))
		if err != nil {
			return nil, err
		}
		u.InviteRole = &invite
	}

	if u.CreatedAt, err = timeProp(props, "created_at"); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = timeProp(props, "updated_at"); err != nil {
		return nil, err
	}

	return u, nil
}

func toInterfaceSlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
