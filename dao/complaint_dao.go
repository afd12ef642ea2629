// dao/complaint_dao.go
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

type ComplaintDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewComplaintDAO(driver neo4j.Driver, auditService audit.Service) *ComplaintDAO {
	dao := &ComplaintDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Complaint", zap.Error(err))
	}
	return dao
}

func (dao *ComplaintDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_complaint_id IF NOT EXISTS
        FOR (c:Complaint) REQUIRE c.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Complaint ID", zap.Error(err))
		return err
	}

	return nil
}

// CreateComplaint writes a new complaint node and returns its generated ID.
func (dao *ComplaintDAO) CreateComplaint(ctx context.Context, complaint model.Complaint) (string, error) {
	start := time.Now()
	logger.Info("Creating new complaint", zap.String("userID", complaint.UserID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if complaint.ID == "" {
		complaint.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (c:Complaint {id: $id})
        ON CREATE SET c += $props
        RETURN c.id as id
        `

		params := map[string]interface{}{
			"id":    complaint.ID,
			"props": complaintProps(&complaint),
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
		logger.Error("Failed to create complaint",
			zap.Error(err),
			zap.String("userID", complaint.UserID),
			zap.Duration("duration", duration))
		return "", err
	}

	complaintID := fmt.Sprintf("%v", result)
	logger.Info("Complaint created successfully",
		zap.String("complaintID", complaintID),
		zap.Duration("duration", duration))

	dao.recordAudit(ctx, audit.ActionCreateComplaint, complaintID, string(complaint.Status), nil)

	return complaintID, nil
}

// UpdateComplaintFields applies a partial update as one atomic write and
// stamps updated_at. Keys must be storage property names; time.Time values
// and assignment histories are normalized for storage here.
func (dao *ComplaintDAO) UpdateComplaintFields(ctx context.Context, complaintID string, fields map[string]interface{}) (*model.Complaint, error) {
	start := time.Now()
	logger.Info("Updating complaint", zap.String("complaintID", complaintID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	props, err := normalizeProps(fields)
	if err != nil {
		return nil, err
	}
	props["updated_at"] = time.Now().Format(time.RFC3339)

	var updated *model.Complaint
	_, err = session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:Complaint {id: $id})
        SET c += $props
        RETURN c
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":    complaintID,
			"props": props,
		})
		if err != nil {
			return nil, fayhaa_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			updated, err = mapNodeToComplaint(node)
			if err != nil {
				return nil, fmt.Errorf("failed to map complaint node to struct: %w", err)
			}
			return nil, nil
		}

		return nil, fayhaa_errors.ErrComplaintNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update complaint",
			zap.Error(err),
			zap.String("complaintID", complaintID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Complaint updated successfully",
		zap.String("complaintID", complaintID),
		zap.Duration("duration", duration))

	details, _ := json.Marshal(fieldNames(fields))
	dao.recordAudit(ctx, audit.ActionUpdateComplaint, complaintID, fmt.Sprintf("%v", props["status"]), details)

	return updated, nil
}

// AppendAssignment re-reads the assignment history and appends one record
// inside a single write transaction, so two concurrent manager appends on the
// same complaint serialize instead of clobbering each other.
func (dao *ComplaintDAO) AppendAssignment(ctx context.Context, complaintID string, assignment model.Assignment) (*model.Complaint, error) {
	start := time.Now()
	logger.Info("Appending worker assignment",
		zap.String("complaintID", complaintID),
		zap.String("workerID", assignment.WorkerID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updated *model.Complaint
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		read, err := transaction.Run(`MATCH (c:Complaint {id: $id}) RETURN c`, map[string]interface{}{"id": complaintID})
		if err != nil {
			return nil, fayhaa_errors.ErrDatabaseOperation
		}
		if !read.Next() {
			return nil, fayhaa_errors.ErrComplaintNotFound
		}

		current, err := mapNodeToComplaint(read.Record().Values[0].(neo4j.Node))
		if err != nil {
			return nil, fmt.Errorf("failed to map complaint node to struct: %w", err)
		}

		history := append(current.Assignments, assignment)
		historyJSON, err := json.Marshal(history)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal assignment history: %w", err)
		}

		write, err := transaction.Run(`
        MATCH (c:Complaint {id: $id})
        SET c.assignments = $assignments,
            c.status = $status,
            c.updated_at = $updated_at
        RETURN c
        `, map[string]interface{}{
			"id":          complaintID,
			"assignments": string(historyJSON),
			"status":      string(model.StatusAssigned),
			"updated_at":  time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, fayhaa_errors.ErrDatabaseOperation
		}
		if write.Next() {
			updated, err = mapNodeToComplaint(write.Record().Values[0].(neo4j.Node))
			return nil, err
		}
		return nil, fayhaa_errors.ErrComplaintNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to append assignment",
			zap.Error(err),
			zap.String("complaintID", complaintID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Assignment appended successfully",
		zap.String("complaintID", complaintID),
		zap.Int("historyLength", len(updated.Assignments)),
		zap.Duration("duration", duration))

	details, _ := json.Marshal(assignment)
	dao.recordAudit(ctx, audit.ActionUpdateComplaint, complaintID, string(model.StatusAssigned), details)

	return updated, nil
}

// DeleteComplaint hard-deletes a complaint. Admin-only; the only deletion
// path in the system.
func (dao *ComplaintDAO) DeleteComplaint(ctx context.Context, complaintID string) error {
	start := time.Now()
	logger.Info("Deleting complaint", zap.String("complaintID", complaintID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(`
        MATCH (c:Complaint {id: $id})
        DETACH DELETE c
        `, map[string]interface{}{"id": complaintID})
		if err != nil {
			return nil, fayhaa_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, fayhaa_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, fayhaa_errors.ErrComplaintNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete complaint",
			zap.Error(err),
			zap.String("complaintID", complaintID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Complaint deleted successfully",
		zap.String("complaintID", complaintID),
		zap.Duration("duration", duration))

	dao.recordAudit(ctx, audit.ActionDeleteComplaint, complaintID, "", nil)

	return nil
}

func (dao *ComplaintDAO) GetComplaint(ctx context.Context, complaintID string) (*model.Complaint, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (c:Complaint {id: $id}) RETURN c`, map[string]interface{}{"id": complaintID})
	if err != nil {
		logger.Error("Failed to execute get complaint query",
			zap.Error(err),
			zap.String("complaintID", complaintID),
			zap.Duration("duration", time.Since(start)))
		return nil, fayhaa_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		complaint, err := mapNodeToComplaint(node)
		if err != nil {
			logger.Error("Failed to map complaint node to struct",
				zap.Error(err),
				zap.String("complaintID", complaintID))
			return nil, fayhaa_errors.ErrInternalServer
		}
		return complaint, nil
	}

	logger.Warn("Complaint not found",
		zap.String("complaintID", complaintID),
		zap.Duration("duration", time.Since(start)))
	return nil, fayhaa_errors.ErrComplaintNotFound
}

// FetchAllComplaints returns the entire collection ordered created_at
// descending. The backend guarantees no ordering, so the sort always happens
// here.
func (dao *ComplaintDAO) FetchAllComplaints(ctx context.Context) ([]*model.Complaint, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`
    MATCH (c:Complaint)
    RETURN c
    ORDER BY c.created_at DESC
    `, nil)
	if err != nil {
		logger.Error("Failed to execute fetch complaints query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, fayhaa_errors.ErrDatabaseOperation
	}

	var complaints []*model.Complaint
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		complaint, err := mapNodeToComplaint(node)
		if err != nil {
			logger.Error("Failed to map complaint node to struct", zap.Error(err))
			return nil, fayhaa_errors.ErrInternalServer
		}
		complaints = append(complaints, complaint)
	}

	logger.Info("Complaints fetched successfully",
		zap.Int("count", len(complaints)),
		zap.Duration("duration", time.Since(start)))

	return complaints, nil
}

func (dao *ComplaintDAO) recordAudit(ctx context.Context, action, resourceID, status string, details json.RawMessage) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		ActorID:       actorIDFromContext(ctx),
		Action:        action,
		ResourceID:    resourceID,
		Status:        status,
		ChangeDetails: details,
	}
	if err := dao.AuditService.Record(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}

// complaintProps flattens a complaint into node properties. Nested structures
// (assignment history) are JSON-encoded into a single string property; times
// are RFC3339 strings; nil pointers are omitted.
func complaintProps(c *model.Complaint) map[string]interface{} {
	assignmentsJSON, _ := json.Marshal(c.Assignments)

	props := map[string]interface{}{
		"user_id":      c.UserID,
		"area_id":      c.AreaID,
		"indicator_id": c.IndicatorID,
		"description":  c.Description,
		"status":       string(c.Status),
		"photo_url":    c.PhotoURL,
		"thumbnail_url": c.ThumbnailURL,
		"latitude":     c.Latitude,
		"longitude":    c.Longitude,
		"assignments":  string(assignmentsJSON),
		"created_at":   c.CreatedAt.Format(time.RFC3339),
		"updated_at":   c.UpdatedAt.Format(time.RFC3339),
	}
	if c.ManagerAssigneeID != "" {
		props["manager_assignee_id"] = c.ManagerAssigneeID
		props["manager_name"] = c.ManagerName
	}
	if c.AssignedAt != nil {
		props["assigned_at"] = c.AssignedAt.Format(time.RFC3339)
	}
	return props
}

// normalizeProps converts workflow update values into storable properties.
func normalizeProps(fields map[string]interface{}) (map[string]interface{}, error) {
	props := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		switch v := value.(type) {
		case time.Time:
			props[key] = v.Format(time.RFC3339)
		case []model.Assignment:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal assignment history: %w", err)
			}
			props[key] = string(encoded)
		default:
			props[key] = value
		}
	}
	return props, nil
}

// Helper function to map Neo4j Node to Complaint struct
func mapNodeToComplaint(node neo4j.Node) (*model.Complaint, error) {
	props := node.Props
	c := &model.Complaint{}

	c.ID = stringProp(props, "id")
	c.UserID = stringProp(props, "user_id")
	c.AreaID = stringProp(props, "area_id")
	c.IndicatorID = stringProp(props, "indicator_id")
	c.Description = stringProp(props, "description")
	c.Status = model.Status(stringProp(props, "status"))
	c.PhotoURL = stringProp(props, "photo_url")
	c.ThumbnailURL = stringProp(props, "thumbnail_url")
	c.ResolvedPhotoURL = stringProp(props, "resolved_photo_url")
	c.ResolvedThumbnailURL = stringProp(props, "resolved_thumbnail_url")
	c.Latitude = floatProp(props, "latitude")
	c.Longitude = floatProp(props, "longitude")
	c.ResolvedLat = floatPtrProp(props, "resolved_lat")
	c.ResolvedLong = floatPtrProp(props, "resolved_long")
	c.ManagerAssigneeID = stringProp(props, "manager_assignee_id")
	c.ManagerName = stringProp(props, "manager_name")
	c.RejectionReason = stringProp(props, "rejection_reason")

	if raw := stringProp(props, "assignments"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &c.Assignments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assignment history: %w", err)
		}
	}

	var err error
	if c.CreatedAt, err = timeProp(props, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = timeProp(props, "updated_at"); err != nil {
		return nil, err
	}
	if c.AssignedAt, err = timePtrProp(props, "assigned_at"); err != nil {
		return nil, err
	}
	if c.ResolvedAt, err = timePtrProp(props, "resolved_at"); err != nil {
		return nil, err
	}
	if c.CompletedAt, err = timePtrProp(props, "completed_at"); err != nil {
		return nil, err
	}
	if c.RejectedAt, err = timePtrProp(props, "rejected_at"); err != nil {
		return nil, err
	}
	if c.DeniedAt, err = timePtrProp(props, "denied_at"); err != nil {
		return nil, err
	}

	return c, nil
}

func fieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
