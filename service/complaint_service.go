// service/complaint_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fayhaa-municipality/complaints-api/db"
	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/geo"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/util"
	"github.com/fayhaa-municipality/complaints-api/workflow"
)

// complaintStore is what the complaint service needs from the DAO layer.
type complaintStore interface {
	CreateComplaint(ctx context.Context, complaint model.Complaint) (string, error)
	UpdateComplaintFields(ctx context.Context, complaintID string, fields map[string]interface{}) (*model.Complaint, error)
	AppendAssignment(ctx context.Context, complaintID string, assignment model.Assignment) (*model.Complaint, error)
	DeleteComplaint(ctx context.Context, complaintID string) error
	GetComplaint(ctx context.Context, complaintID string) (*model.Complaint, error)
	FetchAllComplaints(ctx context.Context) ([]*model.Complaint, error)
}

// complaintCache is what the complaint service needs from the cache layer.
type complaintCache interface {
	GetComplaint(ctx context.Context, complaintID string) (*model.Complaint, error)
	SetComplaint(ctx context.Context, complaint model.Complaint) error
	DeleteComplaint(ctx context.Context, complaintID string) error
}

// IComplaintService defines the interface for complaint lifecycle operations
type IComplaintService interface {
	CreateComplaint(ctx context.Context, complaint model.Complaint) (*model.Complaint, error)
	GetComplaint(ctx context.Context, complaintID string) (*model.Complaint, error)
	ListComplaints(ctx context.Context) ([]*model.Complaint, error)
	ListVisibleComplaints(ctx context.Context, user *model.User) ([]*model.Complaint, error)
	AssignToSelf(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error)
	AssignWorker(ctx context.Context, complaintID string, actor *model.User, workerID string) (*model.Complaint, error)
	Resolve(ctx context.Context, complaintID string, actor *model.User, photoURL, thumbnailURL string, lat, lng float64) (*model.Complaint, error)
	Complete(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error)
	Deny(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error)
	Reject(ctx context.Context, complaintID string, actor *model.User, reason string) (*model.Complaint, error)
	DeleteComplaint(ctx context.Context, complaintID string, actor *model.User) error
}

// ComplaintService handles the complaint lifecycle: creation, the status
// state machine, and the fan-out that follows every change.
type ComplaintService struct {
	complaintDAO    complaintStore
	userDAO         userStore
	refDataSvc      IRefDataService
	validationUtil  *util.ValidationUtil
	cacheService    complaintCache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus

	// publishTick announces a collection change to every API instance.
	// Swappable for tests; db.PublishSnapshotTick in production.
	publishTick func(ctx context.Context, complaintID string) error
}

var _ IComplaintService = &ComplaintService{}

// NewComplaintService creates a new instance of ComplaintService
func NewComplaintService(complaintDAO complaintStore, userDAO userStore, refDataSvc IRefDataService, validationUtil *util.ValidationUtil, cacheService complaintCache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *ComplaintService {
	service := &ComplaintService{
		complaintDAO:    complaintDAO,
		userDAO:         userDAO,
		refDataSvc:      refDataSvc,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		publishTick:     db.PublishSnapshotTick,
	}

	// Every write publishes; the cache refresh, the cross-instance snapshot
	// tick and the owner push all run as event handlers.
	eventBus.Subscribe(util.EventComplaintCreated, service.handleComplaintWritten)
	eventBus.Subscribe(util.EventComplaintChanged, service.handleComplaintWritten)
	eventBus.Subscribe(util.EventComplaintChanged, service.handleStatusChanged)
	eventBus.Subscribe(util.EventComplaintDeleted, service.handleComplaintDeleted)

	return service
}

// handleComplaintWritten refreshes the cache entry and announces the
// collection change to every API instance.
func (s *ComplaintService) handleComplaintWritten(ctx context.Context, event util.Event) error {
	complaint, ok := event.Payload.(model.Complaint)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s event", event.Payload, event.Type)
	}
	if err := s.cacheService.SetComplaint(ctx, complaint); err != nil {
		logger.Warn("Failed to cache complaint", zap.Error(err), zap.String("complaintID", complaint.ID))
	}
	if err := s.publishTick(ctx, complaint.ID); err != nil {
		logger.Warn("Failed to publish snapshot tick", zap.Error(err), zap.String("complaintID", complaint.ID))
	}
	return nil
}

// handleStatusChanged pushes the new status to the complaint owner,
// best-effort.
func (s *ComplaintService) handleStatusChanged(ctx context.Context, event util.Event) error {
	complaint, ok := event.Payload.(model.Complaint)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s event", event.Payload, event.Type)
	}
	owner, err := s.userDAO.GetUser(ctx, complaint.UserID)
	if err != nil {
		return fmt.Errorf("failed to look up complaint owner for notification: %w", err)
	}
	s.notificationSvc.NotifyStatusChange(ctx, owner.Email, &complaint)
	return nil
}

// handleComplaintDeleted evicts the cache entry and ticks the snapshot feed.
func (s *ComplaintService) handleComplaintDeleted(ctx context.Context, event util.Event) error {
	complaintID, ok := event.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s event", event.Payload, event.Type)
	}
	if err := s.cacheService.DeleteComplaint(ctx, complaintID); err != nil {
		logger.Warn("Failed to delete complaint from cache", zap.Error(err), zap.String("complaintID", complaintID))
	}
	if err := s.publishTick(ctx, complaintID); err != nil {
		logger.Warn("Failed to publish snapshot tick", zap.Error(err), zap.String("complaintID", complaintID))
	}
	return nil
}

// CreateComplaint files a new complaint as pending. When the client sends no
// area, the area is derived from the coordinates via the boundary data.
func (s *ComplaintService) CreateComplaint(ctx context.Context, complaint model.Complaint) (*model.Complaint, error) {
	if complaint.AreaID == "" {
		areas, err := s.refDataSvc.Areas(ctx)
		if err != nil {
			logger.Error("Failed to load areas for geolocation", zap.Error(err))
			return nil, err
		}
		area := geo.LocateArea(areas, complaint.Latitude, complaint.Longitude)
		if area == nil {
			return nil, fayhaa_errors.ErrInvalidComplaintData
		}
		complaint.AreaID = area.ID
	}

	complaint.Status = model.StatusPending
	if err := s.validationUtil.ValidateComplaint(complaint); err != nil {
		return nil, fmt.Errorf("invalid complaint: %w", err)
	}

	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = time.Now()

	complaintID, err := s.complaintDAO.CreateComplaint(ctx, complaint)
	if err != nil {
		logger.Error("Error creating complaint", zap.Error(err), zap.String("userID", complaint.UserID))
		return nil, err
	}
	complaint.ID = complaintID

	s.eventBus.Publish(ctx, util.EventComplaintCreated, complaint)

	logger.Info("Complaint created successfully",
		zap.String("complaintID", complaintID),
		zap.String("userID", complaint.UserID))
	return &complaint, nil
}

// GetComplaint retrieves a complaint by its ID
func (s *ComplaintService) GetComplaint(ctx context.Context, complaintID string) (*model.Complaint, error) {
	cached, err := s.cacheService.GetComplaint(ctx, complaintID)
	if err == nil && cached != nil {
		return cached, nil
	}

	complaint, err := s.complaintDAO.GetComplaint(ctx, complaintID)
	if err != nil {
		if errors.Is(err, fayhaa_errors.ErrComplaintNotFound) {
			return nil, fayhaa_errors.ErrComplaintNotFound
		}
		logger.Error("Error retrieving complaint", zap.Error(err), zap.String("complaintID", complaintID))
		return nil, fayhaa_errors.ErrInternalServer
	}

	if err := s.cacheService.SetComplaint(ctx, *complaint); err != nil {
		logger.Warn("Failed to cache complaint", zap.Error(err), zap.String("complaintID", complaintID))
	}

	return complaint, nil
}

// ListComplaints returns the full collection, newest first.
func (s *ComplaintService) ListComplaints(ctx context.Context) ([]*model.Complaint, error) {
	return s.complaintDAO.FetchAllComplaints(ctx)
}

// ListVisibleComplaints returns the collection narrowed to the user's role
// view, the same predicate the realtime feed applies.
func (s *ComplaintService) ListVisibleComplaints(ctx context.Context, user *model.User) ([]*model.Complaint, error) {
	complaints, err := s.complaintDAO.FetchAllComplaints(ctx)
	if err != nil {
		return nil, err
	}

	areas, err := s.refDataSvc.Areas(ctx)
	if err != nil {
		logger.Error("Failed to load areas for visibility filter", zap.Error(err))
		return nil, err
	}

	return VisibleComplaints(user, complaints, AreaMunicipalityIndex(areas)), nil
}

// AssignToSelf is the admin assignment: the admin becomes the single manager
// assignee, replacing any previous one.
func (s *ComplaintService) AssignToSelf(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error) {
	complaint, err := s.GetComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	update, err := workflow.AssignManager(complaint, actor, time.Now())
	if err != nil {
		return nil, err
	}

	updated, err := s.complaintDAO.UpdateComplaintFields(ctx, complaintID, update)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventComplaintChanged, *updated)
	return updated, nil
}

// AssignWorker is the manager assignment: appends a worker to the assignment
// history. A worker already in the history is logged as an advisory duplicate
// but still appended.
func (s *ComplaintService) AssignWorker(ctx context.Context, complaintID string, actor *model.User, workerID string) (*model.Complaint, error) {
	complaint, err := s.GetComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	worker, err := s.userDAO.GetUser(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker.Role != model.RoleWorker {
		return nil, fayhaa_errors.ErrInvalidUserData
	}

	now := time.Now()
	scratch := *complaint
	_, duplicate, err := workflow.AssignWorker(&scratch, actor, worker, now)
	if err != nil {
		return nil, err
	}
	if duplicate {
		logger.Warn("Worker already in assignment history",
			zap.String("complaintID", complaintID),
			zap.String("workerID", workerID))
	}

	// The append itself happens in the DAO inside one write transaction so
	// concurrent manager assignments serialize.
	updated, err := s.complaintDAO.AppendAssignment(ctx, complaintID, model.Assignment{
		WorkerID:   worker.ID,
		WorkerName: worker.FullName,
		AssignedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventComplaintChanged, *updated)
	s.notificationSvc.NotifyWorkerAssigned(ctx, worker.Email, updated)
	return updated, nil
}

// Resolve records a worker's proposed resolution, or a resubmission after a
// denial.
func (s *ComplaintService) Resolve(ctx context.Context, complaintID string, actor *model.User, photoURL, thumbnailURL string, lat, lng float64) (*model.Complaint, error) {
	complaint, err := s.GetComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	var update workflow.Update
	if complaint.Status == model.StatusDenied {
		update, err = workflow.ReResolve(complaint, actor, photoURL, thumbnailURL, lat, lng, time.Now())
	} else {
		update, err = workflow.Resolve(complaint, actor, photoURL, thumbnailURL, lat, lng, time.Now())
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.complaintDAO.UpdateComplaintFields(ctx, complaintID, update)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventComplaintChanged, *updated)
	return updated, nil
}

// Complete confirms a proposed resolution, ending the lifecycle.
func (s *ComplaintService) Complete(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error) {
	return s.transition(ctx, complaintID, func(c *model.Complaint) (workflow.Update, error) {
		return workflow.Complete(c, actor, time.Now())
	})
}

// Deny sends a proposed resolution back to the worker.
func (s *ComplaintService) Deny(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error) {
	return s.transition(ctx, complaintID, func(c *model.Complaint) (workflow.Update, error) {
		return workflow.Deny(c, actor, time.Now())
	})
}

// Reject terminates a complaint with a reason.
func (s *ComplaintService) Reject(ctx context.Context, complaintID string, actor *model.User, reason string) (*model.Complaint, error) {
	return s.transition(ctx, complaintID, func(c *model.Complaint) (workflow.Update, error) {
		return workflow.Reject(c, actor, reason, time.Now())
	})
}

func (s *ComplaintService) transition(ctx context.Context, complaintID string, apply func(*model.Complaint) (workflow.Update, error)) (*model.Complaint, error) {
	complaint, err := s.GetComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	update, err := apply(complaint)
	if err != nil {
		return nil, err
	}

	updated, err := s.complaintDAO.UpdateComplaintFields(ctx, complaintID, update)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventComplaintChanged, *updated)
	return updated, nil
}

// DeleteComplaint hard-deletes a complaint. Admin only.
func (s *ComplaintService) DeleteComplaint(ctx context.Context, complaintID string, actor *model.User) error {
	if actor.Role != model.RoleAdmin {
		return fayhaa_errors.ErrForbidden
	}

	if err := s.complaintDAO.DeleteComplaint(ctx, complaintID); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, util.EventComplaintDeleted, complaintID)

	return nil
}
