// controller/complaint_controller.go
package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/middleware"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/service"
	"github.com/fayhaa-municipality/complaints-api/util"
)

type ComplaintController struct {
	complaintService service.IComplaintService
}

func NewComplaintController(complaintService service.IComplaintService) *ComplaintController {
	return &ComplaintController{
		complaintService: complaintService,
	}
}

// RegisterRoutes registers the API routes
func (cc *ComplaintController) RegisterRoutes(r *gin.RouterGroup) {
	complaints := r.Group("/complaints")
	{
		complaints.POST("", cc.CreateComplaint)
		complaints.GET("", cc.ListComplaints)
		complaints.GET("/:id", cc.GetComplaint)
		complaints.DELETE("/:id", cc.DeleteComplaint)

		complaints.POST("/:id/assign", cc.Assign)
		complaints.POST("/:id/resolve", cc.Resolve)
		complaints.POST("/:id/complete", cc.Complete)
		complaints.POST("/:id/deny", cc.Deny)
		complaints.POST("/:id/reject", cc.Reject)
	}
}

type createComplaintRequest struct {
	AreaID       string  `json:"area_id"`
	IndicatorID  string  `json:"indicator_id"`
	Description  string  `json:"description" binding:"required"`
	PhotoURL     string  `json:"photo_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// CreateComplaint endpoint files a new complaint for the authenticated user.
func (cc *ComplaintController) CreateComplaint(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid complaint data", err)
		return
	}

	created, err := cc.complaintService.CreateComplaint(c, model.Complaint{
		UserID:       user.ID,
		AreaID:       req.AreaID,
		IndicatorID:  req.IndicatorID,
		Description:  req.Description,
		PhotoURL:     req.PhotoURL,
		ThumbnailURL: req.ThumbnailURL,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	})
	if err != nil {
		if errors.Is(err, fayhaa_errors.ErrInvalidComplaintData) {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid complaint data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create complaint", err)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListComplaints endpoint returns the collection narrowed to the caller's
// role view.
func (cc *ComplaintController) ListComplaints(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	complaints, err := cc.complaintService.ListVisibleComplaints(c, user)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list complaints", err)
		return
	}

	c.JSON(http.StatusOK, complaints)
}

// GetComplaint endpoint
func (cc *ComplaintController) GetComplaint(c *gin.Context) {
	complaint, err := cc.complaintService.GetComplaint(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, fayhaa_errors.ErrComplaintNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Complaint not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve complaint", err)
		}
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// DeleteComplaint endpoint. Admin only.
func (cc *ComplaintController) DeleteComplaint(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	if err := cc.complaintService.DeleteComplaint(c, c.Param("id"), user); err != nil {
		cc.respondTransitionError(c, err, "Failed to delete complaint")
		return
	}

	c.Status(http.StatusNoContent)
}

type assignRequest struct {
	WorkerID string `json:"worker_id"`
}

// Assign endpoint. An admin assigns the complaint to themselves; a manager
// sends worker_id to append a worker to the assignment history.
func (cc *ComplaintController) Assign(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid assignment data", err)
		return
	}

	var (
		updated *model.Complaint
		err     error
	)
	if req.WorkerID != "" {
		updated, err = cc.complaintService.AssignWorker(c, c.Param("id"), user, req.WorkerID)
	} else {
		updated, err = cc.complaintService.AssignToSelf(c, c.Param("id"), user)
	}
	if err != nil {
		cc.respondTransitionError(c, err, "Failed to assign complaint")
		return
	}

	c.JSON(http.StatusOK, updated)
}

type resolveRequest struct {
	PhotoURL     string  `json:"photo_url" binding:"required"`
	ThumbnailURL string  `json:"thumbnail_url" binding:"required"`
	Latitude     float64 `json:"latitude" binding:"required"`
	Longitude    float64 `json:"longitude" binding:"required"`
}

// Resolve endpoint records a worker's proposed resolution. The photo URLs
// come from the upload endpoint.
func (cc *ComplaintController) Resolve(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid resolution data", err)
		return
	}

	updated, err := cc.complaintService.Resolve(c, c.Param("id"), user, req.PhotoURL, req.ThumbnailURL, req.Latitude, req.Longitude)
	if err != nil {
		cc.respondTransitionError(c, err, "Failed to resolve complaint")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Complete endpoint confirms a proposed resolution.
func (cc *ComplaintController) Complete(c *gin.Context) {
	cc.simpleTransition(c, cc.complaintService.Complete, "Failed to complete complaint")
}

// Deny endpoint sends a proposed resolution back to work.
func (cc *ComplaintController) Deny(c *gin.Context) {
	cc.simpleTransition(c, cc.complaintService.Deny, "Failed to deny resolution")
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Reject endpoint terminates a complaint with a reason.
func (cc *ComplaintController) Reject(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Rejection reason is required", err)
		return
	}

	updated, err := cc.complaintService.Reject(c, c.Param("id"), user, req.Reason)
	if err != nil {
		cc.respondTransitionError(c, err, "Failed to reject complaint")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (cc *ComplaintController) simpleTransition(c *gin.Context, op func(ctx context.Context, complaintID string, actor *model.User) (*model.Complaint, error), failMessage string) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	updated, err := op(c, c.Param("id"), user)
	if err != nil {
		cc.respondTransitionError(c, err, failMessage)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (cc *ComplaintController) respondTransitionError(c *gin.Context, err error, failMessage string) {
	switch {
	case errors.Is(err, fayhaa_errors.ErrComplaintNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Complaint not found", err)
	case errors.Is(err, fayhaa_errors.ErrUserNotFound):
		util.RespondWithError(c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, fayhaa_errors.ErrTerminalStatus):
		util.RespondWithError(c, http.StatusConflict, "Complaint is in a terminal status", err)
	case errors.Is(err, fayhaa_errors.ErrInvalidTransition):
		util.RespondWithError(c, http.StatusConflict, "Status transition not allowed", err)
	case errors.Is(err, fayhaa_errors.ErrForbidden):
		util.RespondWithError(c, http.StatusForbidden, "Not allowed for this role", err)
	case errors.Is(err, fayhaa_errors.ErrInvalidUserData):
		util.RespondWithError(c, http.StatusBadRequest, "Target user cannot take assignments", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, failMessage, err)
	}
}
