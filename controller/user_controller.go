// controller/user_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/middleware"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/service"
	"github.com/fayhaa-municipality/complaints-api/util"
	helper_util "github.com/fayhaa-municipality/complaints-api/util/helper"
)

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RegisterRoutes registers the API routes
func (uc *UserController) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me", uc.Me)
		users.PUT("/me", uc.UpdateProfile)
		users.POST("/me/invite/accept", uc.AcceptInvite)
		users.POST("/me/invite/reject", uc.RejectInvite)
		users.GET("/:id", uc.GetUser)

		staff := users.Group("")
		staff.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
		{
			staff.GET("", uc.ListUsers)
			staff.POST("/invites", uc.InviteUser)
			staff.POST("/:id/revoke", uc.RevokeRole)
		}
	}
}

// Me endpoint returns the authenticated user's own record.
func (uc *UserController) Me(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	FullName    *string `json:"full_name"`
	DateOfBirth *string `json:"date_of_birth"`
	AreaID      *string `json:"area_id"`
}

// UpdateProfile endpoint
func (uc *UserController) UpdateProfile(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid profile data", err)
		return
	}

	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.DateOfBirth != nil {
		fields["date_of_birth"] = *req.DateOfBirth
	}
	if req.AreaID != nil {
		fields["area_id"] = *req.AreaID
	}
	if len(fields) == 0 {
		util.RespondWithError(c, http.StatusBadRequest, "No profile fields to update", fayhaa_errors.ErrInvalidUserData)
		return
	}

	updated, err := uc.userService.UpdateProfile(c, user.ID, fields)
	if err != nil {
		if errors.Is(err, fayhaa_errors.ErrUserNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetUser endpoint
func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.Param("id")

	user, err := uc.userService.GetUser(c, userID)
	if err != nil {
		if errors.Is(err, fayhaa_errors.ErrUserNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve user", err)
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers endpoint
func (uc *UserController) ListUsers(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	users, err := uc.userService.ListUsers(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, users)
}

type inviteRequest struct {
	PhoneNumber     string     `json:"phone_number" binding:"required"`
	Role            model.Role `json:"role"`
	MunicipalityIDs []string   `json:"municipality_ids"`
	AreaIDs         []string   `json:"area_ids"`
}

// InviteUser endpoint starts the role promotion handshake.
func (uc *UserController) InviteUser(c *gin.Context) {
	actor := middleware.RequestingUser(c)
	if actor == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid invite data", err)
		return
	}

	updated, err := uc.userService.InviteUser(c, actor, req.PhoneNumber, req.Role, req.MunicipalityIDs, req.AreaIDs)
	if err != nil {
		switch {
		case errors.Is(err, fayhaa_errors.ErrInviteNotAllowed):
			util.RespondWithError(c, http.StatusForbidden, "Not allowed to invite to this role", err)
		case errors.Is(err, fayhaa_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "No user with this phone number", err)
		case errors.Is(err, fayhaa_errors.ErrInvalidPhone):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid phone number", err)
		case errors.Is(err, fayhaa_errors.ErrAlreadyHasRole):
			util.RespondWithError(c, http.StatusConflict, "User already holds this role", err)
		case errors.Is(err, fayhaa_errors.ErrTargetIsAdmin):
			util.RespondWithError(c, http.StatusConflict, "Cannot change the role of an admin", err)
		case errors.Is(err, fayhaa_errors.ErrElevatedRole):
			util.RespondWithError(c, http.StatusConflict, "User already holds an elevated role", err)
		case errors.Is(err, fayhaa_errors.ErrPendingInvite):
			util.RespondWithError(c, http.StatusConflict, "User already has a pending invite", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to record invite", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AcceptInvite endpoint
func (uc *UserController) AcceptInvite(c *gin.Context) {
	uc.resolveInvite(c, true)
}

// RejectInvite endpoint
func (uc *UserController) RejectInvite(c *gin.Context) {
	uc.resolveInvite(c, false)
}

func (uc *UserController) resolveInvite(c *gin.Context, accept bool) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	updated, err := uc.userService.ResolveInvite(c, user.ID, accept)
	if err != nil {
		switch {
		case errors.Is(err, fayhaa_errors.ErrNoPendingInvite):
			util.RespondWithError(c, http.StatusConflict, "No pending invite to resolve", err)
		case errors.Is(err, fayhaa_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve invite", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// RevokeRole endpoint forces an elevated user back to Citizen.
func (uc *UserController) RevokeRole(c *gin.Context) {
	actor := middleware.RequestingUser(c)
	if actor == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	updated, err := uc.userService.RevokeRole(c, actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, fayhaa_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		case errors.Is(err, fayhaa_errors.ErrTargetIsAdmin):
			util.RespondWithError(c, http.StatusConflict, "Cannot change the role of an admin", err)
		case errors.Is(err, fayhaa_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusConflict, "User holds no elevated role", err)
		case errors.Is(err, fayhaa_errors.ErrForbidden):
			util.RespondWithError(c, http.StatusForbidden, "Not allowed to revoke this role", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to revoke role", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}
