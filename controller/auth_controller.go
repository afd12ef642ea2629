// controller/auth_controller.go
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
)

type AuthController struct {
	authService service.IAuthService
}

func NewAuthController(authService service.IAuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// RegisterRoutes registers the public authentication routes
func (ac *AuthController) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", ac.SignUp)
		auth.POST("/login", ac.Login)
		auth.POST("/send-otp", ac.SendOTP)
		auth.POST("/verify-otp", ac.VerifyOTP)
	}
}

// RegisterProtectedRoutes registers authenticated auth management routes.
func (ac *AuthController) RegisterProtectedRoutes(r *gin.RouterGroup) {
	// Support flow: there is no email delivery in this service, so an admin
	// confirms an address after checking it out of band.
	r.POST("/users/:id/verify-email", middleware.RequireRole(model.RoleAdmin), ac.VerifyEmail)
}

// VerifyEmail endpoint marks a user's email address as verified.
func (ac *AuthController) VerifyEmail(c *gin.Context) {
	if err := ac.authService.MarkEmailVerified(c, c.Param("id")); err != nil {
		if errors.Is(err, fayhaa_errors.ErrUserNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to verify email", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}

type signUpRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"required"`
	FullName    string `json:"full_name" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
	AreaID      string `json:"area_id"`
	Password    string `json:"password" binding:"required"`
}

// SignUp endpoint
func (ac *AuthController) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid sign-up data", err)
		return
	}

	user, err := ac.authService.SignUp(c, model.User{
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		AreaID:      req.AreaID,
	}, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, fayhaa_errors.ErrUserConflict):
			util.RespondWithError(c, http.StatusConflict, "User already exists", err)
		case errors.Is(err, fayhaa_errors.ErrInvalidPhone):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid phone number", err)
		case errors.Is(err, fayhaa_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid sign-up data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to sign up", err)
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login endpoint
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid login data", err)
		return
	}

	token, user, err := ac.authService.Login(c, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, fayhaa_errors.ErrInvalidCredentials):
			util.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password", err)
		case errors.Is(err, fayhaa_errors.ErrEmailNotVerified):
			util.RespondWithError(c, http.StatusForbidden, "Email address not verified", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to log in", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// SendOTP endpoint
func (ac *AuthController) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := ac.authService.SendOTP(c, req.PhoneNumber); err != nil {
		switch {
		case errors.Is(err, fayhaa_errors.ErrInvalidPhone):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid phone number", err)
		case errors.Is(err, fayhaa_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "No account for this phone number", err)
		case errors.Is(err, fayhaa_errors.ErrOTPSendFailed):
			util.RespondWithError(c, http.StatusBadGateway, "Failed to send verification code", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to send verification code", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// VerifyOTP endpoint finishes a phone login.
func (ac *AuthController) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	token, user, err := ac.authService.LoginWithOTP(c, req.PhoneNumber, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, fayhaa_errors.ErrOTPInvalid):
			util.RespondWithError(c, http.StatusUnauthorized, "Verification code is invalid or expired", err)
		case errors.Is(err, fayhaa_errors.ErrInvalidPhone):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid phone number", err)
		case errors.Is(err, fayhaa_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "No account for this phone number", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to verify code", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
