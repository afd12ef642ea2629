// controller/auth_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fayhaa-municipality/complaints-api/controller"
	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/model"
	apimock "github.com/fayhaa-municipality/complaints-api/test/mock"
)

func TestAuthController(t *testing.T) {
	setup := func() (*apimock.MockAuthService, *gin.Engine) {
		mockSvc := new(apimock.MockAuthService)
		ac := controller.NewAuthController(mockSvc)
		router := newRouter(nil, ac.RegisterRoutes)
		return mockSvc, router
	}

	signUpBody := `{"phone_number":"70499810","email":"rami@example.com","full_name":"Rami K.","password":"s3cret-pass"}`

	t.Run("SignUp_Success", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("SignUp", mock.Anything, mock.Anything, "s3cret-pass").
			Return(&model.User{ID: "user-1", Role: model.RoleCitizen}, nil)

		w := perform(router, "POST", "/auth/signup", signUpBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("SignUp_Conflict", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fayhaa_errors.ErrUserConflict)

		w := perform(router, "POST", "/auth/signup", signUpBody)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("SignUp_MissingPassword", func(t *testing.T) {
		mockSvc, router := setup()

		w := perform(router, "POST", "/auth/signup", `{"phone_number":"70499810","email":"a@b.c","full_name":"A"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "SignUp")
	})

	t.Run("Login_Success", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("Login", mock.Anything, "rami@example.com", "s3cret-pass").
			Return("token-abc", &model.User{ID: "user-1"}, nil)

		w := perform(router, "POST", "/auth/login", `{"email":"rami@example.com","password":"s3cret-pass"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var got struct {
			Token string `json:"token"`
		}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "token-abc", got.Token)
	})

	t.Run("Login_InvalidCredentials", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return("", nil, fayhaa_errors.ErrInvalidCredentials)

		w := perform(router, "POST", "/auth/login", `{"email":"rami@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login_EmailNotVerified", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return("", nil, fayhaa_errors.ErrEmailNotVerified)

		w := perform(router, "POST", "/auth/login", `{"email":"rami@example.com","password":"s3cret-pass"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("SendOTP_UnknownPhone", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("SendOTP", mock.Anything, "70499810").
			Return(fayhaa_errors.ErrUserNotFound)

		w := perform(router, "POST", "/auth/send-otp", `{"phone_number":"70499810"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("SendOTP_ProviderFailure", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("SendOTP", mock.Anything, "70499810").
			Return(fayhaa_errors.ErrOTPSendFailed)

		w := perform(router, "POST", "/auth/send-otp", `{"phone_number":"70499810"}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("VerifyOTP_Success", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("LoginWithOTP", mock.Anything, "70499810", "123456").
			Return("token-abc", &model.User{ID: "user-1"}, nil)

		w := perform(router, "POST", "/auth/verify-otp", `{"phone_number":"70499810","code":"123456"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("VerifyEmail_AdminOnly", func(t *testing.T) {
		mockSvc := new(apimock.MockAuthService)
		ac := controller.NewAuthController(mockSvc)

		citizen := &model.User{ID: "user-1", Role: model.RoleCitizen}
		router := newRouter(citizen, ac.RegisterProtectedRoutes)
		w := perform(router, "POST", "/users/user-2/verify-email", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		mockSvc.AssertNotCalled(t, "MarkEmailVerified")

		admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}
		router = newRouter(admin, ac.RegisterProtectedRoutes)
		mockSvc.On("MarkEmailVerified", mock.Anything, "user-2").Return(nil)
		w = perform(router, "POST", "/users/user-2/verify-email", "")
		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("VerifyOTP_InvalidCode", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("LoginWithOTP", mock.Anything, "70499810", "000000").
			Return("", nil, fayhaa_errors.ErrOTPInvalid)

		w := perform(router, "POST", "/auth/verify-otp", `{"phone_number":"70499810","code":"000000"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
