// controller/user_controller_test.go
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

func TestUserController(t *testing.T) {
	citizen := &model.User{ID: "user-1", Role: model.RoleCitizen}
	admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}

	setup := func(user *model.User) (*apimock.MockUserService, *gin.Engine) {
		mockSvc := new(apimock.MockUserService)
		uc := controller.NewUserController(mockSvc)
		router := newRouter(user, uc.RegisterRoutes)
		return mockSvc, router
	}

	t.Run("Me_Success", func(t *testing.T) {
		_, router := setup(citizen)

		w := perform(router, "GET", "/users/me", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var got model.User
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, citizen.ID, got.ID)
	})

	t.Run("UpdateProfile_NoFields", func(t *testing.T) {
		mockSvc, router := setup(citizen)

		w := perform(router, "PUT", "/users/me", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "UpdateProfile")
	})

	t.Run("UpdateProfile_Success", func(t *testing.T) {
		mockSvc, router := setup(citizen)
		mockSvc.On("UpdateProfile", mock.Anything, citizen.ID,
			map[string]interface{}{"full_name": "Rami K."}).
			Return(&model.User{ID: citizen.ID, FullName: "Rami K."}, nil)

		w := perform(router, "PUT", "/users/me", `{"full_name":"Rami K."}`)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("InviteUser_Success", func(t *testing.T) {
		mockSvc, router := setup(admin)
		managerRole := model.RoleManager
		mockSvc.On("InviteUser", mock.Anything, admin, "03123456", model.RoleManager, []string(nil), []string(nil)).
			Return(&model.User{ID: "user-2", Role: model.RoleCitizen, InviteRole: &managerRole}, nil)

		w := perform(router, "POST", "/users/invites", `{"phone_number":"03123456","role":3}`)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("InviteUser_RequiresStaffRole", func(t *testing.T) {
		mockSvc, router := setup(citizen)

		w := perform(router, "POST", "/users/invites", `{"phone_number":"03123456","role":1}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockSvc.AssertNotCalled(t, "InviteUser")
	})

	t.Run("InviteUser_AlreadyHasRole", func(t *testing.T) {
		mockSvc, router := setup(admin)
		mockSvc.On("InviteUser", mock.Anything, admin, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fayhaa_errors.ErrAlreadyHasRole)

		w := perform(router, "POST", "/users/invites", `{"phone_number":"03123456","role":1}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("InviteUser_TargetIsAdmin", func(t *testing.T) {
		mockSvc, router := setup(admin)
		mockSvc.On("InviteUser", mock.Anything, admin, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fayhaa_errors.ErrTargetIsAdmin)

		w := perform(router, "POST", "/users/invites", `{"phone_number":"03123456","role":1}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("AcceptInvite_Success", func(t *testing.T) {
		mockSvc, router := setup(citizen)
		mockSvc.On("ResolveInvite", mock.Anything, citizen.ID, true).
			Return(&model.User{ID: citizen.ID, Role: model.RoleWorker}, nil)

		w := perform(router, "POST", "/users/me/invite/accept", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var got model.User
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, model.RoleWorker, got.Role)
	})

	t.Run("RejectInvite_NoPending", func(t *testing.T) {
		mockSvc, router := setup(citizen)
		mockSvc.On("ResolveInvite", mock.Anything, citizen.ID, false).
			Return(nil, fayhaa_errors.ErrNoPendingInvite)

		w := perform(router, "POST", "/users/me/invite/reject", "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("RevokeRole_NotElevated", func(t *testing.T) {
		mockSvc, router := setup(admin)
		mockSvc.On("RevokeRole", mock.Anything, admin, "user-2").
			Return(nil, fayhaa_errors.ErrInvalidUserData)

		w := perform(router, "POST", "/users/user-2/revoke", "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("ListUsers_Success", func(t *testing.T) {
		mockSvc, router := setup(admin)
		mockSvc.On("ListUsers", mock.Anything, 10, 0).
			Return([]*model.User{{ID: "user-1"}, {ID: "user-2"}}, nil)

		w := perform(router, "GET", "/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})
}
