// controller/complaint_controller_test.go
package controller_test

import (
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

func TestComplaintController(t *testing.T) {
	citizen := &model.User{ID: "user-1", Role: model.RoleCitizen}
	admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}
	manager := &model.User{ID: "manager-1", Role: model.RoleManager}

	setup := func(user *model.User) (*apimock.MockComplaintService, *gin.Engine) {
		mockSvc := new(apimock.MockComplaintService)
		cc := controller.NewComplaintController(mockSvc)
		router := newRouter(user, cc.RegisterRoutes)
		return mockSvc, router
	}

	t.Run("CreateComplaint_Success", func(t *testing.T) {
		mockSvc, router := setup(citizen)
		mockSvc.On("CreateComplaint", mock.Anything, mock.Anything).
			Return(&model.Complaint{ID: "c1", Status: model.StatusPending}, nil)

		w := perform(router, "POST", "/complaints", `{"description":"Overflowing bin on the corniche"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("CreateComplaint_OutsideServiceArea", func(t *testing.T) {
		mockSvc, router := setup(citizen)
		mockSvc.On("CreateComplaint", mock.Anything, mock.Anything).
			Return(nil, fayhaa_errors.ErrInvalidComplaintData)

		w := perform(router, "POST", "/complaints", `{"description":"bin","latitude":1,"longitude":1}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreateComplaint_Unauthenticated", func(t *testing.T) {
		_, router := setup(nil)

		w := perform(router, "POST", "/complaints", `{"description":"bin"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ListComplaints_Success", func(t *testing.T) {
		mockSvc, router := setup(citizen)
		mockSvc.On("ListVisibleComplaints", mock.Anything, citizen).
			Return([]*model.Complaint{{ID: "c1"}, {ID: "c2"}}, nil)

		w := perform(router, "GET", "/complaints", "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("GetComplaint_NotFound", func(t *testing.T) {
		mockSvc, router := setup(citizen)
		mockSvc.On("GetComplaint", mock.Anything, "missing").
			Return(nil, fayhaa_errors.ErrComplaintNotFound)

		w := perform(router, "GET", "/complaints/missing", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Assign_SelfWithoutBody", func(t *testing.T) {
		mockSvc, router := setup(admin)
		mockSvc.On("AssignToSelf", mock.Anything, "c1", admin).
			Return(&model.Complaint{ID: "c1", Status: model.StatusAssigned}, nil)

		w := perform(router, "POST", "/complaints/c1/assign", "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("Assign_Worker", func(t *testing.T) {
		mockSvc, router := setup(manager)
		mockSvc.On("AssignWorker", mock.Anything, "c1", manager, "worker-9").
			Return(&model.Complaint{ID: "c1", Status: model.StatusAssigned}, nil)

		w := perform(router, "POST", "/complaints/c1/assign", `{"worker_id":"worker-9"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("Assign_TerminalConflict", func(t *testing.T) {
		mockSvc, router := setup(admin)
		mockSvc.On("AssignToSelf", mock.Anything, "c1", admin).
			Return(nil, fayhaa_errors.ErrTerminalStatus)

		w := perform(router, "POST", "/complaints/c1/assign", "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Resolve_MissingPhoto", func(t *testing.T) {
		mockSvc, router := setup(citizen)

		w := perform(router, "POST", "/complaints/c1/resolve", `{"latitude":34.44,"longitude":35.83}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Resolve")
	})

	t.Run("Resolve_Success", func(t *testing.T) {
		worker := &model.User{ID: "worker-1", Role: model.RoleWorker}
		mockSvc, router := setup(worker)
		mockSvc.On("Resolve", mock.Anything, "c1", worker, "http://blob/full.jpg", "http://blob/thumb.jpg", 34.44, 35.83).
			Return(&model.Complaint{ID: "c1", Status: model.StatusResolved}, nil)

		w := perform(router, "POST", "/complaints/c1/resolve",
			`{"photo_url":"http://blob/full.jpg","thumbnail_url":"http://blob/thumb.jpg","latitude":34.44,"longitude":35.83}`)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("Complete_InvalidTransition", func(t *testing.T) {
		mockSvc, router := setup(admin)
		mockSvc.On("Complete", mock.Anything, "c1", admin).
			Return(nil, fayhaa_errors.ErrInvalidTransition)

		w := perform(router, "POST", "/complaints/c1/complete", "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Reject_Forbidden", func(t *testing.T) {
		mockSvc, router := setup(citizen)
		mockSvc.On("Reject", mock.Anything, "c1", citizen, "duplicate").
			Return(nil, fayhaa_errors.ErrForbidden)

		w := perform(router, "POST", "/complaints/c1/reject", `{"reason":"duplicate"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Reject_MissingReason", func(t *testing.T) {
		mockSvc, router := setup(admin)

		w := perform(router, "POST", "/complaints/c1/reject", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Reject")
	})

	t.Run("DeleteComplaint_Success", func(t *testing.T) {
		mockSvc, router := setup(admin)
		mockSvc.On("DeleteComplaint", mock.Anything, "c1", admin).
			Return(nil)

		w := perform(router, "DELETE", "/complaints/c1", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockSvc.AssertExpectations(t)
	})
}
