// controller/refdata_controller_test.go
package controller_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fayhaa-municipality/complaints-api/controller"
	"github.com/fayhaa-municipality/complaints-api/model"
	apimock "github.com/fayhaa-municipality/complaints-api/test/mock"
)

func TestRefDataController(t *testing.T) {
	user := &model.User{ID: "user-1", Role: model.RoleCitizen}

	setup := func() (*apimock.MockRefDataService, *gin.Engine) {
		mockSvc := new(apimock.MockRefDataService)
		rc := controller.NewRefDataController(mockSvc)
		router := newRouter(user, rc.RegisterRoutes)
		return mockSvc, router
	}

	t.Run("Areas_Success", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("Areas", mock.Anything).
			Return([]*model.Area{{ID: "area-1"}, {ID: "area-2"}}, nil)

		w := perform(router, "GET", "/areas", "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("LocateArea_Success", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("LocateArea", mock.Anything, 34.44, 35.83).
			Return(&model.Area{ID: "area-1"}, nil)

		w := perform(router, "GET", "/areas/locate?lat=34.44&lng=35.83", "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("LocateArea_Outside", func(t *testing.T) {
		mockSvc, router := setup()
		mockSvc.On("LocateArea", mock.Anything, 0.0, 0.0).
			Return(nil, nil)

		w := perform(router, "GET", "/areas/locate?lat=0&lng=0", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("LocateArea_MissingParams", func(t *testing.T) {
		mockSvc, router := setup()

		w := perform(router, "GET", "/areas/locate", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "LocateArea")
	})
}
