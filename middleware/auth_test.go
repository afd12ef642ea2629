// middleware/auth_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fayhaa-municipality/complaints-api/middleware"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/service"
	apimock "github.com/fayhaa-municipality/complaints-api/test/mock"
)

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &model.User{ID: "user-1", Role: model.RoleManager}

	newAuthedRouter := func(authSvc *apimock.MockAuthService, userSvc *apimock.MockUserService, handler gin.HandlerFunc) *gin.Engine {
		r := gin.New()
		r.GET("/me", middleware.Auth(authSvc, userSvc), handler)
		return r
	}

	t.Run("PlacesIdentityInGinAndRequestContext", func(t *testing.T) {
		authSvc := new(apimock.MockAuthService)
		userSvc := new(apimock.MockUserService)
		authSvc.On("ParseToken", "good-token").Return(&service.Claims{UserID: user.ID, Role: user.Role}, nil)
		userSvc.On("GetUser", mock.Anything, user.ID).Return(user, nil)

		r := newAuthedRouter(authSvc, userSvc, func(c *gin.Context) {
			assert.Equal(t, user, middleware.RequestingUser(c))

			// The audit trail reads the actor from the request context, not
			// the gin keys.
			assert.Equal(t, user.ID, c.Request.Context().Value("requestingUserID"))
			assert.Equal(t, user, c.Request.Context().Value("requestingUser"))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		authSvc := new(apimock.MockAuthService)
		userSvc := new(apimock.MockUserService)

		r := newAuthedRouter(authSvc, userSvc, func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authSvc.AssertNotCalled(t, "ParseToken", mock.Anything)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		authSvc := new(apimock.MockAuthService)
		userSvc := new(apimock.MockUserService)
		authSvc.On("ParseToken", "bad-token").Return(nil, assert.AnError)

		r := newAuthedRouter(authSvc, userSvc, func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		userSvc.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})
}
