// controller/helpers_test.go
package controller_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fayhaa-municipality/complaints-api/model"
)

// newRouter builds a test engine with the given user pre-authenticated, the
// way the auth middleware would set it on a real request.
func newRouter(user *model.User, register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/")
	if user != nil {
		api.Use(func(c *gin.Context) {
			c.Set("requestingUserID", user.ID)
			c.Set("requestingUser", user)
		})
	}
	register(api)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
