// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fayhaa-municipality/complaints-api/controller"
	"github.com/fayhaa-municipality/complaints-api/middleware"
	"github.com/fayhaa-municipality/complaints-api/service"
)

func SetupRouter(
	controllers *controller.Controllers,
	authService service.IAuthService,
	userService service.IUserService,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	// Signup, login and OTP exchange happen before a token exists.
	controllers.Auth.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService, userService))

	controllers.Auth.RegisterProtectedRoutes(protected)
	controllers.User.RegisterRoutes(protected)
	controllers.Complaint.RegisterRoutes(protected)
	controllers.RefData.RegisterRoutes(protected)
	controllers.Upload.RegisterRoutes(protected)
	controllers.Realtime.RegisterRoutes(protected)

	return router
}
