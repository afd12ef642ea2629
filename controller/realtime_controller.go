// controller/realtime_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/middleware"
	"github.com/fayhaa-municipality/complaints-api/realtime"
	"github.com/fayhaa-municipality/complaints-api/service"
	"github.com/fayhaa-municipality/complaints-api/util"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mobile clients connect from app webviews; origin checks happen at
	// the token layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RealtimeController struct {
	hub              *realtime.Hub
	complaintService service.IComplaintService
}

func NewRealtimeController(hub *realtime.Hub, complaintService service.IComplaintService) *RealtimeController {
	return &RealtimeController{
		hub:              hub,
		complaintService: complaintService,
	}
}

// RegisterRoutes registers the API routes
func (rc *RealtimeController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws/complaints", rc.Subscribe)
}

// Subscribe upgrades the connection and streams role-filtered complaint
// snapshots. The first message is the current snapshot; afterwards the client
// receives a fresh full snapshot on every collection change.
func (rc *RealtimeController) Subscribe(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	initial, err := rc.complaintService.ListVisibleComplaints(c, user)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to load complaints", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", zap.Error(err), zap.String("userID", user.ID))
		return
	}

	rc.hub.Register(conn, user, initial)
}
