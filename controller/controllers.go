// controller/controllers.go
package controller

import (
	"github.com/fayhaa-municipality/complaints-api/imaging"
	"github.com/fayhaa-municipality/complaints-api/realtime"
	"github.com/fayhaa-municipality/complaints-api/service"
)

type Controllers struct {
	Auth      *AuthController
	User      *UserController
	Complaint *ComplaintController
	RefData   *RefDataController
	Upload    *UploadController
	Realtime  *RealtimeController
}

func InitializeControllers(services *service.Services, pipeline *imaging.Pipeline, hub *realtime.Hub) *Controllers {
	return &Controllers{
		Auth:      NewAuthController(services.Auth),
		User:      NewUserController(services.User),
		Complaint: NewComplaintController(services.Complaint),
		RefData:   NewRefDataController(services.RefData),
		Upload:    NewUploadController(pipeline),
		Realtime:  NewRealtimeController(hub, services.Complaint),
	}
}
