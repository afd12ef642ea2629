// service/services.go
package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/fayhaa-municipality/complaints-api/audit"
	"github.com/fayhaa-municipality/complaints-api/dao"
	"github.com/fayhaa-municipality/complaints-api/otp"
	"github.com/fayhaa-municipality/complaints-api/util"
)

type Services struct {
	Complaint IComplaintService
	User      IUserService
	Auth      IAuthService
	RefData   IRefDataService
}

func InitializeServices(
	driver neo4j.Driver,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	verifier otp.Verifier,
) (*Services, error) {
	complaintDAO := dao.NewComplaintDAO(driver, auditService)
	userDAO := dao.NewUserDAO(driver, auditService)
	refDataDAO := dao.NewRefDataDAO(driver)

	refDataSvc := NewRefDataService(refDataDAO, cacheService)
	userSvc := NewUserService(userDAO, validationUtil, cacheService, notificationSvc, eventBus)

	services := &Services{
		Complaint: NewComplaintService(complaintDAO, userDAO, refDataSvc, validationUtil, cacheService, notificationSvc, eventBus),
		User:      userSvc,
		Auth:      NewAuthService(userDAO, userSvc, verifier),
		RefData:   refDataSvc,
	}

	return services, nil
}
