package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fayhaa-municipality/complaints-api/audit"
	"github.com/fayhaa-municipality/complaints-api/config"
	"github.com/fayhaa-municipality/complaints-api/controller"
	"github.com/fayhaa-municipality/complaints-api/db"
	"github.com/fayhaa-municipality/complaints-api/imaging"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/otp"
	"github.com/fayhaa-municipality/complaints-api/realtime"
	"github.com/fayhaa-municipality/complaints-api/router"
	"github.com/fayhaa-municipality/complaints-api/service"
	"github.com/fayhaa-municipality/complaints-api/storage"
	"github.com/fayhaa-municipality/complaints-api/util"
)

func main() {
	// Local development keeps credentials in a .env file; in deployment the
	// variables come from the environment directly.
	_ = godotenv.Load()

	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	cfg := config.GetConfig()
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	pushClient := util.NewPushClient(cfg.Push.URL, cfg.Push.AppID, cfg.Push.APIKey)
	notificationService := util.NewNotificationService(pushClient)
	verifier := otp.NewClient(cfg.OTP.BaseURL, cfg.OTP.AccountSID, cfg.OTP.ServiceSID, cfg.OTP.AuthToken)

	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize Elasticsearch", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	blobStore, err := storage.NewBlobStore()
	if err != nil {
		logger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	pipeline := imaging.NewPipeline(blobStore)

	// Initialize services
	services, err := service.InitializeServices(
		db.Neo4jDriver,
		auditService,
		validationUtil,
		cacheService,
		notificationService,
		eventBus,
		verifier,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// The websocket hub narrows every snapshot to each subscriber's role view
	// with the same predicate the list endpoint uses.
	hub := realtime.NewHub(func(user *model.User, complaints []*model.Complaint) []*model.Complaint {
		areas, err := services.RefData.Areas(ctx)
		if err != nil {
			logger.Warn("Failed to load areas for snapshot filtering", zap.Error(err))
			return nil
		}
		return service.VisibleComplaints(user, complaints, service.AreaMunicipalityIndex(areas))
	})
	go hub.Run(ctx)
	go realtime.Feed(ctx, hub, db.SubscribeSnapshotTicks(ctx), services.Complaint.ListComplaints)

	// Initialize controllers
	controllers := controller.InitializeControllers(services, pipeline, hub)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(controllers, services.Auth, services.User, 100, time.Minute) // 100 requests per minute

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
