package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dest81/aid-coordinator/internal/config"
	contactsentity "github.com/dest81/aid-coordinator/internal/contacts/entity"
	contactshandler "github.com/dest81/aid-coordinator/internal/contacts/handler"
	contactsrepo "github.com/dest81/aid-coordinator/internal/contacts/repository"
	contactssvc "github.com/dest81/aid-coordinator/internal/contacts/service"
	logisticsentity "github.com/dest81/aid-coordinator/internal/logistics/entity"
	logisticshandler "github.com/dest81/aid-coordinator/internal/logistics/handler"
	logisticsrepo "github.com/dest81/aid-coordinator/internal/logistics/repository"
	logisticssvc "github.com/dest81/aid-coordinator/internal/logistics/service"
	"github.com/dest81/aid-coordinator/internal/middleware"
	supplyentity "github.com/dest81/aid-coordinator/internal/supply/entity"
	supplyhandler "github.com/dest81/aid-coordinator/internal/supply/handler"
	supplyrepo "github.com/dest81/aid-coordinator/internal/supply/repository"
	supplysvc "github.com/dest81/aid-coordinator/internal/supply/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting aid-coordinator service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := contactsentity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("AutoMigrate contacts tables failed", zap.Error(err))
	}
	if err := supplyentity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("AutoMigrate supply tables failed", zap.Error(err))
	}
	if err := logisticsentity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("AutoMigrate logistics tables failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	contactRepos := contactsrepo.NewRepositories(db)
	contactServices := contactssvc.NewServices(contactRepos, rdb, cfg)
	contactHandlers := contactshandler.NewHandlers(contactServices)

	supplyRepos := supplyrepo.NewRepositories(db)
	supplyServices := supplysvc.NewServices(supplyRepos)
	supplyHandlers := supplyhandler.NewHandlers(supplyServices)

	logisticsRepos := logisticsrepo.NewRepositories(db)
	logisticsServices := logisticssvc.NewServices(logisticsRepos)
	logisticsHandlers := logisticshandler.NewHandlers(logisticsServices)

	if err := logisticsServices.Location.SeedDefaults(context.Background()); err != nil {
		zapLogger.Fatal("Failed to seed default locations", zap.Error(err))
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, cfg, contactHandlers, supplyHandlers, logisticsHandlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	contactH *contactshandler.Handlers,
	supplyH *supplyhandler.Handlers,
	logisticsH *logisticshandler.Handlers,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
	})

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", contactH.Auth.Login)
		auth.POST("/refresh", contactH.Auth.RefreshToken)
	}

	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		authorized.POST("/auth/logout", contactH.Auth.Logout)
		authorized.GET("/auth/me", contactH.Auth.GetCurrentUser)

		users := authorized.Group("/users")
		users.Use(middleware.RequireSuperuser())
		{
			users.GET("", contactH.Contact.List)
			users.GET("/:id", contactH.Contact.Get)
			users.POST("", contactH.Contact.Create)
		}
		organisations := authorized.Group("/organisations")
		organisations.Use(middleware.RequireSuperuser())
		{
			organisations.GET("", contactH.Contact.ListOrganisations)
			organisations.POST("", contactH.Contact.CreateOrganisation)
		}

		offers := authorized.Group("/offers")
		{
			offers.GET("", supplyH.Offer.List)
			offers.GET("/:id", supplyH.Offer.Get)
			offers.POST("", supplyH.Offer.Create)
			offers.PUT("/:id", supplyH.Offer.Update)
			offers.DELETE("/:id", supplyH.Offer.Delete)
			// Bulk admin actions live under the aggregate to keep the
			// /offer-items tree free of static/param siblings.
			offers.POST("/items/set-type", supplyH.Offer.SetItemsType)
			offers.POST("/items/move", supplyH.Offer.MoveItems)
		}
		offerItems := authorized.Group("/offer-items")
		{
			offerItems.GET("", supplyH.Offer.ListItems)
			offerItems.GET("/:id", supplyH.Offer.GetItem)
			offerItems.PUT("/:id", supplyH.Offer.UpdateItem)
			offerItems.POST("/:id/receive", middleware.RequireSuperuser(), logisticsH.Inventory.Receive)
		}

		requests := authorized.Group("/requests")
		{
			requests.GET("", supplyH.Request.List)
			requests.GET("/:id", supplyH.Request.Get)
			requests.GET("/:id/summary", supplyH.Request.Summary)
			requests.POST("", supplyH.Request.Create)
			requests.PUT("/:id", supplyH.Request.Update)
			requests.DELETE("/:id", supplyH.Request.Delete)
			requests.POST("/items/set-type", supplyH.Request.SetItemsType)
			requests.POST("/items/move", supplyH.Request.MoveItems)
		}
		requestItems := authorized.Group("/request-items")
		{
			requestItems.GET("", supplyH.Request.ListItems)
			requestItems.GET("/:id", supplyH.Request.GetItem)
		}

		authorized.GET("/changes", supplyH.Change.List)

		// Logistics surfaces are staff-only
		staff := authorized.Group("")
		staff.Use(middleware.RequireSuperuser())
		{
			locations := staff.Group("/locations")
			{
				locations.GET("", logisticsH.Location.List)
				locations.GET("/:id", logisticsH.Location.Get)
				locations.POST("", logisticsH.Location.Create)
				locations.PUT("/:id", logisticsH.Location.Update)
			}

			equipment := staff.Group("/equipment")
			{
				equipment.GET("", logisticsH.Equipment.List)
				equipment.POST("/import", logisticsH.Equipment.Import)
				equipment.GET("/export", logisticsH.Equipment.Export)
			}

			shipments := staff.Group("/shipments")
			{
				shipments.GET("", logisticsH.Shipment.List)
				shipments.GET("/:id", logisticsH.Shipment.Get)
				shipments.POST("", logisticsH.Shipment.Create)
				shipments.PUT("/:id", logisticsH.Shipment.Update)
				shipments.POST("/:id/delivered", logisticsH.Shipment.MarkDelivered)
			}

			staff.GET("/shipment-items", logisticsH.Inventory.ListRows)
			staff.GET("/shipment-items/:id", logisticsH.Inventory.Get)

			items := staff.Group("/items")
			{
				items.GET("", logisticsH.Inventory.ListPool)
				items.POST("/assignment/preview", logisticsH.Inventory.Preview)
				items.POST("/assignment", logisticsH.Inventory.Assign)
			}

			claims := staff.Group("/claims")
			{
				claims.GET("", logisticsH.Claim.List)
				claims.POST("", logisticsH.Claim.Create)
				claims.DELETE("/:id", logisticsH.Claim.Delete)
				claims.GET("/export", logisticsH.Claim.Export)
			}
		}
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
