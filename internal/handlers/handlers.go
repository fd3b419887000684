package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/mail"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/middleware"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/repository"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/service"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/storage"
)

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	validate   *validator.Validate
	db         Pinger
	store      storage.Backend
	metrics    *middleware.HTTPMetrics
	auth       *service.AuthService
	users      *service.UserService
	orphanages *service.OrphanageService
	uploads    *service.UploadService
}

func NewHandlerSet(
	log zerolog.Logger,
	db *gorm.DB,
	pinger Pinger,
	store storage.Backend,
	mailer mail.Mailer,
	metrics *middleware.HTTPMetrics,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	orphanageRepo := repository.NewOrphanageRepository(db)
	imageRepo := repository.NewImageRepository(db)

	images := service.NewImageService(imageRepo, store, cfg.AppURL, log)

	return HandlerSet{
		log:        log,
		cfg:        cfg,
		validate:   newValidator(),
		db:         pinger,
		store:      store,
		metrics:    metrics,
		auth:       service.NewAuthService(userRepo, mailer, cfg, log),
		users:      service.NewUserService(userRepo, log),
		orphanages: service.NewOrphanageService(orphanageRepo, imageRepo, images, log),
		uploads:    service.NewUploadService(store, cfg.Upload, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
	if h.cfg.Storage.Type == config.StorageLocal && h.cfg.Storage.LocalDir != "" {
		router.Static("/files", h.cfg.Storage.LocalDir)
	}

	router.POST("/login", h.Authenticate)
	router.POST("/forgot", h.Forgot)
	router.POST("/reset", h.Reset)

	router.POST("/orphanages", middleware.Upload(h.uploads), h.CreateOrphanage)
	router.GET("/orphanages/:id", h.ShowOrphanage)
	router.GET("/orphanages", h.ListOrphanages)

	admin := router.Group("")
	admin.Use(middleware.Auth(h.cfg.Security.JWTSecret))
	{
		admin.POST("/orphanage/delete/:id", h.DeleteOrphanage)
		admin.GET("/pending", h.ListPendingOrphanages)
		admin.PUT("/pending/:id", h.AcceptOrphanage)
		admin.PUT("/orphanage/edit", middleware.Upload(h.uploads), h.UpdateOrphanage)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.ShowUser)
		admin.POST("/register", h.CreateUser)
		admin.PUT("/user", h.UpdateUser)
		admin.POST("/user/delete/:id", h.DeleteUser)
	}
}

// fail records err for middleware.Errors and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
