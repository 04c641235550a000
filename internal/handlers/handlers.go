package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"kyrix/api/internal/cache"
	"kyrix/api/internal/config"
	"kyrix/api/internal/middleware"
	"kyrix/api/internal/repository"
	"kyrix/api/internal/service"
)

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	auth    *service.AuthService
	tasks   *service.TaskService
	devices *service.DeviceService
	db      *pgxpool.Pool
	redis   *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	deviceCache := cache.NewDeviceCache(redisClient, cfg.Security.DeviceCacheTTL)

	return HandlerSet{
		log:     log,
		cfg:     cfg,
		auth:    service.NewAuthService(userRepo, cfg, log),
		tasks:   service.NewTaskService(taskRepo, userRepo, log),
		devices: service.NewDeviceService(deviceRepo, taskRepo, deviceCache, log),
		db:      db,
		redis:   redisClient,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)

	me := router.Group("/auth")
	me.Use(middleware.RequireAuth(h.cfg))
	me.GET("/me", h.Me)

	tasks := router.Group("/tasks")
	tasks.Use(middleware.RequireAuth(h.cfg))
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.CreateTask)
	tasks.PATCH("/:id", h.PatchTask)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)

	device := router.Group("/device")
	device.Use(middleware.RequireAuth(h.cfg))
	device.GET("", h.GetDevice)
	device.POST("", h.PairDevice)

	// Gated only by knowledge of the device code.
	router.GET("/device-sync", h.DeviceSync)
}
