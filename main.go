// main.go
package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-field-ops/auth"
	"go-field-ops/config"
	"go-field-ops/controllers"
	"go-field-ops/logger"
	"go-field-ops/middleware"
	"go-field-ops/models"
	"go-field-ops/services"
	"go-field-ops/store"
	"go-field-ops/websocket"
)

func main() {
	cfg := config.Load()
	logger.SetLogLevel(cfg.Env)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error.Fatalf("failed to open database: %v", err)
	}

	storage, err := services.NewDiskStorage(cfg.UploadDir)
	if err != nil {
		logger.Error.Fatalf("failed to prepare upload directory: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		logger.Error.Fatalf("failed to build token service: %v", err)
	}
	blacklist := auth.NewBlacklist(10 * time.Minute)
	defer blacklist.Close()

	hub := websocket.NewHub()

	authCtl := controllers.NewAuthController(db, tokens, blacklist)
	superadminCtl := controllers.NewSuperadminController(db)
	adminCtl := controllers.NewAdminController(db)
	hotelCtl := controllers.NewHotelController(db)
	mediaCtl := controllers.NewMediaController(db, storage)
	locationCtl := controllers.NewLocationController(db, hub)

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public surface: bootstrap, login, and the area catalog.
	api.POST("/register-superadmin", authCtl.RegisterSuperadmin)
	api.POST("/login", authCtl.Login)
	api.GET("/areas", superadminCtl.ListAreas)
	api.POST("/refresh", middleware.RefreshRequired(tokens, blacklist), authCtl.Refresh)

	authed := api.Group("", middleware.AuthRequired(tokens, blacklist))
	{
		authed.POST("/logout", authCtl.Logout)

		// Venue browsing is open to every authenticated role; the engine
		// narrows what each role sees.
		authed.GET("/hotels", hotelCtl.ListHotels)
		authed.GET("/hotel/:id/qrcode", hotelCtl.HotelQRCode)
		authed.GET("/uploads/:filename", mediaCtl.ServeUpload)
	}

	superadmin := authed.Group("/superadmin", middleware.RoleRequired(models.RoleSuperadmin))
	{
		superadmin.POST("/create-city", superadminCtl.CreateCity)
		superadmin.POST("/create-admin", superadminCtl.CreateAdmin)
		superadmin.GET("/admins", superadminCtl.ListAdmins)
		superadmin.GET("/workers", adminCtl.ListWorkers)
		superadmin.PUT("/admin/:id", superadminCtl.UpdateAdmin)
		superadmin.DELETE("/admin/:id", superadminCtl.DeleteAdmin)
		superadmin.PUT("/admin/:id/toggle-status", superadminCtl.ToggleAdminStatus)
		superadmin.GET("/worker-location", locationCtl.WorkerLocation)
		superadmin.GET("/locations", locationCtl.AllLocations)
	}

	// Worker and venue management: admins act inside their city, superadmins
	// pass the role gate and the engine decides the rest.
	admin := authed.Group("/admin", middleware.RoleRequired(models.RoleAdmin, models.RoleSuperadmin))
	{
		admin.POST("/create-worker", adminCtl.CreateWorker)
		admin.GET("/workers", adminCtl.ListWorkers)
		admin.PUT("/worker/:id", adminCtl.UpdateWorker)
		admin.DELETE("/worker/:id", adminCtl.DeleteWorker)
		admin.PUT("/worker/:id/toggle-status", adminCtl.ToggleWorkerStatus)
		admin.POST("/create_hotel", hotelCtl.CreateHotel)
		admin.PUT("/hotel/:id", hotelCtl.UpdateHotel)
		admin.DELETE("/hotel/:id", hotelCtl.DeleteHotel)
		admin.PUT("/hotel/:id/toggle-status", hotelCtl.ToggleHotelStatus)
		admin.GET("/worker-location", locationCtl.WorkerLocation)
	}

	worker := authed.Group("/worker", middleware.RoleRequired(models.RoleWorker))
	{
		worker.POST("/upload_media", mediaCtl.Upload)
	}

	media := authed.Group("/media")
	{
		media.GET("/worker/view", middleware.RoleRequired(models.RoleWorker), mediaCtl.View)
		media.GET("/worker/options", middleware.RoleRequired(models.RoleWorker), mediaCtl.Options)
		media.GET("/admin/view", middleware.RoleRequired(models.RoleAdmin), mediaCtl.View)
		media.GET("/admin/options", middleware.RoleRequired(models.RoleAdmin), mediaCtl.Options)
		media.GET("/superadmin/view", middleware.RoleRequired(models.RoleSuperadmin), mediaCtl.View)
		media.GET("/superadmin/options", middleware.RoleRequired(models.RoleSuperadmin), mediaCtl.Options)
		media.DELETE("/:id", middleware.RoleRequired(models.RoleWorker), mediaCtl.Delete)
		media.DELETE("/admin/delete/:id", middleware.RoleRequired(models.RoleAdmin), mediaCtl.Delete)
		media.DELETE("/superadmin/delete/:id", middleware.RoleRequired(models.RoleSuperadmin), mediaCtl.Delete)
	}

	location := authed.Group("/location", middleware.RoleRequired(models.RoleWorker))
	{
		location.POST("", locationCtl.UpdateOwn)
		location.GET("", locationCtl.GetOwn)
	}

	authed.GET("/live/locations",
		middleware.RoleRequired(models.RoleAdmin, models.RoleSuperadmin), locationCtl.LiveFeed)

	logger.Info.Printf("listening on %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Error.Fatalf("failed to run server: %v", err)
	}
}
