package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andikura/sipola_backend_v1/internal/annotate"
	"github.com/andikura/sipola_backend_v1/internal/config"
	"github.com/andikura/sipola_backend_v1/internal/controllers"
	"github.com/andikura/sipola_backend_v1/internal/middleware"
	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/scan"
	"github.com/andikura/sipola_backend_v1/internal/session"
	"github.com/andikura/sipola_backend_v1/internal/syncer"
	"github.com/andikura/sipola_backend_v1/internal/ws"
)

// Deps carries everything the HTTP surface delegates to.
type Deps struct {
	Cfg      *config.Config
	Sessions *session.Manager
	Coord    *syncer.Coordinator
	Workflow *scan.Workflow
	Blobs    annotate.Uploader
	Fetcher  controllers.BlobFetcher
	Hub      *ws.MonitorHub
}

func Register(r *gin.Engine, d Deps) {
	ttl, err := time.ParseDuration(d.Cfg.JWTExpiresIn + "m")
	if err != nil || ttl == 0 {
		ttl = 8 * time.Hour
	}

	authCtrl := &controllers.AuthController{
		Sessions: d.Sessions, Coord: d.Coord,
		JWTSecret: d.Cfg.JWTSecret, TTL: ttl,
	}
	apelCtrl := &controllers.ApelController{Coord: d.Coord}
	activityCtrl := &controllers.ActivityController{Coord: d.Coord, Blobs: d.Blobs}
	scanCtrl := &controllers.ScanController{Workflow: d.Workflow, Coord: d.Coord}
	cpCtrl := &controllers.CheckpointController{Coord: d.Coord}
	storageCtrl := &controllers.StorageController{Blobs: d.Fetcher}

	// Public
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", authCtrl.Login)
		auth.POST("/viewer", authCtrl.Viewer)
	}
	r.GET("/storage/activity-images/:name", storageCtrl.Get)

	// Protected
	authMW := middleware.Auth(d.Cfg.JWTSecret)
	api := r.Group("/api/v1", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)
		api.POST("/auth/logout", authCtrl.Logout)

		api.GET("/apel", apelCtrl.List)
		api.GET("/activities", activityCtrl.List)
		api.GET("/scans", scanCtrl.History)
		api.GET("/checkpoints", cpCtrl.List)
		api.GET("/scan", scanCtrl.Status)

		// Writers only; Viewer stays read-mostly.
		write := api.Group("", middleware.RequireWriter())
		{
			write.POST("/apel", apelCtrl.Create)
			write.POST("/activities", activityCtrl.Create)
			write.POST("/scan/start", scanCtrl.Start)
			write.POST("/scan/code", scanCtrl.Code)
			write.POST("/scan/submit", scanCtrl.Submit)
			write.POST("/scan/cancel", scanCtrl.Cancel)
		}

		// Catalog management is Super Admin only.
		admin := api.Group("", middleware.RequireRoles(models.RoleSuperAdmin))
		{
			admin.POST("/checkpoints", cpCtrl.Create)
		}
	}

	r.GET("/ws/monitor", authMW, ws.MonitorHandler(d.Hub))
}
